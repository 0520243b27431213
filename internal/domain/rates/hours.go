package rates

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseClock converts zero-padded "HH:MM" (or "HH:MM:SS", seconds dropped) into
// minutes since midnight.
func ParseClock(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, value)
	}
	hours, err := clockPart(parts[0], 23)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, value)
	}
	minutes, err := clockPart(parts[1], 59)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, value)
	}
	if len(parts) == 3 {
		if _, err := clockPart(parts[2], 59); err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, value)
		}
	}
	return hours*60 + minutes, nil
}

// clockPart reads exactly two ASCII digits. Signs, spaces and single digits are rejected.
func clockPart(raw string, maxValue int) (int, error) {
	if len(raw) != 2 || !isDigit(raw[0]) || !isDigit(raw[1]) {
		return 0, strconv.ErrSyntax
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if value < 0 || value > maxValue {
		return 0, strconv.ErrRange
	}
	return value, nil
}

// SplitHours partitions the interval between two wall-clock times into business
// and after-hours buckets. An end before the start wraps past midnight. Any
// shortfall against minimumHours is added to the business bucket.
func SplitHours(startTime, endTime string, minimumHours float64) (HoursSplit, error) {
	start, err := ParseClock(startTime)
	if err != nil {
		return HoursSplit{}, err
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return HoursSplit{}, err
	}
	if start == end {
		return HoursSplit{}, ErrZeroDuration
	}

	totalMinutes := end - start
	if totalMinutes < 0 {
		totalMinutes += MinutesPerDay
	}
	businessMinutes := businessMinutesIn(start, totalMinutes)
	afterMinutes := totalMinutes - businessMinutes

	totalHours := float64(totalMinutes) / 60
	billableHours := math.Max(totalHours, NonNegative(minimumHours))
	minimumApplied := math.Max(billableHours-totalHours, 0)

	return HoursSplit{
		TotalHours:     totalHours,
		BusinessHours:  float64(businessMinutes)/60 + minimumApplied,
		AfterHours:     float64(afterMinutes) / 60,
		BillableHours:  billableHours,
		MinimumApplied: minimumApplied,
	}, nil
}

// businessMinutesIn counts minutes of [start, start+length) that fall inside
// the business window. length is below one day, so the interval wraps at most once.
func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func businessMinutesIn(start, length int) int {
	end := start + length
	if end <= MinutesPerDay {
		return overlap(start, end, BusinessStartMinute, BusinessEndMinute)
	}
	return overlap(start, MinutesPerDay, BusinessStartMinute, BusinessEndMinute) +
		overlap(0, end-MinutesPerDay, BusinessStartMinute, BusinessEndMinute)
}

func overlap(aStart, aEnd, bStart, bEnd int) int {
	lo := max(aStart, bStart)
	hi := min(aEnd, bEnd)
	if hi <= lo {
		return 0
	}
	return hi - lo
}
