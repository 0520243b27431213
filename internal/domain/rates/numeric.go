package rates

import (
	"math"
	"strconv"
	"strings"
)

// Finite maps NaN and ±Inf to zero.
func Finite(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}

// NonNegative is Finite clamped at zero.
func NonNegative(value float64) float64 {
	return math.Max(Finite(value), 0)
}

// ParseAmount reads a form value such as "$1,250.50". Anything non-numeric is 0.
func ParseAmount(raw string) float64 {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return Finite(value)
}

func RoundCurrency(value float64) float64 {
	return math.Round(value*100) / 100
}
