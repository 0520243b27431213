package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
)

// Service exposes system-wide settings. Lookups that fail fall back to the
// configured defaults so pricing keeps working when the row is missing.
type Service struct {
	store              StoreAPI
	defaultMileageRate float64
}

func NewService(store StoreAPI, defaultMileageRate float64) *Service {
	return &Service{store: store, defaultMileageRate: defaultMileageRate}
}

func (s *Service) MileageRate(ctx context.Context) float64 {
	raw, err := s.store.Get(ctx, KeyDefaultMileageRate)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Warn("mileage rate lookup failed", "err", err)
		}
		return s.defaultMileageRate
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		slog.Warn("mileage rate setting unparsable", "value", raw)
		return s.defaultMileageRate
	}
	return value
}

func (s *Service) SetMileageRate(ctx context.Context, rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return fmt.Errorf("%w: mileage rate %v", ErrInvalidValue, rate)
	}
	return s.store.Set(ctx, KeyDefaultMileageRate, strconv.FormatFloat(rate, 'f', -1, 64))
}
