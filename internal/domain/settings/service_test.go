package settings

import (
	"context"
	"errors"
	"math"
	"testing"
)

type memoryStore struct {
	values map[string]string
	err    error
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	value, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *memoryStore) Set(_ context.Context, key, value string) error {
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}

func TestMileageRateFallsBackToDefault(t *testing.T) {
	svc := NewService(&memoryStore{}, 0.7)
	if got := svc.MileageRate(context.Background()); got != 0.7 {
		t.Fatalf("expected 0.7, got %v", got)
	}

	svc = NewService(&memoryStore{err: errors.New("db down")}, 0.7)
	if got := svc.MileageRate(context.Background()); got != 0.7 {
		t.Fatalf("expected 0.7 on store error, got %v", got)
	}

	svc = NewService(&memoryStore{values: map[string]string{KeyDefaultMileageRate: "abc"}}, 0.7)
	if got := svc.MileageRate(context.Background()); got != 0.7 {
		t.Fatalf("expected 0.7 on bad value, got %v", got)
	}
}

func TestSetMileageRate(t *testing.T) {
	store := &memoryStore{}
	svc := NewService(store, 0.7)
	if err := svc.SetMileageRate(context.Background(), 0.655); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := svc.MileageRate(context.Background()); got != 0.655 {
		t.Fatalf("expected 0.655, got %v", got)
	}
	if err := svc.SetMileageRate(context.Background(), -1); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	if err := svc.SetMileageRate(context.Background(), math.NaN()); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue for NaN, got %v", err)
	}
}
