package facilities

import (
	"context"
	"strings"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]Facility, int, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.store.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) Get(ctx context.Context, id string) (Facility, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, f Facility) (string, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.ContactEmail = strings.ToLower(strings.TrimSpace(f.ContactEmail))
	return s.store.Create(ctx, f)
}

func (s *Service) Update(ctx context.Context, id string, f Facility) error {
	f.Name = strings.TrimSpace(f.Name)
	f.ContactEmail = strings.ToLower(strings.TrimSpace(f.ContactEmail))
	return s.store.Update(ctx, id, f)
}

// Delete removes a facility that has never been booked.
func (s *Service) Delete(ctx context.Context, id string) error {
	inUse, err := s.store.HasJobs(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return ErrInUse
	}
	return s.store.Delete(ctx, id)
}
