package interpreters

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

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]Interpreter, int, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Language = strings.TrimSpace(filter.Language)
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

func (s *Service) Get(ctx context.Context, id string) (Interpreter, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, i Interpreter) (string, error) {
	return s.store.Create(ctx, normalize(i))
}

func (s *Service) Update(ctx context.Context, id string, i Interpreter) error {
	return s.store.Update(ctx, id, normalize(i))
}

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

// normalize trims names and de-duplicates languages case-insensitively.
func normalize(i Interpreter) Interpreter {
	i.FirstName = strings.TrimSpace(i.FirstName)
	i.LastName = strings.TrimSpace(i.LastName)
	i.Email = strings.ToLower(strings.TrimSpace(i.Email))
	seen := map[string]struct{}{}
	languages := make([]string, 0, len(i.Languages))
	for _, language := range i.Languages {
		language = strings.TrimSpace(language)
		key := strings.ToLower(language)
		if language == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		languages = append(languages, language)
	}
	i.Languages = languages
	return i
}
