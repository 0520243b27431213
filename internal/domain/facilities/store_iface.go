package facilities

import "context"

type StoreAPI interface {
	Count(ctx context.Context, filter ListFilter) (int, error)
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]Facility, error)
	Get(ctx context.Context, id string) (Facility, error)
	Create(ctx context.Context, facility Facility) (string, error)
	Update(ctx context.Context, id string, facility Facility) error
	HasJobs(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}
