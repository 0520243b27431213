package interpreters

import "context"

type StoreAPI interface {
	Count(ctx context.Context, filter ListFilter) (int, error)
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]Interpreter, error)
	Get(ctx context.Context, id string) (Interpreter, error)
	Create(ctx context.Context, interpreter Interpreter) (string, error)
	Update(ctx context.Context, id string, interpreter Interpreter) error
	HasJobs(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}
