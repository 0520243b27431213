package jobs

import "context"

type StoreAPI interface {
	Count(ctx context.Context, filter ListFilter) (int, error)
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]Job, error)
	Get(ctx context.Context, id string) (Job, error)
	Create(ctx context.Context, job Job) (string, error)
	Save(ctx context.Context, job Job, expectedStatus string) error
	CreateOutreach(ctx context.Context, jobID, interpreterID string) (string, error)
	GetOutreach(ctx context.Context, jobID, outreachID string) (Outreach, error)
	ListOutreach(ctx context.Context, jobID string) ([]Outreach, error)
	SetOutreachStatus(ctx context.Context, outreachID, status string) error
	WithdrawOutreach(ctx context.Context, jobID string) error
}
