package league

import "context"

type Repository interface {
	GetByID(ctx context.Context, id int64) (League, bool, error)
	List(ctx context.Context) ([]League, error)
	Upsert(ctx context.Context, lg League) error
}
