package registro

import "context"

// StoreAPI persists records with their derived fields already computed.
type StoreAPI interface {
	List(ctx context.Context, p Params) ([]Record, int, error)
	Get(ctx context.Context, id string) (Record, error)
	Insert(ctx context.Context, rec Record) error
	Update(ctx context.Context, rec Record) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
