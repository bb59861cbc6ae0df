package payroll

import "context"

// Store is the persistence service backing the record collection. Create
// assigns the identifier; Update replaces the whole record.
type Store interface {
	List(ctx context.Context) ([]Record, error)
	Create(ctx context.Context, record Record) (Record, error)
	Update(ctx context.Context, record Record) (Record, error)
	Delete(ctx context.Context, id string) error
}
