package transactions

import (
	"context"

	"github.com/JaimeStill/flowbit/pkg/pagination"
)

// System is the transaction record contract consumed by the pipeline and
// the API layer. The record store is the source of truth; the index is a
// best-effort read model for listings.
type System interface {
	// Create writes a new record and seeds its index row.
	Create(ctx context.Context, record *Record) error

	// Find returns the full record, or ErrNotFound.
	Find(ctx context.Context, id string) (*Record, error)

	// Merge applies a field-level update through read-merge-write and
	// returns the updated record. Returns ErrNotFound when the id is
	// unknown, without mutating anything.
	Merge(ctx context.Context, id string, update Update) (*Record, error)

	// List returns a page of transaction summaries, newest first,
	// narrowed by any set filters.
	List(ctx context.Context, page pagination.Page, filters Filters) (pagination.Result[Summary], error)
}
