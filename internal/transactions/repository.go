package transactions

import (
	"context"
	"errors"
)

// ErrNotFound indicates no transaction matches the given identifier.
var ErrNotFound = errors.New("transaction not found")

// Repository persists transactions. Insert is the pipeline's single durability
// checkpoint: once it returns nil the note is recorded regardless of any
// downstream outcome. ApplyEnrichment mutates a row exactly once per distinct
// enrichment and is idempotent for identical input.
type Repository interface {
	Insert(ctx context.Context, tx Transaction) error
	ApplyEnrichment(ctx context.Context, id string, e Enrichment) error
	ListByOwner(ctx context.Context, ownerID string) ([]Transaction, error)
	Get(ctx context.Context, id string) (Transaction, error)
}
