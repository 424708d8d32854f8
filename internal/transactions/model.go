package transactions

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one persisted financial note. SenderID and MessageBody are
// written once at raw ingest and never change; Item, Amount and Category are
// filled in by at most one enrichment pass and stay nil when extraction was
// unavailable.
type Transaction struct {
	ID          string
	SenderID    string
	OwnerID     string
	MessageBody string
	Item        *string
	Amount      *decimal.Decimal
	Category    *string
	CreatedAt   time.Time
}

// Enrichment carries the structured fields attached to an existing transaction.
// Nil fields are written as NULL, not skipped, so re-applying the same
// enrichment always converges to the same row state.
type Enrichment struct {
	Item     *string
	Amount   *decimal.Decimal
	Category *string
}
