package webhook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/radar-fin/radar_fin/internal/extraction"
	"github.com/radar-fin/radar_fin/internal/identity"
	"github.com/radar-fin/radar_fin/internal/notification"
	"github.com/radar-fin/radar_fin/internal/transactions"
)

// Pipeline runs the inbound message flow: resolve identity, persist the raw
// note, attempt extraction, apply enrichment, compose the reply. The raw
// insert is the only durability checkpoint; nothing after it rolls it back.
type Pipeline struct {
	users    *identity.Service
	store    transactions.Repository
	extract  extraction.Client
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewPipeline wires the message-processing pipeline.
func NewPipeline(users *identity.Service, store transactions.Repository, extract extraction.Client, notifier notification.Notifier, logger *slog.Logger) *Pipeline {
	return &Pipeline{users: users, store: store, extract: extract, notifier: notifier, logger: logger}
}

// Outcome reports what happened to one inbound message.
type Outcome struct {
	TransactionID string
	OwnerID       string
	Enriched      bool
	Reply         string
}

// Process handles a single inbound message. An error return means the raw
// note was NOT durably recorded and the transport should redeliver; once the
// raw insert commits, extraction and enrichment failures degrade to the
// fallback reply instead of failing the request.
func (p *Pipeline) Process(ctx context.Context, senderAddress, messageBody string) (Outcome, error) {
	user, err := p.users.Resolve(ctx, senderAddress)
	if err != nil {
		return Outcome{}, fmt.Errorf("resolve sender: %w", err)
	}

	tx := transactions.Transaction{
		ID:          uuid.New().String(),
		SenderID:    senderAddress,
		OwnerID:     user.ID,
		MessageBody: messageBody,
		CreatedAt:   time.Now().UTC(),
	}
	if err := p.store.Insert(ctx, tx); err != nil {
		return Outcome{}, fmt.Errorf("persist raw note: %w", err)
	}
	p.logger.Info("raw note persisted", "transaction_id", tx.ID, "owner_id", user.ID)
	_ = p.notifier.Send(ctx, notification.Event{
		Kind:          notification.KindTransactionRecorded,
		OwnerID:       user.ID,
		TransactionID: tx.ID,
	})

	res := p.extract.Analyze(ctx, messageBody)

	if res.Available {
		enrichment := transactions.Enrichment{
			Item:     res.Fields.Item,
			Amount:   res.Fields.Amount,
			Category: res.Fields.Category,
		}
		if err := p.store.ApplyEnrichment(ctx, tx.ID, enrichment); err != nil {
			// The raw note is already durable; degrade to the fallback reply.
			p.logger.Error("apply enrichment", "transaction_id", tx.ID, "error", err)
			res = extraction.Unavailable("enrichment not persisted")
		} else {
			p.logger.Info("note enriched", "transaction_id", tx.ID)
			_ = p.notifier.Send(ctx, notification.Event{
				Kind:          notification.KindTransactionEnriched,
				OwnerID:       user.ID,
				TransactionID: tx.ID,
			})
		}
	} else {
		p.logger.Info("enrichment skipped", "transaction_id", tx.ID, "reason", res.Reason)
	}

	return Outcome{
		TransactionID: tx.ID,
		OwnerID:       user.ID,
		Enriched:      res.Available,
		Reply:         ComposeReply(res),
	}, nil
}
