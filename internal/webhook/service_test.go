package webhook

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/radar-fin/radar_fin/internal/extraction"
	"github.com/radar-fin/radar_fin/internal/identity"
	"github.com/radar-fin/radar_fin/internal/logging"
	"github.com/radar-fin/radar_fin/internal/notification"
	"github.com/radar-fin/radar_fin/internal/transactions"
)

type captureNotifier struct {
	events []notification.Event
}

func (n *captureNotifier) Send(_ context.Context, event notification.Event) error {
	n.events = append(n.events, event)
	return nil
}

func newTestPipeline(extractor extraction.Client) (*Pipeline, transactions.Repository, *captureNotifier) {
	store := transactions.NewInMemory()
	users := identity.NewService(identity.NewMemoryRepository(), "55")
	notifier := &captureNotifier{}
	return NewPipeline(users, store, extractor, notifier, logging.Discard()), store, notifier
}

func TestProcessPersistsExactlyOneRow(t *testing.T) {
	extractor := extraction.StaticClient{Result: extraction.Result{
		Available: true,
		Fields: extraction.Fields{
			Item:     strPtr("Pão"),
			Amount:   decPtr("10.00"),
			Category: strPtr("Food"),
		},
	}}
	pipeline, store, notifier := newTestPipeline(extractor)
	ctx := context.Background()

	outcome, err := pipeline.Process(ctx, "whatsapp:+5511999998888", "bought bread 10 reais")
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	rows, err := store.ListByOwner(ctx, outcome.OwnerID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected exactly one row, got %d", len(rows))
	}
	row := rows[0]
	if row.MessageBody != "bought bread 10 reais" {
		t.Fatalf("message body mismatch: %q", row.MessageBody)
	}
	if row.Item == nil || *row.Item != "Pão" {
		t.Fatalf("unexpected item: %v", row.Item)
	}
	if row.Amount == nil || row.Amount.StringFixed(2) != "10.00" {
		t.Fatalf("unexpected amount: %v", row.Amount)
	}
	if row.Category == nil || *row.Category != "Food" {
		t.Fatalf("unexpected category: %v", row.Category)
	}

	for _, want := range []string{"Pão", "10.00", "Food"} {
		if !strings.Contains(outcome.Reply, want) {
			t.Fatalf("reply missing %q: %s", want, outcome.Reply)
		}
	}

	if len(notifier.events) != 2 {
		t.Fatalf("expected recorded+enriched events, got %+v", notifier.events)
	}
	if notifier.events[0].Kind != notification.KindTransactionRecorded {
		t.Fatalf("first event should be recorded, got %s", notifier.events[0].Kind)
	}
}

func TestProcessExtractionUnavailable(t *testing.T) {
	pipeline, store, _ := newTestPipeline(extraction.StaticClient{Result: extraction.Unavailable("timeout")})
	ctx := context.Background()

	outcome, err := pipeline.Process(ctx, "whatsapp:+5511999998888", "illegible scribble")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if outcome.Enriched {
		t.Fatalf("expected enrichment to be skipped")
	}
	if outcome.Reply != FallbackReply {
		t.Fatalf("expected fallback reply, got %q", outcome.Reply)
	}

	row, err := store.Get(ctx, outcome.TransactionID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if row.Item != nil || row.Amount != nil || row.Category != nil {
		t.Fatalf("expected all-null enrichment fields, got %+v", row)
	}
}

func TestProcessReusesExistingUser(t *testing.T) {
	pipeline, store, _ := newTestPipeline(extraction.StaticClient{Result: extraction.Unavailable("disabled")})
	ctx := context.Background()

	first, err := pipeline.Process(ctx, "whatsapp:+5511999998888", "coffee 5")
	if err != nil {
		t.Fatalf("first process: %v", err)
	}
	second, err := pipeline.Process(ctx, "11999998888", "lunch 30")
	if err != nil {
		t.Fatalf("second process: %v", err)
	}
	if first.OwnerID != second.OwnerID {
		t.Fatalf("expected same owner for phone variants: %s vs %s", first.OwnerID, second.OwnerID)
	}

	rows, err := store.ListByOwner(ctx, first.OwnerID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected both notes under one owner, got %d", len(rows))
	}
}

type failingStore struct {
	transactions.Repository
}

func (failingStore) Insert(_ context.Context, _ transactions.Transaction) error {
	return errors.New("connection reset")
}

func TestProcessRawInsertFailureSurfaces(t *testing.T) {
	users := identity.NewService(identity.NewMemoryRepository(), "55")
	pipeline := NewPipeline(users, failingStore{transactions.NewInMemory()},
		extraction.StaticClient{Result: extraction.Unavailable("n/a")}, &captureNotifier{}, logging.Discard())

	if _, err := pipeline.Process(context.Background(), "whatsapp:+5511999998888", "note"); err == nil {
		t.Fatalf("expected raw persistence failure to surface")
	}
}

type enrichFailStore struct {
	transactions.Repository
}

func (s enrichFailStore) ApplyEnrichment(_ context.Context, _ string, _ transactions.Enrichment) error {
	return errors.New("connection reset")
}

func TestProcessEnrichmentFailureDegradesToFallback(t *testing.T) {
	users := identity.NewService(identity.NewMemoryRepository(), "55")
	store := enrichFailStore{transactions.NewInMemory()}
	extractor := extraction.StaticClient{Result: extraction.Result{Available: true, Fields: extraction.Fields{Item: strPtr("Pão")}}}
	pipeline := NewPipeline(users, store, extractor, &captureNotifier{}, logging.Discard())

	outcome, err := pipeline.Process(context.Background(), "whatsapp:+5511999998888", "bread")
	if err != nil {
		t.Fatalf("enrichment failure must not fail the request: %v", err)
	}
	if outcome.Enriched {
		t.Fatalf("outcome should not claim enrichment")
	}
	if outcome.Reply != FallbackReply {
		t.Fatalf("expected fallback reply, got %q", outcome.Reply)
	}
}
