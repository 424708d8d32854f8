package transactions

import (
	"context"
	"sort"
	"sync"
	"time"
)

type inMemoryRepository struct {
	mu   sync.RWMutex
	rows map[string]Transaction
}

// NewInMemory creates a concurrency-safe in-memory repository useful for unit
// tests and keyless dev runs.
func NewInMemory() Repository {
	return &inMemoryRepository{rows: make(map[string]Transaction)}
}

func (r *inMemoryRepository) Insert(_ context.Context, tx Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	r.rows[tx.ID] = tx
	return nil
}

func (r *inMemoryRepository) ApplyEnrichment(_ context.Context, id string, e Enrichment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.rows[id]
	if !ok {
		return ErrNotFound
	}
	tx.Item = e.Item
	tx.Amount = e.Amount
	tx.Category = e.Category
	r.rows[id] = tx
	return nil
}

func (r *inMemoryRepository) ListByOwner(_ context.Context, ownerID string) ([]Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []Transaction
	for _, tx := range r.rows {
		if tx.OwnerID == ownerID {
			result = append(result, tx)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *inMemoryRepository) Get(_ context.Context, id string) (Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tx, ok := r.rows[id]
	if !ok {
		return Transaction{}, ErrNotFound
	}
	return tx, nil
}
