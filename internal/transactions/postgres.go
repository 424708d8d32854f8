package transactions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed transaction repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert persists a raw transaction row. Auto-commit: the row is durable as
// soon as this returns nil.
func (r *PostgresRepository) Insert(ctx context.Context, tx Transaction) error {
	txID, err := uuid.Parse(tx.ID)
	if err != nil {
		return err
	}
	ownerID, err := uuid.Parse(tx.OwnerID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO transactions (id, sender_id, owner_id, message_body, created_at)
        VALUES ($1, $2, $3, $4, $5)`, txID, tx.SenderID, ownerID, tx.MessageBody, tx.CreatedAt.UTC())
	return err
}

// ApplyEnrichment writes the extracted fields onto an existing row. All three
// columns are set from the input, so applying the same enrichment twice leaves
// the row byte-identical.
func (r *PostgresRepository) ApplyEnrichment(ctx context.Context, id string, e Enrichment) error {
	txID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE transactions SET item = $1, amount = $2, category = $3 WHERE id = $4`,
		e.Item, amountArg(e.Amount), e.Category, txID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByOwner returns the owner's transactions, newest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]Transaction, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, ErrNotFound
	}
	rows, err := r.db.Query(ctx, `SELECT id, sender_id, owner_id, message_body, item, amount::text, category, created_at
        FROM transactions WHERE owner_id = $1 ORDER BY created_at DESC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, tx)
	}
	return result, rows.Err()
}

// Get fetches a single transaction by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Transaction, error) {
	txID, err := uuid.Parse(id)
	if err != nil {
		return Transaction{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, sender_id, owner_id, message_body, item, amount::text, category, created_at
        FROM transactions WHERE id = $1`, txID)
	tx, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, ErrNotFound
	}
	return tx, err
}

// amountArg renders the decimal with exactly two places for the NUMERIC(10,2)
// column; nil stays NULL.
func amountArg(amount *decimal.Decimal) *string {
	if amount == nil {
		return nil
	}
	s := amount.StringFixed(2)
	return &s
}

func scanTransaction(row pgx.Row) (Transaction, error) {
	var (
		id        uuid.UUID
		ownerID   uuid.UUID
		amountStr *string
		createdAt time.Time
		tx        Transaction
	)
	if err := row.Scan(&id, &tx.SenderID, &ownerID, &tx.MessageBody, &tx.Item, &amountStr, &tx.Category, &createdAt); err != nil {
		return Transaction{}, err
	}
	tx.ID = id.String()
	tx.OwnerID = ownerID.String()
	tx.CreatedAt = createdAt.UTC()
	if amountStr != nil {
		amount, err := decimal.NewFromString(*amountStr)
		if err != nil {
			return Transaction{}, err
		}
		tx.Amount = &amount
	}
	return tx, nil
}
