// Package postgres persists purchases over database/sql with the pq
// driver. The purchase service owns its schema and creates it on
// startup rather than relying on shared migrations.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/Apurer/go-order-saga/internal/domains/purchases/domain"
	"github.com/Apurer/go-order-saga/internal/domains/purchases/ports"
)

var _ ports.Repository = (*Repository)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS purchases (
	id              BIGSERIAL PRIMARY KEY,
	product_id      BIGINT NOT NULL,
	quantity        INTEGER NOT NULL,
	total_price     DOUBLE PRECISION NOT NULL,
	payment_method  VARCHAR(16) NOT NULL DEFAULT '',
	mailing_address TEXT NOT NULL,
	purchased_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_purchases_product ON purchases (product_id);
`

// Repository persists purchases in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// Open connects to PostgreSQL and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*Repository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure purchases schema: %w", err)
	}
	return &Repository{db: db}, nil
}

// NewRepository wraps an existing connection pool. Caller manages DB
// lifecycle and schema.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Close releases the connection pool.
func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Save inserts a purchase and returns it with its assigned identifier.
func (r *Repository) Save(ctx context.Context, purchase *domain.Purchase) (*domain.Purchase, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	stored := *purchase
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO purchases (product_id, quantity, total_price, payment_method, mailing_address, purchased_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		purchase.ProductID, purchase.Quantity, purchase.TotalPrice,
		purchase.PaymentMethod, purchase.MailingAddress, purchase.PurchasedAt,
	).Scan(&stored.ID)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// GetByID fetches a purchase by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Purchase, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var purchase domain.Purchase
	err := r.db.QueryRowContext(ctx,
		`SELECT id, product_id, quantity, total_price, payment_method, mailing_address, purchased_at
		 FROM purchases WHERE id = $1`, id,
	).Scan(&purchase.ID, &purchase.ProductID, &purchase.Quantity, &purchase.TotalPrice,
		&purchase.PaymentMethod, &purchase.MailingAddress, &purchase.PurchasedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// List returns all purchases, newest first.
func (r *Repository) List(ctx context.Context) ([]*domain.Purchase, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, product_id, quantity, total_price, payment_method, mailing_address, purchased_at
		 FROM purchases ORDER BY purchased_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var purchases []*domain.Purchase
	for rows.Next() {
		var purchase domain.Purchase
		if err := rows.Scan(&purchase.ID, &purchase.ProductID, &purchase.Quantity, &purchase.TotalPrice,
			&purchase.PaymentMethod, &purchase.MailingAddress, &purchase.PurchasedAt); err != nil {
			return nil, err
		}
		purchases = append(purchases, &purchase)
	}
	return purchases, rows.Err()
}

// Delete removes a purchase by identifier.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres purchase repository not configured")
	}
	return nil
}
