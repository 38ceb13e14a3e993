package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/allisson/cartkeeper/internal/cart/domain"
	"github.com/allisson/cartkeeper/internal/cart/usecase"
	apperrors "github.com/allisson/cartkeeper/internal/errors"
)

// MySQLStore implements the cart activity Store for MySQL. It mirrors the
// PostgreSQL store with MySQL placeholder and upsert syntax.
type MySQLStore struct {
	db      *sql.DB
	timeout time.Duration
}

// NewMySQLStore creates a MySQL-backed store.
func NewMySQLStore(db *sql.DB, timeout time.Duration) *MySQLStore {
	return &MySQLStore{
		db:      db,
		timeout: timeout,
	}
}

var _ usecase.Store = (*MySQLStore)(nil)

// Upsert writes the full record under its email key.
func (m *MySQLStore) Upsert(ctx context.Context, record *domain.CartActivityRecord) error {
	ctx, cancel := opContext(ctx, m.timeout)
	defer cancel()

	items, err := json.Marshal(record.Items)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal cart items")
	}

	query := `INSERT INTO cart_activity_records
			  (email, items, locale, currency, total_value, status, logged_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			  items = VALUES(items),
			  locale = VALUES(locale),
			  currency = VALUES(currency),
			  total_value = VALUES(total_value),
			  status = VALUES(status),
			  logged_at = VALUES(logged_at),
			  updated_at = VALUES(updated_at)`

	_, err = m.db.ExecContext(
		ctx,
		query,
		record.Email,
		items,
		record.Locale,
		record.Currency,
		totalValueArg(record.TotalValue),
		string(record.Status),
		record.LoggedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return transientErr(err, "failed to upsert cart activity record")
	}
	return nil
}

// Get performs a point lookup by email.
func (m *MySQLStore) Get(ctx context.Context, email string) (*domain.CartActivityRecord, error) {
	ctx, cancel := opContext(ctx, m.timeout)
	defer cancel()

	query := `SELECT email, items, locale, currency, total_value, status, logged_at, updated_at
			  FROM cart_activity_records
			  WHERE email = ?`

	record, err := scanRecord(m.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, transientErr(err, "failed to get cart activity record")
	}
	return record, nil
}

// ListActive enumerates records whose status is non-terminal.
func (m *MySQLStore) ListActive(ctx context.Context) ([]*domain.CartActivityRecord, error) {
	query := `SELECT email, items, locale, currency, total_value, status, logged_at, updated_at
			  FROM cart_activity_records
			  WHERE status NOT IN (?, ?)
			  ORDER BY updated_at`

	return m.queryRecords(ctx, query, string(domain.StatusCompleted), string(domain.StatusConverted))
}

// ListAll enumerates every record, terminal included.
func (m *MySQLStore) ListAll(ctx context.Context) ([]*domain.CartActivityRecord, error) {
	query := `SELECT email, items, locale, currency, total_value, status, logged_at, updated_at
			  FROM cart_activity_records
			  ORDER BY updated_at`

	return m.queryRecords(ctx, query)
}

// Delete removes the record. Deleting an absent key is not an error.
func (m *MySQLStore) Delete(ctx context.Context, email string) error {
	ctx, cancel := opContext(ctx, m.timeout)
	defer cancel()

	query := `DELETE FROM cart_activity_records WHERE email = ?`

	if _, err := m.db.ExecContext(ctx, query, email); err != nil {
		return transientErr(err, "failed to delete cart activity record")
	}
	return nil
}

func (m *MySQLStore) queryRecords(
	ctx context.Context,
	query string,
	args ...any,
) ([]*domain.CartActivityRecord, error) {
	ctx, cancel := opContext(ctx, m.timeout)
	defer cancel()

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, transientErr(err, "failed to list cart activity records")
	}
	defer rows.Close()

	var records []*domain.CartActivityRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, transientErr(err, "failed to scan cart activity record")
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, transientErr(err, "failed to iterate cart activity records")
	}
	return records, nil
}
