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

// PostgreSQLStore implements the cart activity Store for PostgreSQL.
// Cart items are kept in a JSONB column; the email is the primary key and
// upserts resolve through ON CONFLICT.
type PostgreSQLStore struct {
	db      *sql.DB
	timeout time.Duration
}

// NewPostgreSQLStore creates a PostgreSQL-backed store.
func NewPostgreSQLStore(db *sql.DB, timeout time.Duration) *PostgreSQLStore {
	return &PostgreSQLStore{
		db:      db,
		timeout: timeout,
	}
}

var _ usecase.Store = (*PostgreSQLStore)(nil)

// Upsert writes the full record under its email key.
func (p *PostgreSQLStore) Upsert(ctx context.Context, record *domain.CartActivityRecord) error {
	ctx, cancel := opContext(ctx, p.timeout)
	defer cancel()

	items, err := json.Marshal(record.Items)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal cart items")
	}

	query := `INSERT INTO cart_activity_records
			  (email, items, locale, currency, total_value, status, logged_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  ON CONFLICT (email) DO UPDATE SET
			  items = EXCLUDED.items,
			  locale = EXCLUDED.locale,
			  currency = EXCLUDED.currency,
			  total_value = EXCLUDED.total_value,
			  status = EXCLUDED.status,
			  logged_at = EXCLUDED.logged_at,
			  updated_at = EXCLUDED.updated_at`

	_, err = p.db.ExecContext(
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
func (p *PostgreSQLStore) Get(ctx context.Context, email string) (*domain.CartActivityRecord, error) {
	ctx, cancel := opContext(ctx, p.timeout)
	defer cancel()

	query := `SELECT email, items, locale, currency, total_value, status, logged_at, updated_at
			  FROM cart_activity_records
			  WHERE email = $1`

	record, err := scanRecord(p.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, transientErr(err, "failed to get cart activity record")
	}
	return record, nil
}

// ListActive enumerates records whose status is non-terminal.
func (p *PostgreSQLStore) ListActive(ctx context.Context) ([]*domain.CartActivityRecord, error) {
	query := `SELECT email, items, locale, currency, total_value, status, logged_at, updated_at
			  FROM cart_activity_records
			  WHERE status NOT IN ($1, $2)
			  ORDER BY updated_at`

	return p.queryRecords(ctx, query, string(domain.StatusCompleted), string(domain.StatusConverted))
}

// ListAll enumerates every record, terminal included.
func (p *PostgreSQLStore) ListAll(ctx context.Context) ([]*domain.CartActivityRecord, error) {
	query := `SELECT email, items, locale, currency, total_value, status, logged_at, updated_at
			  FROM cart_activity_records
			  ORDER BY updated_at`

	return p.queryRecords(ctx, query)
}

// Delete removes the record. Deleting an absent key is not an error.
func (p *PostgreSQLStore) Delete(ctx context.Context, email string) error {
	ctx, cancel := opContext(ctx, p.timeout)
	defer cancel()

	query := `DELETE FROM cart_activity_records WHERE email = $1`

	if _, err := p.db.ExecContext(ctx, query, email); err != nil {
		return transientErr(err, "failed to delete cart activity record")
	}
	return nil
}

func (p *PostgreSQLStore) queryRecords(
	ctx context.Context,
	query string,
	args ...any,
) ([]*domain.CartActivityRecord, error) {
	ctx, cancel := opContext(ctx, p.timeout)
	defer cancel()

	rows, err := p.db.QueryContext(ctx, query, args...)
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

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord maps one SQL row onto a domain record.
func scanRecord(row rowScanner) (*domain.CartActivityRecord, error) {
	var (
		record     domain.CartActivityRecord
		items      []byte
		totalValue sql.NullFloat64
		status     string
	)

	err := row.Scan(
		&record.Email,
		&items,
		&record.Locale,
		&record.Currency,
		&totalValue,
		&status,
		&record.LoggedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(items, &record.Items); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal cart items")
	}
	if totalValue.Valid {
		record.TotalValue = &totalValue.Float64
	}
	record.Status = domain.Status(status)

	return &record, nil
}

// totalValueArg maps the optional total onto a nullable SQL argument.
func totalValueArg(value *float64) sql.NullFloat64 {
	if value == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *value, Valid: true}
}
