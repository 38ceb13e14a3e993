package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/cartkeeper/internal/cart/domain"
	apperrors "github.com/allisson/cartkeeper/internal/errors"
)

var recordColumns = []string{
	"email", "items", "locale", "currency", "total_value", "status", "logged_at", "updated_at",
}

func sqlRecord(email string, status domain.Status) *domain.CartActivityRecord {
	now := time.Now().UTC().Truncate(time.Second)
	totalValue := 29.80
	return &domain.CartActivityRecord{
		Email:      email,
		Items:      []domain.CartItem{{ProductID: "sku-1", Name: "Ceramic Mug", Quantity: 2, UnitPrice: 14.90}},
		Locale:     "pt-BR",
		Currency:   "BRL",
		TotalValue: &totalValue,
		Status:     status,
		LoggedAt:   now,
		UpdatedAt:  now,
	}
}

func recordRow(t *testing.T, record *domain.CartActivityRecord) *sqlmock.Rows {
	t.Helper()

	items, err := json.Marshal(record.Items)
	require.NoError(t, err)

	return sqlmock.NewRows(recordColumns).AddRow(
		record.Email,
		items,
		record.Locale,
		record.Currency,
		totalValueArg(record.TotalValue),
		string(record.Status),
		record.LoggedAt,
		record.UpdatedAt,
	)
}

func TestPostgreSQLStore_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgreSQLStore(db, 5*time.Second)
	record := sqlRecord("shopper@example.com", domain.StatusPending1)

	items, err := json.Marshal(record.Items)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO cart_activity_records").
		WithArgs(
			record.Email,
			items,
			record.Locale,
			record.Currency,
			*record.TotalValue,
			string(record.Status),
			record.LoggedAt,
			record.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = store.Upsert(context.Background(), record)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLStore_Upsert_NullTotalValue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgreSQLStore(db, 5*time.Second)
	record := sqlRecord("shopper@example.com", domain.StatusPending1)
	record.TotalValue = nil

	mock.ExpectExec("INSERT INTO cart_activity_records").
		WithArgs(
			record.Email,
			sqlmock.AnyArg(),
			record.Locale,
			record.Currency,
			nil,
			string(record.Status),
			record.LoggedAt,
			record.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = store.Upsert(context.Background(), record)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLStore_Upsert_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgreSQLStore(db, 5*time.Second)

	mock.ExpectExec("INSERT INTO cart_activity_records").
		WillReturnError(errors.New("connection refused"))

	err = store.Upsert(context.Background(), sqlRecord("shopper@example.com", domain.StatusPending1))

	assert.True(t, apperrors.Is(err, apperrors.ErrTransientStore))
}

func TestPostgreSQLStore_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgreSQLStore(db, 5*time.Second)
	record := sqlRecord("shopper@example.com", domain.StatusSent1Pending2)

	mock.ExpectQuery("SELECT (.+) FROM cart_activity_records").
		WithArgs(record.Email).
		WillReturnRows(recordRow(t, record))

	got, err := store.Get(context.Background(), record.Email)

	require.NoError(t, err)
	assert.Equal(t, record.Email, got.Email)
	assert.Equal(t, record.Items, got.Items)
	assert.Equal(t, record.Status, got.Status)
	require.NotNil(t, got.TotalValue)
	assert.Equal(t, *record.TotalValue, *got.TotalValue)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLStore_Get_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgreSQLStore(db, 5*time.Second)

	mock.ExpectQuery("SELECT (.+) FROM cart_activity_records").
		WithArgs("unknown@example.com").
		WillReturnError(sql.ErrNoRows)

	got, err := store.Get(context.Background(), "unknown@example.com")

	assert.Nil(t, got)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestPostgreSQLStore_ListActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgreSQLStore(db, 5*time.Second)
	first := sqlRecord("a@example.com", domain.StatusPending1)
	second := sqlRecord("b@example.com", domain.StatusSent3Pending4)

	rows := recordRow(t, first)
	items, err := json.Marshal(second.Items)
	require.NoError(t, err)
	rows.AddRow(
		second.Email,
		items,
		second.Locale,
		second.Currency,
		totalValueArg(second.TotalValue),
		string(second.Status),
		second.LoggedAt,
		second.UpdatedAt,
	)

	mock.ExpectQuery("SELECT (.+) FROM cart_activity_records").
		WithArgs(string(domain.StatusCompleted), string(domain.StatusConverted)).
		WillReturnRows(rows)

	records, err := store.ListActive(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a@example.com", records[0].Email)
	assert.Equal(t, "b@example.com", records[1].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLStore_ListAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgreSQLStore(db, 5*time.Second)
	record := sqlRecord("a@example.com", domain.StatusCompleted)

	mock.ExpectQuery("SELECT (.+) FROM cart_activity_records").
		WillReturnRows(recordRow(t, record))

	records, err := store.ListAll(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.StatusCompleted, records[0].Status)
}

func TestPostgreSQLStore_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgreSQLStore(db, 5*time.Second)

	mock.ExpectExec("DELETE FROM cart_activity_records").
		WithArgs("shopper@example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = store.Delete(context.Background(), "shopper@example.com")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
