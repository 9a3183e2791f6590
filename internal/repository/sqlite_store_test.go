package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	sqliteSelect = "SELECT value FROM card_collections WHERE key = ?"
	sqliteUpsert = "INSERT INTO card_collections (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value"
)

func newMockSQLiteStore(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlite3")
	return NewSQLiteStore(db, "student_id_cards", nil), mock
}

func TestSQLiteStoreListAll(t *testing.T) {
	store, mock := newMockSQLiteStore(t)

	stored := `[{"id":"a","name":"Asha Rao","rollNumber":"42","classDivision":"5B","rackNumber":"12","busRouteNumber":"R3","createdAt":1700000000000,"template":"modern"}]`
	mock.ExpectQuery(regexp.QuoteMeta(sqliteSelect)).
		WithArgs("student_id_cards").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(stored))

	records := store.ListAll(context.Background())
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0].ID)
	assert.Equal(t, "Asha Rao", records[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStoreListAllEmpty(t *testing.T) {
	store, mock := newMockSQLiteStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(sqliteSelect)).
		WithArgs("student_id_cards").
		WillReturnError(sql.ErrNoRows)

	assert.Empty(t, store.ListAll(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStoreListAllCorruptValue(t *testing.T) {
	store, mock := newMockSQLiteStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(sqliteSelect)).
		WithArgs("student_id_cards").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("{not json"))

	assert.Empty(t, store.ListAll(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStoreAppendPrepends(t *testing.T) {
	store, mock := newMockSQLiteStore(t)

	stored := `[{"id":"old","name":"Old","rollNumber":"1","classDivision":"1A","rackNumber":"","busRouteNumber":"R1","createdAt":1,"template":"classic"}]`
	mock.ExpectQuery(regexp.QuoteMeta(sqliteSelect)).
		WithArgs("student_id_cards").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(stored))
	mock.ExpectExec(regexp.QuoteMeta(sqliteUpsert)).
		WithArgs("student_id_cards", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.Append(context.Background(), record("new")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStoreDeleteFromEmptyFails(t *testing.T) {
	store, mock := newMockSQLiteStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(sqliteSelect)).
		WithArgs("student_id_cards").
		WillReturnError(sql.ErrNoRows)

	assert.ErrorIs(t, store.DeleteByID(context.Background(), "a"), ErrEmptyStore)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStoreDeleteByID(t *testing.T) {
	store, mock := newMockSQLiteStore(t)

	stored := `[{"id":"a","name":"A","rollNumber":"1","classDivision":"1A","rackNumber":"","busRouteNumber":"R1","createdAt":1,"template":"modern"},` +
		`{"id":"b","name":"B","rollNumber":"2","classDivision":"1B","rackNumber":"","busRouteNumber":"R2","createdAt":2,"template":"classic"}]`
	mock.ExpectQuery(regexp.QuoteMeta(sqliteSelect)).
		WithArgs("student_id_cards").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(stored))
	mock.ExpectExec(regexp.QuoteMeta(sqliteUpsert)).
		WithArgs("student_id_cards", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.DeleteByID(context.Background(), "a"))
	require.NoError(t, mock.ExpectationsWereMet())
}
