package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresHistory_RecordDelivery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO job_deliveries").
		WithArgs(int64(42), "yield_scan_and_ranking", true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	history := NewPostgresHistory(db)
	err = history.RecordDelivery(context.Background(), 42, "yield_scan_and_ranking", true,
		map[string]interface{}{"job_name": "yield_scan_and_ranking"})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresHistory_InsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO job_deliveries").
		WillReturnError(errors.New("connection reset"))

	history := NewPostgresHistory(db)
	err = history.RecordDelivery(context.Background(), 42, "yield_scan_and_ranking", false, nil)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "record delivery for job 42")
}

func TestPostgresHistory_UnmarshalablePayload(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	history := NewPostgresHistory(db)
	err = history.RecordDelivery(context.Background(), 1, "x", true, make(chan int))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "marshal delivery payload")
}

func TestNoOpHistory(t *testing.T) {
	assert.NoError(t, NoOpHistory{}.RecordDelivery(context.Background(), 1, "x", true, nil))
}
