package agent

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// HistoryRecorder persists an audit row per delivery attempt. Recording is
// best-effort; a failed insert never affects the delivery outcome.
type HistoryRecorder interface {
	RecordDelivery(ctx context.Context, jobID int64, jobKind string, succeeded bool, payload interface{}) error
}

// PostgresHistory writes delivery audit rows to the job_deliveries table.
type PostgresHistory struct {
	db *sql.DB
}

func NewPostgresHistory(db *sql.DB) *PostgresHistory {
	return &PostgresHistory{db: db}
}

const insertDeliveryQuery = `
	INSERT INTO job_deliveries (job_id, job_kind, succeeded, payload, delivered_at)
	VALUES ($1, $2, $3, $4, $5)`

func (h *PostgresHistory) RecordDelivery(ctx context.Context, jobID int64, jobKind string, succeeded bool, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal delivery payload: %w", err)
	}
	if _, err := h.db.ExecContext(ctx, insertDeliveryQuery, jobID, jobKind, succeeded, data, time.Now().UTC()); err != nil {
		return fmt.Errorf("record delivery for job %d: %w", jobID, err)
	}
	return nil
}

// NoOpHistory is used when no database is configured.
type NoOpHistory struct{}

func (NoOpHistory) RecordDelivery(context.Context, int64, string, bool, interface{}) error {
	return nil
}
