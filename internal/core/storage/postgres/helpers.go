package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	v1 "github.com/seology-ai/eventgate/internal/api/v1"
)

// marshalHeadersJSON encodes a header snapshot for the JSONB column.
// Empty headers produce nil (SQL NULL) rather than "{}" so the upsert keeps
// the previously stored snapshot.
func marshalHeadersJSON(headers map[string]string) ([]byte, error) {
	if len(headers) == 0 {
		return nil, nil
	}

	data, err := json.Marshal(headers)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal received headers: %w", err)
	}
	return data, nil
}

// nullableTime maps the zero time to SQL NULL.
func nullableTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanRecordRow scans a ledger row selected with ledgerColumns.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
func scanRecordRow(row scanner) (*v1.EventRecord, error) {
	var rec v1.EventRecord
	var rawPayload, lastError sql.NullString
	var headersJSON []byte

	err := row.Scan(
		&rec.ID,
		&rec.EventKey,
		&rec.Source,
		&rec.Topic,
		&rawPayload,
		&headersJSON,
		&rec.Processed,
		&rec.AttemptCount,
		&lastError,
		&rec.FirstSeenAt,
		&rec.LastSeenAt,
		&rec.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}

	if rawPayload.Valid {
		rec.RawPayload = &rawPayload.String
	}
	if lastError.Valid {
		rec.LastError = &lastError.String
	}

	if len(headersJSON) > 0 {
		if err := json.Unmarshal(headersJSON, &rec.ReceivedHeaders); err != nil {
			return nil, fmt.Errorf("failed to unmarshal received headers: %w", err)
		}
	}

	return &rec, nil
}

// scanRecordRows drains rows into records and closes them.
func scanRecordRows(rows *sql.Rows) ([]*v1.EventRecord, error) {
	defer rows.Close()

	var records []*v1.EventRecord
	for rows.Next() {
		rec, err := scanRecordRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event record row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event records: %w", err)
	}

	return records, nil
}
