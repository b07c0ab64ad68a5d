package database

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"financial-health-workers/internal/common/errors"

	json "github.com/goccy/go-json"
	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL SQLSTATE for duplicate keys.
const uniqueViolation = "23505"

// StoredReport is one persisted health report.
type StoredReport struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"userId,omitempty"`
	ProcessInstanceKey int64           `json:"processInstanceKey,omitempty"`
	Score              int             `json:"score"`
	Band               string          `json:"band"`
	PlanningType       string          `json:"planningType"`
	EngineVersion      string          `json:"engineVersion"`
	Degraded           bool            `json:"degraded"`
	Report             json.RawMessage `json:"report"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// ReportStore persists health reports in PostgreSQL.
type ReportStore struct {
	pg *PostgresClient
}

func NewReportStore(pg *PostgresClient) *ReportStore {
	return &ReportStore{pg: pg}
}

const (
	insertReportSQL = `INSERT INTO health_reports
		(id, user_id, process_instance_key, score, band, planning_type, engine_version, degraded, report, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	insertAuditSQL = `INSERT INTO health_report_audit (report_id, action, actor) VALUES ($1, $2, $3)`

	selectReportSQL = `SELECT id, user_id, process_instance_key, score, band, planning_type, engine_version, degraded, report, created_at
		FROM health_reports WHERE id = $1`
)

// Save inserts the report and its audit entry in one transaction.
func (s *ReportStore) Save(ctx context.Context, r *StoredReport, actor string) error {
	err := s.pg.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, insertReportSQL,
			r.ID,
			nullString(r.UserID),
			nullInt64(r.ProcessInstanceKey),
			r.Score,
			r.Band,
			r.PlanningType,
			r.EngineVersion,
			r.Degraded,
			[]byte(r.Report),
			r.CreatedAt,
		); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, insertAuditSQL, r.ID, "created", nullString(actor))
		return err
	})
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return errors.NewDuplicateReportError(r.ID)
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewQueryTimeoutError("insert_health_report")
	}
	return errors.NewReportStoreFailedError(err)
}

// Get loads a report by id.
func (s *ReportStore) Get(ctx context.Context, id string) (*StoredReport, error) {
	var (
		r          StoredReport
		userID     sql.NullString
		processKey sql.NullInt64
		raw        []byte
	)
	err := s.pg.QueryRow(ctx, selectReportSQL, id).Scan(
		&r.ID,
		&userID,
		&processKey,
		&r.Score,
		&r.Band,
		&r.PlanningType,
		&r.EngineVersion,
		&r.Degraded,
		&raw,
		&r.CreatedAt,
	)
	switch {
	case stderrors.Is(err, sql.ErrNoRows):
		return nil, errors.NewReportNotFoundError(id)
	case err != nil:
		return nil, errors.NewReportStoreFailedError(fmt.Errorf("load report %s: %w", id, err))
	}

	r.UserID = userID.String
	r.ProcessInstanceKey = processKey.Int64
	r.Report = json.RawMessage(raw)
	return &r, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}
