package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/applicant-screener/internal/types"
)

// SaveReport persists the report for an application. Re-evaluating an
// application replaces its previous report.
func (db *DB) SaveReport(ctx context.Context, applicationID, jobID string, report types.DecisionReport) (uuid.UUID, error) {
	if applicationID == "" {
		applicationID = uuid.NewString()
	}
	content, err := json.Marshal(report)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO decision_reports (application_id, job_id, overall_score, decision, report)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (application_id) DO UPDATE SET
		     job_id = $2, overall_score = $3, decision = $4, report = $5, created_at = NOW()
		 RETURNING id`,
		applicationID, jobID, report.OverallScore, string(report.Decision), content,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save report for %s: %w", applicationID, err)
	}
	return id, nil
}

// GetReport retrieves the report of an application, or nil, nil if there is none.
func (db *DB) GetReport(ctx context.Context, applicationID string) (*StoredReport, error) {
	report, err := scanReport(db.pool.QueryRow(ctx,
		`SELECT id, application_id, job_id, report, created_at
		 FROM decision_reports WHERE application_id = $1`, applicationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get report for %s: %w", applicationID, err)
	}
	return report, nil
}

// ListReportsForJob returns the reports of every application to a job, highest score first.
func (db *DB) ListReportsForJob(ctx context.Context, jobID string) ([]StoredReport, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, application_id, job_id, report, created_at
		 FROM decision_reports WHERE job_id = $1
		 ORDER BY overall_score DESC, created_at`, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports for job %s: %w", jobID, err)
	}
	defer rows.Close()

	var reports []StoredReport
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}
	return reports, nil
}

func scanReport(row pgx.Row) (*StoredReport, error) {
	var r StoredReport
	var content []byte
	if err := row.Scan(&r.ID, &r.ApplicationID, &r.JobID, &content, &r.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(content, &r.Report); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &r, nil
}
