package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/applicant-screener/internal/types"
)

// GetCandidateRecord loads a candidate with their skills, employment history
// and degrees. It returns nil, nil when the candidate does not exist.
func (db *DB) GetCandidateRecord(ctx context.Context, id string) (*types.CandidateRecord, error) {
	rec := types.CandidateRecord{ID: id}
	var parsedJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT headline, bio, resume_ats_score, parsed_resume FROM candidates WHERE id = $1`, id,
	).Scan(&rec.Headline, &rec.Bio, &rec.ResumeATSScore, &parsedJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate %s: %w", id, err)
	}

	if parsedJSON != nil {
		var parsed types.ParseResult
		if err := json.Unmarshal(parsedJSON, &parsed); err == nil {
			rec.Parsed = &parsed
		}
	}

	if rec.Skills, err = db.candidateStrings(ctx,
		`SELECT name FROM candidate_skills WHERE candidate_id = $1 ORDER BY name`, id); err != nil {
		return nil, err
	}
	if rec.Degrees, err = db.candidateStrings(ctx,
		`SELECT degree FROM candidate_education WHERE candidate_id = $1 ORDER BY id`, id); err != nil {
		return nil, err
	}
	if rec.Employment, err = db.candidateEmployment(ctx, id); err != nil {
		return nil, err
	}

	return &rec, nil
}

func (db *DB) candidateStrings(ctx context.Context, query, id string) ([]string, error) {
	rows, err := db.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidate data: %w", err)
	}
	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to read candidate data: %w", err)
	}
	return values, nil
}

func (db *DB) candidateEmployment(ctx context.Context, id string) ([]types.EmploymentRange, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT title, start_date, end_date FROM candidate_employment WHERE candidate_id = $1 ORDER BY start_date`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query employment: %w", err)
	}
	defer rows.Close()

	var ranges []types.EmploymentRange
	for rows.Next() {
		var r types.EmploymentRange
		var start, end *time.Time
		if err := rows.Scan(&r.Title, &start, &end); err != nil {
			return nil, fmt.Errorf("failed to scan employment: %w", err)
		}
		r.Start, r.End = start, end
		ranges = append(ranges, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employment: %w", err)
	}
	return ranges, nil
}

// SaveParsedResume stores a parse result for a candidate, creating the
// candidate row if needed. The ATS score is only recorded for successful parses.
func (db *DB) SaveParsedResume(ctx context.Context, candidateID string, parsed types.ParseResult) error {
	content, err := json.Marshal(parsed)
	if err != nil {
		return fmt.Errorf("failed to marshal parse result: %w", err)
	}

	var score *int
	if parsed.Success {
		score = &parsed.ATSScore
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO candidates (id, resume_ats_score, parsed_resume)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET resume_ats_score = $2, parsed_resume = $3, updated_at = NOW()`,
		candidateID, score, content,
	)
	if err != nil {
		return fmt.Errorf("failed to save parsed resume for %s: %w", candidateID, err)
	}
	return nil
}
