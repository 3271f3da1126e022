package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/applicant-screener/internal/types"
)

const jobColumns = `id, title, company, location, skills_required, experience_min, experience_max, is_active`

func scanJob(row pgx.Row) (*types.JobRecord, error) {
	var j types.JobRecord
	if err := row.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.SkillsRequired,
		&j.ExperienceMin, &j.ExperienceMax, &j.IsActive); err != nil {
		return nil, err
	}
	return &j, nil
}

// GetJob retrieves a job by ID. It returns nil, nil when the job does not exist.
func (db *DB) GetJob(ctx context.Context, id string) (*types.JobRecord, error) {
	job, err := scanJob(db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job %s: %w", id, err)
	}
	return job, nil
}

// ListActiveJobs returns every active job, newest first.
func (db *DB) ListActiveJobs(ctx context.Context) ([]types.JobRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE is_active ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []types.JobRecord
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}
	return jobs, nil
}

// UpsertJob stores a job requirement as an active job, replacing any job with the same ID.
func (db *DB) UpsertJob(ctx context.Context, req types.JobRequirement, location string) error {
	skills, err := encodeSkills(req.Skills)
	if err != nil {
		return err
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO jobs (id, title, company, location, skills_required, experience_min, experience_max, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
		 ON CONFLICT (id) DO UPDATE SET
		     title = $2, company = $3, location = $4, skills_required = $5,
		     experience_min = $6, experience_max = $7, is_active = TRUE, updated_at = NOW()`,
		req.ID, req.Title, req.Company, location, skills, req.MinYears, req.MaxYears,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert job %s: %w", req.ID, err)
	}
	return nil
}

// encodeSkills renders skills the way the skills_required column stores them: a JSON array.
func encodeSkills(skills []string) (string, error) {
	if skills == nil {
		skills = []string{}
	}
	b, err := json.Marshal(skills)
	if err != nil {
		return "", fmt.Errorf("failed to marshal skills: %w", err)
	}
	return string(b), nil
}
