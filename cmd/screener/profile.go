package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/applicant-screener/internal/config"
	"github.com/jonathan/applicant-screener/internal/db"
	"github.com/jonathan/applicant-screener/internal/matching"
	"github.com/jonathan/applicant-screener/internal/schemas"
	"github.com/jonathan/applicant-screener/internal/screening"
	"github.com/jonathan/applicant-screener/internal/types"
)

// profileSource names where a command reads the candidate from. Exactly one
// field must be set.
type profileSource struct {
	ProfilePath string
	ResumePath  string
	CandidateID string
}

func (src profileSource) validate() error {
	n := 0
	for _, v := range []string{src.ProfilePath, src.ResumePath, src.CandidateID} {
		if v != "" {
			n++
		}
	}
	if n != 1 {
		return errors.New("provide exactly one of --profile, --resume or --candidate-id")
	}
	return nil
}

// lazyDB opens the database on first use.
type lazyDB struct {
	cfg      *config.Config
	database *db.DB
}

func (l *lazyDB) get(ctx context.Context) (*db.DB, error) {
	if l.database != nil {
		return l.database, nil
	}
	database, err := connectDB(ctx, l.cfg)
	if err != nil {
		return nil, err
	}
	l.database = database
	return database, nil
}

func (l *lazyDB) Close() {
	if l.database != nil {
		l.database.Close()
	}
}

func loadProfile(ctx context.Context, src profileSource, svc *screening.Service, store *lazyDB) (types.CandidateProfile, error) {
	switch {
	case src.ProfilePath != "":
		var profile types.CandidateProfile
		if err := readJSON(src.ProfilePath, schemas.CandidateProfile, &profile); err != nil {
			return types.CandidateProfile{}, err
		}
		return profile, nil

	case src.ResumePath != "":
		parsed := svc.ParseDocument(ctx, src.ResumePath)
		if !parsed.Success {
			return types.CandidateProfile{}, fmt.Errorf("%s: %s", src.ResumePath, parsed.Message)
		}
		return screening.ProfileFromParsed(parsed), nil

	default:
		database, err := store.get(ctx)
		if err != nil {
			return types.CandidateProfile{}, err
		}
		record, err := database.GetCandidateRecord(ctx, src.CandidateID)
		if err != nil {
			return types.CandidateProfile{}, fmt.Errorf("failed to get candidate: %w", err)
		}
		if record == nil {
			return types.CandidateProfile{}, fmt.Errorf("candidate not found: %s", src.CandidateID)
		}
		return screening.ProfileFromRecord(*record, time.Now()), nil
	}
}

// loadJob reads a requirement from a JSON file or, given an ID, from the database.
func loadJob(ctx context.Context, path, id string, store *lazyDB) (types.JobRequirement, error) {
	if (path == "") == (id == "") {
		return types.JobRequirement{}, errors.New("provide exactly one of --job or --job-id")
	}
	if path != "" {
		var job types.JobRequirement
		if err := readJSON(path, schemas.JobRequirement, &job); err != nil {
			return types.JobRequirement{}, err
		}
		return job, nil
	}

	database, err := store.get(ctx)
	if err != nil {
		return types.JobRequirement{}, err
	}
	record, err := database.GetJob(ctx, id)
	if err != nil {
		return types.JobRequirement{}, fmt.Errorf("failed to get job: %w", err)
	}
	if record == nil {
		return types.JobRequirement{}, fmt.Errorf("job not found: %s", id)
	}
	return matching.RequirementFromRecord(*record), nil
}
