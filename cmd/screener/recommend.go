package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/applicant-screener/internal/matching"
	"github.com/jonathan/applicant-screener/internal/types"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend the best-matching jobs for a candidate",
	Long:  "Score a candidate against a JSON array of job requirements, or against the active jobs in the database when --jobs is omitted, and list the best matches.",
	RunE:  runRecommend,
}

var (
	recProfile     string
	recResume      string
	recCandidateID string
	recJobs        string
	recLimit       int
	recOutputFile  string
)

func init() {
	recommendCmd.Flags().StringVar(&recProfile, "profile", "", "Path to candidate profile JSON")
	recommendCmd.Flags().StringVar(&recResume, "resume", "", "Path to a resume document to parse into the profile")
	recommendCmd.Flags().StringVar(&recCandidateID, "candidate-id", "", "Load the candidate from the database")
	recommendCmd.Flags().StringVar(&recJobs, "jobs", "", "Path to job requirements JSON array (default: active jobs in the database)")
	recommendCmd.Flags().IntVar(&recLimit, "limit", matching.DefaultRecommendationLimit, "Maximum number of recommendations")
	recommendCmd.Flags().StringVarP(&recOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	src := profileSource{ProfilePath: recProfile, ResumePath: recResume, CandidateID: recCandidateID}
	if err := src.validate(); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := newService(cfg, nil, nil)
	if err != nil {
		return err
	}

	ctx := context.Background()
	store := &lazyDB{cfg: cfg}
	defer store.Close()

	profile, err := loadProfile(ctx, src, svc, store)
	if err != nil {
		return err
	}
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	var jobs []types.JobRequirement
	if recJobs != "" {
		if err := readJSON(recJobs, "", &jobs); err != nil {
			return err
		}
	} else {
		database, err := store.get(ctx)
		if err != nil {
			return err
		}
		records, err := database.ListActiveJobs(ctx)
		if err != nil {
			return fmt.Errorf("failed to list jobs: %w", err)
		}
		for _, rec := range records {
			jobs = append(jobs, matching.RequirementFromRecord(rec))
		}
	}

	recs := matching.Recommend(profile, jobs, recLimit)
	if err := writeJSON(cmd.OutOrStdout(), recOutputFile, recs); err != nil {
		return err
	}

	status(cmd, recOutputFile, "Successfully recommended %d of %d jobs", len(recs), len(jobs))
	return nil
}
