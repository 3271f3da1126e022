package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/applicant-screener/internal/export"
	"github.com/jonathan/applicant-screener/internal/screening"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Evaluate and rank every applicant for a job",
	Long:  "Evaluate a JSON array of applicants ({\"id\", \"profile\"}) against one job, highest overall score first. Optionally write the ranking as an Excel workbook.",
	RunE:  runRank,
}

var (
	rankJob        string
	rankJobID      string
	rankApplicants string
	rankOutputFile string
	rankXLSX       string
)

func init() {
	rankCmd.Flags().StringVar(&rankJob, "job", "", "Path to job requirement JSON")
	rankCmd.Flags().StringVar(&rankJobID, "job-id", "", "Load the job from the database")
	rankCmd.Flags().StringVar(&rankApplicants, "applicants", "", "Path to applicants JSON array (required)")
	rankCmd.Flags().StringVarP(&rankOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	rankCmd.Flags().StringVar(&rankXLSX, "xlsx", "", "Also write the ranking to this Excel workbook")
	_ = rankCmd.MarkFlagRequired("applicants")

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
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

	job, err := loadJob(ctx, rankJob, rankJobID, store)
	if err != nil {
		return err
	}

	var applicants []screening.Applicant
	if err := readJSON(rankApplicants, "", &applicants); err != nil {
		return err
	}

	ranked, err := svc.RankApplicants(ctx, job, applicants)
	if err != nil {
		return err
	}

	if err := writeJSON(cmd.OutOrStdout(), rankOutputFile, ranked); err != nil {
		return err
	}

	if rankXLSX != "" {
		path, err := export.WriteFile(export.FromRanked(job.ID, ranked), rankXLSX, time.Now())
		if err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
		status(cmd, rankOutputFile, "Workbook: %s", path)
	}

	status(cmd, rankOutputFile, "Successfully ranked %d applicants", len(ranked))
	return nil
}
