package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score one candidate against one job and recommend a decision",
	Long:  "Evaluate a candidate profile against a job requirement and write the DecisionReport: component scores, the approve/review/reject decision, the letter kind and feedback.",
	RunE:  runEvaluate,
}

var (
	evalProfile       string
	evalResume        string
	evalCandidateID   string
	evalJob           string
	evalJobID         string
	evalApplicationID string
	evalSave          bool
	evalOutputFile    string
)

func init() {
	evaluateCmd.Flags().StringVar(&evalProfile, "profile", "", "Path to candidate profile JSON")
	evaluateCmd.Flags().StringVar(&evalResume, "resume", "", "Path to a resume document to parse into the profile")
	evaluateCmd.Flags().StringVar(&evalCandidateID, "candidate-id", "", "Load the candidate from the database")
	evaluateCmd.Flags().StringVar(&evalJob, "job", "", "Path to job requirement JSON")
	evaluateCmd.Flags().StringVar(&evalJobID, "job-id", "", "Load the job from the database")
	evaluateCmd.Flags().StringVar(&evalApplicationID, "application-id", "", "Application ID used when saving the report")
	evaluateCmd.Flags().BoolVar(&evalSave, "save", false, "Save the report to the database (requires --application-id)")
	evaluateCmd.Flags().StringVarP(&evalOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")

	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	src := profileSource{ProfilePath: evalProfile, ResumePath: evalResume, CandidateID: evalCandidateID}
	if err := src.validate(); err != nil {
		return err
	}
	if evalSave && evalApplicationID == "" {
		return fmt.Errorf("--save requires --application-id")
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
	job, err := loadJob(ctx, evalJob, evalJobID, store)
	if err != nil {
		return err
	}

	report, err := svc.Evaluate(ctx, profile, job)
	if err != nil {
		return err
	}

	if err := writeJSON(cmd.OutOrStdout(), evalOutputFile, report); err != nil {
		return err
	}

	if evalSave {
		database, err := store.get(ctx)
		if err != nil {
			return err
		}
		id, err := database.SaveReport(ctx, evalApplicationID, job.ID, report)
		if err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		status(cmd, evalOutputFile, "Saved report %s", id)
	}

	status(cmd, evalOutputFile, "Successfully evaluated candidate: %s (overall %d)", report.Decision, report.OverallScore)
	return nil
}
