package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/applicant-screener/internal/postings"
)

var importJobCmd = &cobra.Command{
	Use:   "import-job",
	Short: "Import a job posting from a URL",
	Long:  "Fetch a job posting page (Greenhouse, Lever, Workday or any HTML page), extract its text and derive the required skills and minimum experience.",
	RunE:  runImportJob,
}

var (
	importURL        string
	importUseBrowser bool
	importSave       bool
	importLocation   string
	importOutputFile string
)

func init() {
	importJobCmd.Flags().StringVar(&importURL, "url", "", "Job posting URL (required)")
	importJobCmd.Flags().BoolVar(&importUseBrowser, "use-browser", false, "Render the page with headless Chrome when static content is too short")
	importJobCmd.Flags().BoolVar(&importSave, "save", false, "Save the job to the database")
	importJobCmd.Flags().StringVar(&importLocation, "location", "", "Location stored with the job")
	importJobCmd.Flags().StringVarP(&importOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	_ = importJobCmd.MarkFlagRequired("url")

	rootCmd.AddCommand(importJobCmd)
}

func runImportJob(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	importer := postings.NewImporter(cfg.Postings, nil)
	posting, err := importer.Import(ctx, importURL, importUseBrowser)
	if err != nil {
		return fmt.Errorf("failed to import job: %w", err)
	}

	if err := writeJSON(cmd.OutOrStdout(), importOutputFile, posting); err != nil {
		return err
	}

	if importSave {
		database, err := connectDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer database.Close()
		if err := database.UpsertJob(ctx, posting.Requirement, importLocation); err != nil {
			return fmt.Errorf("failed to save job: %w", err)
		}
		status(cmd, importOutputFile, "Saved job %s", posting.Requirement.ID)
	}

	status(cmd, importOutputFile, "Successfully imported job posting (%s, %d skills)", posting.Platform, len(posting.Requirement.Skills))
	return nil
}
