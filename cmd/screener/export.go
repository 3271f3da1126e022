package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/applicant-screener/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export decision reports to an Excel workbook",
	Long:  "Write decision reports to an .xlsx workbook with a summary sheet, the ranked applicants and their feedback. Reports come from a JSON file or from the database by job.",
	RunE:  runExport,
}

var (
	exportReports    string
	exportJobID      string
	exportOutputFile string
)

func init() {
	exportCmd.Flags().StringVar(&exportReports, "reports", "", "Path to a JSON array of {application_id, job_id, report}")
	exportCmd.Flags().StringVar(&exportJobID, "job-id", "", "Export the stored reports of this job")
	exportCmd.Flags().StringVarP(&exportOutputFile, "out", "o", "", "Path to output workbook (required)")
	_ = exportCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	if (exportReports == "") == (exportJobID == "") {
		return errors.New("provide exactly one of --reports or --job-id")
	}

	var rows []export.Row
	if exportReports != "" {
		if err := readJSON(exportReports, "", &rows); err != nil {
			return err
		}
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := context.Background()
		database, err := connectDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		stored, err := database.ListReportsForJob(ctx, exportJobID)
		if err != nil {
			return fmt.Errorf("failed to list reports: %w", err)
		}
		rows = export.FromStored(stored)
	}

	path, err := export.WriteFile(rows, exportOutputFile, time.Now())
	if err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully exported %d reports\n", len(rows))
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Output: %s\n", path)
	return nil
}
