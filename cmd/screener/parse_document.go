package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/applicant-screener/internal/schemas"
	"github.com/jonathan/applicant-screener/internal/screening"
)

var parseDocumentCmd = &cobra.Command{
	Use:   "parse-document",
	Short: "Extract text, signals and an ATS score from a resume",
	Long:  "Parse a PDF, DOCX or plain-text resume into a ParseResult JSON: skills, experience, education, contact details and the ATS compatibility score with feedback.",
	RunE:  runParseDocument,
}

var (
	parseInputFile   string
	parseOutputFile  string
	parseCandidateID string
)

func init() {
	parseDocumentCmd.Flags().StringVarP(&parseInputFile, "in", "i", "", "Path to the resume document (required)")
	parseDocumentCmd.Flags().StringVarP(&parseOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	parseDocumentCmd.Flags().StringVar(&parseCandidateID, "candidate-id", "", "Store the result on this candidate (requires a database)")
	_ = parseDocumentCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(parseDocumentCmd)
}

func runParseDocument(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := os.Stat(parseInputFile); err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	ctx := context.Background()
	var parseCache screening.ParseCache
	if c := connectCache(ctx, cfg, zap.NewNop()); c != nil {
		defer func() { _ = c.Close() }()
		parseCache = c
	}
	svc, err := newService(cfg, nil, parseCache)
	if err != nil {
		return err
	}

	result := svc.ParseDocument(ctx, parseInputFile)

	if schemaPath := schemas.ResolveSchemaPath(schemas.ParseResult); schemaPath != "" {
		if err := schemas.ValidateValue(schemaPath, result); err != nil {
			var validationErr *schemas.ValidationError
			if errors.As(err, &validationErr) {
				return fmt.Errorf("parse result does not validate against schema: %w", err)
			}
			_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not validate output against schema: %v\n", err)
		}
	}

	if err := writeJSON(cmd.OutOrStdout(), parseOutputFile, result); err != nil {
		return err
	}

	if parseCandidateID != "" {
		database, err := connectDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer database.Close()
		if err := database.SaveParsedResume(ctx, parseCandidateID, result); err != nil {
			return fmt.Errorf("failed to save parsed resume: %w", err)
		}
	}

	if !result.Success {
		return errors.New(result.Message)
	}

	status(cmd, parseOutputFile, "Successfully parsed %s (ATS score %d, %d skills)", parseInputFile, result.ATSScore, len(result.Skills))
	return nil
}
