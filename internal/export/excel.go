// Package export writes decision reports to an Excel workbook for recruiters.
package export

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jonathan/applicant-screener/internal/db"
	"github.com/jonathan/applicant-screener/internal/screening"
	"github.com/jonathan/applicant-screener/internal/types"
)

// Sheet names
const (
	SummarySheet  = "Summary"
	ReportsSheet  = "Ranked Applicants"
	FeedbackSheet = "Feedback"
)

// Row is one evaluated application.
type Row struct {
	ApplicationID string               `json:"application_id"`
	JobID         string               `json:"job_id,omitempty"`
	Report        types.DecisionReport `json:"report"`
}

// FromRanked converts a batch ranking for jobID into rows.
func FromRanked(jobID string, ranked []screening.RankedReport) []Row {
	rows := make([]Row, 0, len(ranked))
	for _, r := range ranked {
		rows = append(rows, Row{ApplicationID: r.ApplicantID, JobID: jobID, Report: r.Report})
	}
	return rows
}

// FromStored converts persisted reports into rows.
func FromStored(stored []db.StoredReport) []Row {
	rows := make([]Row, 0, len(stored))
	for _, s := range stored {
		rows = append(rows, Row{ApplicationID: s.ApplicationID, JobID: s.JobID, Report: s.Report})
	}
	return rows
}

// Workbook builds the workbook. Rows are ranked by overall score, highest first.
// The caller owns the returned file and must Close it.
func Workbook(rows []Row, generated time.Time) (*excelize.File, error) {
	ranked := make([]Row, len(rows))
	copy(ranked, rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Report.OverallScore > ranked[j].Report.OverallScore
	})

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		_ = f.Close()
		return nil, err
	}
	for _, name := range []string{ReportsSheet, FeedbackSheet} {
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	if err := writeSummary(f, ranked, generated); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeReports(f, ranked); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create ranked applicants sheet: %w", err)
	}
	if err := writeFeedback(f, ranked); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create feedback sheet: %w", err)
	}
	return f, nil
}

// WriteFile saves the workbook to path, adding the .xlsx extension when missing.
func WriteFile(rows []Row, path string, generated time.Time) (string, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	f, err := Workbook(rows, generated)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return path, nil
}

// Bytes renders the workbook in memory.
func Bytes(rows []Row, generated time.Time) ([]byte, error) {
	f, err := Workbook(rows, generated)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

func writeSummary(f *excelize.File, rows []Row, generated time.Time) error {
	header, err := headerStyle(f)
	if err != nil {
		return err
	}
	label, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	_ = f.SetColWidth(SummarySheet, "A", "A", 28)
	_ = f.SetColWidth(SummarySheet, "B", "B", 24)

	counts := map[types.Decision]int{}
	total := 0
	for _, r := range rows {
		counts[r.Report.Decision]++
		total += r.Report.OverallScore
	}
	average := 0.0
	if len(rows) > 0 {
		average = float64(total) / float64(len(rows))
	}

	_ = f.SetCellValue(SummarySheet, "A1", "Screening Report")
	_ = f.MergeCell(SummarySheet, "A1", "B1")
	_ = f.SetCellStyle(SummarySheet, "A1", "B1", header)

	entries := []struct {
		label string
		value any
	}{
		{"Generated:", generated.Format("2006-01-02 15:04:05")},
		{"Applications:", len(rows)},
		{"Approved:", counts[types.DecisionApproved]},
		{"Under review:", counts[types.DecisionUnderReview]},
		{"Rejected:", counts[types.DecisionRejected]},
		{"Average score:", fmt.Sprintf("%.2f", average)},
	}
	for i, e := range entries {
		row := i + 3
		_ = f.SetCellValue(SummarySheet, cell("A", row), e.label)
		_ = f.SetCellStyle(SummarySheet, cell("A", row), cell("A", row), label)
		_ = f.SetCellValue(SummarySheet, cell("B", row), e.value)
	}
	return nil
}

var reportColumns = []struct {
	title string
	width float64
}{
	{"Rank", 8},
	{"Application", 24},
	{"Job", 16},
	{"Overall", 10},
	{"Skills", 10},
	{"Experience", 12},
	{"Profile", 10},
	{"ATS", 8},
	{"Decision", 14},
	{"Letter", 12},
}

// decisionFills colors the decision cell.
var decisionFills = map[types.Decision]string{
	types.DecisionApproved:    "C6EFCE",
	types.DecisionUnderReview: "FFEB9C",
	types.DecisionRejected:    "FFC7CE",
}

func writeReports(f *excelize.File, rows []Row) error {
	header, err := headerStyle(f)
	if err != nil {
		return err
	}
	for i, c := range reportColumns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(ReportsSheet, col, col, c.width)
		_ = f.SetCellValue(ReportsSheet, cell(col, 1), c.title)
	}
	_ = f.SetCellStyle(ReportsSheet, "A1", "J1", header)

	styles := map[types.Decision]int{}
	for decision, color := range decisionFills {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return err
		}
		styles[decision] = id
	}

	for i, r := range rows {
		row := i + 2
		rep := r.Report
		values := []any{
			i + 1,
			r.ApplicationID,
			r.JobID,
			rep.OverallScore,
			rep.MatchPercentage,
			rep.ExperienceScore,
			rep.ProfileScore,
			rep.ATSScore,
			string(rep.Decision),
			rep.LetterKind,
		}
		for j, v := range values {
			col, _ := excelize.ColumnNumberToName(j + 1)
			_ = f.SetCellValue(ReportsSheet, cell(col, row), v)
		}
		if style, ok := styles[rep.Decision]; ok {
			_ = f.SetCellStyle(ReportsSheet, cell("I", row), cell("I", row), style)
		}
	}
	return nil
}

func writeFeedback(f *excelize.File, rows []Row) error {
	header, err := headerStyle(f)
	if err != nil {
		return err
	}
	titles := []string{"Application", "Matched Skills", "Missing Skills", "Strengths", "Improvements", "Recommendations"}
	for i, t := range titles {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(FeedbackSheet, col, col, 36)
		_ = f.SetCellValue(FeedbackSheet, cell(col, 1), t)
	}
	_ = f.SetCellStyle(FeedbackSheet, "A1", "F1", header)

	wrap, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return err
	}

	for i, r := range rows {
		row := i + 2
		rep := r.Report
		values := []string{
			r.ApplicationID,
			strings.Join(rep.MatchedSkills, ", "),
			strings.Join(rep.MissingSkills, ", "),
			strings.Join(rep.Feedback.Strengths, "\n"),
			strings.Join(rep.Feedback.Improvements, "\n"),
			strings.Join(rep.Feedback.Recommendations, "\n"),
		}
		for j, v := range values {
			col, _ := excelize.ColumnNumberToName(j + 1)
			_ = f.SetCellValue(FeedbackSheet, cell(col, row), v)
		}
		_ = f.SetCellStyle(FeedbackSheet, cell("A", row), cell("F", row), wrap)
	}
	return nil
}
