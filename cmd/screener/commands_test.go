package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/applicant-screener/internal/config"
	"github.com/jonathan/applicant-screener/internal/decision"
	"github.com/jonathan/applicant-screener/internal/screening"
	"github.com/jonathan/applicant-screener/internal/server"
	"github.com/jonathan/applicant-screener/internal/types"
)

// resetFlags restores every flag to its default so commands can run repeatedly in one process.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name string, v any) string {
	t.Helper()
	var data []byte
	switch content := v.(type) {
	case string:
		data = []byte(content)
	default:
		var err error
		data, err = json.Marshal(content)
		require.NoError(t, err)
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

var (
	testProfile = types.CandidateProfile{
		Skills:          []string{"python", "flask"},
		ExperienceYears: 4,
		Education:       []string{"bachelor"},
		Contact:         types.Contact{Email: "dev@example.com"},
		HasHeadline:     true,
	}
	testJob = types.JobRequirement{ID: "job-42", Title: "Backend Engineer", Skills: []string{"Python", "Flask", "Docker"}, MinYears: 3}
)

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "screener dev\n", out)
}

func TestEvaluateCommand(t *testing.T) {
	dir := t.TempDir()
	profilePath := writeFile(t, dir, "profile.json", testProfile)
	jobPath := writeFile(t, dir, "job.json", testJob)
	outPath := filepath.Join(dir, "report.json")

	out, err := executeCommand(t, "evaluate", "--profile", profilePath, "--job", jobPath, "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully evaluated candidate")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var got types.DecisionReport
	require.NoError(t, json.Unmarshal(data, &got))

	engine, err := decision.NewEngine(config.Default().Scoring)
	require.NoError(t, err)
	assert.Equal(t, engine.Decide(testProfile, testJob), got)
}

func TestEvaluateCommand_Stdout(t *testing.T) {
	dir := t.TempDir()
	profilePath := writeFile(t, dir, "profile.json", testProfile)
	jobPath := writeFile(t, dir, "job.json", testJob)

	out, err := executeCommand(t, "evaluate", "--profile", profilePath, "--job", jobPath)
	require.NoError(t, err)
	assert.Contains(t, out, `"overall_score"`)
}

func TestEvaluateCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	profilePath := writeFile(t, dir, "profile.json", testProfile)
	jobPath := writeFile(t, dir, "job.json", testJob)
	negative := writeFile(t, dir, "negative.json", `{"skills": ["go"], "experience_years": -1}`)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no profile source", []string{"evaluate", "--job", jobPath}, "exactly one of --profile"},
		{"two profile sources", []string{"evaluate", "--profile", profilePath, "--resume", "cv.pdf", "--job", jobPath}, "exactly one of --profile"},
		{"no job", []string{"evaluate", "--profile", profilePath}, "exactly one of --job"},
		{"schema violation", []string{"evaluate", "--profile", negative, "--job", jobPath}, "does not validate against schema"},
		{"save without application", []string{"evaluate", "--profile", profilePath, "--job", jobPath, "--save"}, "--save requires --application-id"},
		{"missing file", []string{"evaluate", "--profile", filepath.Join(dir, "nope.json"), "--job", jobPath}, "failed to read"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseDocumentCommand(t *testing.T) {
	dir := t.TempDir()
	resume := writeFile(t, dir, "resume.txt", "Sam Lee\nsam@example.com\n6 years of experience building Django and PostgreSQL services\nMaster of Science\n")
	outPath := filepath.Join(dir, "parsed.json")

	out, err := executeCommand(t, "parse-document", "--in", resume, "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully parsed")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var result types.ParseResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.True(t, result.Success)
	assert.Equal(t, []string{"django", "postgresql"}, result.Skills)
	assert.Equal(t, 6, result.ExperienceYears)
}

func TestParseDocumentCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	blank := writeFile(t, dir, "blank.txt", "  \n ")

	_, err := executeCommand(t, "parse-document", "--in", blank, "--out", filepath.Join(dir, "out.json"))
	require.Error(t, err)
	assert.Equal(t, screening.MessageNoText, err.Error())

	_, err = executeCommand(t, "parse-document", "--in", filepath.Join(dir, "missing.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read input file")

	_, err = executeCommand(t, "parse-document")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestRankCommand(t *testing.T) {
	dir := t.TempDir()
	jobPath := writeFile(t, dir, "job.json", testJob)
	applicants := []screening.Applicant{
		{ID: "weak", Profile: types.CandidateProfile{Skills: []string{"java"}, Education: []string{}}},
		{ID: "strong", Profile: types.CandidateProfile{Skills: []string{"python", "flask", "docker"}, ExperienceYears: 5, Education: []string{"bachelor"}}},
	}
	applicantsPath := writeFile(t, dir, "applicants.json", applicants)
	outPath := filepath.Join(dir, "ranked.json")
	xlsxPath := filepath.Join(dir, "ranking")

	out, err := executeCommand(t, "rank", "--job", jobPath, "--applicants", applicantsPath, "--out", outPath, "--xlsx", xlsxPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully ranked 2 applicants")
	assert.Contains(t, out, "ranking.xlsx")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var ranked []screening.RankedReport
	require.NoError(t, json.Unmarshal(data, &ranked))
	require.Len(t, ranked, 2)
	assert.Equal(t, "strong", ranked[0].ApplicantID)
	assert.Equal(t, "weak", ranked[1].ApplicantID)

	_, err = os.Stat(xlsxPath + ".xlsx")
	assert.NoError(t, err)
}

func TestRecommendCommand(t *testing.T) {
	dir := t.TempDir()
	profilePath := writeFile(t, dir, "profile.json", testProfile)
	jobsPath := writeFile(t, dir, "jobs.json", []types.JobRequirement{
		{ID: "data", Skills: []string{"pandas", "spark"}, MinYears: 8},
		testJob,
	})
	outPath := filepath.Join(dir, "recs.json")

	out, err := executeCommand(t, "recommend", "--profile", profilePath, "--jobs", jobsPath, "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully recommended 1 of 2 jobs")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var recs []types.Recommendation
	require.NoError(t, json.Unmarshal(data, &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "job-42", recs[0].JobID)
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	rows := []map[string]any{{
		"application_id": "app-1",
		"job_id":         "job-42",
		"report": types.DecisionReport{
			OverallScore: 72,
			Decision:     types.DecisionApproved,
			LetterKind:   types.LetterOffer,
		},
	}}
	reportsPath := writeFile(t, dir, "reports.json", rows)
	outPath := filepath.Join(dir, "reports.xlsx")

	out, err := executeCommand(t, "export", "--reports", reportsPath, "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully exported 1 reports")

	_, err = os.Stat(outPath)
	assert.NoError(t, err)

	_, err = executeCommand(t, "export", "--out", outPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of --reports or --job-id")
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("SCREENER_AUTH_SECRET", "")
	t.Setenv("SCREENER_AUTH_SECRET_FILE", "")
	_, err := executeCommand(t, "token", "--subject", "careers-portal")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth secret is not configured")

	secret := "0123456789abcdef0123456789abcdef"
	t.Setenv("SCREENER_AUTH_SECRET", secret)

	out, err := executeCommand(t, "token", "--subject", "careers-portal")
	require.NoError(t, err)

	subject, err := server.NewJWTService(config.AuthConfig{Secret: secret, ExpirationHours: 1}).ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "careers-portal", subject)
}

func TestDatabaseCommandsRequireConfig(t *testing.T) {
	t.Setenv("SCREENER_DATABASE_URL", "")
	t.Setenv("SCREENER_DATABASE_URL_FILE", "")
	dir := t.TempDir()
	profilePath := writeFile(t, dir, "profile.json", testProfile)

	_, err := executeCommand(t, "evaluate", "--profile", profilePath, "--job-id", "job-42")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is not configured")

	_, err = executeCommand(t, "export", "--job-id", "job-42", "--out", filepath.Join(dir, "x.xlsx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is not configured")
}
