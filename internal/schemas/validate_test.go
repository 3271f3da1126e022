package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/applicant-screener/internal/config"
	"github.com/jonathan/applicant-screener/internal/decision"
	"github.com/jonathan/applicant-screener/internal/extraction"
	"github.com/jonathan/applicant-screener/internal/screening"
	"github.com/jonathan/applicant-screener/internal/types"
)

func TestValidateJSON(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")

	tests := []struct {
		name       string
		jsonFile   string
		wantErrors int
	}{
		{name: "valid document", jsonFile: "valid_json.json"},
		{name: "missing required field", jsonFile: "invalid_json.json", wantErrors: 1},
		{name: "wrong type and range", jsonFile: "type_mismatch.json", wantErrors: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON(schemaPath, filepath.Join("testdata", tt.jsonFile))
			if tt.wantErrors == 0 {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Len(t, verr.Errors, tt.wantErrors)
		})
	}
}

func TestValidateJSON_MissingFiles(t *testing.T) {
	err := ValidateJSON("testdata/nonexistent_schema.json", filepath.Join("testdata", "valid_json.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema file not found")

	err = ValidateJSON(filepath.Join("testdata", "valid_schema.json"), "testdata/nonexistent_json.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON file not found")
}

func TestValidateJSON_MalformedDocument(t *testing.T) {
	malformed := filepath.Join(t.TempDir(), "malformed.json")
	require.NoError(t, os.WriteFile(malformed, []byte("{ invalid json }"), 0644))

	err := ValidateJSON(filepath.Join("testdata", "valid_schema.json"), malformed)
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestValidateJSONString(t *testing.T) {
	schema := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["decision"],
		"properties": {
			"decision": {"enum": ["approved", "rejected", "under_review"]}
		}
	}`

	assert.NoError(t, ValidateJSONString(schema, `{"decision": "approved"}`))

	err := ValidateJSONString(schema, `{"decision": "pending"}`)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "decision", verr.Errors[0].Field)

	err = ValidateJSONString(schema, `{}`)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "(root)", verr.Errors[0].Field)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "skills", Message: "is required"},
		{Field: "experience_years", Message: "must be >= 0"},
	}}

	msg := err.Error()
	assert.Contains(t, msg, "validation failed")
	assert.Contains(t, msg, "1. skills: is required")
	assert.Contains(t, msg, "2. experience_years")
}

func TestResolveSchemaPath(t *testing.T) {
	assert.NotEmpty(t, ResolveSchemaPath(DecisionReport))
	assert.Empty(t, ResolveSchemaPath("schemas/does_not_exist.schema.json"))
}

func TestRepositorySchemas_AcceptEngineOutput(t *testing.T) {
	engine, err := decision.NewEngine(config.Default().Scoring)
	require.NoError(t, err)

	for _, decided := range []types.CandidateProfile{
		{},
		{Skills: []string{"python", "flask", "sql"}, ExperienceYears: 2},
		{Skills: []string{"go", "docker"}, ExperienceYears: 9, HasHeadline: true, HasBio: true},
	} {
		job := types.JobRequirement{Skills: []string{"python", "flask", "docker", "aws", "go", "redis", "react"}, MinYears: 3}
		report := engine.Decide(decided, job)
		assert.NoError(t, ValidateValue(ResolveSchemaPath(DecisionReport), report))
		assert.NoError(t, ValidateValue(ResolveSchemaPath(CandidateProfile), decided))
		assert.NoError(t, ValidateValue(ResolveSchemaPath(JobRequirement), job))
	}

	extracted := extraction.New(nil).FromBytes("resume.txt", []byte("Go developer, 3 years of experience. jane@example.com"))
	parsed := screening.Parse(extracted)
	assert.NoError(t, ValidateValue(ResolveSchemaPath(ParseResult), parsed))
}
