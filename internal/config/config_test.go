package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/applicant-screener/internal/types"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, types.DefaultWeights(), cfg.Scoring.Weights)
	assert.Equal(t, 70, cfg.Scoring.ApproveThreshold)
	assert.Equal(t, 40, cfg.Scoring.RejectThreshold)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Queue.Workers)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeConfig(t, "screener.yaml", `
scoring:
  weights:
    skills_match: 0.4
    experience_match: 0.2
    education_match: 0.15
    keywords_match: 0.15
    format_score: 0.1
  approve_threshold: 80
  reject_threshold: 30
server:
  port: 9090
redis:
  ttl: 2h
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.InDelta(t, 0.4, cfg.Scoring.Weights.SkillsMatch, 1e-9)
	assert.Equal(t, 80, cfg.Scoring.ApproveThreshold)
	assert.Equal(t, 30, cfg.Scoring.RejectThreshold)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2*time.Hour, cfg.Redis.TTL)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SCREENER_SCORING_APPROVE_THRESHOLD", "85")
	t.Setenv("SCREENER_SERVER_PORT", "7000")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 85, cfg.Scoring.ApproveThreshold)
	assert.Equal(t, 7000, cfg.Server.Port)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/path/screener.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_WeightsNotSummingToOne(t *testing.T) {
	path := writeConfig(t, "screener.json", `{
		"scoring": {"weights": {"skills_match": 0.5, "experience_match": 0.5, "education_match": 0.5, "keywords_match": 0, "format_score": 0}}
	}`)

	cfg, err := Load(path)
	require.Error(t, err)
	assert.Nil(t, cfg)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "scoring.weights", ve.Field)
	assert.Contains(t, err.Error(), "must sum to 1.0")
}

func TestScoringValidate(t *testing.T) {
	negative := types.DefaultWeights()
	negative.SkillsMatch = -0.1
	negative.ExperienceMatch = 0.7

	tests := []struct {
		name    string
		scoring Scoring
		wantErr string
	}{
		{
			name:    "valid defaults",
			scoring: Default().Scoring,
		},
		{
			name:    "adjacent thresholds are accepted",
			scoring: Scoring{Weights: types.DefaultWeights(), ApproveThreshold: 41, RejectThreshold: 40},
		},
		{
			name:    "equal thresholds leave no review band",
			scoring: Scoring{Weights: types.DefaultWeights(), ApproveThreshold: 50, RejectThreshold: 50},
			wantErr: "must be greater than reject threshold",
		},
		{
			name:    "inverted thresholds",
			scoring: Scoring{Weights: types.DefaultWeights(), ApproveThreshold: 30, RejectThreshold: 60},
			wantErr: "must be greater than reject threshold",
		},
		{
			name:    "threshold out of range",
			scoring: Scoring{Weights: types.DefaultWeights(), ApproveThreshold: 120, RejectThreshold: 40},
			wantErr: "within 0-100",
		},
		{
			name:    "negative weight",
			scoring: Scoring{Weights: negative, ApproveThreshold: 70, RejectThreshold: 40},
			wantErr: "non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.scoring.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestScoringValidate_FirstNegativeWeightReported(t *testing.T) {
	weights := types.ScoringWeights{
		SkillsMatch:     0.6,
		ExperienceMatch: -0.1,
		EducationMatch:  0.3,
		KeywordsMatch:   0.3,
		FormatScore:     -0.1,
	}
	scoring := Scoring{Weights: weights, ApproveThreshold: 70, RejectThreshold: 40}

	for i := 0; i < 20; i++ {
		err := scoring.Validate()
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "scoring.weights.experience_match", ve.Field)
	}
}

func TestValidate_StructTags(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port")
}

func TestValidate_AuthSecretTooShort(t *testing.T) {
	cfg := Default()
	cfg.Auth.Secret = "short"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.secret")
}

func TestLoad_SecretFromFile(t *testing.T) {
	secretPath := writeConfig(t, "jwt.secret", "  0123456789abcdef0123456789abcdef  \n")
	t.Setenv("SCREENER_AUTH_SECRET_FILE", secretPath)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef0123456789abcdef", cfg.Auth.Secret)
	assert.True(t, cfg.Auth.Enabled())
}

func TestLoadSecret(t *testing.T) {
	value, err := LoadSecret(Source{Name: "token", Value: "  inline  "})
	require.NoError(t, err)
	assert.Equal(t, "inline", value)

	_, err = LoadSecret(Source{Name: "token"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token is not configured")

	empty := writeConfig(t, "empty.secret", "   ")
	_, err = LoadSecret(Source{Name: "token", Value: "ignored", File: empty})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is empty")

	_, err = LoadSecret(Source{File: "/nonexistent/secret"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading secret from file")
}
