package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticValidator map[string]string

func (v staticValidator) ValidateToken(token string) (string, error) {
	subject, ok := v[token]
	if !ok {
		return "", errors.New("invalid token")
	}
	return subject, nil
}

func protected(t *testing.T, called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		if r.URL.Path != "/health" {
			subject, err := Subject(r)
			require.NoError(t, err)
			w.Header().Set("X-Subject", subject)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	validator := staticValidator{"good-token": "recruiting-portal"}

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantCalled bool
	}{
		{"valid token", "/evaluate", "Bearer good-token", http.StatusOK, true},
		{"lowercase scheme", "/evaluate", "bearer good-token", http.StatusOK, true},
		{"missing header", "/evaluate", "", http.StatusUnauthorized, false},
		{"wrong scheme", "/evaluate", "Basic good-token", http.StatusUnauthorized, false},
		{"extra parts", "/evaluate", "Bearer good-token extra", http.StatusUnauthorized, false},
		{"unknown token", "/evaluate", "Bearer bad-token", http.StatusUnauthorized, false},
		{"exempt path", "/health", "", http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := AuthMiddleware(validator, "/health")(protected(t, &called))

			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCalled, called)
			if tt.wantStatus == http.StatusOK && tt.path != "/health" {
				assert.Equal(t, "recruiting-portal", w.Header().Get("X-Subject"))
			}
			if tt.wantStatus == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"unauthorized"}`, w.Body.String())
			}
		})
	}
}

func TestAuthMiddleware_PreflightPassesThrough(t *testing.T) {
	called := false
	handler := AuthMiddleware(staticValidator{})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/evaluate", nil))
	assert.True(t, called)
}

func TestSubject_Missing(t *testing.T) {
	_, err := Subject(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Error(t, err)
}
