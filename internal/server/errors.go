// Package server exposes the screening core over a JSON HTTP API.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/applicant-screener/internal/postings"
	"github.com/jonathan/applicant-screener/internal/screening"
	"github.com/jonathan/applicant-screener/internal/storage"
)

// ErrValidation indicates a malformed request.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnavailable indicates a request needs a backend that is not configured.
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not configured", e.Feature)
}

// HTTPStatus returns the status code for an error.
func HTTPStatus(err error) int {
	var (
		validation  *ErrValidation
		input       *screening.InputError
		unavailable *ErrUnavailable
		download    *storage.DownloadError
		fetch       *postings.FetchError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &input):
		return http.StatusBadRequest
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &fetch):
		if fetch.Message == "invalid URL" {
			return http.StatusBadRequest
		}
		return http.StatusBadGateway
	case errors.As(err, &download):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
