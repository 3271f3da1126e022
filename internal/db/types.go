package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/applicant-screener/internal/types"
)

// StoredReport is a persisted decision report.
type StoredReport struct {
	ID            uuid.UUID            `json:"id"`
	ApplicationID string               `json:"application_id"`
	JobID         string               `json:"job_id"`
	Report        types.DecisionReport `json:"report"`
	CreatedAt     time.Time            `json:"created_at"`
}
