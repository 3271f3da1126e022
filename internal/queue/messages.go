package queue

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/streadway/amqp"

	"github.com/jonathan/applicant-screener/internal/types"
)

// ApplicationMessage asks the worker to evaluate one application.
type ApplicationMessage struct {
	ApplicationID string                 `json:"application_id"`
	Profile       types.CandidateProfile `json:"profile"`
	Job           types.JobRequirement   `json:"job"`
}

// DecisionEvent is published once an application has been evaluated.
type DecisionEvent struct {
	ApplicationID string         `json:"application_id"`
	JobID         string         `json:"job_id,omitempty"`
	ReportID      string         `json:"report_id,omitempty"`
	Decision      types.Decision `json:"decision"`
	OverallScore  int            `json:"overall_score"`
	LetterKind    string         `json:"letter_kind,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
}

// RoutingKey returns the topic the event is published under, e.g. application.approved.
func (e DecisionEvent) RoutingKey() string {
	return "application." + string(e.Decision)
}

// Headers are the optional AMQP headers producers attach to an application message.
type Headers struct {
	Source      string `mapstructure:"source"`
	SubmittedBy string `mapstructure:"submitted_by"`
	Attempt     int    `mapstructure:"attempt"`
}

// DecodeHeaders maps an AMQP header table onto Headers. Numeric values of any
// AMQP integer width and numeric strings are accepted.
func DecodeHeaders(table amqp.Table) (Headers, error) {
	var h Headers
	if len(table) == 0 {
		return h, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &h,
	})
	if err != nil {
		return h, fmt.Errorf("failed to build header decoder: %w", err)
	}
	if err := decoder.Decode(map[string]interface{}(table)); err != nil {
		return h, fmt.Errorf("failed to decode headers: %w", err)
	}
	return h, nil
}
