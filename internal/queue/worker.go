// Package queue evaluates applications delivered over RabbitMQ and announces
// each decision on a topic exchange.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/applicant-screener/internal/config"
	"github.com/jonathan/applicant-screener/internal/logger"
	"github.com/jonathan/applicant-screener/internal/screening"
	"github.com/jonathan/applicant-screener/internal/types"
)

// Evaluator scores one application.
type Evaluator interface {
	Evaluate(ctx context.Context, profile types.CandidateProfile, job types.JobRequirement) (types.DecisionReport, error)
}

// ReportStore persists decision reports.
type ReportStore interface {
	SaveReport(ctx context.Context, applicationID, jobID string, report types.DecisionReport) (uuid.UUID, error)
}

// Publisher is the publishing half of an AMQP channel.
type Publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Outcome is what the worker did with a delivery.
type Outcome string

// Delivery outcomes
const (
	OutcomeAcked    Outcome = "acked"
	OutcomeRejected Outcome = "rejected"
	OutcomeRequeued Outcome = "requeued"
)

// Worker consumes application messages with a pool of consumers.
type Worker struct {
	conn      *amqp.Connection
	evaluator Evaluator
	store     ReportStore
	cfg       config.QueueConfig
	logger    *zap.Logger
	now       func() time.Time
}

// Dial connects to the broker.
func Dial(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return conn, nil
}

// NewWorker returns a worker. store may be nil, in which case reports are not persisted.
func NewWorker(conn *amqp.Connection, evaluator Evaluator, store ReportStore, cfg config.QueueConfig, log *zap.Logger) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{
		conn:      conn,
		evaluator: evaluator,
		store:     store,
		cfg:       cfg,
		logger:    logger.ForComponent(log, "queue"),
		now:       time.Now,
	}
}

// Run starts cfg.Workers consumers and blocks until ctx is canceled or one of them fails.
func (w *Worker) Run(ctx context.Context) error {
	workers := w.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	w.logger.Info("starting consumer pool",
		zap.Int("workers", workers),
		zap.String("queue", w.cfg.Queue),
	)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		id := i + 1
		g.Go(func() error {
			return w.consume(ctx, id)
		})
	}
	return g.Wait()
}

// consume runs a single consumer on its own channel.
func (w *Worker) consume(ctx context.Context, id int) error {
	ch, err := w.conn.Channel()
	if err != nil {
		return fmt.Errorf("worker %d: failed to open channel: %w", id, err)
	}
	defer func() { _ = ch.Close() }()

	if err := Declare(ch, w.cfg); err != nil {
		return fmt.Errorf("worker %d: %w", id, err)
	}
	if err := ch.Qos(w.cfg.Prefetch, 0, false); err != nil {
		return fmt.Errorf("worker %d: failed to set prefetch: %w", id, err)
	}

	msgs, err := ch.Consume(
		w.cfg.Queue,
		fmt.Sprintf("screener-%d", id),
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("worker %d: failed to consume: %w", id, err)
	}

	log := w.logger.With(zap.Int("worker", id))
	log.Debug("consumer started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("worker %d: delivery channel closed", id)
			}
			w.Handle(ctx, ch, d)
		}
	}
}

// Declarer is the subset of an AMQP channel used to declare topology.
type Declarer interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
}

// Declare creates the durable application queue and the decision topic exchange.
func Declare(ch Declarer, cfg config.QueueConfig) error {
	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", cfg.Queue, err)
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}
	return nil
}

// Handle processes one delivery and acknowledges it. Malformed or invalid
// applications are rejected without requeue; storage failures are requeued once.
func (w *Worker) Handle(ctx context.Context, pub Publisher, d amqp.Delivery) Outcome {
	headers, err := DecodeHeaders(d.Headers)
	if err != nil {
		w.logger.Warn("ignoring unreadable headers", zap.Error(err))
	}

	var msg ApplicationMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		w.logger.Warn("rejecting malformed message", zap.Error(err))
		return w.settle(d, OutcomeRejected)
	}
	if msg.ApplicationID == "" {
		w.logger.Warn("rejecting message without application id")
		return w.settle(d, OutcomeRejected)
	}

	log := w.logger.With(
		zap.String(logger.FieldApplication, msg.ApplicationID),
		zap.String("source", headers.Source),
	)

	report, err := w.evaluator.Evaluate(ctx, msg.Profile, msg.Job)
	if err != nil {
		var inputErr *screening.InputError
		if errors.As(err, &inputErr) {
			log.Warn("rejecting invalid application", zap.Error(err))
			return w.settle(d, OutcomeRejected)
		}
		log.Error("evaluation failed", zap.Error(err))
		return w.settle(d, OutcomeRequeued)
	}

	var reportID string
	if w.store != nil {
		id, err := w.store.SaveReport(ctx, msg.ApplicationID, msg.Job.ID, report)
		if err != nil {
			log.Error("failed to save report", zap.Error(err))
			if d.Redelivered {
				return w.settle(d, OutcomeRejected)
			}
			return w.settle(d, OutcomeRequeued)
		}
		reportID = id.String()
	}

	event := DecisionEvent{
		ApplicationID: msg.ApplicationID,
		JobID:         msg.Job.ID,
		ReportID:      reportID,
		Decision:      report.Decision,
		OverallScore:  report.OverallScore,
		LetterKind:    report.LetterKind,
		Timestamp:     w.now().UTC(),
	}
	if err := w.publish(pub, event); err != nil {
		log.Warn("failed to publish decision", zap.Error(err))
	}

	log.Info("application evaluated",
		zap.String(logger.FieldDecision, string(report.Decision)),
		zap.Int(logger.FieldScore, report.OverallScore),
	)
	return w.settle(d, OutcomeAcked)
}

func (w *Worker) publish(pub Publisher, event DecisionEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return pub.Publish(
		w.cfg.Exchange,
		event.RoutingKey(),
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    event.Timestamp,
			Body:         body,
		},
	)
}

func (w *Worker) settle(d amqp.Delivery, outcome Outcome) Outcome {
	var err error
	switch outcome {
	case OutcomeAcked:
		err = d.Ack(false)
	case OutcomeRequeued:
		err = d.Nack(false, true)
	default:
		err = d.Nack(false, false)
	}
	if err != nil {
		w.logger.Warn("failed to settle delivery",
			zap.String("outcome", string(outcome)),
			zap.Error(err),
		)
	}
	return outcome
}
