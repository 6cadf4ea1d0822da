package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/crewstack/auth-backend/internal/mailer"
	"github.com/crewstack/auth-backend/internal/models"
	"github.com/crewstack/auth-backend/pkg/queue"
)

// Mailer delivers one mail.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogStore records delivery attempts.
type LogStore interface {
	Insert(ctx context.Context, el *models.EmailLog) error
}

// JobQueue supplies mail jobs and handles retries.
type JobQueue interface {
	Dequeue(ctx context.Context) (*queue.Job, error)
	Retry(ctx context.Context, job *queue.Job) error
}

// MailProcessor consumes the email queue: render template, deliver via SMTP,
// record the outcome. Delivery failures are retried by the queue and never
// touch entity state.
type MailProcessor struct {
	mailer Mailer
	logs   LogStore
	queue  JobQueue
	logger *zap.Logger
}

// NewMailProcessor creates a mail delivery processor.
func NewMailProcessor(m Mailer, logs LogStore, q JobQueue, logger *zap.Logger) *MailProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MailProcessor{mailer: m, logs: logs, queue: q, logger: logger}
}

// Process executes one email job.
func (p *MailProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeEmail {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.EmailPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	subject, body, err := mailer.Render(payload.EmailType)
	if err != nil {
		return err
	}

	sendErr := p.mailer.Send(ctx, payload.RecipientEmail, subject, body)

	now := time.Now().Unix()
	log := &models.EmailLog{
		EmailType:      payload.EmailType,
		RecipientEmail: payload.RecipientEmail,
		Subject:        subject,
		Status:         models.EmailStatusSent,
		SentAt:         now,
		CreatedAt:      now,
	}
	if sendErr != nil {
		log.Status = models.EmailStatusFailed
		log.ErrorMessage = sendErr.Error()
		log.SentAt = 0
	}
	if err := p.logs.Insert(ctx, log); err != nil {
		p.logger.Warn("email log insert failed", zap.Error(err), zap.String("job_id", job.ID))
	}

	if sendErr != nil {
		return fmt.Errorf("deliver mail: %w", sendErr)
	}
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error. It returns
// once ctx is cancelled, including mid-backoff.
func (p *MailProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("mail worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				p.logger.Info("mail worker stopping")
				return
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			if !p.backoff(ctx) {
				return
			}
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			if !p.backoff(ctx) {
				return
			}
		}
	}
}

// backoff waits out RetryBackoff, returning false if ctx was cancelled first.
func (p *MailProcessor) backoff(ctx context.Context) bool {
	timer := time.NewTimer(queue.RetryBackoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		p.logger.Info("mail worker stopping")
		return false
	case <-timer.C:
		return true
	}
}
