package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"travel-marketplace-backend/internal/logger"
)

var ErrEmailQueueFull = errors.New("email queue is full")

// EmailJob is one decision e-mail waiting for delivery.
type EmailJob struct {
	Email   string
	Name    string
	Subject string
	Message string
	Retries int
}

// EmailQueue hands e-mails to a pool of workers. It satisfies EmailService; sends are
// accepted while the buffer has room and fail fast with ErrEmailQueueFull otherwise.
type EmailQueue struct {
	sender     EmailService
	jobs       chan EmailJob
	workers    int
	maxRetries int
	backoff    time.Duration

	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewEmailQueue(sender EmailService, workers, queueSize, maxRetries int, backoff time.Duration) *EmailQueue {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	if backoff <= 0 {
		backoff = time.Second
	}
	return &EmailQueue{
		sender:     sender,
		jobs:       make(chan EmailJob, queueSize),
		workers:    workers,
		maxRetries: maxRetries,
		backoff:    backoff,
	}
}

// Start launches the workers. They run until ctx is done or Stop is called.
func (q *EmailQueue) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	q.mu.Lock()
	q.cancel = cancel
	q.mu.Unlock()

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, i)
	}
}

// Stop cancels the workers and waits for in-flight sends to finish. Jobs still buffered are dropped.
func (q *EmailQueue) Stop() {
	q.mu.Lock()
	q.stopped = true
	cancel := q.cancel
	q.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	q.wg.Wait()
}

func (q *EmailQueue) SendDecisionNotification(ctx context.Context, email, name, subject, message string) error {
	return q.Enqueue(EmailJob{Email: email, Name: name, Subject: subject, Message: message})
}

// Enqueue never blocks.
func (q *EmailQueue) Enqueue(job EmailJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped {
		return ErrEmailQueueFull
	}
	select {
	case q.jobs <- job:
		return nil
	default:
		logger.Warn("Email queue is full, dropping message", "to", job.Email, "subject", job.Subject)
		return ErrEmailQueueFull
	}
}

// Pending reports how many jobs are buffered.
func (q *EmailQueue) Pending() int {
	return len(q.jobs)
}

func (q *EmailQueue) worker(ctx context.Context, id int) {
	defer q.wg.Done()
	logger.Debug("Email worker started", "worker", id)
	for {
		select {
		case <-ctx.Done():
			logger.Debug("Email worker stopping", "worker", id)
			return
		case job := <-q.jobs:
			q.process(ctx, job)
		}
	}
}

func (q *EmailQueue) process(ctx context.Context, job EmailJob) {
	err := q.sender.SendDecisionNotification(ctx, job.Email, job.Name, job.Subject, job.Message)
	if err == nil {
		return
	}
	if job.Retries >= q.maxRetries {
		logger.Error("Email delivery abandoned", "to", job.Email, "subject", job.Subject, "retries", job.Retries, "error", err)
		return
	}

	job.Retries++
	wait := time.Duration(job.Retries*job.Retries) * q.backoff
	logger.Warn("Email delivery failed, retrying", "to", job.Email, "attempt", job.Retries, "maxRetries", q.maxRetries, "in", wait, "error", err)
	time.AfterFunc(wait, func() {
		if ctx.Err() != nil {
			return
		}
		if err := q.Enqueue(job); err != nil {
			logger.Error("Email retry dropped", "to", job.Email, "error", err)
		}
	})
}
