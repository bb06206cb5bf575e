package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lojinha/storefront-api/internal/api/metrics"
	"github.com/lojinha/storefront-api/internal/core/domain"
	"github.com/lojinha/storefront-api/internal/core/ports"
)

const (
	defaultAuditWorkers = 2
	auditQueueSize      = 512
)

// AuditRecorder dispatches audit entries to persistence on background workers
// so a slow audit sink never sits on the checkout's critical path. The
// contract is strictly best-effort: enqueueing never blocks, a full queue
// drops the entry, and a failed insert is reported to the operational log
// only. Audit problems never fail the business operation they document.
type AuditRecorder struct {
	repo  ports.AuditRepository
	queue chan domain.AuditEntry
	log   zerolog.Logger
	wg    sync.WaitGroup
}

// NewAuditRecorder creates a recorder with numWorkers background writers.
// If numWorkers <= 0, defaultAuditWorkers is used.
func NewAuditRecorder(repo ports.AuditRepository, numWorkers int, log zerolog.Logger) *AuditRecorder {
	if numWorkers <= 0 {
		numWorkers = defaultAuditWorkers
	}
	r := &AuditRecorder{
		repo:  repo,
		queue: make(chan domain.AuditEntry, auditQueueSize),
		log:   log,
	}
	r.wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go r.runWorker(i)
	}
	return r
}

// Close stops accepting entries and waits for queued ones to flush.
func (r *AuditRecorder) Close() {
	close(r.queue)
	r.wg.Wait()
}

// Create records a CREATE entry for a new subject.
func (r *AuditRecorder) Create(actorID, subjectTable, subjectID string, payload map[string]any) {
	r.enqueue(domain.AuditEntry{
		ActorID:      actorID,
		Action:       domain.AuditCreate,
		SubjectTable: subjectTable,
		SubjectID:    subjectID,
		Payload:      payload,
	})
}

// Update records an UPDATE entry with old/new snapshots.
func (r *AuditRecorder) Update(actorID, subjectTable, subjectID string, oldState, newState map[string]any) {
	r.enqueue(domain.AuditEntry{
		ActorID:      actorID,
		Action:       domain.AuditUpdate,
		SubjectTable: subjectTable,
		SubjectID:    subjectID,
		Payload:      map[string]any{"old": oldState, "new": newState},
	})
}

// Delete records a DELETE entry.
func (r *AuditRecorder) Delete(actorID, subjectTable, subjectID string) {
	r.enqueue(domain.AuditEntry{
		ActorID:      actorID,
		Action:       domain.AuditDelete,
		SubjectTable: subjectTable,
		SubjectID:    subjectID,
	})
}

// StatusChange records a STATUS_CHANGE entry with both statuses and the
// caller-supplied reason.
func (r *AuditRecorder) StatusChange(actorID, subjectTable, subjectID, oldStatus, newStatus, reason string) {
	r.enqueue(domain.AuditEntry{
		ActorID:      actorID,
		Action:       domain.AuditStatusChange,
		SubjectTable: subjectTable,
		SubjectID:    subjectID,
		Payload: map[string]any{
			"old_status": oldStatus,
			"new_status": newStatus,
			"reason":     reason,
		},
	})
}

func (r *AuditRecorder) enqueue(entry domain.AuditEntry) {
	entry.CreatedAt = time.Now().UTC()
	select {
	case r.queue <- entry:
		metrics.AuditQueueDepth.Set(float64(len(r.queue)))
	default:
		metrics.AuditDroppedTotal.Inc()
		r.log.Warn().
			Str("action", string(entry.Action)).
			Str("subject", entry.SubjectTable+"/"+entry.SubjectID).
			Msg("audit queue full, entry dropped")
	}
}

func (r *AuditRecorder) runWorker(id int) {
	defer r.wg.Done()
	for entry := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := r.repo.Insert(ctx, &entry)
		cancel()
		if err != nil {
			metrics.AuditWriteErrorsTotal.Inc()
			r.log.Warn().Err(err).
				Int("worker_id", id).
				Str("action", string(entry.Action)).
				Str("subject", entry.SubjectTable+"/"+entry.SubjectID).
				Msg("audit write failed")
		}
	}
}
