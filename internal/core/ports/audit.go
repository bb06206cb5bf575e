package ports

import (
	"context"

	"github.com/lojinha/storefront-api/internal/core/domain"
)

// AuditRepository appends audit entries to durable storage.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
}

// AuditTrail is the best-effort audit facade used by mutating services.
// Implementations must never block the caller and never surface failures;
// a lost entry is reported to the operational log only.
type AuditTrail interface {
	Create(actorID, subjectTable, subjectID string, payload map[string]any)
	Update(actorID, subjectTable, subjectID string, oldState, newState map[string]any)
	Delete(actorID, subjectTable, subjectID string)
	StatusChange(actorID, subjectTable, subjectID, oldStatus, newStatus, reason string)
}
