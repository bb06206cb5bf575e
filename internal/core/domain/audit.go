package domain

import "time"

// AuditAction classifies a mutation recorded in the audit trail.
type AuditAction string

const (
	AuditCreate       AuditAction = "CREATE"
	AuditUpdate       AuditAction = "UPDATE"
	AuditDelete       AuditAction = "DELETE"
	AuditStatusChange AuditAction = "STATUS_CHANGE"
)

// AuditEntry records who changed what. Entries are append-only; nothing in the
// system mutates or deletes them after insertion.
type AuditEntry struct {
	ID           string         `json:"id" bson:"_id,omitempty"`
	ActorID      string         `json:"actor_id" bson:"actor_id"`
	Action       AuditAction    `json:"action" bson:"action"`
	SubjectTable string         `json:"subject_table" bson:"subject_table"`
	SubjectID    string         `json:"subject_id" bson:"subject_id"`
	Payload      map[string]any `json:"payload,omitempty" bson:"payload,omitempty"`
	CreatedAt    time.Time      `json:"created_at" bson:"created_at"`
}
