package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lojinha/storefront-api/internal/core/domain"
)

const collectionAudit = "audit_entries"

// AuditRepository appends entries to the audit_entries collection. The
// collection is insert-only; nothing in the codebase updates or deletes it.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAudit)}
}

func (r *AuditRepository) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	doc := bson.M{
		"actor_id":      entry.ActorID,
		"action":        string(entry.Action),
		"subject_table": entry.SubjectTable,
		"subject_id":    entry.SubjectID,
		"created_at":    entry.CreatedAt.UTC(),
	}
	if len(entry.Payload) > 0 {
		doc["payload"] = entry.Payload
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}

// EnsureIndexes creates the lookup index used by audit queries.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "subject_table", Value: 1}, {Key: "subject_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
