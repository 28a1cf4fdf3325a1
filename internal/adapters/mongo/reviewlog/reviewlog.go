// Package reviewlog is a MongoDB-backed audit trail that mirrors every
// review-log entry appended to a place, grounded on the teacher's
// adapters/mongodb/audit/audit.mongodb.go. Unlike the Postgres
// review_log JSONB column (the source of truth consulted by
// ApplyReview/CanTransitionTo), this store exists only so operators can
// query review history across places without touching the primary
// database — it is a write-behind copy, never read by any use-case.
package reviewlog

import (
	"context"
	"strings"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/apperr"
	mongohub "github.com/openfairdb/ofdb-core/internal/platform/mongo"
	"github.com/openfairdb/ofdb-core/internal/platform/otelx"
)

// Document is the Mongo-stored shape of one review-log entry.
type Document struct {
	PlaceId string `bson:"place_id"`
	AtMs    int64  `bson:"at_ms"`
	By      string `bson:"by,omitempty"`
	Status  int8   `bson:"status"`
	Context string `bson:"context"`
	Comment string `bson:"comment,omitempty"`
}

// Store writes review-log entries, one document each, to the single
// review_log collection of the hub's database.
type Store struct {
	Hub      *mongohub.Hub
	Database string
}

func New(hub *mongohub.Hub) *Store {
	return &Store{Hub: hub}
}

// Append records one review-log entry for placeId.
func (s *Store) Append(ctx context.Context, placeId entity.Id, status entity.ReviewStatus, entry entity.ReviewLogEntry) error {
	ctx, span := otelx.StartSpan(ctx, "mongo.reviewlog.append")
	defer span.End()

	db, err := s.Hub.DB(ctx)
	if err != nil {
		otelx.Fail(span, "db", err)
		return apperr.Wrap("reviewlog: db", err)
	}

	doc := Document{
		PlaceId: string(placeId),
		AtMs:    entry.Activity.At.UnixMilli(),
		Status:  int8(status),
		Context: entry.Context,
	}

	if entry.Activity.By != nil {
		doc.By = entry.Activity.By.String()
	}

	if entry.Comment != nil {
		doc.Comment = *entry.Comment
	}

	coll := db.Collection(strings.ToLower("review_log"))

	if _, err := coll.InsertOne(ctx, doc); err != nil {
		otelx.Fail(span, "insert", err)
		return apperr.Wrap("reviewlog: insert", err)
	}

	return nil
}
