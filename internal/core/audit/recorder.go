// Package audit records an immutable revision entry for every successful
// mutation. Recording is best-effort: business data integrity outranks audit
// completeness, so failures here are logged and never surface to the caller.
package audit

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/openmarket/catalog-api/internal/core/domain"
)

// Revision is one audit entry tied to the request that caused the change.
type Revision struct {
	ID         string    `bson:"_id" json:"id"`
	Kind       string    `bson:"kind" json:"kind"`
	ResourceID string    `bson:"resourceId" json:"resourceId"`
	RequestID  string    `bson:"requestId" json:"requestId"`
	Caller     string    `bson:"caller" json:"caller"`
	Date       time.Time `bson:"date" json:"date"`
	Changes    []Change  `bson:"changes" json:"changes"`
}

// Store appends revisions. Implemented by the mongo revisions collection.
type Store interface {
	Append(ctx context.Context, rev *Revision) error
}

// Recorder builds and persists revision entries.
type Recorder struct {
	store Store
	log   zerolog.Logger
}

func NewRecorder(store Store, log zerolog.Logger) *Recorder {
	return &Recorder{store: store, log: log}
}

// Record diffs oldDoc against newDoc (nil oldDoc means creation) and appends
// the result. Any failure, including a panic from an unexpected value shape
// inside the diff, is logged and swallowed.
func (r *Recorder) Record(ctx context.Context, rc domain.RequestContext, kind domain.Kind, resourceID string, oldDoc, newDoc map[string]any) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error().Interface("panic", p).
				Str("kind", string(kind)).Str("resource_id", resourceID).
				Msg("revision diff panicked")
		}
	}()

	rev := &Revision{
		ID:         domain.NewID(),
		Kind:       string(kind),
		ResourceID: resourceID,
		RequestID:  rc.RequestID,
		Caller:     rc.Caller.Name,
		Date:       rc.Now,
		Changes:    Diff(oldDoc, newDoc),
	}
	if err := r.store.Append(ctx, rev); err != nil {
		r.log.Warn().Err(err).
			Str("kind", string(kind)).Str("resource_id", resourceID).
			Msg("failed to append revision")
	}
}
