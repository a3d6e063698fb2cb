// Package engine implements the optimistic-concurrency update cycle shared by
// every mutable resource: load a snapshot, run the mutation on the in-memory
// copy, persist conditioned on the modification fingerprint being unchanged,
// and retry the whole cycle on conflict.
package engine

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/openmarket/catalog-api/internal/api/metrics"
	"github.com/openmarket/catalog-api/internal/core/domain"
	"github.com/openmarket/catalog-api/internal/core/ports"
)

const (
	maxAttempts = 3
	maxJitter   = 500 * time.Millisecond
)

// Object is what the engine needs to know about a stored document.
type Object interface {
	ObjectID() string
	Fingerprint() time.Time
}

// Update loads the object, applies mutate to the in-memory copy and persists
// it guarded against concurrent writers. The mutation body must be free of
// side effects outside the copy: it is re-executed from a fresh snapshot on
// every conflicted attempt. Returns the committed object.
//
// Error contract: a missing object fails with NotFound before mutate runs; an
// error from mutate aborts with no write; transient storage failures and
// losing the conditional write both consume an attempt, and exhausting the
// bound surfaces Conflict.
func Update[T any, P interface {
	*T
	Object
}](ctx context.Context, kind domain.Kind, store ports.ObjectStore[T], id string, mutate func(P) error) (P, error) {
	start := time.Now()
	defer func() {
		metrics.UpdateDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	}()

	for attempt := 0; ; attempt++ {
		obj, err := store.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, err
			}
			if next, retryErr := backoff(ctx, kind, attempt); !next {
				return nil, retryErr
			}
			continue
		}

		p := P(obj)
		expected := p.Fingerprint()
		if err := mutate(p); err != nil {
			return nil, err
		}

		err = store.ReplaceIf(ctx, id, expected, obj)
		if err == nil {
			return p, nil
		}
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, err
		}
		if errors.Is(err, domain.ErrConflict) {
			metrics.UpdateConflicts.WithLabelValues(string(kind)).Inc()
		}
		if next, retryErr := backoff(ctx, kind, attempt); !next {
			return nil, retryErr
		}
	}
}

// backoff sleeps a uniform random delay before the next attempt. It reports
// false once the attempt budget is spent or the request context is done.
func backoff(ctx context.Context, kind domain.Kind, attempt int) (bool, error) {
	if attempt >= maxAttempts-1 {
		return false, domain.ErrConflict
	}
	metrics.UpdateRetries.WithLabelValues(string(kind)).Inc()

	timer := time.NewTimer(time.Duration(rand.Int63n(int64(maxJitter))))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-timer.C:
		return true, nil
	}
}
