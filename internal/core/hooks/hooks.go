// Package hooks holds the per-resource-kind state transition logic invoked on
// create and update. Each kind supplies the same three capabilities: OnCreate
// stamps lifecycle metadata and enforces uniqueness/relationship invariants,
// OnPatch compares before/after snapshots and re-validates changed relations,
// Always recomputes derived fields unconditionally.
package hooks

import (
	"context"
	"errors"
	"reflect"

	"github.com/openmarket/catalog-api/internal/core/domain"
)

// Hooks is the common capability interface over one resource kind.
type Hooks[T any] interface {
	OnCreate(ctx context.Context, rc domain.RequestContext, obj *T) error
	// OnPatch must leave dateModified untouched when before and after are
	// semantically equal (idempotent patches carry no side effects).
	OnPatch(ctx context.Context, rc domain.RequestContext, before, after *T) error
	Always(obj *T)
}

// stampOnChange bumps the modification timestamp only when the patch changed
// something, and reports whether it did.
func stampOnChange[T any](rc domain.RequestContext, before, after *T, res *domain.Resource) bool {
	if reflect.DeepEqual(before, after) {
		return false
	}
	res.Touch(rc.Now)
	return true
}

// requireActiveCategory verifies the referenced category exists and is active.
func requireActiveCategory(ctx context.Context, src interface {
	CategoryStatus(ctx context.Context, id string) (domain.ResourceStatus, error)
}, id string) error {
	status, err := src.CategoryStatus(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.BadRequest("category %s not found", id)
		}
		return err
	}
	if status != domain.StatusActive {
		return domain.BadRequest("category %s is not active", id)
	}
	return nil
}
