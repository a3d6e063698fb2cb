package serializer

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/openmarket/catalog-api/internal/core/domain"
)

// URLSigner rewrites a stored document URL into an absolute, authenticated
// download URL. Implemented by the doc-service collaborator.
type URLSigner func(parentPath string, doc map[string]any) any

// RootView builds the projection applied to every root resource: the storage
// key `_id` is renamed to the public `id`, the internal access object is
// stripped and, when the caller is entitled to see ownership, only the owner
// identity is re-exposed (never the token hash).
func RootView(caller domain.Identity, owner string, extra map[string]Override, calculated map[string]Calculated) *Serializer {
	calc := map[string]Calculated{
		"id": func(doc map[string]any) any { return doc["_id"] },
	}
	if caller.Super || (owner != "" && caller.Name == owner) {
		calc["owner"] = func(map[string]any) any { return owner }
	}
	for k, v := range calculated {
		calc[k] = v
	}
	return &Serializer{
		Exclude:    []string{"_id", "access"},
		Overrides:  extra,
		Calculated: calc,
	}
}

// DocumentView serializes a nested document, rewriting its relative url to
// the canonical signed form.
func DocumentView(parentPath string, sign URLSigner) *Serializer {
	return &Serializer{
		Exclude: []string{"url"},
		Calculated: map[string]Calculated{
			"url": func(doc map[string]any) any { return sign(parentPath, doc) },
		},
	}
}

// BannedFlag returns the calculated isBanned field: true while any ban in the
// document's bans list is active at now. Computed at serialization time so it
// can never go stale.
func BannedFlag(now time.Time) Calculated {
	return func(doc map[string]any) any {
		items, ok := asSliceValue(doc["bans"])
		if !ok {
			return false
		}
		for _, item := range items {
			m, ok := asMapValue(item)
			if !ok {
				continue
			}
			due, hasDue := m["dueDate"]
			if !hasDue || due == nil {
				return true
			}
			if t, ok := asTime(due); ok && now.Before(t) {
				return true
			}
		}
		return false
	}
}

// BSON decoding yields primitive.DateTime for stored timestamps.
func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case primitive.DateTime:
		return t.Time(), true
	default:
		return time.Time{}, false
	}
}
