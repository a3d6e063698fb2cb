package ports

import (
	"context"
	"time"

	"github.com/openmarket/catalog-api/internal/core/domain"
)

// Cursor is the decoded pagination position: the ordering key (dateModified)
// with ties broken by id.
type Cursor struct {
	DateModified time.Time
	ID           string
}

// ListQuery carries the pagination contract for list operations.
type ListQuery struct {
	After      *Cursor // resume strictly after this position; nil = start
	Limit      int     // bounded by the service layer
	Descending bool
}

// ObjectStore is the storage collaborator for a single resource collection.
// Implementations must report domain.ErrNotFound for missing documents,
// domain.ErrDuplicateKey for unique-index violations, and domain.ErrConflict
// when a conditional replace finds the fingerprint changed.
type ObjectStore[T any] interface {
	FindByID(ctx context.Context, id string) (*T, error)
	Insert(ctx context.Context, obj *T) error
	// ReplaceIf overwrites the document only while its stored dateModified
	// still equals expected. This is the sole mutation path for existing
	// resources.
	ReplaceIf(ctx context.Context, id string, expected time.Time, obj *T) error
	List(ctx context.Context, q ListQuery) ([]*T, error)
}

// VendorLookup answers the activation-time uniqueness question: which active
// vendor, if any, already carries this tax identifier.
type VendorLookup interface {
	FindActiveByTaxID(ctx context.Context, taxID string) (*domain.Vendor, error)
}

// ContributorLookup resolves a contributor by its legal identifier,
// regardless of status.
type ContributorLookup interface {
	FindByIdentifier(ctx context.Context, identifierID string) (*domain.Contributor, error)
}

// TagLookup resolves a tag by code.
type TagLookup interface {
	FindByCode(ctx context.Context, code string) (*domain.Tag, error)
}

// CategorySource answers existence/status questions about categories. The
// redis-backed cache and the mongo store both implement it.
type CategorySource interface {
	CategoryStatus(ctx context.Context, id string) (domain.ResourceStatus, error)
}

// CategoryInvalidator drops cached category state after a committed write.
// A CategorySource that caches implements it; a plain store does not.
type CategoryInvalidator interface {
	Invalidate(ctx context.Context, id string)
}

// Combined per-kind store contracts, satisfied by the mongo implementations.
type CategoryStore interface {
	ObjectStore[domain.Category]
	CategorySource
}

type VendorStore interface {
	ObjectStore[domain.Vendor]
	VendorLookup
}

type ContributorStore interface {
	ObjectStore[domain.Contributor]
	ContributorLookup
}

type TagStore interface {
	ObjectStore[domain.Tag]
	TagLookup
}

// BulkOp is a single idempotent update within a migration batch: documents
// matching Filter receive Update; Filter must become false once applied.
type BulkOp struct {
	Filter map[string]any
	Update map[string]any
}

// BulkWriter commits one batch of migration operations as a unit.
type BulkWriter interface {
	BulkWrite(ctx context.Context, collection string, ops []BulkOp) (modified int64, err error)
}
