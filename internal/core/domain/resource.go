package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind tags the closed set of resource kinds. Hook and serializer dispatch is
// by explicit kind tag, never by reflection.
type Kind string

const (
	KindCategory    Kind = "category"
	KindProfile     Kind = "profile"
	KindProduct     Kind = "product"
	KindOffer       Kind = "offer"
	KindVendor      Kind = "vendor"
	KindContributor Kind = "contributor"
	KindTag         Kind = "tag"
)

// Access binds a resource to its owner identity and a one-way hash of its
// bearer capability token. The plaintext token is returned to the creator
// exactly once and never persisted.
type Access struct {
	Owner string `bson:"owner" json:"owner"`
	Token string `bson:"token" json:"token"` // bcrypt hash, never the secret
}

// Resource holds the fields every root document carries. Embedded inline into
// each concrete kind.
type Resource struct {
	ID           string    `bson:"_id" json:"id"`
	DateCreated  time.Time `bson:"dateCreated" json:"dateCreated"`
	DateModified time.Time `bson:"dateModified" json:"dateModified"`
	Access       *Access   `bson:"access,omitempty" json:"access,omitempty"`
}

// ObjectID returns the document identifier.
func (r *Resource) ObjectID() string { return r.ID }

// Res exposes the embedded resource metadata to generic code.
func (r *Resource) Res() *Resource { return r }

// Fingerprint returns the modification marker used for the conditional write.
func (r *Resource) Fingerprint() time.Time { return r.DateModified }

// Stamp assigns a fresh id and creation/modification timestamps. Timestamps
// are truncated to milliseconds, the precision the store round-trips, so the
// in-memory fingerprint always equals the persisted one.
func (r *Resource) Stamp(now time.Time) {
	if r.ID == "" {
		r.ID = NewID()
	}
	now = now.UTC().Truncate(time.Millisecond)
	r.DateCreated = now
	r.DateModified = now
}

// Touch bumps dateModified, keeping it monotonically non-decreasing (and
// strictly increasing, so each successful mutation yields a new fingerprint)
// even when the request clock lags the stored value.
func (r *Resource) Touch(now time.Time) {
	now = now.UTC().Truncate(time.Millisecond)
	if !now.After(r.DateModified) {
		now = r.DateModified.Add(time.Millisecond)
	}
	r.DateModified = now
}

// NewID returns a fresh 32-character opaque identifier.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Document is a file reference embedded in a parent resource's documents list.
// It has no lifecycle of its own.
type Document struct {
	ID            string    `bson:"id" json:"id"`
	Hash          string    `bson:"hash" json:"hash"`
	Title         string    `bson:"title" json:"title"`
	Format        string    `bson:"format" json:"format"`
	URL           string    `bson:"url" json:"url"`
	DateModified  time.Time `bson:"dateModified" json:"dateModified"`
	DatePublished time.Time `bson:"datePublished" json:"datePublished"`
}

// Classification is a scheme/id pair used by categories and products.
type Classification struct {
	Scheme      string `bson:"scheme" json:"scheme"`
	ID          string `bson:"id" json:"id"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

// Identifier names a legal entity within a scheme (e.g. a tax register).
type Identifier struct {
	Scheme    string `bson:"scheme" json:"scheme"`
	ID        string `bson:"id" json:"id"`
	LegalName string `bson:"legalName,omitempty" json:"legalName,omitempty"`
}

// Value is a monetary amount.
type Value struct {
	Amount   float64 `bson:"amount" json:"amount"`
	Currency string  `bson:"currency" json:"currency"`
}
