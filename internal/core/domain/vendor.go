package domain

import "time"

// VendorStatus is derived from IsActivated and never trusted from input.
type VendorStatus string

const (
	VendorPending VendorStatus = "pending"
	VendorActive  VendorStatus = "active"
)

// VendorInfo is the legal entity behind a vendor registration. Identifier.ID
// is the tax identifier; at most one *active* vendor may carry a given value.
type VendorInfo struct {
	Name       string     `bson:"name" json:"name"`
	Identifier Identifier `bson:"identifier" json:"identifier"`
}

// Vendor is a seller registration. Created pending; activation re-checks the
// tax-identifier uniqueness invariant because duplicates may coexist while
// inactive.
type Vendor struct {
	Resource    `bson:",inline"`
	Vendor      VendorInfo   `bson:"vendor" json:"vendor"`
	Categories  []string     `bson:"categories" json:"categories"`
	IsActivated bool         `bson:"isActivated" json:"isActivated"`
	Status      VendorStatus `bson:"status" json:"status"`
	Bans        []Ban        `bson:"bans,omitempty" json:"bans,omitempty"`
	Documents   []Document   `bson:"documents,omitempty" json:"documents,omitempty"`
}

// BanReasons is the fixed vocabulary accepted for Ban.Reason.
var BanReasons = map[string]struct{}{
	"manipulations":           {},
	"rulesViolation":          {},
	"offensiveLanguage":       {},
	"unfairCompetition":       {},
	"suppliesAreNotDelivered": {},
	"incorrectProductSpecs":   {},
}

// BanAdministrator identifies who issued a ban.
type BanAdministrator struct {
	Identifier Identifier `bson:"identifier" json:"identifier"`
}

// Ban is embedded in the parent's bans list. A ban with no DueDate never
// expires; otherwise it is active while the current time precedes DueDate.
// The derived isBanned flag is computed at serialization time, never stored.
type Ban struct {
	ID            string           `bson:"id" json:"id"`
	Reason        string           `bson:"reason" json:"reason"`
	Description   string           `bson:"description,omitempty" json:"description,omitempty"`
	DueDate       *time.Time       `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	Administrator BanAdministrator `bson:"administrator" json:"administrator"`
	DateCreated   time.Time        `bson:"dateCreated" json:"dateCreated"`
	DateModified  time.Time        `bson:"dateModified" json:"dateModified"`
	Owner         string           `bson:"owner" json:"owner"`
}

// ActiveAt reports whether the ban is in force at t.
func (b *Ban) ActiveAt(t time.Time) bool {
	return b.DueDate == nil || t.Before(*b.DueDate)
}

// Banned reports whether any ban in the list is active at t.
func Banned(bans []Ban, t time.Time) bool {
	for i := range bans {
		if bans[i].ActiveAt(t) {
			return true
		}
	}
	return false
}

// ContributorInfo is the legal entity behind a contributor. Identifier.ID is
// globally unique across contributors regardless of status.
type ContributorInfo struct {
	Name       string     `bson:"name" json:"name"`
	Identifier Identifier `bson:"identifier" json:"identifier"`
}

// Contributor proposes products into the catalog and may be banned by
// category administrators.
type Contributor struct {
	Resource    `bson:",inline"`
	Contributor ContributorInfo `bson:"contributor" json:"contributor"`
	Bans        []Ban           `bson:"bans,omitempty" json:"bans,omitempty"`
	Documents   []Document      `bson:"documents,omitempty" json:"documents,omitempty"`
}
