package hooks

import (
	"github.com/openmarket/catalog-api/internal/core/domain"
)

// PrepareBan stamps a new ban and validates it against the parent's existing
// bans: the reason must come from the fixed vocabulary, the due date (when
// present) must lie in the future, and a given administrator may hold at most
// one active ban on the parent at a time.
func PrepareBan(rc domain.RequestContext, existing []domain.Ban, b *domain.Ban) error {
	if _, ok := domain.BanReasons[b.Reason]; !ok {
		return domain.BadRequest("unknown ban reason %q", b.Reason)
	}
	if b.DueDate != nil && !b.DueDate.After(rc.Now) {
		return domain.BadRequest("ban dueDate must be in the future")
	}
	admin := b.Administrator.Identifier.ID
	for i := range existing {
		if existing[i].Administrator.Identifier.ID == admin && existing[i].ActiveAt(rc.Now) {
			return domain.BadRequest("administrator %s already holds an active ban %s", admin, existing[i].ID)
		}
	}

	b.ID = domain.NewID()
	b.DateCreated = rc.Now
	b.DateModified = rc.Now
	b.Owner = rc.Caller.Name
	return nil
}
