package hooks

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/openmarket/catalog-api/internal/core/domain"
	"github.com/openmarket/catalog-api/internal/core/ports"
)

var tagCodeRe = regexp.MustCompile(`^[a-z0-9-]+$`)

// TagHooks derives and validates tag codes and guards the inactive-tag rule:
// an inactive tag accepts no patch unless that patch re-activates it.
type TagHooks struct {
	Tags ports.TagLookup
}

func (h *TagHooks) OnCreate(ctx context.Context, rc domain.RequestContext, t *domain.Tag) error {
	t.Stamp(rc.Now)
	if t.Code == "" {
		t.Code = SlugifyTagCode(t.Name)
	}
	if !tagCodeRe.MatchString(t.Code) {
		return domain.BadRequest("tag code %q must be alphanumeric or hyphen", t.Code)
	}
	return h.checkCodeUnique(ctx, t)
}

func (h *TagHooks) OnPatch(ctx context.Context, rc domain.RequestContext, before, after *domain.Tag) error {
	if !before.Active && !after.Active {
		return domain.BadRequest("forbidden to update inactive tag")
	}
	if !stampOnChange(rc, before, after, &after.Resource) {
		return nil
	}
	if before.Code != after.Code {
		if !tagCodeRe.MatchString(after.Code) {
			return domain.BadRequest("tag code %q must be alphanumeric or hyphen", after.Code)
		}
		return h.checkCodeUnique(ctx, after)
	}
	return nil
}

func (h *TagHooks) Always(*domain.Tag) {}

func (h *TagHooks) checkCodeUnique(ctx context.Context, t *domain.Tag) error {
	existing, err := h.Tags.FindByCode(ctx, t.Code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != t.ID {
		return domain.BadRequest("tag code %q already used by %s", t.Code, existing.ID)
	}
	return nil
}

// SlugifyTagCode lowercases the name and collapses every non-alphanumeric run
// into a single hyphen.
func SlugifyTagCode(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
