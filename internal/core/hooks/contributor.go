package hooks

import (
	"context"
	"errors"

	"github.com/openmarket/catalog-api/internal/core/domain"
	"github.com/openmarket/catalog-api/internal/core/ports"
)

// ContributorHooks enforces global uniqueness of the contributor identifier,
// regardless of status.
type ContributorHooks struct {
	Contributors ports.ContributorLookup
}

func (h *ContributorHooks) OnCreate(ctx context.Context, rc domain.RequestContext, c *domain.Contributor) error {
	c.Stamp(rc.Now)
	return h.checkIdentifierUnique(ctx, c)
}

func (h *ContributorHooks) OnPatch(ctx context.Context, rc domain.RequestContext, before, after *domain.Contributor) error {
	if !stampOnChange(rc, before, after, &after.Resource) {
		return nil
	}
	if before.Contributor.Identifier.ID != after.Contributor.Identifier.ID {
		return h.checkIdentifierUnique(ctx, after)
	}
	return nil
}

func (h *ContributorHooks) Always(*domain.Contributor) {}

func (h *ContributorHooks) checkIdentifierUnique(ctx context.Context, c *domain.Contributor) error {
	existing, err := h.Contributors.FindByIdentifier(ctx, c.Contributor.Identifier.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != c.ID {
		return domain.BadRequest("contributor identifier %s already registered as %s",
			c.Contributor.Identifier.ID, existing.ID)
	}
	return nil
}
