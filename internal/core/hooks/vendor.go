package hooks

import (
	"context"
	"errors"
	"slices"

	"github.com/openmarket/catalog-api/internal/core/domain"
	"github.com/openmarket/catalog-api/internal/core/ports"
)

// VendorHooks enforces the vendor lifecycle. Vendors are created pending;
// activation is the patch that flips IsActivated, and the tax-identifier
// uniqueness invariant is re-checked at that moment because multiple inactive
// duplicates may exist simultaneously.
type VendorHooks struct {
	Vendors    ports.VendorLookup
	Categories ports.CategorySource
}

func (h *VendorHooks) OnCreate(ctx context.Context, rc domain.RequestContext, v *domain.Vendor) error {
	v.Stamp(rc.Now)
	// Registrations always start pending, whatever the payload claims.
	v.IsActivated = false

	if len(v.Categories) == 0 {
		return domain.BadRequest("vendor requires at least one category")
	}
	for _, id := range v.Categories {
		if err := requireActiveCategory(ctx, h.Categories, id); err != nil {
			return err
		}
	}
	return h.checkTaxIDUnique(ctx, v)
}

func (h *VendorHooks) OnPatch(ctx context.Context, rc domain.RequestContext, before, after *domain.Vendor) error {
	if !stampOnChange(rc, before, after, &after.Resource) {
		return nil
	}
	if !slices.Equal(before.Categories, after.Categories) {
		for _, id := range after.Categories {
			if err := requireActiveCategory(ctx, h.Categories, id); err != nil {
				return err
			}
		}
	}
	if !before.IsActivated && after.IsActivated {
		if err := h.checkTaxIDUnique(ctx, after); err != nil {
			return err
		}
	}
	return nil
}

// Always derives status from the activation flag; input values are ignored.
func (h *VendorHooks) Always(v *domain.Vendor) {
	if v.IsActivated {
		v.Status = domain.VendorActive
	} else {
		v.Status = domain.VendorPending
	}
}

func (h *VendorHooks) checkTaxIDUnique(ctx context.Context, v *domain.Vendor) error {
	existing, err := h.Vendors.FindActiveByTaxID(ctx, v.Vendor.Identifier.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != v.ID {
		return domain.BadRequest("tax identifier %s already belongs to active vendor %s",
			v.Vendor.Identifier.ID, existing.ID)
	}
	return nil
}
