package hooks

import (
	"context"
	"errors"

	"github.com/openmarket/catalog-api/internal/core/domain"
	"github.com/openmarket/catalog-api/internal/core/ports"
)

// CategoryHooks covers the simplest lifecycle: stamped on create, status
// defaulting to active.
type CategoryHooks struct{}

func (h *CategoryHooks) OnCreate(_ context.Context, rc domain.RequestContext, c *domain.Category) error {
	c.Stamp(rc.Now)
	return nil
}

func (h *CategoryHooks) OnPatch(_ context.Context, rc domain.RequestContext, before, after *domain.Category) error {
	stampOnChange(rc, before, after, &after.Resource)
	return nil
}

func (h *CategoryHooks) Always(c *domain.Category) {
	if c.Status == "" {
		c.Status = domain.StatusActive
	}
}

// ProfileHooks ties a profile to an existing active category.
type ProfileHooks struct {
	Categories ports.CategorySource
}

func (h *ProfileHooks) OnCreate(ctx context.Context, rc domain.RequestContext, p *domain.Profile) error {
	p.Stamp(rc.Now)
	return requireActiveCategory(ctx, h.Categories, p.RelatedCategory)
}

func (h *ProfileHooks) OnPatch(ctx context.Context, rc domain.RequestContext, before, after *domain.Profile) error {
	if !stampOnChange(rc, before, after, &after.Resource) {
		return nil
	}
	if before.RelatedCategory != after.RelatedCategory {
		return requireActiveCategory(ctx, h.Categories, after.RelatedCategory)
	}
	return nil
}

func (h *ProfileHooks) Always(p *domain.Profile) {
	if p.Status == "" {
		p.Status = domain.ProfileActive
	}
}

// ProductHooks validates the classification link to an active category.
type ProductHooks struct {
	Categories ports.CategorySource
}

func (h *ProductHooks) OnCreate(ctx context.Context, rc domain.RequestContext, p *domain.Product) error {
	p.Stamp(rc.Now)
	return requireActiveCategory(ctx, h.Categories, p.RelatedCategory)
}

func (h *ProductHooks) OnPatch(ctx context.Context, rc domain.RequestContext, before, after *domain.Product) error {
	if !stampOnChange(rc, before, after, &after.Resource) {
		return nil
	}
	// Classification links are re-validated only when the patch moved them.
	if before.RelatedCategory != after.RelatedCategory {
		return requireActiveCategory(ctx, h.Categories, after.RelatedCategory)
	}
	return nil
}

func (h *ProductHooks) Always(p *domain.Product) {
	if p.Status == "" {
		p.Status = domain.StatusActive
	}
}

// productSource is the narrow slice of the product store offers need.
type productSource interface {
	FindByID(ctx context.Context, id string) (*domain.Product, error)
}

// OfferHooks requires the related product to exist and be visible.
type OfferHooks struct {
	Products productSource
}

func (h *OfferHooks) OnCreate(ctx context.Context, rc domain.RequestContext, o *domain.Offer) error {
	o.Stamp(rc.Now)
	product, err := h.Products.FindByID(ctx, o.RelatedProduct)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.BadRequest("product %s not found", o.RelatedProduct)
		}
		return err
	}
	if product.Status != domain.StatusActive {
		return domain.BadRequest("product %s is not active", o.RelatedProduct)
	}
	return nil
}

func (h *OfferHooks) OnPatch(_ context.Context, rc domain.RequestContext, before, after *domain.Offer) error {
	if !stampOnChange(rc, before, after, &after.Resource) {
		return nil
	}
	if before.RelatedProduct != after.RelatedProduct {
		return domain.BadRequest("relatedProduct cannot change")
	}
	return nil
}

func (h *OfferHooks) Always(o *domain.Offer) {
	if o.Status == "" {
		o.Status = domain.StatusActive
	}
}
