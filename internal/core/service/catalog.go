package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/openmarket/catalog-api/internal/core/access"
	"github.com/openmarket/catalog-api/internal/core/audit"
	"github.com/openmarket/catalog-api/internal/core/domain"
	"github.com/openmarket/catalog-api/internal/core/hooks"
	"github.com/openmarket/catalog-api/internal/core/ports"
	"github.com/openmarket/catalog-api/internal/infrastructure/docsvc"
)

// Stores bundles the per-collection storage collaborators.
type Stores struct {
	Categories   ports.CategoryStore
	Profiles     ports.ObjectStore[domain.Profile]
	Products     ports.ObjectStore[domain.Product]
	Offers       ports.ObjectStore[domain.Offer]
	Vendors      ports.VendorStore
	Contributors ports.ContributorStore
	Tags         ports.TagStore
}

// Catalog is the full set of per-kind services.
type Catalog struct {
	Categories   *Objects[domain.Category, *domain.Category]
	Profiles     *Objects[domain.Profile, *domain.Profile]
	Products     *Objects[domain.Product, *domain.Product]
	Offers       *Objects[domain.Offer, *domain.Offer]
	Vendors      *Objects[domain.Vendor, *domain.Vendor]
	Contributors *Objects[domain.Contributor, *domain.Contributor]
	Tags         *Objects[domain.Tag, *domain.Tag]
}

// categoryInvalidation returns the cache-drop callback for category writes
// when the status source caches; a plain store source yields nil.
func categoryInvalidation(source ports.CategorySource) func(context.Context, string) {
	inv, ok := source.(ports.CategoryInvalidator)
	if !ok {
		return nil
	}
	return inv.Invalidate
}

// NewCatalog wires stores, hooks and shared collaborators into the per-kind
// services. categories is the (possibly cached) category status source used
// by relationship checks; it may differ from the raw category store.
func NewCatalog(stores Stores, categories ports.CategorySource, acl *access.Resolver, rec *audit.Recorder, docs *docsvc.Client, log zerolog.Logger) *Catalog {
	return &Catalog{
		Categories: NewObjects(Config[domain.Category, *domain.Category]{
			Kind:  domain.KindCategory,
			Path:  "categories",
			Store: stores.Categories,
			Hooks: &hooks.CategoryHooks{},
			Accredit: func(_ context.Context, rc domain.RequestContext, c *domain.Category) error {
				return acl.ValidateAccreditation(rc.Caller, c.Classification.ID)
			},
			Docs:       func(c *domain.Category) *[]domain.Document { return &c.Documents },
			Invalidate: categoryInvalidation(categories),
		}, acl, rec, docs, log),

		Profiles: NewObjects(Config[domain.Profile, *domain.Profile]{
			Kind:  domain.KindProfile,
			Path:  "profiles",
			Store: stores.Profiles,
			Hooks: &hooks.ProfileHooks{Categories: categories},
			Accredit: func(_ context.Context, rc domain.RequestContext, p *domain.Profile) error {
				return acl.ValidateAccreditation(rc.Caller, p.RelatedCategory)
			},
			Docs: func(p *domain.Profile) *[]domain.Document { return &p.Documents },
		}, acl, rec, docs, log),

		Products: NewObjects(Config[domain.Product, *domain.Product]{
			Kind:  domain.KindProduct,
			Path:  "products",
			Store: stores.Products,
			Hooks: &hooks.ProductHooks{Categories: categories},
			Accredit: func(_ context.Context, rc domain.RequestContext, p *domain.Product) error {
				return acl.ValidateAccreditation(rc.Caller, p.RelatedCategory)
			},
			Docs: func(p *domain.Product) *[]domain.Document { return &p.Documents },
		}, acl, rec, docs, log),

		Offers: NewObjects(Config[domain.Offer, *domain.Offer]{
			Kind:  domain.KindOffer,
			Path:  "offers",
			Store: stores.Offers,
			Hooks: &hooks.OfferHooks{Products: stores.Products},
		}, acl, rec, docs, log),

		Vendors: NewObjects(Config[domain.Vendor, *domain.Vendor]{
			Kind:  domain.KindVendor,
			Path:  "vendors",
			Store: stores.Vendors,
			Hooks: &hooks.VendorHooks{Vendors: stores.Vendors, Categories: categories},
			Accredit: func(_ context.Context, rc domain.RequestContext, v *domain.Vendor) error {
				for _, cat := range v.Categories {
					if err := acl.ValidateAccreditation(rc.Caller, cat); err != nil {
						return err
					}
				}
				return nil
			},
			Docs: func(v *domain.Vendor) *[]domain.Document { return &v.Documents },
			Bans: func(v *domain.Vendor) *[]domain.Ban { return &v.Bans },
			BanAccredit: func(_ context.Context, rc domain.RequestContext, v *domain.Vendor) error {
				// An administrator of any of the vendor's categories may ban.
				var err error
				for _, cat := range v.Categories {
					if err = acl.ValidateAccreditation(rc.Caller, cat); err == nil {
						return nil
					}
				}
				if err == nil {
					err = domain.Forbidden("caller %q is not accredited", rc.Caller.Name)
				}
				return err
			},
		}, acl, rec, docs, log),

		Contributors: NewObjects(Config[domain.Contributor, *domain.Contributor]{
			Kind:  domain.KindContributor,
			Path:  "contributors",
			Store: stores.Contributors,
			Hooks: &hooks.ContributorHooks{Contributors: stores.Contributors},
			Docs:  func(c *domain.Contributor) *[]domain.Document { return &c.Documents },
			Bans:  func(c *domain.Contributor) *[]domain.Ban { return &c.Bans },
			BanAccredit: func(_ context.Context, rc domain.RequestContext, _ *domain.Contributor) error {
				return acl.ValidateAccreditation(rc.Caller, "*")
			},
		}, acl, rec, docs, log),

		Tags: NewObjects(Config[domain.Tag, *domain.Tag]{
			Kind:  domain.KindTag,
			Path:  "tags",
			Store: stores.Tags,
			Hooks: &hooks.TagHooks{Tags: stores.Tags},
		}, acl, rec, docs, log),
	}
}
