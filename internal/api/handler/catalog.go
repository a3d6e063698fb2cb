package handler

import (
	"github.com/openmarket/catalog-api/internal/core/domain"
	"github.com/openmarket/catalog-api/internal/core/service"
)

// Catalog groups the per-kind resource handlers. Each pairs the generic
// resource handler with its kind's request schemas.
type Catalog struct {
	Categories   *Resources[domain.Category, *domain.Category]
	Profiles     *Resources[domain.Profile, *domain.Profile]
	Products     *Resources[domain.Product, *domain.Product]
	Offers       *Resources[domain.Offer, *domain.Offer]
	Vendors      *Resources[domain.Vendor, *domain.Vendor]
	Contributors *Resources[domain.Contributor, *domain.Contributor]
	Tags         *Resources[domain.Tag, *domain.Tag]
}

func NewCatalog(s *service.Catalog) *Catalog {
	return &Catalog{
		Categories:   NewResources(s.Categories, bindCategoryCreate, bindCategoryPatch),
		Profiles:     NewResources(s.Profiles, bindProfileCreate, bindProfilePatch),
		Products:     NewResources(s.Products, bindProductCreate, bindProductPatch),
		Offers:       NewResources(s.Offers, bindOfferCreate, bindOfferPatch),
		Vendors:      NewResources(s.Vendors, bindVendorCreate, bindVendorPatch),
		Contributors: NewResources(s.Contributors, bindContributorCreate, bindContributorPatch),
		Tags:         NewResources(s.Tags, bindTagCreate, bindTagPatch),
	}
}
