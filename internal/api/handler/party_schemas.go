package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/openmarket/catalog-api/internal/core/domain"
)

type identifierRequest struct {
	Scheme    string `json:"scheme"`
	ID        string `json:"id" validate:"required"`
	LegalName string `json:"legalName"`
}

func (r *identifierRequest) toDomain() domain.Identifier {
	return domain.Identifier{Scheme: r.Scheme, ID: r.ID, LegalName: r.LegalName}
}

// --- Vendor ---

type vendorInfoRequest struct {
	Name       string            `json:"name" validate:"required"`
	Identifier identifierRequest `json:"identifier" validate:"required"`
}

type vendorCreateRequest struct {
	Vendor     vendorInfoRequest `json:"vendor" validate:"required"`
	Categories []string          `json:"categories" validate:"required,min=1,dive,required"`
}

type vendorPatchRequest struct {
	Access      *accessRequest     `json:"access"`
	Vendor      *vendorInfoRequest `json:"vendor"`
	Categories  []string           `json:"categories" validate:"omitempty,min=1,dive,required"`
	IsActivated *bool              `json:"isActivated"`
}

func bindVendorCreate(c echo.Context) (*domain.Vendor, error) {
	var req vendorCreateRequest
	if err := bindBody(c, &req); err != nil {
		return nil, err
	}
	return &domain.Vendor{
		Vendor: domain.VendorInfo{
			Name:       req.Vendor.Name,
			Identifier: req.Vendor.Identifier.toDomain(),
		},
		Categories: req.Categories,
	}, nil
}

func bindVendorPatch(c echo.Context) (patchRequest[*domain.Vendor], error) {
	var req vendorPatchRequest
	if err := bindBody(c, &req); err != nil {
		return patchRequest[*domain.Vendor]{}, err
	}
	return patchRequest[*domain.Vendor]{
		token: capabilityToken(c, req.Access.token()),
		apply: func(v *domain.Vendor) error {
			if req.Vendor != nil {
				v.Vendor = domain.VendorInfo{
					Name:       req.Vendor.Name,
					Identifier: req.Vendor.Identifier.toDomain(),
				}
			}
			if req.Categories != nil {
				v.Categories = req.Categories
			}
			if req.IsActivated != nil {
				v.IsActivated = *req.IsActivated
			}
			return nil
		},
	}, nil
}

// --- Contributor ---

type contributorInfoRequest struct {
	Name       string            `json:"name" validate:"required"`
	Identifier identifierRequest `json:"identifier" validate:"required"`
}

type contributorCreateRequest struct {
	Contributor contributorInfoRequest `json:"contributor" validate:"required"`
}

type contributorPatchRequest struct {
	Access      *accessRequest          `json:"access"`
	Contributor *contributorInfoRequest `json:"contributor"`
}

func bindContributorCreate(c echo.Context) (*domain.Contributor, error) {
	var req contributorCreateRequest
	if err := bindBody(c, &req); err != nil {
		return nil, err
	}
	return &domain.Contributor{
		Contributor: domain.ContributorInfo{
			Name:       req.Contributor.Name,
			Identifier: req.Contributor.Identifier.toDomain(),
		},
	}, nil
}

func bindContributorPatch(c echo.Context) (patchRequest[*domain.Contributor], error) {
	var req contributorPatchRequest
	if err := bindBody(c, &req); err != nil {
		return patchRequest[*domain.Contributor]{}, err
	}
	return patchRequest[*domain.Contributor]{
		token: capabilityToken(c, req.Access.token()),
		apply: func(ct *domain.Contributor) error {
			if req.Contributor != nil {
				ct.Contributor = domain.ContributorInfo{
					Name:       req.Contributor.Name,
					Identifier: req.Contributor.Identifier.toDomain(),
				}
			}
			return nil
		},
	}, nil
}
