package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/openmarket/catalog-api/internal/core/domain"
)

// bindBody binds and validates a request body; validation failures surface
// as semantic bad requests, never as echo's default 400 envelope.
func bindBody(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return domain.BadRequest("%s", err)
	}
	return nil
}

type classificationRequest struct {
	Scheme      string `json:"scheme"`
	ID          string `json:"id" validate:"required"`
	Description string `json:"description"`
}

func (r *classificationRequest) toDomain() domain.Classification {
	return domain.Classification{Scheme: r.Scheme, ID: r.ID, Description: r.Description}
}

// --- Category ---

type categoryCreateRequest struct {
	Title          string                `json:"title" validate:"required"`
	Description    string                `json:"description"`
	Classification classificationRequest `json:"classification" validate:"required"`
	Status         string                `json:"status" validate:"omitempty,oneof=active hidden"`
}

type categoryPatchRequest struct {
	Access         *accessRequest         `json:"access"`
	Title          *string                `json:"title"`
	Description    *string                `json:"description"`
	Classification *classificationRequest `json:"classification"`
	Status         *string                `json:"status" validate:"omitempty,oneof=active hidden"`
}

func bindCategoryCreate(c echo.Context) (*domain.Category, error) {
	var req categoryCreateRequest
	if err := bindBody(c, &req); err != nil {
		return nil, err
	}
	return &domain.Category{
		Title:          req.Title,
		Description:    req.Description,
		Classification: req.Classification.toDomain(),
		Status:         domain.ResourceStatus(req.Status),
	}, nil
}

func bindCategoryPatch(c echo.Context) (patchRequest[*domain.Category], error) {
	var req categoryPatchRequest
	if err := bindBody(c, &req); err != nil {
		return patchRequest[*domain.Category]{}, err
	}
	return patchRequest[*domain.Category]{
		token: capabilityToken(c, req.Access.token()),
		apply: func(cat *domain.Category) error {
			if req.Title != nil {
				cat.Title = *req.Title
			}
			if req.Description != nil {
				cat.Description = *req.Description
			}
			if req.Classification != nil {
				cat.Classification = req.Classification.toDomain()
			}
			if req.Status != nil {
				cat.Status = domain.ResourceStatus(*req.Status)
			}
			return nil
		},
	}, nil
}

// --- Profile ---

type profileCreateRequest struct {
	Title           string `json:"title" validate:"required"`
	Description     string `json:"description"`
	RelatedCategory string `json:"relatedCategory" validate:"required"`
	Status          string `json:"status" validate:"omitempty,oneof=active hidden general"`
}

type profilePatchRequest struct {
	Access          *accessRequest `json:"access"`
	Title           *string        `json:"title"`
	Description     *string        `json:"description"`
	RelatedCategory *string        `json:"relatedCategory"`
	Status          *string        `json:"status" validate:"omitempty,oneof=active hidden general"`
}

func bindProfileCreate(c echo.Context) (*domain.Profile, error) {
	var req profileCreateRequest
	if err := bindBody(c, &req); err != nil {
		return nil, err
	}
	return &domain.Profile{
		Title:           req.Title,
		Description:     req.Description,
		RelatedCategory: req.RelatedCategory,
		Status:          domain.ProfileStatus(req.Status),
	}, nil
}

func bindProfilePatch(c echo.Context) (patchRequest[*domain.Profile], error) {
	var req profilePatchRequest
	if err := bindBody(c, &req); err != nil {
		return patchRequest[*domain.Profile]{}, err
	}
	return patchRequest[*domain.Profile]{
		token: capabilityToken(c, req.Access.token()),
		apply: func(p *domain.Profile) error {
			if req.Title != nil {
				p.Title = *req.Title
			}
			if req.Description != nil {
				p.Description = *req.Description
			}
			if req.RelatedCategory != nil {
				p.RelatedCategory = *req.RelatedCategory
			}
			if req.Status != nil {
				p.Status = domain.ProfileStatus(*req.Status)
			}
			return nil
		},
	}, nil
}

// --- Product ---

type productCreateRequest struct {
	Title           string                 `json:"title" validate:"required"`
	Description     string                 `json:"description"`
	RelatedCategory string                 `json:"relatedCategory" validate:"required"`
	Classification  *classificationRequest `json:"classification"`
	Vendor          string                 `json:"vendor"`
	Status          string                 `json:"status" validate:"omitempty,oneof=active hidden"`
}

type productPatchRequest struct {
	Access          *accessRequest         `json:"access"`
	Title           *string                `json:"title"`
	Description     *string                `json:"description"`
	RelatedCategory *string                `json:"relatedCategory"`
	Classification  *classificationRequest `json:"classification"`
	Vendor          *string                `json:"vendor"`
	Status          *string                `json:"status" validate:"omitempty,oneof=active hidden"`
}

func bindProductCreate(c echo.Context) (*domain.Product, error) {
	var req productCreateRequest
	if err := bindBody(c, &req); err != nil {
		return nil, err
	}
	p := &domain.Product{
		Title:           req.Title,
		Description:     req.Description,
		RelatedCategory: req.RelatedCategory,
		Vendor:          req.Vendor,
		Status:          domain.ResourceStatus(req.Status),
	}
	if req.Classification != nil {
		p.Classification = req.Classification.toDomain()
	}
	return p, nil
}

func bindProductPatch(c echo.Context) (patchRequest[*domain.Product], error) {
	var req productPatchRequest
	if err := bindBody(c, &req); err != nil {
		return patchRequest[*domain.Product]{}, err
	}
	return patchRequest[*domain.Product]{
		token: capabilityToken(c, req.Access.token()),
		apply: func(p *domain.Product) error {
			if req.Title != nil {
				p.Title = *req.Title
			}
			if req.Description != nil {
				p.Description = *req.Description
			}
			if req.RelatedCategory != nil {
				p.RelatedCategory = *req.RelatedCategory
			}
			if req.Classification != nil {
				p.Classification = req.Classification.toDomain()
			}
			if req.Vendor != nil {
				p.Vendor = *req.Vendor
			}
			if req.Status != nil {
				p.Status = domain.ResourceStatus(*req.Status)
			}
			return nil
		},
	}, nil
}

// --- Offer ---

type valueRequest struct {
	Amount   float64 `json:"amount" validate:"gt=0"`
	Currency string  `json:"currency" validate:"required,len=3"`
}

type offerCreateRequest struct {
	RelatedProduct string       `json:"relatedProduct" validate:"required"`
	Value          valueRequest `json:"value" validate:"required"`
	Status         string       `json:"status" validate:"omitempty,oneof=active hidden"`
}

type offerPatchRequest struct {
	Access         *accessRequest `json:"access"`
	RelatedProduct *string        `json:"relatedProduct"`
	Value          *valueRequest  `json:"value"`
	Status         *string        `json:"status" validate:"omitempty,oneof=active hidden"`
}

func bindOfferCreate(c echo.Context) (*domain.Offer, error) {
	var req offerCreateRequest
	if err := bindBody(c, &req); err != nil {
		return nil, err
	}
	return &domain.Offer{
		RelatedProduct: req.RelatedProduct,
		Value:          domain.Value{Amount: req.Value.Amount, Currency: req.Value.Currency},
		Status:         domain.ResourceStatus(req.Status),
	}, nil
}

func bindOfferPatch(c echo.Context) (patchRequest[*domain.Offer], error) {
	var req offerPatchRequest
	if err := bindBody(c, &req); err != nil {
		return patchRequest[*domain.Offer]{}, err
	}
	return patchRequest[*domain.Offer]{
		token: capabilityToken(c, req.Access.token()),
		apply: func(o *domain.Offer) error {
			// relatedProduct stays bindable; the hook rejects the change
			// with a message naming the rule.
			if req.RelatedProduct != nil {
				o.RelatedProduct = *req.RelatedProduct
			}
			if req.Value != nil {
				o.Value = domain.Value{Amount: req.Value.Amount, Currency: req.Value.Currency}
			}
			if req.Status != nil {
				o.Status = domain.ResourceStatus(*req.Status)
			}
			return nil
		},
	}, nil
}

// --- Tag ---

type tagCreateRequest struct {
	Code   string `json:"code"`
	Name   string `json:"name" validate:"required"`
	NameEn string `json:"name_en"`
	Active *bool  `json:"active"`
}

type tagPatchRequest struct {
	Access *accessRequest `json:"access"`
	Code   *string        `json:"code"`
	Name   *string        `json:"name"`
	NameEn *string        `json:"name_en"`
	Active *bool          `json:"active"`
}

func bindTagCreate(c echo.Context) (*domain.Tag, error) {
	var req tagCreateRequest
	if err := bindBody(c, &req); err != nil {
		return nil, err
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return &domain.Tag{Code: req.Code, Name: req.Name, NameEn: req.NameEn, Active: active}, nil
}

func bindTagPatch(c echo.Context) (patchRequest[*domain.Tag], error) {
	var req tagPatchRequest
	if err := bindBody(c, &req); err != nil {
		return patchRequest[*domain.Tag]{}, err
	}
	return patchRequest[*domain.Tag]{
		token: capabilityToken(c, req.Access.token()),
		apply: func(t *domain.Tag) error {
			if req.Code != nil {
				t.Code = *req.Code
			}
			if req.Name != nil {
				t.Name = *req.Name
			}
			if req.NameEn != nil {
				t.NameEn = *req.NameEn
			}
			if req.Active != nil {
				t.Active = *req.Active
			}
			return nil
		},
	}, nil
}
