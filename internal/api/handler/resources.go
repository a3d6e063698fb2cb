package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openmarket/catalog-api/internal/api/middleware"
	"github.com/openmarket/catalog-api/internal/core/domain"
	"github.com/openmarket/catalog-api/internal/core/service"
)

// patchRequest is a bound patch body: the capability token it carried and the
// field application closure. The closure re-runs on every optimistic retry,
// so it must only write the bound fields onto the snapshot it is given.
type patchRequest[P any] struct {
	token string
	apply func(P) error
}

// Resources adapts one generic object service to echo. The two bind
// functions carry everything kind-specific: request schema, validation tags
// and field application.
type Resources[T any, P service.Ptr[T]] struct {
	svc       *service.Objects[T, P]
	bindNew   func(echo.Context) (P, error)
	bindPatch func(echo.Context) (patchRequest[P], error)
}

func NewResources[T any, P service.Ptr[T]](svc *service.Objects[T, P], bindNew func(echo.Context) (P, error), bindPatch func(echo.Context) (patchRequest[P], error)) *Resources[T, P] {
	return &Resources[T, P]{svc: svc, bindNew: bindNew, bindPatch: bindPatch}
}

// Create handles POST /<kind>. The response carries the one-time plaintext
// capability token in its access block.
func (h *Resources[T, P]) Create(c echo.Context) error {
	obj, err := h.bindNew(c)
	if err != nil {
		return err
	}
	out, err := h.svc.Create(c.Request().Context(), middleware.RequestContext(c), obj)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

// Get handles GET /<kind>/:id.
func (h *Resources[T, P]) Get(c echo.Context) error {
	view, err := h.svc.Get(c.Request().Context(), middleware.RequestContext(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataEnvelope{Data: view})
}

// List handles GET /<kind> with cursor pagination.
func (h *Resources[T, P]) List(c echo.Context) error {
	in, err := listInput(c)
	if err != nil {
		return err
	}
	page, err := h.svc.List(c.Request().Context(), middleware.RequestContext(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Patch handles PATCH /<kind>/:id, guarded by the capability token.
func (h *Resources[T, P]) Patch(c echo.Context) error {
	req, err := h.bindPatch(c)
	if err != nil {
		return err
	}
	view, err := h.svc.Patch(c.Request().Context(), middleware.RequestContext(c), c.Param("id"), req.token, req.apply)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataEnvelope{Data: view})
}

// --- Documents sub-resource ---

type documentCreateRequest struct {
	Access *accessRequest `json:"access"`
	Title  string         `json:"title" validate:"required"`
	Format string         `json:"format"`
	URL    string         `json:"url" validate:"required,url"`
	Hash   string         `json:"hash" validate:"required"`
}

type documentPatchRequest struct {
	Access *accessRequest `json:"access"`
	Title  *string        `json:"title"`
	Format *string        `json:"format"`
	URL    *string        `json:"url" validate:"omitempty,url"`
	Hash   *string        `json:"hash"`
}

// AddDocument handles POST /<kind>/:id/documents.
func (h *Resources[T, P]) AddDocument(c echo.Context) error {
	var req documentCreateRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return domain.BadRequest("%s", err)
	}

	doc := domain.Document{Title: req.Title, Format: req.Format, URL: req.URL, Hash: req.Hash}
	view, err := h.svc.AddDocument(c.Request().Context(), middleware.RequestContext(c), c.Param("id"), capabilityToken(c, req.Access.token()), doc)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, dataEnvelope{Data: view})
}

// UpdateDocument handles PATCH /<kind>/:id/documents/:docID.
func (h *Resources[T, P]) UpdateDocument(c echo.Context) error {
	var req documentPatchRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return domain.BadRequest("%s", err)
	}

	patch := service.DocumentPatch{Title: req.Title, Format: req.Format, URL: req.URL, Hash: req.Hash}
	view, err := h.svc.UpdateDocument(c.Request().Context(), middleware.RequestContext(c), c.Param("id"), c.Param("docID"), capabilityToken(c, req.Access.token()), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataEnvelope{Data: view})
}

// DownloadDocument handles GET /<kind>/:id/documents/:docID. The download
// query param is the signed reference embedded in the canonical URL; a valid
// one redirects to the stored file location.
func (h *Resources[T, P]) DownloadDocument(c echo.Context) error {
	url, err := h.svc.DocumentURL(c.Request().Context(), c.Param("id"), c.Param("docID"), c.QueryParam("download"))
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, url)
}

// --- Bans sub-resource ---

type banIdentifierRequest struct {
	Scheme    string `json:"scheme"`
	ID        string `json:"id" validate:"required"`
	LegalName string `json:"legalName"`
}

type banCreateRequest struct {
	Reason        string               `json:"reason" validate:"required"`
	Description   string               `json:"description"`
	DueDate       *time.Time           `json:"dueDate"`
	Administrator banIdentifierRequest `json:"administrator" validate:"required"`
}

// AddBan handles POST /<kind>/:id/bans. Issuance is gated by category
// accreditation, not by the resource's capability token.
func (h *Resources[T, P]) AddBan(c echo.Context) error {
	var req banCreateRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return domain.BadRequest("%s", err)
	}

	ban := domain.Ban{
		Reason:      req.Reason,
		Description: req.Description,
		DueDate:     req.DueDate,
		Administrator: domain.BanAdministrator{Identifier: domain.Identifier{
			Scheme:    req.Administrator.Scheme,
			ID:        req.Administrator.ID,
			LegalName: req.Administrator.LegalName,
		}},
	}
	view, err := h.svc.AddBan(c.Request().Context(), middleware.RequestContext(c), c.Param("id"), ban)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, dataEnvelope{Data: view})
}

// ListBans handles GET /<kind>/:id/bans.
func (h *Resources[T, P]) ListBans(c echo.Context) error {
	bans, err := h.svc.ListBans(c.Request().Context(), middleware.RequestContext(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataEnvelope{Data: bans})
}
