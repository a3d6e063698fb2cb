package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openmarket/catalog-api/internal/api/metrics"
	"github.com/openmarket/catalog-api/internal/api/middleware"
	"github.com/openmarket/catalog-api/internal/core/domain"
	"github.com/openmarket/catalog-api/internal/core/images"
)

// ImageHandler accepts multipart image uploads.
type ImageHandler struct {
	store *images.Store
}

func NewImageHandler(store *images.Store) *ImageHandler {
	return &ImageHandler{store: store}
}

type imageResponse struct {
	URL    string `json:"url"`
	Hash   string `json:"hash"`
	Format string `json:"format"`
	Size   int64  `json:"size"`
}

// Upload handles POST /images. The file must arrive under the "file" form
// field; content type is decided by sniffing the bytes, never by the
// declared filename or header.
//
// @Summary      Upload an image
// @Tags         images
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Image file (jpeg, png, gif or webp)"
// @Success      201   {object}  imageResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /images [post]
func (h *ImageHandler) Upload(c echo.Context) error {
	rc := middleware.RequestContext(c)
	if rc.Caller.Anonymous {
		return domain.Unauthorized("authentication required")
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return domain.BadRequest("missing file field")
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	stored, err := h.store.Save(f)
	if err != nil {
		metrics.ImageUploads.WithLabelValues("rejected").Inc()
		return err
	}
	metrics.ImageUploads.WithLabelValues("accepted").Inc()
	return c.JSON(http.StatusCreated, dataEnvelope{Data: imageResponse{
		URL:    stored.URL,
		Hash:   stored.Hash,
		Format: stored.Format,
		Size:   stored.Size,
	}})
}
