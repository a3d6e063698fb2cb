package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/openmarket/catalog-api/internal/core/domain"
	"github.com/openmarket/catalog-api/internal/core/service"
)

// accessRequest is the body-level access block carried by mutating requests.
type accessRequest struct {
	Token string `json:"token"`
}

func (a *accessRequest) token() string {
	if a == nil {
		return ""
	}
	return a.Token
}

// capabilityToken resolves the token for a mutating request. The body access
// block wins, then the X-Access-Token header, then the access_token query
// param. An empty result means the caller presented nothing; the access layer
// turns that into Unauthorized.
func capabilityToken(c echo.Context, bodyToken string) string {
	if bodyToken != "" {
		return bodyToken
	}
	if t := c.Request().Header.Get("X-Access-Token"); t != "" {
		return t
	}
	return c.QueryParam("access_token")
}

// listInput parses the cursor pagination query params.
func listInput(c echo.Context) (service.ListInput, error) {
	in := service.ListInput{
		Offset:     c.QueryParam("offset"),
		Descending: c.QueryParam("descending") == "true",
	}
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return in, domain.BadRequest("limit must be an integer")
		}
		in.Limit = n
	}
	return in, nil
}

// dataEnvelope wraps every non-create response body.
type dataEnvelope struct {
	Data any `json:"data"`
}
