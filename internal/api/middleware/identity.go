package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openmarket/catalog-api/internal/core/access"
	"github.com/openmarket/catalog-api/internal/core/domain"
)

const requestContextKey = "requestContext"

// Identity resolves the caller from the Authorization header and attaches a
// domain.RequestContext to the echo context. A missing header yields an
// anonymous identity; endpoints that require authentication reject it
// downstream. The logical clock is fixed once per request, truncated to the
// millisecond precision the store round-trips, so every timestamp written
// within one request agrees.
func Identity(resolver *access.Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, err := resolver.ResolveIdentity(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}

			c.Set(requestContextKey, domain.RequestContext{
				Caller:    caller,
				Now:       time.Now().UTC().Truncate(time.Millisecond),
				RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
			})
			return next(c)
		}
	}
}

// RequestContext returns the context attached by Identity. The zero value
// (anonymous caller, zero clock) comes back only when the middleware did not
// run, which is a wiring bug, not a runtime condition.
func RequestContext(c echo.Context) domain.RequestContext {
	rc, _ := c.Get(requestContextKey).(domain.RequestContext)
	return rc
}
