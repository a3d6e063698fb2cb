package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/openmarket/catalog-api/docs"
	"github.com/openmarket/catalog-api/internal/api/handler"
	"github.com/openmarket/catalog-api/internal/api/middleware"
	"github.com/openmarket/catalog-api/internal/core/access"
	"github.com/openmarket/catalog-api/internal/core/images"
	"github.com/openmarket/catalog-api/internal/core/service"
)

// Deps carries everything the router wires into routes.
type Deps struct {
	Catalog  *service.Catalog
	Resolver *access.Resolver
	Images   *images.Store
	ImageDir string
	DB       *mongo.Database
	Redis    *redis.Client
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(middleware.Identity(d.Resolver))

	// --- Resource routes ---
	h := handler.NewCatalog(d.Catalog)
	mount(e, "categories", h.Categories, routeOpts{documents: true})
	mount(e, "profiles", h.Profiles, routeOpts{documents: true})
	mount(e, "products", h.Products, routeOpts{documents: true})
	mount(e, "offers", h.Offers, routeOpts{})
	mount(e, "vendors", h.Vendors, routeOpts{documents: true, bans: true})
	mount(e, "contributors", h.Contributors, routeOpts{documents: true, bans: true})
	mount(e, "tags", h.Tags, routeOpts{})

	// --- Images ---
	imageHandler := handler.NewImageHandler(d.Images)
	e.POST("/images", imageHandler.Upload)
	e.Static("/static/images", d.ImageDir)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.DB, d.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Observability ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

type routeOpts struct {
	documents bool
	bans      bool
}

// mount registers the uniform route set for one resource kind, plus the
// sub-resource routes the kind carries.
func mount[T any, P service.Ptr[T]](e *echo.Echo, path string, h *handler.Resources[T, P], opt routeOpts) {
	e.POST("/"+path, h.Create)
	e.GET("/"+path, h.List)
	e.GET("/"+path+"/:id", h.Get)
	e.PATCH("/"+path+"/:id", h.Patch)

	if opt.documents {
		e.POST("/"+path+"/:id/documents", h.AddDocument)
		e.PATCH("/"+path+"/:id/documents/:docID", h.UpdateDocument)
		e.GET("/"+path+"/:id/documents/:docID", h.DownloadDocument)
	}
	if opt.bans {
		e.POST("/"+path+"/:id/bans", h.AddBan)
		e.GET("/"+path+"/:id/bans", h.ListBans)
	}
}
