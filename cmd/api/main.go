// Command api runs the catalog HTTP server.
//
//	@title			Marketplace Catalog API
//	@version		1.0
//	@description	Catalog of categories, profiles, products, offers, vendors,
//	@description	contributors and tags, guarded by capability tokens.
//	@BasePath		/
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openmarket/catalog-api/internal/api"
	"github.com/openmarket/catalog-api/internal/core/access"
	"github.com/openmarket/catalog-api/internal/core/audit"
	"github.com/openmarket/catalog-api/internal/core/domain"
	"github.com/openmarket/catalog-api/internal/core/images"
	"github.com/openmarket/catalog-api/internal/core/service"
	"github.com/openmarket/catalog-api/internal/infrastructure/config"
	mongodb "github.com/openmarket/catalog-api/internal/infrastructure/db/mongo"
	redisdb "github.com/openmarket/catalog-api/internal/infrastructure/db/redis"
	"github.com/openmarket/catalog-api/internal/infrastructure/docsvc"
	"github.com/openmarket/catalog-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	resolver := access.NewResolver(cfg.Superuser, cfg.Accreditation)
	recorder := audit.NewRecorder(mongodb.NewRevisionStore(db), log)
	docs := docsvc.NewClient(cfg.DocSvc.Host, cfg.PublicBase, cfg.DocSvc.Secret)

	categoryStore := mongodb.NewCategoryStore(db)
	catalog := service.NewCatalog(service.Stores{
		Categories:   categoryStore,
		Profiles:     mongodb.NewStore[domain.Profile](db, mongodb.ColProfiles),
		Products:     mongodb.NewStore[domain.Product](db, mongodb.ColProducts),
		Offers:       mongodb.NewStore[domain.Offer](db, mongodb.ColOffers),
		Vendors:      mongodb.NewVendorStore(db),
		Contributors: mongodb.NewContributorStore(db),
		Tags:         mongodb.NewTagStore(db),
	}, redisdb.NewCategoryCache(rdb, categoryStore, log), resolver, recorder, docs, log)

	e := api.NewRouter(api.Deps{
		Catalog:  catalog,
		Resolver: resolver,
		Images:   images.NewStore(cfg.ImageDir),
		ImageDir: cfg.ImageDir,
		DB:       db,
		Redis:    rdb,
		Log:      log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("catalog api listening")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
