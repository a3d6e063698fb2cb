// Command migrate runs one-off data migrations. Jobs are idempotent: every
// bulk operation carries a filter that stops matching once applied, so a
// re-run after a partial failure only touches what is left.
package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openmarket/catalog-api/internal/core/domain"
	"github.com/openmarket/catalog-api/internal/core/ports"
	"github.com/openmarket/catalog-api/internal/infrastructure/config"
	mongodb "github.com/openmarket/catalog-api/internal/infrastructure/db/mongo"
	"github.com/openmarket/catalog-api/pkg/logger"
)

const batchSize = 500

type job struct {
	name string
	run  func(ctx context.Context, db *mongo.Database, w ports.BulkWriter, log zerolog.Logger) error
}

var jobs = []job{
	{name: "vendor-status-backfill", run: vendorStatusBackfill},
}

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Env == "development"})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	writer := mongodb.NewBulkWriter(db)
	for _, j := range jobs {
		start := time.Now()
		if err := j.run(ctx, db, writer, log); err != nil {
			log.Error().Err(err).Str("job", j.name).Msg("migration failed")
			os.Exit(1)
		}
		log.Info().Str("job", j.name).Dur("took", time.Since(start)).Msg("migration done")
	}
}

// vendorStatusBackfill recomputes the derived vendor status from isActivated
// for documents written before status became a stored field. Each batch is
// one bulk write; the per-document filter re-checks the stale status, so
// nothing is rewritten twice.
func vendorStatusBackfill(ctx context.Context, db *mongo.Database, w ports.BulkWriter, log zerolog.Logger) error {
	stale := bson.M{"$or": []bson.M{
		{"isActivated": true, "status": bson.M{"$ne": string(domain.VendorActive)}},
		{"isActivated": false, "status": bson.M{"$ne": string(domain.VendorPending)}},
	}}

	cur, err := db.Collection(mongodb.ColVendors).Find(ctx, stale,
		options.Find().SetProjection(bson.M{"_id": 1, "isActivated": 1}))
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	var total int64
	ops := make([]ports.BulkOp, 0, batchSize)

	flush := func() error {
		if len(ops) == 0 {
			return nil
		}
		modified, err := w.BulkWrite(ctx, mongodb.ColVendors, ops)
		if err != nil {
			return err
		}
		total += modified
		log.Info().Int("batch", len(ops)).Int64("modified", modified).Msg("vendor status batch written")
		ops = ops[:0]
		return nil
	}

	for cur.Next(ctx) {
		var doc struct {
			ID          string `bson:"_id"`
			IsActivated bool   `bson:"isActivated"`
		}
		if err := cur.Decode(&doc); err != nil {
			return err
		}

		status := domain.VendorPending
		if doc.IsActivated {
			status = domain.VendorActive
		}
		ops = append(ops, ports.BulkOp{
			Filter: map[string]any{"_id": doc.ID, "status": map[string]any{"$ne": string(status)}},
			Update: map[string]any{"$set": map[string]any{"status": string(status)}},
		})

		if len(ops) == batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := cur.Err(); err != nil {
		return err
	}
	if err := flush(); err != nil {
		return err
	}

	log.Info().Int64("total", total).Msg("vendor status backfill complete")
	return nil
}
