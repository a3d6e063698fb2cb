package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openmarket/catalog-api/internal/core/audit"
	"github.com/openmarket/catalog-api/internal/core/domain"
	"github.com/openmarket/catalog-api/internal/core/ports"
)

// Collection names.
const (
	ColCategories   = "categories"
	ColProfiles     = "profiles"
	ColProducts     = "products"
	ColOffers       = "offers"
	ColVendors      = "vendors"
	ColContributors = "contributors"
	ColTags         = "tags"
	ColRevisions    = "revisions"
)

// CategoryStore adds category lookups needed by hooks.
type CategoryStore struct{ *Store[domain.Category] }

func NewCategoryStore(db *mongo.Database) *CategoryStore {
	return &CategoryStore{NewStore[domain.Category](db, ColCategories)}
}

// CategoryStatus fetches only the status field.
func (s *CategoryStore) CategoryStatus(ctx context.Context, id string) (domain.ResourceStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var out struct {
		Status domain.ResourceStatus `bson:"status"`
	}
	err := s.col.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"status": 1})).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", domain.NotFound("category %s not found", id)
		}
		return "", err
	}
	return out.Status, nil
}

// VendorStore adds the activation-time uniqueness lookup.
type VendorStore struct{ *Store[domain.Vendor] }

func NewVendorStore(db *mongo.Database) *VendorStore {
	return &VendorStore{NewStore[domain.Vendor](db, ColVendors)}
}

func (s *VendorStore) FindActiveByTaxID(ctx context.Context, taxID string) (*domain.Vendor, error) {
	return s.findOne(ctx, bson.M{
		"vendor.identifier.id": taxID,
		"status":               string(domain.VendorActive),
	})
}

// ContributorStore adds the global identifier lookup.
type ContributorStore struct{ *Store[domain.Contributor] }

func NewContributorStore(db *mongo.Database) *ContributorStore {
	return &ContributorStore{NewStore[domain.Contributor](db, ColContributors)}
}

func (s *ContributorStore) FindByIdentifier(ctx context.Context, identifierID string) (*domain.Contributor, error) {
	return s.findOne(ctx, bson.M{"contributor.identifier.id": identifierID})
}

// TagStore adds the code lookup.
type TagStore struct{ *Store[domain.Tag] }

func NewTagStore(db *mongo.Database) *TagStore {
	return &TagStore{NewStore[domain.Tag](db, ColTags)}
}

func (s *TagStore) FindByCode(ctx context.Context, code string) (*domain.Tag, error) {
	return s.findOne(ctx, bson.M{"code": code})
}

// RevisionStore appends audit entries.
type RevisionStore struct {
	col *mongo.Collection
}

func NewRevisionStore(db *mongo.Database) *RevisionStore {
	return &RevisionStore{col: db.Collection(ColRevisions)}
}

func (s *RevisionStore) Append(ctx context.Context, rev *audit.Revision) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := s.col.InsertOne(ctx, rev)
	return err
}

// BulkWriter runs one migration batch as a single bulk write.
type BulkWriter struct {
	db *mongo.Database
}

func NewBulkWriter(db *mongo.Database) *BulkWriter {
	return &BulkWriter{db: db}
}

func (w *BulkWriter) BulkWrite(ctx context.Context, collection string, ops []ports.BulkOp) (int64, error) {
	if len(ops) == 0 {
		return 0, nil
	}
	models := make([]mongo.WriteModel, 0, len(ops))
	for _, op := range ops {
		models = append(models, mongo.NewUpdateManyModel().
			SetFilter(bson.M(op.Filter)).
			SetUpdate(bson.M(op.Update)))
	}
	res, err := w.db.Collection(collection).BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// EnsureIndexes creates the index set the catalog relies on: pagination
// ordering per collection, a unique tag code, a unique contributor
// identifier, and a partial unique index guaranteeing at most one active
// vendor per tax identifier (a stronger guarantee than the hook-level
// check-then-act alone).
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	paged := []string{ColCategories, ColProfiles, ColProducts, ColOffers, ColVendors, ColContributors, ColTags}
	for _, name := range paged {
		_, err := db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "dateModified", Value: 1}, {Key: "_id", Value: 1}},
		})
		if err != nil {
			return err
		}
	}

	unique := []struct {
		col   string
		model mongo.IndexModel
	}{
		{ColTags, mongo.IndexModel{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{ColContributors, mongo.IndexModel{
			Keys:    bson.D{{Key: "contributor.identifier.id", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{ColVendors, mongo.IndexModel{
			Keys: bson.D{{Key: "vendor.identifier.id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": string(domain.VendorActive)}),
		}},
		{ColRevisions, mongo.IndexModel{
			Keys: bson.D{{Key: "resourceId", Value: 1}, {Key: "date", Value: 1}},
		}},
	}
	for _, idx := range unique {
		if _, err := db.Collection(idx.col).Indexes().CreateOne(ctx, idx.model); err != nil {
			return err
		}
	}
	return nil
}
