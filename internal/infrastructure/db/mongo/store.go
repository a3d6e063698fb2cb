package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openmarket/catalog-api/internal/core/domain"
	"github.com/openmarket/catalog-api/internal/core/ports"
)

// Store implements ports.ObjectStore for one collection. The conditional
// replace keyed on dateModified is the storage half of the optimistic update
// protocol; there is no unconditioned write path for existing documents.
type Store[T any] struct {
	col *mongo.Collection
}

func NewStore[T any](db *mongo.Database, collection string) *Store[T] {
	return &Store[T]{col: db.Collection(collection)}
}

func (s *Store[T]) FindByID(ctx context.Context, id string) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var out T
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NotFound("%s %s not found", s.col.Name(), id)
		}
		return nil, err
	}
	return &out, nil
}

func (s *Store[T]) Insert(ctx context.Context, obj *T) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := s.col.InsertOne(ctx, obj)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicateKey
	}
	return err
}

// ReplaceIf overwrites the document only while its stored dateModified still
// equals expected. A lost race surfaces as domain.ErrConflict; the engine
// reloads and re-runs the mutation.
func (s *Store[T]) ReplaceIf(ctx context.Context, id string, expected time.Time, obj *T) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "dateModified": expected.UTC()}
	res, err := s.col.ReplaceOne(ctx, filter, obj)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicateKey
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrConflict
	}
	return nil
}

// List returns one page ordered by (dateModified, _id), resuming strictly
// after the cursor position when one is given.
func (s *Store[T]) List(ctx context.Context, q ports.ListQuery) ([]*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	dir := 1
	if q.Descending {
		dir = -1
	}

	filter := bson.M{}
	if q.After != nil {
		cmp := "$gt"
		if q.Descending {
			cmp = "$lt"
		}
		ts := q.After.DateModified.UTC()
		filter["$or"] = bson.A{
			bson.M{"dateModified": bson.M{cmp: ts}},
			bson.M{"dateModified": ts, "_id": bson.M{cmp: q.After.ID}},
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "dateModified", Value: dir}, {Key: "_id", Value: dir}}).
		SetLimit(int64(q.Limit))

	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []*T
	for cur.Next(ctx) {
		var item T
		if err := cur.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, cur.Err()
}

// findOne runs an arbitrary filter, mapping the empty result to NotFound.
func (s *Store[T]) findOne(ctx context.Context, filter bson.M) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var out T
	err := s.col.FindOne(ctx, filter).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NotFound("%s not found", s.col.Name())
		}
		return nil, err
	}
	return &out, nil
}
