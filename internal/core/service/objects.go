// Package service composes the core components — access control, optimistic
// update engine, state transition hooks, revision recorder and serializer —
// into per-resource-kind use cases. One generic object service carries the
// protocol; kind specifics enter through a small configuration.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/openmarket/catalog-api/internal/api/metrics"
	"github.com/openmarket/catalog-api/internal/core/access"
	"github.com/openmarket/catalog-api/internal/core/audit"
	"github.com/openmarket/catalog-api/internal/core/domain"
	"github.com/openmarket/catalog-api/internal/core/engine"
	"github.com/openmarket/catalog-api/internal/core/hooks"
	"github.com/openmarket/catalog-api/internal/core/ports"
	"github.com/openmarket/catalog-api/internal/core/serializer"
	"github.com/openmarket/catalog-api/internal/infrastructure/docsvc"
)

// Ptr constrains the pointer form of a resource kind.
type Ptr[T any] interface {
	*T
	Res() *domain.Resource
	ObjectID() string
	Fingerprint() time.Time
}

// Config is the per-kind wiring of the generic object service. Optional
// accessors are nil for kinds without the corresponding sub-entities.
type Config[T any, P Ptr[T]] struct {
	Kind  domain.Kind
	Path  string // URL path segment, e.g. "vendors"
	Store ports.ObjectStore[T]
	Hooks hooks.Hooks[T]

	// Accredit gates creation; nil means any authenticated caller may create.
	Accredit func(ctx context.Context, rc domain.RequestContext, obj P) error
	// Docs exposes the kind's documents list, when it has one.
	Docs func(obj P) *[]domain.Document
	// Bans exposes the kind's bans list, when it has one.
	Bans func(obj P) *[]domain.Ban
	// BanAccredit gates ban issuance; required when Bans is set.
	BanAccredit func(ctx context.Context, rc domain.RequestContext, obj P) error
	// Administrator names the delegated administrator allowed to mutate the
	// resource without being its owner.
	Administrator func(obj P) string
	// Invalidate drops externally cached state for the resource. Runs after
	// every committed write, so stale cache entries never outlive a mutation.
	Invalidate func(ctx context.Context, id string)
}

// Created is the result of a create: the serialized view plus the one-time
// plaintext capability token.
type Created struct {
	Data   map[string]any `json:"data"`
	Access *AccessView    `json:"access,omitempty"`
}

// AccessView surfaces the plaintext token exactly once.
type AccessView struct {
	Owner string `json:"owner"`
	Token string `json:"token"`
}

// Objects is the generic service over one resource kind.
type Objects[T any, P Ptr[T]] struct {
	cfg   Config[T, P]
	acl   *access.Resolver
	audit *audit.Recorder
	docs  *docsvc.Client
	log   zerolog.Logger
}

func NewObjects[T any, P Ptr[T]](cfg Config[T, P], acl *access.Resolver, rec *audit.Recorder, docs *docsvc.Client, log zerolog.Logger) *Objects[T, P] {
	return &Objects[T, P]{cfg: cfg, acl: acl, audit: rec, docs: docs, log: log}
}

// Create runs the creation protocol: accreditation, access issuance, create
// hooks, insert, revision. The plaintext token is returned once and never
// stored.
func (s *Objects[T, P]) Create(ctx context.Context, rc domain.RequestContext, obj P) (*Created, error) {
	if rc.Caller.Anonymous {
		return nil, domain.Unauthorized("authentication required")
	}
	if s.cfg.Accredit != nil {
		if err := s.cfg.Accredit(ctx, rc, obj); err != nil {
			return nil, err
		}
	}

	acc, token, err := access.NewAccess(rc.Caller.Name)
	if err != nil {
		return nil, err
	}
	obj.Res().Access = &acc

	if err := s.cfg.Hooks.OnCreate(ctx, rc, (*T)(obj)); err != nil {
		return nil, err
	}
	s.cfg.Hooks.Always((*T)(obj))

	if err := s.cfg.Store.Insert(ctx, (*T)(obj)); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, domain.BadRequest("%s with the same identifier already exists", s.cfg.Kind)
		}
		return nil, err
	}
	metrics.ObjectsCreated.WithLabelValues(string(s.cfg.Kind)).Inc()
	s.invalidate(ctx, obj.ObjectID())

	newMap, err := serializer.AsMap(obj)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, rc, s.cfg.Kind, obj.ObjectID(), nil, newMap)
	s.log.Info().Str("kind", string(s.cfg.Kind)).Str("id", obj.ObjectID()).
		Str("owner", rc.Caller.Name).Msg("resource created")

	return &Created{
		Data:   s.view(rc, newMap, obj),
		Access: &AccessView{Owner: acc.Owner, Token: token},
	}, nil
}

// Get serializes one resource for the caller.
func (s *Objects[T, P]) Get(ctx context.Context, rc domain.RequestContext, id string) (map[string]any, error) {
	obj, err := s.cfg.Store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m, err := serializer.AsMap(obj)
	if err != nil {
		return nil, err
	}
	return s.view(rc, m, P(obj)), nil
}

// List returns one page ordered by dateModified (ties by id). An exhausted
// page repeats the caller's cursor so polling clients can resume later.
func (s *Objects[T, P]) List(ctx context.Context, rc domain.RequestContext, in ListInput) (*Page, error) {
	after, err := decodeCursor(in.Offset)
	if err != nil {
		return nil, err
	}
	q := ports.ListQuery{After: after, Limit: boundLimit(in.Limit), Descending: in.Descending}

	items, err := s.cfg.Store.List(ctx, q)
	if err != nil {
		return nil, err
	}

	page := &Page{Data: make([]map[string]any, 0, len(items))}
	for _, item := range items {
		m, err := serializer.AsMap(item)
		if err != nil {
			return nil, err
		}
		page.Data = append(page.Data, s.view(rc, m, P(item)))
	}

	switch {
	case len(items) > 0:
		last := P(items[len(items)-1])
		page.NextPage = &NextPage{Offset: encodeCursor(ports.Cursor{
			DateModified: last.Fingerprint(),
			ID:           last.ObjectID(),
		})}
	case in.Offset != "":
		page.NextPage = &NextPage{Offset: in.Offset}
	}
	return page, nil
}

// Patch mutates the resource through the optimistic update engine. The token
// is validated inside the mutation body so authorization always sees the
// snapshot being written; apply receives the in-memory copy and must stay
// free of external side effects, as it re-runs on conflict.
func (s *Objects[T, P]) Patch(ctx context.Context, rc domain.RequestContext, id, token string, apply func(obj P) error) (map[string]any, error) {
	var oldMap map[string]any

	committed, err := engine.Update(ctx, s.cfg.Kind, s.cfg.Store, id, func(obj P) error {
		if err := s.authorize(rc, obj, token); err != nil {
			return err
		}
		before, err := clone((*T)(obj))
		if err != nil {
			return err
		}
		if oldMap, err = serializer.AsMap(before); err != nil {
			return err
		}
		if err := apply(obj); err != nil {
			return err
		}
		if err := s.cfg.Hooks.OnPatch(ctx, rc, before, (*T)(obj)); err != nil {
			return err
		}
		s.cfg.Hooks.Always((*T)(obj))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, committed.ObjectID())

	newMap, err := serializer.AsMap(committed)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, rc, s.cfg.Kind, committed.ObjectID(), oldMap, newMap)

	return s.view(rc, newMap, committed), nil
}

func (s *Objects[T, P]) invalidate(ctx context.Context, id string) {
	if s.cfg.Invalidate != nil {
		s.cfg.Invalidate(ctx, id)
	}
}

func (s *Objects[T, P]) authorize(rc domain.RequestContext, obj P, token string) error {
	administrator := ""
	if s.cfg.Administrator != nil {
		administrator = s.cfg.Administrator(obj)
	}
	return s.acl.ValidateToken(rc.Caller, obj.Res().Access, token, administrator)
}

// view applies the root projection: access stripped, owner re-exposed only to
// entitled callers, documents rewritten to canonical URLs, ban-derived flags
// computed against the request clock.
func (s *Objects[T, P]) view(rc domain.RequestContext, m map[string]any, obj P) map[string]any {
	owner := ""
	if acc := obj.Res().Access; acc != nil {
		owner = acc.Owner
	}

	overrides := map[string]serializer.Override{}
	if s.cfg.Docs != nil {
		parentPath := s.cfg.Path + "/" + obj.ObjectID()
		overrides["documents"] = serializer.NestedList(serializer.DocumentView(parentPath, s.signURL))
	}
	calc := map[string]serializer.Calculated{}
	if s.cfg.Bans != nil {
		calc["isBanned"] = serializer.BannedFlag(rc.Now)
	}

	return serializer.RootView(rc.Caller, owner, overrides, calc).Serialize(m)
}

func (s *Objects[T, P]) signURL(parentPath string, doc map[string]any) any {
	id, _ := doc["id"].(string)
	return s.docs.RewriteToCanonical(parentPath, id)
}

// clone deep-copies a document via a BSON round trip, so before/after
// snapshots never share nested state.
func clone[T any](obj *T) (*T, error) {
	raw, err := bson.Marshal(obj)
	if err != nil {
		return nil, err
	}
	var out T
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
