package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/openmarket/catalog-api/internal/core/access"
	"github.com/openmarket/catalog-api/internal/core/audit"
	"github.com/openmarket/catalog-api/internal/core/domain"
	"github.com/openmarket/catalog-api/internal/core/hooks"
	"github.com/openmarket/catalog-api/internal/core/ports"
	"github.com/openmarket/catalog-api/internal/infrastructure/docsvc"
)

// memStore is an in-memory ObjectStore mirroring the mongo contract:
// NotFound for missing ids, Conflict on a stale fingerprint, list ordering
// by (dateModified, id).
type memStore[T any, P Ptr[T]] struct {
	byID map[string]*T
}

func newMemStore[T any, P Ptr[T]]() *memStore[T, P] {
	return &memStore[T, P]{byID: map[string]*T{}}
}

func (m *memStore[T, P]) FindByID(_ context.Context, id string) (*T, error) {
	obj, ok := m.byID[id]
	if !ok {
		return nil, domain.NotFound("object %s not found", id)
	}
	return clone(obj)
}

func (m *memStore[T, P]) Insert(_ context.Context, obj *T) error {
	cp, err := clone(obj)
	if err != nil {
		return err
	}
	m.byID[P(obj).ObjectID()] = cp
	return nil
}

func (m *memStore[T, P]) ReplaceIf(_ context.Context, id string, expected time.Time, obj *T) error {
	cur, ok := m.byID[id]
	if !ok {
		return domain.NotFound("object %s not found", id)
	}
	if !P(cur).Fingerprint().Equal(expected) {
		return domain.ErrConflict
	}
	cp, err := clone(obj)
	if err != nil {
		return err
	}
	m.byID[id] = cp
	return nil
}

func (m *memStore[T, P]) List(_ context.Context, q ports.ListQuery) ([]*T, error) {
	all := make([]*T, 0, len(m.byID))
	for _, obj := range m.byID {
		cp, err := clone(obj)
		if err != nil {
			return nil, err
		}
		all = append(all, cp)
	}
	before := func(a, b P) bool {
		return a.Fingerprint().Before(b.Fingerprint()) ||
			(a.Fingerprint().Equal(b.Fingerprint()) && a.ObjectID() < b.ObjectID())
	}
	sort.Slice(all, func(i, j int) bool {
		if q.Descending {
			return before(P(all[j]), P(all[i]))
		}
		return before(P(all[i]), P(all[j]))
	})

	out := make([]*T, 0, q.Limit)
	for _, obj := range all {
		p := P(obj)
		if q.After != nil {
			ts, id := q.After.DateModified, q.After.ID
			if q.Descending {
				if !(p.Fingerprint().Before(ts) || (p.Fingerprint().Equal(ts) && p.ObjectID() < id)) {
					continue
				}
			} else {
				if !(p.Fingerprint().After(ts) || (p.Fingerprint().Equal(ts) && p.ObjectID() > id)) {
					continue
				}
			}
		}
		out = append(out, obj)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

type memRevisions struct {
	appended []*audit.Revision
}

func (m *memRevisions) Append(_ context.Context, rev *audit.Revision) error {
	m.appended = append(m.appended, rev)
	return nil
}

type testEnv struct {
	store     *memStore[domain.Category, *domain.Category]
	revisions *memRevisions
	svc       *Objects[domain.Category, *domain.Category]
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newMemStore[domain.Category, *domain.Category]()
	revisions := &memRevisions{}
	acl := access.NewResolver("administrator", map[string]string{"*": "broker1|broker2"})
	recorder := audit.NewRecorder(revisions, zerolog.Nop())
	docs := docsvc.NewClient("docs.example.net", "https://api.example.com", "test-secret")

	svc := NewObjects(Config[domain.Category, *domain.Category]{
		Kind:  domain.KindCategory,
		Path:  "categories",
		Store: store,
		Hooks: &hooks.CategoryHooks{},
		Docs:  func(c *domain.Category) *[]domain.Document { return &c.Documents },
	}, acl, recorder, docs, zerolog.Nop())

	return &testEnv{store: store, revisions: revisions, svc: svc}
}

func rcFor(name string) domain.RequestContext {
	return domain.RequestContext{
		Caller: domain.Identity{Name: name},
		Now:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestCreate_IssuesTokenAndStamps(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.svc.Create(context.Background(), rcFor("broker1"), &domain.Category{Title: "machines"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if out.Access == nil || out.Access.Token == "" || out.Access.Owner != "broker1" {
		t.Fatalf("create must surface the one-time token, got %+v", out.Access)
	}
	if _, ok := out.Data["access"]; ok {
		t.Fatalf("serialized data must not carry the access block")
	}

	id, _ := out.Data["id"].(string)
	if id == "" {
		t.Fatalf("no id assigned: %+v", out.Data)
	}
	stored := env.store.byID[id]
	if stored == nil {
		t.Fatalf("object not persisted")
	}
	if !stored.DateCreated.Equal(stored.DateModified) {
		t.Fatalf("fresh object must have dateCreated == dateModified")
	}
	if stored.Access == nil || stored.Access.Token == out.Access.Token {
		t.Fatalf("stored token must be a hash, not the plaintext")
	}

	if len(env.revisions.appended) != 1 || env.revisions.appended[0].Changes[0].Op != "add" {
		t.Fatalf("creation must record an add-only revision, got %+v", env.revisions.appended)
	}
}

func TestCreate_RequiresAuthentication(t *testing.T) {
	env := newTestEnv(t)

	rc := domain.RequestContext{Caller: domain.Identity{Anonymous: true}, Now: time.Now()}
	if _, err := env.svc.Create(context.Background(), rc, &domain.Category{Title: "x"}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("anonymous create must fail, got %v", err)
	}
}

func TestPatch_TokenGuard(t *testing.T) {
	env := newTestEnv(t)
	created, err := env.svc.Create(context.Background(), rcFor("broker1"), &domain.Category{Title: "machines"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := created.Data["id"].(string)
	token := created.Access.Token

	rename := func(c *domain.Category) error { c.Title = "heavy machines"; return nil }

	// Wrong token.
	if _, err := env.svc.Patch(context.Background(), rcFor("broker1"), id, "deadbeef", rename); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("wrong token must be forbidden, got %v", err)
	}
	// Right token, wrong caller.
	if _, err := env.svc.Patch(context.Background(), rcFor("broker2"), id, token, rename); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-owner must be forbidden, got %v", err)
	}
	// No token.
	if _, err := env.svc.Patch(context.Background(), rcFor("broker1"), id, "", rename); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("missing token must be unauthorized, got %v", err)
	}
	// Owner with the token.
	view, err := env.svc.Patch(context.Background(), rcFor("broker1"), id, token, rename)
	if err != nil {
		t.Fatalf("owner patch: %v", err)
	}
	if view["title"] != "heavy machines" {
		t.Fatalf("patch not applied: %+v", view)
	}

	// Superuser without the token.
	super := domain.RequestContext{
		Caller: domain.Identity{Name: "administrator", Super: true},
		Now:    time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC),
	}
	if _, err := env.svc.Patch(context.Background(), super, id, "", rename); err != nil {
		t.Fatalf("superuser patch: %v", err)
	}
}

func TestPatch_IdempotentKeepsFingerprint(t *testing.T) {
	env := newTestEnv(t)
	created, err := env.svc.Create(context.Background(), rcFor("broker1"), &domain.Category{Title: "machines"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := created.Data["id"].(string)
	before := env.store.byID[id].DateModified

	later := rcFor("broker1")
	later.Now = later.Now.Add(time.Hour)
	_, err = env.svc.Patch(context.Background(), later, id, created.Access.Token, func(c *domain.Category) error {
		c.Title = "machines" // no-op
		return nil
	})
	if err != nil {
		t.Fatalf("idempotent patch: %v", err)
	}
	if !env.store.byID[id].DateModified.Equal(before) {
		t.Fatalf("idempotent patch must not move the fingerprint")
	}
}

func TestPatch_MissingObject(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.Patch(context.Background(), rcFor("broker1"), "nope", "tok", func(*domain.Category) error { return nil })
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestGet_OwnerVisibility(t *testing.T) {
	env := newTestEnv(t)
	created, err := env.svc.Create(context.Background(), rcFor("broker1"), &domain.Category{Title: "machines"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := created.Data["id"].(string)

	mine, err := env.svc.Get(context.Background(), rcFor("broker1"), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if mine["owner"] != "broker1" {
		t.Fatalf("owner must see ownership, got %+v", mine)
	}

	theirs, err := env.svc.Get(context.Background(), rcFor("broker2"), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, ok := theirs["owner"]; ok {
		t.Fatalf("stranger must not see ownership")
	}
	if _, ok := theirs["access"]; ok {
		t.Fatalf("access must never serialize")
	}
}

func TestList_CursorWalk(t *testing.T) {
	env := newTestEnv(t)

	// 11 objects with distinct fingerprints.
	for i := 0; i < 11; i++ {
		rc := rcFor("broker1")
		rc.Now = rc.Now.Add(time.Duration(i) * time.Second)
		if _, err := env.svc.Create(context.Background(), rc, &domain.Category{Title: "c"}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	seen := map[string]bool{}
	offset := ""
	sizes := []int{}
	for range [4]int{} {
		page, err := env.svc.List(context.Background(), rcFor("broker2"), ListInput{Offset: offset, Limit: 5})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		sizes = append(sizes, len(page.Data))
		for _, item := range page.Data {
			id := item["id"].(string)
			if seen[id] {
				t.Fatalf("object %s served twice", id)
			}
			seen[id] = true
		}
		if len(page.Data) == 0 {
			// An exhausted page keeps the caller's cursor alive.
			if page.NextPage == nil || page.NextPage.Offset != offset {
				t.Fatalf("empty page must echo the previous cursor")
			}
			break
		}
		if page.NextPage == nil {
			t.Fatalf("non-empty page must carry a cursor")
		}
		offset = page.NextPage.Offset
	}

	if sizes[0] != 5 || sizes[1] != 5 || sizes[2] != 1 || sizes[3] != 0 {
		t.Fatalf("page sizes = %v, want [5 5 1 0]", sizes)
	}
	if len(seen) != 11 {
		t.Fatalf("walk covered %d of 11 objects", len(seen))
	}
}

func TestWritesDropCachedState(t *testing.T) {
	store := newMemStore[domain.Category, *domain.Category]()
	acl := access.NewResolver("administrator", map[string]string{"*": "broker1|broker2"})
	recorder := audit.NewRecorder(&memRevisions{}, zerolog.Nop())
	docs := docsvc.NewClient("docs.example.net", "https://api.example.com", "test-secret")

	var dropped []string
	svc := NewObjects(Config[domain.Category, *domain.Category]{
		Kind:       domain.KindCategory,
		Path:       "categories",
		Store:      store,
		Hooks:      &hooks.CategoryHooks{},
		Invalidate: func(_ context.Context, id string) { dropped = append(dropped, id) },
	}, acl, recorder, docs, zerolog.Nop())

	created, err := svc.Create(context.Background(), rcFor("broker1"), &domain.Category{Title: "machines"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := created.Data["id"].(string)
	if len(dropped) != 1 || dropped[0] != id {
		t.Fatalf("create must drop the cached entry, dropped = %v", dropped)
	}

	// Hiding the category must not leave the active status cached.
	_, err = svc.Patch(context.Background(), rcFor("broker1"), id, created.Access.Token, func(c *domain.Category) error {
		c.Status = domain.StatusHidden
		return nil
	})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if len(dropped) != 2 || dropped[1] != id {
		t.Fatalf("patch must drop the cached entry, dropped = %v", dropped)
	}
}

type invalidatingCategories struct {
	fixedCategories
	dropped []string
}

func (s *invalidatingCategories) Invalidate(_ context.Context, id string) {
	s.dropped = append(s.dropped, id)
}

func TestCategoryInvalidation_Detection(t *testing.T) {
	if categoryInvalidation(fixedCategories{}) != nil {
		t.Fatalf("a plain source must yield no invalidation callback")
	}

	src := &invalidatingCategories{}
	cb := categoryInvalidation(src)
	if cb == nil {
		t.Fatalf("a caching source must yield its invalidation callback")
	}
	cb(context.Background(), "cat-1")
	if len(src.dropped) != 1 || src.dropped[0] != "cat-1" {
		t.Fatalf("callback not bound to the source, dropped = %v", src.dropped)
	}
}

func TestList_BadOffset(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.svc.List(context.Background(), rcFor("broker1"), ListInput{Offset: "not base64!"}); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("malformed offset must be a bad request, got %v", err)
	}
}

func TestDocuments_AttachAndRewrite(t *testing.T) {
	env := newTestEnv(t)
	created, err := env.svc.Create(context.Background(), rcFor("broker1"), &domain.Category{Title: "machines"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := created.Data["id"].(string)
	token := created.Access.Token

	doc := domain.Document{
		Title: "license",
		URL:   "https://docs.example.net/raw/abc?Signature=sig&KeyID=key",
		Hash:  "md5:0123456789abcdef0123456789abcdef",
	}
	view, err := env.svc.AddDocument(context.Background(), rcFor("broker1"), id, token, doc)
	if err != nil {
		t.Fatalf("add document: %v", err)
	}
	docID, _ := view["id"].(string)
	if docID == "" {
		t.Fatalf("document got no id: %+v", view)
	}
	url, _ := view["url"].(string)
	wantPrefix := "https://api.example.com/categories/" + id + "/documents/" + docID
	if len(url) < len(wantPrefix) || url[:len(wantPrefix)] != wantPrefix {
		t.Fatalf("url not canonical: %q", url)
	}

	// Unsigned source URL is refused before anything mutates.
	bad := domain.Document{Title: "x", URL: "https://docs.example.net/raw/abc", Hash: doc.Hash}
	if _, err := env.svc.AddDocument(context.Background(), rcFor("broker1"), id, token, bad); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("unsigned url must fail, got %v", err)
	}
	// So is a malformed hash.
	bad = domain.Document{Title: "x", URL: doc.URL, Hash: "sha1:zzz"}
	if _, err := env.svc.AddDocument(context.Background(), rcFor("broker1"), id, token, bad); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("malformed hash must fail, got %v", err)
	}

	// Update: url and hash travel together.
	newURL := "https://docs.example.net/raw/def?Signature=sig2&KeyID=key"
	if _, err := env.svc.UpdateDocument(context.Background(), rcFor("broker1"), id, docID, token, DocumentPatch{URL: &newURL}); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("url without hash must fail, got %v", err)
	}
	newHash := "md5:fedcba9876543210fedcba9876543210"
	updated, err := env.svc.UpdateDocument(context.Background(), rcFor("broker1"), id, docID, token, DocumentPatch{URL: &newURL, Hash: &newHash})
	if err != nil {
		t.Fatalf("update document: %v", err)
	}
	if updated["id"] != docID {
		t.Fatalf("wrong document returned: %+v", updated)
	}
}
