package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/openmarket/catalog-api/internal/core/domain"
)

type stubProducts struct {
	byID map[string]*domain.Product
}

func (s *stubProducts) FindByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, domain.NotFound("products %s not found", id)
	}
	return p, nil
}

func TestCategoryHooks_DefaultsStatus(t *testing.T) {
	h := &CategoryHooks{}
	c := &domain.Category{Title: "machines"}

	if err := h.OnCreate(context.Background(), testRC(), c); err != nil {
		t.Fatalf("create: %v", err)
	}
	h.Always(c)
	if c.Status != domain.StatusActive {
		t.Fatalf("status = %q, want active default", c.Status)
	}
	if !c.DateCreated.Equal(c.DateModified) {
		t.Fatalf("fresh resource must have dateCreated == dateModified")
	}
}

func TestProfileHooks_RequireActiveCategory(t *testing.T) {
	h := &ProfileHooks{Categories: &stubCategories{statuses: map[string]domain.ResourceStatus{
		"cat-1": domain.StatusActive,
		"cat-2": domain.StatusHidden,
	}}}

	p := &domain.Profile{Title: "tender profile", RelatedCategory: "cat-1"}
	if err := h.OnCreate(context.Background(), testRC(), p); err != nil {
		t.Fatalf("active category rejected: %v", err)
	}

	bad := &domain.Profile{Title: "tender profile", RelatedCategory: "cat-2"}
	if err := h.OnCreate(context.Background(), testRC(), bad); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("hidden category must fail, got %v", err)
	}

	// The relation is only re-validated when the patch moved it.
	before := &domain.Profile{Title: "tender profile", RelatedCategory: "cat-2"}
	before.Stamp(testRC().Now)
	after := *before
	after.Title = "renamed"
	if err := h.OnPatch(context.Background(), testRC(), before, &after); err != nil {
		t.Fatalf("patch without category change must not revalidate: %v", err)
	}
}

func TestOfferHooks_RelatedProductRules(t *testing.T) {
	active := &domain.Product{Title: "drill", Status: domain.StatusActive}
	active.ID = "prod-active"
	hidden := &domain.Product{Title: "saw", Status: domain.StatusHidden}
	hidden.ID = "prod-hidden"

	h := &OfferHooks{Products: &stubProducts{byID: map[string]*domain.Product{
		"prod-active": active,
		"prod-hidden": hidden,
	}}}

	ok := &domain.Offer{RelatedProduct: "prod-active", Value: domain.Value{Amount: 10, Currency: "EUR"}}
	if err := h.OnCreate(context.Background(), testRC(), ok); err != nil {
		t.Fatalf("offer on active product rejected: %v", err)
	}

	onHidden := &domain.Offer{RelatedProduct: "prod-hidden"}
	if err := h.OnCreate(context.Background(), testRC(), onHidden); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("offer on hidden product must fail, got %v", err)
	}

	onMissing := &domain.Offer{RelatedProduct: "prod-ghost"}
	if err := h.OnCreate(context.Background(), testRC(), onMissing); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("offer on missing product must fail, got %v", err)
	}
}

func TestOfferHooks_RelatedProductImmutable(t *testing.T) {
	h := &OfferHooks{Products: &stubProducts{byID: map[string]*domain.Product{}}}

	before := &domain.Offer{RelatedProduct: "prod-1", Value: domain.Value{Amount: 10, Currency: "EUR"}}
	before.Stamp(testRC().Now)
	after := *before
	after.RelatedProduct = "prod-2"

	if err := h.OnPatch(context.Background(), testRC(), before, &after); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("relatedProduct change must fail, got %v", err)
	}

	// Price moves are allowed.
	reprice := *before
	reprice.Value.Amount = 12
	if err := h.OnPatch(context.Background(), testRC(), before, &reprice); err != nil {
		t.Fatalf("price change rejected: %v", err)
	}
}

type stubContributorLookup struct {
	byIdentifier map[string]*domain.Contributor
}

func (s *stubContributorLookup) FindByIdentifier(_ context.Context, id string) (*domain.Contributor, error) {
	c, ok := s.byIdentifier[id]
	if !ok {
		return nil, domain.NotFound("contributors %s not found", id)
	}
	return c, nil
}

func TestContributorHooks_IdentifierUnique(t *testing.T) {
	existing := &domain.Contributor{Contributor: domain.ContributorInfo{
		Name:       "first",
		Identifier: domain.Identifier{Scheme: "tax", ID: "tax-9"},
	}}
	existing.ID = "contrib-first"

	h := &ContributorHooks{Contributors: &stubContributorLookup{
		byIdentifier: map[string]*domain.Contributor{"tax-9": existing},
	}}

	dup := &domain.Contributor{Contributor: domain.ContributorInfo{
		Name:       "second",
		Identifier: domain.Identifier{Scheme: "tax", ID: "tax-9"},
	}}
	err := h.OnCreate(context.Background(), testRC(), dup)
	if !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("duplicate identifier must fail, got %v", err)
	}

	fresh := &domain.Contributor{Contributor: domain.ContributorInfo{
		Name:       "third",
		Identifier: domain.Identifier{Scheme: "tax", ID: "tax-10"},
	}}
	if err := h.OnCreate(context.Background(), testRC(), fresh); err != nil {
		t.Fatalf("fresh identifier rejected: %v", err)
	}
}
