package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/openmarket/catalog-api/internal/core/domain"
)

type stubTagLookup struct {
	byCode map[string]*domain.Tag
}

func (s *stubTagLookup) FindByCode(_ context.Context, code string) (*domain.Tag, error) {
	t, ok := s.byCode[code]
	if !ok {
		return nil, domain.NotFound("tags %s not found", code)
	}
	return t, nil
}

func TestSlugifyTagCode(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Premium Seller", "premium-seller"},
		{"  Fast & Cheap!  ", "fast-cheap"},
		{"déjà vu", "d-j-vu"},
		{"already-a-slug", "already-a-slug"},
		{"UPPER", "upper"},
	}
	for _, tc := range cases {
		if got := SlugifyTagCode(tc.in); got != tc.want {
			t.Fatalf("SlugifyTagCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTagOnCreate_DerivesAndChecksCode(t *testing.T) {
	h := &TagHooks{Tags: &stubTagLookup{byCode: map[string]*domain.Tag{}}}

	tag := &domain.Tag{Name: "Premium Seller", Active: true}
	if err := h.OnCreate(context.Background(), testRC(), tag); err != nil {
		t.Fatalf("create: %v", err)
	}
	if tag.Code != "premium-seller" {
		t.Fatalf("derived code = %q", tag.Code)
	}

	bad := &domain.Tag{Name: "x", Code: "Not Valid", Active: true}
	if err := h.OnCreate(context.Background(), testRC(), bad); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("invalid explicit code must fail, got %v", err)
	}
}

func TestTagOnCreate_CodeUniqueness(t *testing.T) {
	existing := &domain.Tag{Code: "premium", Name: "Premium"}
	existing.ID = "tag-existing"
	h := &TagHooks{Tags: &stubTagLookup{byCode: map[string]*domain.Tag{"premium": existing}}}

	dup := &domain.Tag{Name: "Premium", Active: true}
	if err := h.OnCreate(context.Background(), testRC(), dup); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("duplicate code must fail, got %v", err)
	}
}

func TestTagOnPatch_InactiveTagFrozen(t *testing.T) {
	h := &TagHooks{Tags: &stubTagLookup{byCode: map[string]*domain.Tag{}}}

	before := &domain.Tag{Code: "old", Name: "Old", Active: false}
	before.Stamp(testRC().Now)

	// Any edit that leaves the tag inactive is refused.
	after := *before
	after.Name = "New name"
	err := h.OnPatch(context.Background(), testRC(), before, &after)
	if !errors.Is(err, domain.ErrBadRequest) || err.Error() != "forbidden to update inactive tag" {
		t.Fatalf("inactive tag edit: got %v", err)
	}

	// Re-activation is the one patch an inactive tag accepts.
	revive := *before
	revive.Active = true
	if err := h.OnPatch(context.Background(), testRC(), before, &revive); err != nil {
		t.Fatalf("re-activation rejected: %v", err)
	}
}

func TestTagOnPatch_ChangedCodeRevalidated(t *testing.T) {
	taken := &domain.Tag{Code: "taken", Name: "Taken"}
	taken.ID = "tag-other"
	h := &TagHooks{Tags: &stubTagLookup{byCode: map[string]*domain.Tag{"taken": taken}}}

	before := &domain.Tag{Code: "mine", Name: "Mine", Active: true}
	before.Stamp(testRC().Now)
	after := *before
	after.Code = "taken"

	if err := h.OnPatch(context.Background(), testRC(), before, &after); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("moving to a taken code must fail, got %v", err)
	}
}
