package access

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/openmarket/catalog-api/internal/core/domain"
)

func basicHeader(name string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(name+":"))
}

func TestResolveIdentity(t *testing.T) {
	r := NewResolver("administrator", nil)

	id, err := r.ResolveIdentity(basicHeader("broker1"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if id.Name != "broker1" || id.Anonymous || id.Super {
		t.Fatalf("unexpected identity: %+v", id)
	}

	super, err := r.ResolveIdentity(basicHeader("administrator"))
	if err != nil {
		t.Fatalf("resolve superuser: %v", err)
	}
	if !super.Super {
		t.Fatalf("superuser not recognized: %+v", super)
	}

	anon, err := r.ResolveIdentity("")
	if err != nil {
		t.Fatalf("resolve anonymous: %v", err)
	}
	if !anon.Anonymous {
		t.Fatalf("missing header must yield anonymous, got %+v", anon)
	}

	if _, err := r.ResolveIdentity("Bearer whatever"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("non-basic scheme must be unauthorized, got %v", err)
	}
	if _, err := r.ResolveIdentity("Basic !!!"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("garbage credentials must be unauthorized, got %v", err)
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	r := NewResolver("administrator", nil)

	acc, token, err := NewAccess("broker1")
	if err != nil {
		t.Fatalf("new access: %v", err)
	}
	if len(token) != 2*tokenBytes {
		t.Fatalf("token length %d, want %d hex chars", len(token), 2*tokenBytes)
	}
	if acc.Token == token {
		t.Fatalf("plaintext token must never be stored")
	}

	owner := domain.Identity{Name: "broker1"}
	if err := r.ValidateToken(owner, &acc, token, ""); err != nil {
		t.Fatalf("owner with correct token rejected: %v", err)
	}
}

func TestValidateToken_Channels(t *testing.T) {
	r := NewResolver("administrator", nil)
	acc, token, err := NewAccess("broker1")
	if err != nil {
		t.Fatalf("new access: %v", err)
	}

	// Wrong token, right name.
	if err := r.ValidateToken(domain.Identity{Name: "broker1"}, &acc, "deadbeef", ""); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("wrong token must be forbidden, got %v", err)
	}
	// Right token, wrong name.
	if err := r.ValidateToken(domain.Identity{Name: "broker2"}, &acc, token, ""); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("wrong caller must be forbidden, got %v", err)
	}
	// No token at all.
	if err := r.ValidateToken(domain.Identity{Name: "broker1"}, &acc, "", ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("missing token must be unauthorized, got %v", err)
	}
	// Superuser needs neither the token nor the owner name.
	if err := r.ValidateToken(domain.Identity{Name: "administrator", Super: true}, &acc, "", ""); err != nil {
		t.Fatalf("superuser bypass failed: %v", err)
	}
	// Delegated administrator passes the name channel with the token.
	if err := r.ValidateToken(domain.Identity{Name: "delegate"}, &acc, token, "delegate"); err != nil {
		t.Fatalf("delegated administrator rejected: %v", err)
	}
	// Resource with no access block is unmanageable.
	if err := r.ValidateToken(domain.Identity{Name: "broker1"}, nil, token, ""); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("nil access must be forbidden, got %v", err)
	}
}

func TestValidateAccreditation(t *testing.T) {
	r := NewResolver("administrator", map[string]string{
		"cat-31500000": "broker1|broker2",
		"*":            "global-broker",
	})

	cases := []struct {
		name     string
		caller   domain.Identity
		category string
		wantErr  error
	}{
		{"listed caller", domain.Identity{Name: "broker1"}, "cat-31500000", nil},
		{"second listed caller", domain.Identity{Name: "broker2"}, "cat-31500000", nil},
		{"wildcard caller", domain.Identity{Name: "global-broker"}, "cat-99", nil},
		{"superuser", domain.Identity{Name: "administrator", Super: true}, "cat-99", nil},
		{"unlisted caller", domain.Identity{Name: "broker3"}, "cat-31500000", domain.ErrForbidden},
		{"anonymous", domain.Identity{Anonymous: true}, "cat-31500000", domain.ErrUnauthorized},
	}
	for _, tc := range cases {
		err := r.ValidateAccreditation(tc.caller, tc.category)
		if tc.wantErr == nil && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
			t.Fatalf("%s: want %v, got %v", tc.name, tc.wantErr, err)
		}
	}
}
