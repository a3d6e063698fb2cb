// Package access implements the dual-channel authorization model: bearer
// capability tokens prove possession, caller names prove ownership. A
// superuser identity may administer any resource without knowing its token;
// everyone else must present the secret and match the recorded owner.
package access

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/openmarket/catalog-api/internal/core/domain"
)

const tokenBytes = 16

// Resolver resolves identities and validates tokens against a configured
// superuser name and per-category accreditation lists.
type Resolver struct {
	superuser     string
	accreditation map[string][]string
}

// NewResolver builds a Resolver. accreditation maps a category id (or "*" for
// a global list) to pipe-separated caller names, matching the config format.
func NewResolver(superuser string, accreditation map[string]string) *Resolver {
	lists := make(map[string][]string, len(accreditation))
	for category, names := range accreditation {
		for _, n := range strings.Split(names, "|") {
			if n = strings.TrimSpace(n); n != "" {
				lists[category] = append(lists[category], n)
			}
		}
	}
	return &Resolver{superuser: superuser, accreditation: lists}
}

// ResolveIdentity parses a basic-auth Authorization header into a caller
// identity. An absent header yields the anonymous identity; a present but
// unparsable one fails with Unauthorized.
func (r *Resolver) ResolveIdentity(authHeader string) (domain.Identity, error) {
	if authHeader == "" {
		return domain.Identity{Anonymous: true}, nil
	}

	scheme, creds, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "basic") {
		return domain.Identity{}, domain.Unauthorized("unsupported authorization scheme")
	}
	raw, err := base64.StdEncoding.DecodeString(creds)
	if err != nil {
		return domain.Identity{}, domain.Unauthorized("malformed basic credentials")
	}
	name, _, _ := strings.Cut(string(raw), ":")
	if name == "" {
		return domain.Identity{}, domain.Unauthorized("empty caller name")
	}

	return domain.Identity{Name: name, Super: name == r.superuser}, nil
}

// NewAccess generates a fresh capability token for owner. The returned
// plaintext is surfaced to the creator exactly once; only the hash is stored.
func NewAccess(owner string) (domain.Access, string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return domain.Access{}, "", err
	}
	token := hex.EncodeToString(buf)

	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return domain.Access{}, "", err
	}
	return domain.Access{Owner: owner, Token: string(hash)}, token, nil
}

// ValidateToken authorizes a mutation of a resource guarded by acc.
//
// Token channel: presented must hash-compare against the stored hash, unless
// the caller is the superuser. Name channel: the caller must equal the
// recorded owner, the delegated administrator, or the superuser. Both
// channels must pass.
func (r *Resolver) ValidateToken(caller domain.Identity, acc *domain.Access, presented, administrator string) error {
	if acc == nil {
		return domain.Forbidden("resource has no access owner")
	}
	if !caller.Super {
		if presented == "" {
			return domain.Unauthorized("access token required")
		}
		if bcrypt.CompareHashAndPassword([]byte(acc.Token), []byte(presented)) != nil {
			return domain.Forbidden("invalid access token")
		}
	}
	if caller.Super || caller.Name == acc.Owner || (administrator != "" && caller.Name == administrator) {
		return nil
	}
	return domain.Forbidden("caller is not the resource owner")
}

// ValidateAccreditation checks the caller against the allow-list configured
// for the named category. The superuser always passes; others must appear in
// the category's list or the "*" wildcard list.
func (r *Resolver) ValidateAccreditation(caller domain.Identity, category string) error {
	if caller.Super {
		return nil
	}
	if caller.Anonymous {
		return domain.Unauthorized("authentication required")
	}
	for _, list := range [][]string{r.accreditation[category], r.accreditation["*"]} {
		for _, name := range list {
			if name == caller.Name {
				return nil
			}
		}
	}
	return domain.Forbidden("caller %q is not accredited for category %s", caller.Name, category)
}
