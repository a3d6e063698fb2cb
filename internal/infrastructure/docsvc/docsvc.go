// Package docsvc is the boundary to the external document store. Uploaded
// file URLs arrive pre-signed by that service; this package verifies they are
// acceptable before the core embeds them in a documents list, and rewrites
// stored URLs into canonical, authenticated download URLs at serialization
// time.
package docsvc

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/openmarket/catalog-api/internal/core/domain"
)

var hashRe = regexp.MustCompile(`^md5:[0-9a-f]{32}$`)

const downloadTokenTTL = 5 * time.Minute

// Client validates document-service URLs and signs download references.
type Client struct {
	serviceHost string // host of the external document service
	publicBase  string // scheme+host this API is reachable on
	secret      []byte
}

func NewClient(serviceHost, publicBase, secret string) *Client {
	return &Client{
		serviceHost: serviceHost,
		publicBase:  strings.TrimSuffix(publicBase, "/"),
		secret:      []byte(secret),
	}
}

// ValidateURL accepts a document only when its content hash has the fixed
// format and its URL points at the configured document service carrying that
// service's signature.
func (c *Client) ValidateURL(rawURL, hash string) error {
	if !hashRe.MatchString(hash) {
		return domain.BadRequest("document hash must be md5:<32 hex>")
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "https" {
		return domain.BadRequest("document url is not a valid https url")
	}
	if u.Host != c.serviceHost {
		return domain.BadRequest("document url host %q is not the document service", u.Host)
	}
	q := u.Query()
	if q.Get("Signature") == "" || q.Get("KeyID") == "" {
		return domain.BadRequest("document url is missing its signature")
	}
	return nil
}

// RewriteToCanonical builds the absolute download URL clients receive:
// <publicBase>/<parentPath>/documents/<id>?download=<signed token>.
func (c *Client) RewriteToCanonical(parentPath, docID string) string {
	token, err := c.signDownload(docID)
	if err != nil {
		// Signing only fails on a broken secret; fall back to the bare path.
		return fmt.Sprintf("%s/%s/documents/%s", c.publicBase, strings.Trim(parentPath, "/"), docID)
	}
	return fmt.Sprintf("%s/%s/documents/%s?download=%s",
		c.publicBase, strings.Trim(parentPath, "/"), docID, token)
}

// signDownload issues a short-lived HS256 reference for one document.
func (c *Client) signDownload(docID string) (string, error) {
	claims := jwt.MapClaims{
		"doc": docID,
		"exp": time.Now().Add(downloadTokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// VerifyDownload checks a presented download reference and returns the
// document id it grants access to.
func (c *Client) VerifyDownload(token string) (string, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", domain.Forbidden("invalid download reference")
	}
	docID, _ := claims["doc"].(string)
	if docID == "" {
		return "", domain.Forbidden("invalid download reference")
	}
	return docID, nil
}
