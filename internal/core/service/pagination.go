package service

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/openmarket/catalog-api/internal/core/domain"
	"github.com/openmarket/catalog-api/internal/core/ports"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// ListInput carries the raw pagination parameters from the boundary.
type ListInput struct {
	Offset     string // opaque cursor token; empty = first page
	Limit      int
	Descending bool
}

// Page is the list response shape: ordered data plus, when more results may
// exist, the cursor to resume from.
type Page struct {
	Data     []map[string]any `json:"data"`
	NextPage *NextPage        `json:"next_page,omitempty"`
}

type NextPage struct {
	Offset string `json:"offset"`
}

// boundLimit clamps limit into [1, maxLimit], defaulting when unset.
func boundLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultLimit
	case limit > maxLimit:
		return maxLimit
	default:
		return limit
	}
}

// encodeCursor packs the ordering position (dateModified, id) into an opaque
// token.
func encodeCursor(c ports.Cursor) string {
	raw := fmt.Sprintf("%s|%s", c.DateModified.UTC().Format(time.RFC3339Nano), c.ID)
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

// decodeCursor unpacks an offset token; a malformed token is the caller's
// mistake, not ours.
func decodeCursor(offset string) (*ports.Cursor, error) {
	if offset == "" {
		return nil, nil
	}
	raw, err := base64.URLEncoding.DecodeString(offset)
	if err != nil {
		return nil, domain.BadRequest("invalid offset")
	}
	ts, id, found := strings.Cut(string(raw), "|")
	if !found {
		return nil, domain.BadRequest("invalid offset")
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return nil, domain.BadRequest("invalid offset")
	}
	return &ports.Cursor{DateModified: t, ID: id}, nil
}
