// Package images accepts uploaded image files: content is sniffed against a
// static set of magic-byte matchers and stored on disk keyed by content hash.
// Rejected uploads leave nothing behind.
package images

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/openmarket/catalog-api/internal/core/domain"
)

// Stored describes an accepted image.
type Stored struct {
	URL    string
	Hash   string // "md5:" + 32 hex
	Format string
	Size   int64
}

// Store writes accepted images under a base directory.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save validates and persists an uploaded image. Content that is not a
// recognized image type fails with BadRequest and no file is written.
func (s *Store) Save(r io.Reader) (*Stored, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	format := SniffFormat(content)
	if format == "" {
		return nil, domain.BadRequest("Not allowed img type")
	}

	sum := md5.Sum(content)
	digest := hex.EncodeToString(sum[:])
	name := fmt.Sprintf("%s.%s", digest, format)

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), content, 0o644); err != nil {
		return nil, err
	}

	return &Stored{
		URL:    "/static/images/" + name,
		Hash:   "md5:" + digest,
		Format: format,
		Size:   int64(len(content)),
	}, nil
}
