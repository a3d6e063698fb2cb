package service

import (
	"context"

	"github.com/openmarket/catalog-api/internal/core/domain"
)

// DocumentPatch carries the mutable document fields; nil means "leave as is".
type DocumentPatch struct {
	Title  *string
	Format *string
	URL    *string
	Hash   *string
}

// AddDocument validates the externally generated file URL and attaches the
// document to the parent resource, guarded by the parent's capability token.
func (s *Objects[T, P]) AddDocument(ctx context.Context, rc domain.RequestContext, id, token string, doc domain.Document) (map[string]any, error) {
	if s.cfg.Docs == nil {
		return nil, domain.NotFound("%s does not hold documents", s.cfg.Kind)
	}
	if err := s.docs.ValidateURL(doc.URL, doc.Hash); err != nil {
		return nil, err
	}

	doc.ID = domain.NewID()
	doc.DateModified = rc.Now
	doc.DatePublished = rc.Now

	view, err := s.Patch(ctx, rc, id, token, func(obj P) error {
		list := s.cfg.Docs(obj)
		*list = append(*list, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return documentFromView(view, doc.ID)
}

// UpdateDocument replaces fields of an existing attached document.
func (s *Objects[T, P]) UpdateDocument(ctx context.Context, rc domain.RequestContext, id, docID, token string, patch DocumentPatch) (map[string]any, error) {
	if s.cfg.Docs == nil {
		return nil, domain.NotFound("%s does not hold documents", s.cfg.Kind)
	}
	if patch.URL != nil || patch.Hash != nil {
		if patch.URL == nil || patch.Hash == nil {
			return nil, domain.BadRequest("url and hash must be replaced together")
		}
		if err := s.docs.ValidateURL(*patch.URL, *patch.Hash); err != nil {
			return nil, err
		}
	}

	view, err := s.Patch(ctx, rc, id, token, func(obj P) error {
		list := s.cfg.Docs(obj)
		for i := range *list {
			d := &(*list)[i]
			if d.ID != docID {
				continue
			}
			if patch.Title != nil {
				d.Title = *patch.Title
			}
			if patch.Format != nil {
				d.Format = *patch.Format
			}
			if patch.URL != nil {
				d.URL = *patch.URL
				d.Hash = *patch.Hash
			}
			d.DateModified = rc.Now
			return nil
		}
		return domain.NotFound("document %s not found", docID)
	})
	if err != nil {
		return nil, err
	}
	return documentFromView(view, docID)
}

// DocumentURL resolves the stored file location for a signed download
// reference. The reference binds a single document id; presenting it against
// another document is refused.
func (s *Objects[T, P]) DocumentURL(ctx context.Context, id, docID, download string) (string, error) {
	if s.cfg.Docs == nil {
		return "", domain.NotFound("%s does not hold documents", s.cfg.Kind)
	}
	claimed, err := s.docs.VerifyDownload(download)
	if err != nil {
		return "", err
	}
	if claimed != docID {
		return "", domain.Forbidden("download reference does not match document")
	}

	obj, err := s.cfg.Store.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	for _, d := range *s.cfg.Docs(P(obj)) {
		if d.ID == docID {
			return d.URL, nil
		}
	}
	return "", domain.NotFound("document %s not found", docID)
}

// documentFromView extracts one serialized document from the parent view.
func documentFromView(view map[string]any, docID string) (map[string]any, error) {
	docs, _ := view["documents"].([]map[string]any)
	for _, d := range docs {
		if d["id"] == docID {
			return d, nil
		}
	}
	return nil, domain.NotFound("document %s not found", docID)
}
