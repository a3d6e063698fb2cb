package serializer

import (
	"testing"
	"time"

	"github.com/openmarket/catalog-api/internal/core/domain"
)

func vendorDoc() map[string]any {
	return map[string]any{
		"_id":    "vendor-1",
		"title":  "ACME",
		"status": "active",
		"access": map[string]any{"owner": "broker1", "token": "$2a$10$hash"},
	}
}

func TestRootView_StripsAccess(t *testing.T) {
	out := RootView(domain.Identity{Name: "someone-else"}, "broker1", nil, nil).Serialize(vendorDoc())

	if _, ok := out["access"]; ok {
		t.Fatalf("access must never serialize")
	}
	if _, ok := out["owner"]; ok {
		t.Fatalf("owner must stay hidden from strangers")
	}
	if out["title"] != "ACME" {
		t.Fatalf("plain fields must pass through, got %+v", out)
	}
}

func TestRootView_RenamesStorageID(t *testing.T) {
	out := RootView(domain.Identity{Name: "someone-else"}, "broker1", nil, nil).Serialize(vendorDoc())

	if _, ok := out["_id"]; ok {
		t.Fatalf("storage key must not serialize, got %+v", out)
	}
	if out["id"] != "vendor-1" {
		t.Fatalf("id = %v, want vendor-1", out["id"])
	}
}

func TestRootView_OwnerExposure(t *testing.T) {
	// The owner sees the owner name, never the token hash.
	out := RootView(domain.Identity{Name: "broker1"}, "broker1", nil, nil).Serialize(vendorDoc())
	if out["owner"] != "broker1" {
		t.Fatalf("owner must see ownership, got %+v", out)
	}
	if _, ok := out["access"]; ok {
		t.Fatalf("token hash leaked")
	}

	// So does the superuser.
	out = RootView(domain.Identity{Name: "administrator", Super: true}, "broker1", nil, nil).Serialize(vendorDoc())
	if out["owner"] != "broker1" {
		t.Fatalf("superuser must see ownership, got %+v", out)
	}
}

func TestSerialize_SourceNotMutated(t *testing.T) {
	doc := vendorDoc()
	_ = RootView(domain.Identity{Name: "broker1"}, "broker1", nil, nil).Serialize(doc)

	if _, ok := doc["access"]; !ok {
		t.Fatalf("serialization mutated its input")
	}
}

func TestDocumentView_RewritesURL(t *testing.T) {
	sign := func(parentPath string, doc map[string]any) any {
		return "https://api.example.com/" + parentPath + "/documents/" + doc["id"].(string) + "?download=tok"
	}
	doc := map[string]any{
		"id":    "doc-1",
		"title": "license",
		"url":   "https://docs.example.net/raw/abc?Signature=s&KeyID=k",
	}

	out := DocumentView("vendors/vendor-1", sign).Serialize(doc)
	if out["url"] != "https://api.example.com/vendors/vendor-1/documents/doc-1?download=tok" {
		t.Fatalf("url not rewritten: %+v", out)
	}
	if out["title"] != "license" {
		t.Fatalf("other fields must pass through")
	}
}

func TestNestedListOverride(t *testing.T) {
	inner := &Serializer{Exclude: []string{"secret"}}
	s := &Serializer{Overrides: map[string]Override{"documents": NestedList(inner)}}

	out := s.Serialize(map[string]any{
		"documents": []any{
			map[string]any{"id": "d1", "secret": "x"},
			map[string]any{"id": "d2"},
		},
	})

	docs, ok := out["documents"].([]map[string]any)
	if !ok || len(docs) != 2 {
		t.Fatalf("documents wrong shape: %+v", out["documents"])
	}
	if _, leaked := docs[0]["secret"]; leaked {
		t.Fatalf("nested exclusion ignored")
	}
}

func TestBannedFlag(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	flag := BannedFlag(now)

	if flag(map[string]any{}) != false {
		t.Fatalf("no bans must read unbanned")
	}
	if flag(map[string]any{"bans": []any{map[string]any{"id": "b1"}}}) != true {
		t.Fatalf("ban without dueDate never expires")
	}
	if flag(map[string]any{"bans": []any{map[string]any{"id": "b1", "dueDate": future}}}) != true {
		t.Fatalf("ban before dueDate must read banned")
	}
	if flag(map[string]any{"bans": []any{map[string]any{"id": "b1", "dueDate": past}}}) != false {
		t.Fatalf("expired ban must read unbanned")
	}
}

func TestAsMap_UsesStoredFieldNames(t *testing.T) {
	v := &domain.Vendor{
		Vendor:     domain.VendorInfo{Name: "ACME", Identifier: domain.Identifier{Scheme: "tax", ID: "tax-1"}},
		Categories: []string{"cat-1"},
	}
	v.Stamp(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	m, err := AsMap(v)
	if err != nil {
		t.Fatalf("as map: %v", err)
	}
	if m["_id"] != v.ID {
		t.Fatalf("expected _id key, got %+v", m)
	}
	if _, ok := m["isActivated"]; !ok {
		t.Fatalf("expected camelCase bson names, got %+v", m)
	}
	ts, ok := m["dateModified"].(time.Time)
	if !ok {
		t.Fatalf("timestamps must normalize to time.Time, got %T", m["dateModified"])
	}
	if !ts.Equal(v.DateModified) {
		t.Fatalf("timestamp drifted through the round trip: %v vs %v", ts, v.DateModified)
	}
}
