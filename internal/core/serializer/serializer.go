// Package serializer projects stored documents into client-facing views.
// Projections are declarative: excluded fields, per-field overrides resolved
// by an explicit type tag (transform function, nested serializer, or list of
// nested serializations), and calculated fields appended after the primary
// projection.
package serializer

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transform rewrites a single field value.
type Transform func(value any) any

// Calculated produces a field appended after projection, from the whole
// source document.
type Calculated func(doc map[string]any) any

// overrideKind is the explicit tag of the Override union.
type overrideKind int

const (
	overrideFunc overrideKind = iota
	overrideNested
	overrideNestedList
)

// Override replaces a field during projection. Construct with Func, Nested or
// NestedList; dispatch is by the stored tag, never by runtime introspection.
type Override struct {
	kind   overrideKind
	fn     Transform
	nested *Serializer
}

// Func builds a field-transform override.
func Func(fn Transform) Override { return Override{kind: overrideFunc, fn: fn} }

// Nested builds an override serializing the field as a nested object.
func Nested(s *Serializer) Override { return Override{kind: overrideNested, nested: s} }

// NestedList builds an override serializing the field as a list of nested
// objects.
func NestedList(s *Serializer) Override { return Override{kind: overrideNestedList, nested: s} }

// Serializer is one declarative projection.
type Serializer struct {
	Exclude    []string
	Overrides  map[string]Override
	Calculated map[string]Calculated
}

// Serialize projects doc into a fresh map. The source is never mutated; field
// content is deterministic regardless of map iteration order.
func (s *Serializer) Serialize(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		if s.excluded(k) {
			continue
		}
		ov, ok := s.Overrides[k]
		if !ok {
			out[k] = v
			continue
		}
		switch ov.kind {
		case overrideFunc:
			out[k] = ov.fn(v)
		case overrideNested:
			if m, ok := asMapValue(v); ok {
				out[k] = ov.nested.Serialize(m)
			}
		case overrideNestedList:
			out[k] = serializeList(ov.nested, v)
		}
	}
	for k, calc := range s.Calculated {
		out[k] = calc(doc)
	}
	return out
}

func (s *Serializer) excluded(field string) bool {
	for _, e := range s.Exclude {
		if e == field {
			return true
		}
	}
	return false
}

func serializeList(s *Serializer, v any) []map[string]any {
	items, ok := asSliceValue(v)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := asMapValue(item); ok {
			out = append(out, s.Serialize(m))
		}
	}
	return out
}

func asMapValue(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case bson.M:
		return m, true
	default:
		return nil, false
	}
}

func asSliceValue(v any) ([]any, bool) {
	switch items := v.(type) {
	case []any:
		return items, true
	case bson.A:
		return items, true
	default:
		return nil, false
	}
}

// AsMap converts a typed document to its map form via a BSON round trip, so
// projections and diffs see exactly the stored field names. BSON-specific
// value types are normalized to plain Go shapes so the result JSON-encodes
// with ISO-8601 timestamps.
func AsMap(v any) (map[string]any, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	m, _ := normalize(out).(map[string]any)
	return m, nil
}

func normalize(v any) any {
	switch val := v.(type) {
	case bson.M:
		return normalizeMap(val)
	case map[string]any:
		return normalizeMap(val)
	case bson.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case primitive.DateTime:
		return val.Time().UTC()
	default:
		return v
	}
}

func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalize(v)
	}
	return out
}
