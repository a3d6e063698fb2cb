package audit

import (
	"fmt"
	"reflect"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Change is one structural difference between two snapshots.
type Change struct {
	Op    string `bson:"op" json:"op"` // "add", "remove", "replace"
	Path  string `bson:"path" json:"path"`
	Value any    `bson:"value,omitempty" json:"value,omitempty"`
}

// Diff computes a structural diff between old and new map snapshots. A nil
// old yields a creation diff (every field an "add"). Paths use "/" notation.
func Diff(oldDoc, newDoc map[string]any) []Change {
	var changes []Change
	diffMaps("", oldDoc, newDoc, &changes)
	return changes
}

func diffMaps(prefix string, oldDoc, newDoc map[string]any, out *[]Change) {
	keys := make(map[string]struct{}, len(oldDoc)+len(newDoc))
	for k := range oldDoc {
		keys[k] = struct{}{}
	}
	for k := range newDoc {
		keys[k] = struct{}{}
	}
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	for _, k := range sorted {
		path := prefix + "/" + k
		oldVal, inOld := oldDoc[k]
		newVal, inNew := newDoc[k]
		switch {
		case !inOld:
			*out = append(*out, Change{Op: "add", Path: path, Value: newVal})
		case !inNew:
			*out = append(*out, Change{Op: "remove", Path: path})
		default:
			diffValues(path, oldVal, newVal, out)
		}
	}
}

func diffValues(path string, oldVal, newVal any, out *[]Change) {
	oldMap, oldIsMap := asStringMap(oldVal)
	newMap, newIsMap := asStringMap(newVal)
	if oldIsMap && newIsMap {
		diffMaps(path, oldMap, newMap, out)
		return
	}

	oldList, oldIsList := asSlice(oldVal)
	newList, newIsList := asSlice(newVal)
	if oldIsList && newIsList {
		for i := 0; i < len(oldList) || i < len(newList); i++ {
			p := fmt.Sprintf("%s/%d", path, i)
			switch {
			case i >= len(oldList):
				*out = append(*out, Change{Op: "add", Path: p, Value: newList[i]})
			case i >= len(newList):
				*out = append(*out, Change{Op: "remove", Path: p})
			default:
				diffValues(p, oldList[i], newList[i], out)
			}
		}
		return
	}

	if !reflect.DeepEqual(oldVal, newVal) {
		*out = append(*out, Change{Op: "replace", Path: path, Value: newVal})
	}
}

// BSON decoding yields bson.M / primitive.A for nested values; both shapes
// are accepted alongside the plain Go equivalents.
func asStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case bson.M:
		return m, true
	default:
		return nil, false
	}
}

func asSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case primitive.A:
		return s, true
	default:
		return nil, false
	}
}
