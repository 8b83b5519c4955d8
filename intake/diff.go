package intake

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// removed marks a key that was dropped from the modified record. It marshals
// to JSON null so an overlay update clears the field.
type removed struct{}

func (removed) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// Removed is the explicit-absence marker used in diff results.
var Removed = removed{}

// Diff computes a shallow, top-level-key delta between two versions of a
// record, for saving edits to an already-persisted handoff.
//
// A key counts as changed only when the values differ by deep equality AND by
// string coercion AND by JSON serialization: a deliberately conservative
// "definitely different" rule. The diff is top-level only; any edit inside a
// nested object includes the whole nested value, never a sub-diff. Keys
// present only in modified are included; keys present only in original map to
// Removed. Returns nil when nothing differs.
func Diff(original, modified map[string]any) map[string]any {
	changes := map[string]any{}

	for key, curr := range modified {
		orig, ok := original[key]
		if !ok {
			changes[key] = curr
			continue
		}
		if !sameValue(orig, curr) {
			changes[key] = curr
		}
	}

	for key := range original {
		if _, ok := modified[key]; !ok {
			changes[key] = Removed
		}
	}

	if len(changes) == 0 {
		return nil
	}
	return changes
}

func sameValue(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	if fmt.Sprint(a) == fmt.Sprint(b) {
		return true
	}
	aj, aerr := json.Marshal(a)
	bj, berr := json.Marshal(b)
	return aerr == nil && berr == nil && string(aj) == string(bj)
}
