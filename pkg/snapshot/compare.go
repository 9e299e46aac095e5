package snapshot

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// CountKeys are the object keys whose values must match exactly. Keys with
// the total_ prefix are compared as well.
var CountKeys = []string{"works", "editions", "shorts", "magazines", "covers"}

const totalPrefix = "total_"

// Mismatch is one difference between a stored snapshot and a new response.
type Mismatch struct {
	Field    string
	Expected any
	Actual   any
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: expected %v, got %v", m.Field, m.Expected, m.Actual)
}

func isCountKey(key string) bool {
	if strings.HasPrefix(key, totalPrefix) {
		return true
	}
	for _, k := range CountKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Compare checks a response against a stored snapshot. The status code must
// match; a list must keep its length; an object must keep the values of its
// count keys. Anything else may change freely.
func Compare(stored *Snapshot, status int, data []byte) ([]Mismatch, error) {
	var mismatches []Mismatch
	if stored.Response.StatusCode != status {
		mismatches = append(mismatches, Mismatch{"status_code", stored.Response.StatusCode, status})
	}

	var expected, actual any
	if len(stored.Response.Data) > 0 {
		if err := json.Unmarshal(stored.Response.Data, &expected); err != nil {
			return nil, errors.Wrap(err, "decode stored data")
		}
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &actual); err != nil {
			return nil, errors.Wrap(err, "decode response data")
		}
	}

	switch exp := expected.(type) {
	case []any:
		act, ok := actual.([]any)
		if !ok {
			return append(mismatches, Mismatch{"data", "list", kind(actual)}), nil
		}
		if len(exp) != len(act) {
			mismatches = append(mismatches, Mismatch{"length", len(exp), len(act)})
		}
	case map[string]any:
		act, ok := actual.(map[string]any)
		if !ok {
			return append(mismatches, Mismatch{"data", "object", kind(actual)}), nil
		}
		for key, want := range exp {
			if !isCountKey(key) {
				continue
			}
			got, ok := act[key]
			if !ok {
				continue
			}
			if !reflect.DeepEqual(count(want), count(got)) {
				mismatches = append(mismatches, Mismatch{key, want, got})
			}
		}
	}
	return mismatches, nil
}

// count reduces a count key value to a comparable size. Some count keys
// carry the counted rows themselves rather than a number.
func count(v any) any {
	if list, ok := v.([]any); ok {
		return len(list)
	}
	return v
}

func kind(v any) string {
	switch v.(type) {
	case []any:
		return "list"
	case map[string]any:
		return "object"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}
