package config

import (
	"fmt"
	"math"

	mapset "github.com/deckarep/golang-set/v2"
)

// Entry is a single key/value pair of a decoded config document.
type Entry struct {
	Key   any
	Value any
}

// Mapping is a decoded config mapping that keeps the document order of its
// keys. Nested mappings are Mapping values as well, sequences are []any and
// scalars are string, int, int64, uint64, float64, bool or nil.
type Mapping []Entry

// Get returns the value stored under key.
func (m Mapping) Get(key string) (any, bool) {
	for _, e := range m {
		if k, ok := e.Key.(string); ok && k == key {
			return e.Value, true
		}
	}
	return nil, false
}

// set replaces the value of key in place or appends it.
func (m Mapping) set(key string, value any) Mapping {
	for i, e := range m {
		if k, ok := e.Key.(string); ok && k == key {
			m[i].Value = value
			return m
		}
	}
	return append(m, Entry{Key: key, Value: value})
}

func rejectUnknownKeys(values Mapping, known mapset.Set[string], owner string) error {
	for _, e := range values {
		key, ok := e.Key.(string)
		if !ok {
			return errorf("%s: keys must be strings, but %v is %s", owner, e.Key, typeName(e.Key))
		}
		if !known.Contains(key) {
			return errorf("Unknown key %q specified for %s", key, owner)
		}
	}
	return nil
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case int, int64, uint64, int32, uint32:
		return "integer"
	case float64, float32:
		return "float"
	case bool:
		return "boolean"
	case Mapping:
		return "mapping"
	case []any:
		return "list"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		if n < math.MinInt || n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}
