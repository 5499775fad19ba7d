package datastore

import "time"

// Record is a single document in a named collection. Collections are
// schemaless; every record carries the system fields _id, _deleted,
// created_at and updated_at, stamped by the Store on write.
type Record map[string]any

// Sentinel is the liveness cutoff. Default queries only return records whose
// updated_at is newer than this; soft delete pushes updated_at below it.
var Sentinel = time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)

func (r Record) ID() string {
	return r.StringField("_id")
}

func (r Record) Deleted() bool {
	if r == nil {
		return false
	}
	d, _ := r["_deleted"].(bool)
	return d
}

func (r Record) CreatedAt() time.Time {
	return r.TimeField("created_at")
}

func (r Record) UpdatedAt() time.Time {
	return r.TimeField("updated_at")
}

// StringField returns the named field as a string, or "" when absent or of
// another type.
func (r Record) StringField(key string) string {
	if r == nil {
		return ""
	}
	s, _ := r[key].(string)
	return s
}

// TimeField returns the named field as a time.Time, or the zero time.
func (r Record) TimeField(key string) time.Time {
	if r == nil {
		return time.Time{}
	}
	t, _ := r[key].(time.Time)
	return t
}

// IntField returns the named field as an int64, coercing the numeric types
// the drivers hand back.
func (r Record) IntField(key string) int64 {
	if r == nil {
		return 0
	}
	switch v := r[key].(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}

// StringsField returns the named field as a slice of strings. It accepts
// []string as well as the []any the bson decoder produces; non-string
// elements are skipped.
func (r Record) StringsField(key string) []string {
	if r == nil {
		return nil
	}
	switch v := r[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Clone returns a shallow copy. Nested values are shared; callers that
// mutate nested structures should copy them first.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
