package models

import (
	"time"
)

// RawRecord is one upstream record as decoded from JSON or a document store.
// It has no fixed schema: the same value may arrive under different field
// names depending on which vintage of the register produced it, and any
// field may be missing.
type RawRecord map[string]any

// Value is the result of looking up a field in a RawRecord: either present
// with a value, or absent.
type Value struct {
	raw     any
	present bool
}

// Present wraps v as a present value.
func Present(v any) Value {
	return Value{raw: v, present: true}
}

// Absent is the missing value.
var Absent = Value{}

// IsPresent reports whether the value exists.
func (v Value) IsPresent() bool {
	return v.present
}

// Raw returns the underlying value, or nil when absent.
func (v Value) Raw() any {
	return v.raw
}

// Lookup returns the value stored under key. Nil, empty strings, numeric
// zero and false count as absent, so a later alias can supply the value.
func (r RawRecord) Lookup(key string) Value {
	v, ok := r[key]
	if !ok || isBlank(v) {
		return Absent
	}
	return Present(v)
}

// First returns the first present value among aliases, in order.
func (r RawRecord) First(aliases ...string) Value {
	for _, alias := range aliases {
		if v := r.Lookup(alias); v.IsPresent() {
			return v
		}
	}
	return Absent
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	case float32:
		return t == 0
	case int:
		return t == 0
	case int32:
		return t == 0
	case int64:
		return t == 0
	default:
		return false
	}
}

// CanonicalRecord is the fixed-schema projection of a RawRecord. It is built
// once per raw record and never modified afterwards.
type CanonicalRecord struct {
	AccountID      string
	ReferenceID    string
	ShareQuantity  float64
	FullName       string
	FirstName      string
	LastName       string
	ImportFileName string
	// Original is the source record, kept for traceability. Read-only.
	Original RawRecord
}

// Snapshot is the full record collection retrieved from a source at one
// point in time.
type Snapshot struct {
	Records   []RawRecord `json:"records"`
	Source    string      `json:"source"`
	FetchedAt time.Time   `json:"fetched_at"`
}

// Len returns the number of raw records in the snapshot. A nil snapshot has
// no records.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}
