package matcher

import (
	"strings"

	"shareholder/internal/holdings/models"
)

// Mode is how a field value is compared with the identity.
type Mode int

const (
	// Exact requires the field to equal the identity.
	Exact Mode = iota
	// Contains requires the identity to occur anywhere in the field.
	Contains
)

func (m Mode) String() string {
	switch m {
	case Exact:
		return "exact"
	case Contains:
		return "contains"
	default:
		return "unknown"
	}
}

// FieldSelector extracts the comparable value of one field from a record.
type FieldSelector func(models.CanonicalRecord) string

// Rule is one matching strategy: a field and how to compare it.
type Rule struct {
	Name  string
	Field FieldSelector
	Mode  Mode
}

func (r Rule) matches(rec models.CanonicalRecord, identity string) bool {
	value := r.Field(rec)
	switch r.Mode {
	case Exact:
		return value == identity
	case Contains:
		return strings.Contains(value, identity)
	default:
		return false
	}
}

// Policy is an ordered list of rules; a record matches when any rule holds.
// Order does not change which records match, only which rule Explain
// reports.
type Policy []Rule

// Selectors for the canonical fields.
var (
	AccountID FieldSelector = func(r models.CanonicalRecord) string { return r.AccountID }

	ReferenceID FieldSelector = func(r models.CanonicalRecord) string { return r.ReferenceID }
)

// OriginalField selects a raw field of the source record, bypassing
// canonicalization.
func OriginalField(key string) FieldSelector {
	return func(r models.CanonicalRecord) string {
		if r.Original == nil {
			return ""
		}
		return stringOf(r.Original.Lookup(key))
	}
}

// DefaultPolicy is the register's matching policy. Account IDs may be
// padded or prefixed upstream, hence the Contains rule.
//
// The accountId exact rule is subsumed by the Contains rule; it is kept so
// Explain reports an exact hit by name.
var DefaultPolicy = Policy{
	{Name: "referenceId", Field: ReferenceID, Mode: Exact},
	{Name: "accountId", Field: AccountID, Mode: Contains},
	{Name: "original." + RawReferenceField, Field: OriginalField(RawReferenceField), Mode: Exact},
	{Name: "original." + RawAccountField, Field: OriginalField(RawAccountField), Mode: Exact},
	{Name: "accountId.exact", Field: AccountID, Mode: Exact},
}

// Matches reports whether any rule holds for rec.
func (p Policy) Matches(rec models.CanonicalRecord, identity string) bool {
	_, ok := p.Explain(rec, identity)
	return ok
}

// Explain returns the first rule, in policy order, that holds for rec.
// An empty identity never matches.
func (p Policy) Explain(rec models.CanonicalRecord, identity string) (Rule, bool) {
	if identity == "" {
		return Rule{}, false
	}
	for _, rule := range p {
		if rule.Field != nil && rule.matches(rec, identity) {
			return rule, true
		}
	}
	return Rule{}, false
}

// Match returns the records matching identity in their original order.
// The result is never longer than records and may be empty.
func (p Policy) Match(records []models.CanonicalRecord, identity string) []models.CanonicalRecord {
	out := make([]models.CanonicalRecord, 0)
	if identity == "" {
		return out
	}
	for _, rec := range records {
		if p.Matches(rec, identity) {
			out = append(out, rec)
		}
	}
	return out
}

// Match applies DefaultPolicy.
func Match(records []models.CanonicalRecord, identity string) []models.CanonicalRecord {
	return DefaultPolicy.Match(records, identity)
}
