package matcher

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"shareholder/internal/holdings/models"
	"shareholder/pkg/platform/locale"
)

// Canonicalizer resolves raw records into canonical records.
type Canonicalizer struct {
	// UnknownHolder is the display name used when a record carries no name
	// at all. Callers pass the text for the user's language.
	UnknownHolder string
}

// NewCanonicalizer returns a Canonicalizer using the default locale's
// placeholder name.
func NewCanonicalizer() Canonicalizer {
	return Canonicalizer{
		UnknownHolder: locale.Default.Text(locale.Default.Fallback(), locale.MsgUnknownHolder),
	}
}

// Canonicalize resolves raw records with the default locale's placeholder.
func Canonicalize(raw []models.RawRecord) []models.CanonicalRecord {
	return NewCanonicalizer().Canonicalize(raw)
}

// CanonicalizeAny resolves a decoded upstream payload with the default
// locale's placeholder. See Canonicalizer.CanonicalizeAny.
func CanonicalizeAny(payload any) []models.CanonicalRecord {
	return NewCanonicalizer().CanonicalizeAny(payload)
}

// Canonicalize returns one canonical record per raw record, in order.
// A nil or empty input yields an empty, non-nil slice.
func (c Canonicalizer) Canonicalize(raw []models.RawRecord) []models.CanonicalRecord {
	out := make([]models.CanonicalRecord, 0, len(raw))
	for i, r := range raw {
		out = append(out, c.resolve(i, r))
	}
	return out
}

// CanonicalizeAny accepts the shapes an upstream JSON payload may take: nil,
// a single object, or an array. Array elements that are not objects become
// empty records rather than failing the batch.
func (c Canonicalizer) CanonicalizeAny(payload any) []models.CanonicalRecord {
	return c.Canonicalize(ToRawRecords(payload))
}

// ToRawRecords normalizes a decoded payload into a record slice.
func ToRawRecords(payload any) []models.RawRecord {
	switch p := payload.(type) {
	case nil:
		return nil
	case models.RawRecord:
		return []models.RawRecord{p}
	case map[string]any:
		return []models.RawRecord{p}
	case []models.RawRecord:
		return p
	case []map[string]any:
		out := make([]models.RawRecord, len(p))
		for i, m := range p {
			out[i] = m
		}
		return out
	case []any:
		out := make([]models.RawRecord, len(p))
		for i, elem := range p {
			switch m := elem.(type) {
			case map[string]any:
				out[i] = m
			case models.RawRecord:
				out[i] = m
			default:
				out[i] = models.RawRecord{}
			}
		}
		return out
	default:
		return nil
	}
}

func (c Canonicalizer) resolve(index int, r models.RawRecord) models.CanonicalRecord {
	first := stringOf(r.First(FirstNameAliases...))
	last := stringOf(r.First(LastNameAliases...))

	accountID := stringOf(r.First(AccountIDAliases...))
	if accountID == "" {
		accountID = PlaceholderAccountID(index)
	}

	return models.CanonicalRecord{
		AccountID:      accountID,
		ReferenceID:    stringOf(r.First(ReferenceIDAliases...)),
		ShareQuantity:  quantityOf(r.First(ShareQuantityAliases...)),
		FullName:       c.fullName(r, first, last),
		FirstName:      first,
		LastName:       last,
		ImportFileName: stringOf(r.First(ImportFileNameAliases...)),
		Original:       r,
	}
}

func (c Canonicalizer) fullName(r models.RawRecord, first, last string) string {
	if full := stringOf(r.First(FullNameAliases...)); full != "" {
		return full
	}
	if first != "" || last != "" {
		return strings.TrimSpace(first + " " + last)
	}
	return c.UnknownHolder
}

// PlaceholderAccountID synthesizes an account ID for the record at the given
// zero-based position: ACC000001 for the first record.
func PlaceholderAccountID(index int) string {
	return fmt.Sprintf("ACC%06d", index+1)
}

func stringOf(v models.Value) string {
	if !v.IsPresent() {
		return ""
	}
	return ToComparableString(v.Raw())
}

func quantityOf(v models.Value) float64 {
	if !v.IsPresent() {
		return 0
	}
	switch n := v.Raw().(type) {
	case float64:
		return finiteOrZero(n)
	case float32:
		return finiteOrZero(float64(n))
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case fmt.Stringer:
		return parseQuantity(n.String())
	case string:
		return parseQuantity(n)
	default:
		return 0
	}
}

func parseQuantity(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return finiteOrZero(f)
}

func finiteOrZero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
