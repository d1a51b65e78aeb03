package matcher

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ToComparableString is the single normalization applied to both sides of
// every comparison, so an identifier stored upstream as a JSON number equals
// the same identifier stored as a numeral string.
//
//	string           as-is
//	integers         decimal digits
//	floats           shortest decimal form, no exponent ("100", "12.5")
//	json.Number      its literal text
//	bool             "true" / "false"
//	nil              ""
//	anything else    fmt.Sprint
func ToComparableString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return formatFloat(t, 64)
	case float32:
		return formatFloat(float64(t), 32)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint32:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func formatFloat(f float64, bitSize int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, bitSize)
	}
	return strconv.FormatFloat(f, 'f', -1, bitSize)
}
