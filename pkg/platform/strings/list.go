// Package strings parses list-valued settings.
package strings

import (
	"strings"
)

// SplitList splits a comma-separated value, trims each element and drops
// empties and repeats. Order is preserved. An empty value yields nil.
//
//	SplitList(" kafka-1:9092, kafka-2:9092,,kafka-1:9092")
//	// []string{"kafka-1:9092", "kafka-2:9092"}
func SplitList(raw string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, v := range strings.Split(raw, ",") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
