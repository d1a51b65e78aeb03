package matcher

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareholder/internal/holdings/models"
	"shareholder/pkg/domain"
)

func TestToComparableString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "0012", "0012"},
		{"integral float", float64(1234567890123), "1234567890123"},
		{"fractional float", 12.5, "12.5"},
		{"float32", float32(2.5), "2.5"},
		{"int", 7, "7"},
		{"int32", int32(-3), "-3"},
		{"int64", int64(1101001535259), "1101001535259"},
		{"uint64", uint64(9), "9"},
		{"json.Number keeps literal", json.Number("100.0"), "100.0"},
		{"bool", true, "true"},
		{"slice falls back to fmt", []int{1, 2}, "[1 2]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToComparableString(tt.in))
		})
	}
}

func TestMatch_EachRuleIndependently(t *testing.T) {
	identity := "1101001535259"

	t.Run("referenceId exact", func(t *testing.T) {
		recs := Canonicalize([]models.RawRecord{{"referenceId": identity}})
		assertMatchedBy(t, recs[0], identity, "referenceId")
	})

	t.Run("referenceId from numeric upstream value", func(t *testing.T) {
		recs := Canonicalize([]models.RawRecord{{"referenceId": float64(1101001535259)}})
		assertMatchedBy(t, recs[0], identity, "referenceId")
	})

	t.Run("accountId contains", func(t *testing.T) {
		recs := Canonicalize([]models.RawRecord{{"accountId": "ACC0001234567"}})
		assertMatchedBy(t, recs[0], "1234567", "accountId")
	})

	t.Run("original i_ref exact", func(t *testing.T) {
		// referenceId alias wins canonicalization, so only the raw rule sees i_ref.
		recs := Canonicalize([]models.RawRecord{{"referenceId": "other", "i_ref": identity}})
		assertMatchedBy(t, recs[0], identity, "original.i_ref")
	})

	t.Run("original Account_ID exact", func(t *testing.T) {
		recs := Canonicalize([]models.RawRecord{{"accountId": "NEW", "Account_ID": identity}})
		assertMatchedBy(t, recs[0], identity, "original.Account_ID")
	})

	t.Run("accountId exact rule alone", func(t *testing.T) {
		exactOnly := Policy{DefaultPolicy[4]}
		recs := Canonicalize([]models.RawRecord{{"accountId": "9991234567"}, {"accountId": "234567"}})
		got := exactOnly.Match(recs, "234567")
		require.Len(t, got, 1)
		assert.Equal(t, "234567", got[0].AccountID)
	})

	t.Run("contains rule alone accepts padded account", func(t *testing.T) {
		containsOnly := Policy{DefaultPolicy[1]}
		recs := Canonicalize([]models.RawRecord{{"accountId": "9991234567"}})
		assert.Len(t, containsOnly.Match(recs, "234567"), 1)
	})
}

func TestMatch_NoMatchIsEmpty(t *testing.T) {
	recs := Canonicalize([]models.RawRecord{{"Account_ID": "A1", "i_ref": "1234567890123"}})
	got := Match(recs, "1101001535259")
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMatch_EmptyIdentityMatchesNothing(t *testing.T) {
	recs := Canonicalize([]models.RawRecord{{"Account_ID": "A1"}, {}})
	assert.Empty(t, Match(recs, ""))
}

func TestMatch_StableOrderAndBounded(t *testing.T) {
	identity := "1101001535259"
	raw := []models.RawRecord{
		{"Account_ID": "A1", "i_ref": identity},
		{"Account_ID": "A2", "i_ref": "0000000000001"},
		{"Account_ID": "A3", "referenceId": identity},
		{"Account_ID": "X-" + identity},
		{"Account_ID": "A5"},
	}
	recs := Canonicalize(raw)

	got := Match(recs, identity)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"A1", "A3", "X-" + identity}, accountIDs(got))
	assert.LessOrEqual(t, len(got), len(recs))
}

func TestMatch_Idempotent(t *testing.T) {
	identity := "1101001535259"
	raw := []models.RawRecord{
		{"Account_ID": "A1", "i_ref": identity, "q_share": float64(10)},
		{"Account_ID": "A2"},
		{"accountId": identity},
	}

	first := Match(Canonicalize(raw), identity)
	second := Match(Canonicalize(raw), identity)
	assert.Equal(t, first, second)
	assert.Equal(t, first, Match(first, identity))
}

func TestEndToEnd_ValidatorThenMatcher(t *testing.T) {
	digit, ok := domain.ChecksumDigit("123456789012")
	require.True(t, ok)
	identity := "123456789012" + string(rune('0'+digit))
	require.True(t, domain.IsValidNationalID(identity))

	raw := []models.RawRecord{{
		"Account_ID": "A1",
		"i_ref":      "1234567890123",
		"n_first":    "สมชาย",
		"n_last":     "ใจดี",
		"q_share":    float64(100),
	}}

	t.Run("i_ref differs from identity yields empty result", func(t *testing.T) {
		assert.Empty(t, Match(Canonicalize(raw), identity))
	})

	t.Run("i_ref equal to identity matches", func(t *testing.T) {
		matching := []models.RawRecord{{
			"Account_ID": "A1",
			"i_ref":      identity,
			"n_first":    "สมชาย",
			"n_last":     "ใจดี",
			"q_share":    float64(100),
		}}
		got := Match(Canonicalize(matching), identity)
		require.Len(t, got, 1)
		assert.Equal(t, "สมชาย ใจดี", got[0].FullName)
		assert.Equal(t, float64(100), got[0].ShareQuantity)
	})
}

func TestCanonicalizeAndMatch_SharedSnapshotAcrossGoroutines(t *testing.T) {
	identity := "1101001535259"
	snapshotOf := func() []models.RawRecord {
		raw := make([]models.RawRecord, 0, 64)
		for i := range 64 {
			rec := models.RawRecord{
				"Account_ID": fmt.Sprintf("A%02d", i),
				"n_first":    "สมชาย",
				"n_last":     "ใจดี",
				"q_share":    fmt.Sprintf("%d.5", i),
			}
			if i%4 == 0 {
				rec["i_ref"] = identity
			}
			raw = append(raw, rec)
		}
		return raw
	}
	shared := snapshotOf()
	want := Match(Canonicalize(snapshotOf()), identity)
	require.Len(t, want, 16)

	const workers = 32
	results := make([][]models.CanonicalRecord, workers)
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[w] = Match(Canonicalize(shared), identity)
		}()
	}
	wg.Wait()

	for w, got := range results {
		assert.Equal(t, want, got, "worker %d", w)
	}
	assert.Equal(t, snapshotOf(), shared, "snapshot must not be modified")
}

func TestExplain_ReportsFirstRuleInPolicyOrder(t *testing.T) {
	identity := "1101001535259"
	recs := Canonicalize([]models.RawRecord{{"Account_ID": identity, "i_ref": identity}})

	rule, ok := DefaultPolicy.Explain(recs[0], identity)
	require.True(t, ok)
	assert.Equal(t, "referenceId", rule.Name)
	assert.Equal(t, Exact, rule.Mode)
}

func TestPolicy_SkipsRulesWithoutSelector(t *testing.T) {
	p := Policy{{Name: "broken", Mode: Exact}}
	recs := Canonicalize([]models.RawRecord{{"Account_ID": "A1"}})
	assert.Empty(t, p.Match(recs, "A1"))
}

func assertMatchedBy(t *testing.T, rec models.CanonicalRecord, identity, rule string) {
	t.Helper()
	got, ok := DefaultPolicy.Explain(rec, identity)
	require.True(t, ok, "expected a match for %q", identity)
	assert.Equal(t, rule, got.Name)
	assert.Len(t, Match([]models.CanonicalRecord{rec}, identity), 1)
}

func accountIDs(recs []models.CanonicalRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.AccountID
	}
	return out
}
