package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"shareholder/internal/holdings/matcher"
	"shareholder/internal/holdings/models"
)

func TestToRawRecord(t *testing.T) {
	oid := primitive.NewObjectID()
	dec, err := primitive.ParseDecimal128("1500.25")
	require.NoError(t, err)
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	rec := ToRawRecord(bson.M{
		"_id":      oid,
		"i_ref":    "1101001535259",
		"q_share":  dec,
		"count":    int32(7),
		"imported": primitive.NewDateTimeFromTime(at),
		"meta":     bson.M{"batch": bson.A{"a", int64(2)}},
		"ordered":  bson.D{{Key: "x", Value: 1}},
	})

	assert.Equal(t, oid.Hex(), rec["_id"])
	assert.Equal(t, "1500.25", rec["q_share"])
	assert.Equal(t, int32(7), rec["count"])
	assert.Equal(t, at, rec["imported"])
	assert.Equal(t, map[string]any{"batch": []any{"a", int64(2)}}, rec["meta"])
	assert.Equal(t, map[string]any{"x": 1}, rec["ordered"])
}

func TestToRawRecord_FeedsCanonicalizer(t *testing.T) {
	dec, err := primitive.ParseDecimal128("1500.25")
	require.NoError(t, err)

	rec := ToRawRecord(bson.M{
		"Account_ID": int64(1101001535259),
		"q_share":    dec,
		"n_first":    "Somchai",
	})
	out := matcher.Canonicalize([]models.RawRecord{rec})
	require.Len(t, out, 1)
	assert.Equal(t, "1101001535259", out[0].AccountID)
	assert.Equal(t, 1500.25, out[0].ShareQuantity)
	assert.Equal(t, "Somchai", out[0].FullName)
}
