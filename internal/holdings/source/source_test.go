package source

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareholder/internal/holdings/models"
)

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantLen   int
		wantErr   bool
		invalid   bool
		checkFunc func(t *testing.T, recs []models.RawRecord)
	}{
		{
			name:    "bare array",
			body:    `[{"i_ref":"1"},{"referenceId":"2"}]`,
			wantLen: 2,
		},
		{
			name:    "success envelope is unwrapped",
			body:    `{"success":true,"data":[{"i_ref":"1"}]}`,
			wantLen: 1,
			checkFunc: func(t *testing.T, recs []models.RawRecord) {
				assert.Equal(t, "1", recs[0]["i_ref"])
			},
		},
		{
			name:    "single object payload",
			body:    `{"Account_ID":"A-1","q_share":100}`,
			wantLen: 1,
			checkFunc: func(t *testing.T, recs []models.RawRecord) {
				assert.Equal(t, float64(100), recs[0]["q_share"])
			},
		},
		{
			name:    "envelope with single object",
			body:    `{"success":true,"data":{"i_ref":"9"}}`,
			wantLen: 1,
		},
		{
			name:    "empty array is a valid empty collection",
			body:    ` [] `,
			wantLen: 0,
		},
		{
			name:    "non-object elements become empty records",
			body:    `[1,"x",{"i_ref":"3"}]`,
			wantLen: 3,
			checkFunc: func(t *testing.T, recs []models.RawRecord) {
				assert.Empty(t, recs[0])
				assert.Equal(t, "3", recs[2]["i_ref"])
			},
		},
		{
			name:    "object without a success flag is a single record",
			body:    `{"i_ref":"5","q_share":10}`,
			wantLen: 1,
		},
		{name: "success envelope without data", body: `{"success":true,"i_ref":"1101001535259"}`, wantErr: true, invalid: true},
		{name: "failure envelope without data", body: `{"success":false,"message":"down"}`, wantErr: true},
		{name: "null body", body: `null`, wantErr: true, invalid: true},
		{name: "envelope with null data", body: `{"success":true,"data":null}`, wantErr: true, invalid: true},
		{name: "scalar payload", body: `42`, wantErr: true, invalid: true},
		{name: "string payload", body: `"records"`, wantErr: true, invalid: true},
		{name: "empty body", body: ``, wantErr: true, invalid: true},
		{name: "malformed json", body: `[{"i_ref":`, wantErr: true},
		{name: "failure envelope", body: `{"success":false,"data":[],"error":"maintenance"}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := DecodePayload([]byte(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.invalid, errors.Is(err, ErrInvalidCollection))
				return
			}
			require.NoError(t, err)
			assert.Len(t, recs, tt.wantLen)
			if tt.checkFunc != nil {
				tt.checkFunc(t, recs)
			}
		})
	}
}

func TestDecodeRecord(t *testing.T) {
	assert.Equal(t, models.RawRecord{"i_ref": "1"}, DecodeRecord([]byte(`{"i_ref":"1"}`)))
	assert.Equal(t, models.RawRecord{}, DecodeRecord([]byte(`[1,2]`)))
	assert.Equal(t, models.RawRecord{}, DecodeRecord([]byte(`null`)))
	assert.Equal(t, models.RawRecord{}, DecodeRecord([]byte(`not json`)))
}

func TestNewSnapshot(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := NewSnapshot("file", nil, at)
	require.NotNil(t, snap.Records)
	assert.Equal(t, 0, snap.Len())
	assert.Equal(t, "file", snap.Source)
	assert.Equal(t, at, snap.FetchedAt)
}

func TestSourceError(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := NewSourceError(ErrorProviderOutage, "http", "upstream unreachable", cause)

	assert.True(t, IsRetryable(err))
	assert.Equal(t, ErrorProviderOutage, GetCategory(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "source http [provider_outage]")

	assert.False(t, IsRetryable(NewSourceError(ErrorBadData, "http", "x", nil)))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.Equal(t, ErrorInternal, GetCategory(errors.New("plain")))
}

func TestClassify(t *testing.T) {
	assert.NoError(t, Classify("file", nil))

	_, decodeErr := DecodePayload([]byte(`null`))
	err := Classify("file", decodeErr)
	assert.ErrorIs(t, err, ErrInvalidCollection)
	assert.Equal(t, ErrorBadData, GetCategory(err))

	err = Classify("file", errors.New("unexpected EOF"))
	assert.NotErrorIs(t, err, ErrInvalidCollection)
	assert.Equal(t, ErrorBadData, GetCategory(err))
}
