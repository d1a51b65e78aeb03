//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareholder/internal/holdings/matcher"
	"shareholder/internal/holdings/models"
	"shareholder/internal/holdings/source/contract"
	"shareholder/pkg/testutil/containers"
)

func TestPostgresSource(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	ctx := context.Background()

	src, err := Open(ctx, pg.URL, 2)
	require.NoError(t, err)
	defer src.Close()

	suite := &contract.ContractSuite{
		SourceName: Name,
		Tests:      []contract.FetchTest{{Name: "empty table", Source: src, WantRecords: 0}},
	}
	suite.Run(t)

	require.NoError(t, src.Insert(ctx,
		models.RawRecord{"i_ref": "1101001535259", "n_first": "Somchai", "n_last": "Jaidee", "q_share": 1500},
		models.RawRecord{"accountId": "A-1101001535259-2", "shareQuantity": 250.75},
		models.RawRecord{"Account_ID": "OTHER"},
	))

	snap, err := src.Fetch(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, snap.Len())

	matches := matcher.Match(matcher.Canonicalize(snap.Records), "1101001535259")
	require.Len(t, matches, 2)
	assert.Equal(t, "Somchai Jaidee", matches[0].FullName)
	assert.Equal(t, 250.75, matches[1].ShareQuantity)

	assert.NoError(t, src.Health(ctx))
}
