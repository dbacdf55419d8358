package surrealdb

import (
	"context"
	"errors"
	"testing"

	"github.com/bobmcallan/tradejournal/internal/interfaces"
	"github.com/bobmcallan/tradejournal/internal/storage/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Conformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) interfaces.RemoteStore {
		s, err := NewStore(context.Background(), testDB(t), testLogger())
		require.NoError(t, err)
		return s
	})
}

func TestToRow_MapsRowID(t *testing.T) {
	row := toRow(map[string]any{
		"id":      "trades:abc",
		"row_id":  "abc",
		"user_id": "alice",
		"notifications": map[any]any{
			"goalProgress": true,
		},
	})

	assert.Equal(t, "abc", row["id"])
	assert.NotContains(t, row, "user_id")
	assert.NotContains(t, row, "row_id")
	assert.Equal(t, map[string]any{"goalProgress": true}, row["notifications"])
}

func TestIsNotFoundError(t *testing.T) {
	assert.False(t, isNotFoundError(nil))
	assert.False(t, isNotFoundError(assert.AnError))
	assert.True(t, isNotFoundError(errors.New("record not found")))
}
