package rowutil

import (
	"testing"
	"time"

	"github.com/bobmcallan/tradejournal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_SortsAsText(t *testing.T) {
	base := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	a := Timestamp(base)
	b := Timestamp(base.Add(time.Nanosecond))
	c := Timestamp(base.Add(time.Second))

	assert.Len(t, a, len(b))
	assert.Less(t, a, b)
	assert.Less(t, b, c)
}

func TestNewID_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := NewID()
		require.False(t, seen[id])
		seen[id] = true
	}
}

func TestCheckTable(t *testing.T) {
	assert.NoError(t, CheckTable(models.TableTrades))
	assert.NoError(t, CheckTable(models.TableUserSettings))
	assert.Error(t, CheckTable("trades; DROP TABLE trades"))
}

func TestStripAndMerge(t *testing.T) {
	row := models.Row{ColID: "x", ColCreatedAt: "t", ColOwner: "o", "asset": "AAPL"}
	stripped := Strip(row)
	assert.Equal(t, models.Row{"asset": "AAPL"}, stripped)

	merged := Merge(models.Row{"a": 1, "b": 2}, models.Row{"b": 3})
	assert.Equal(t, models.Row{"a": 1, "b": 3}, merged)
}

func TestNormalize(t *testing.T) {
	out, err := Normalize(models.Row{"tags": []string{"a"}, "n": 1})
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, out["tags"])
	assert.Equal(t, 1.0, out["n"])
}
