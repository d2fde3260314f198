package store

import (
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homebudget/homebudget/internal/model"
)

func openTest(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "sub", "cache.db"), time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func rows() []model.RawListing {
	area := 84.97
	floor := 12
	d := civil.Date{Year: 2024, Month: time.March, Day: 15}
	return []model.RawListing{
		{Name: "휘경SK뷰", Dong: "휘경동", AreaM2: &area, Floor: &floor, DealDate: &d,
			Fields: map[string]string{model.ColumnDealAmount: "95,000"}},
		{Name: "중계무지개", Fields: map[string]string{model.ColumnDealAmount: "65,000"}},
	}
}

func TestPutGet_RoundTripKeepsOrder(t *testing.T) {
	c := openTest(t)
	require.NoError(t, c.PutTrades("11230", "202403", rows()))

	got, ok, err := c.GetTrades("11230", "202403")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rows(), got)
}

func TestGet_Miss(t *testing.T) {
	c := openTest(t)
	got, ok, err := c.GetTrades("11230", "202403")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestGet_Expired(t *testing.T) {
	c := openTest(t)
	base := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }
	require.NoError(t, c.PutTrades("11230", "202403", rows()))

	c.now = func() time.Time { return base.Add(2 * time.Hour) }
	_, ok, err := c.GetTrades("11230", "202403")
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := c.Purge()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	count, err := c.EntryCount()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestPut_ReplacesPreviousEntry(t *testing.T) {
	c := openTest(t)
	require.NoError(t, c.PutTrades("11350", "202403", rows()))
	require.NoError(t, c.PutTrades("11350", "202403", rows()[:1]))

	got, ok, err := c.GetTrades("11350", "202403")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got, 1)
}

func TestPut_EmptyBatchIsCached(t *testing.T) {
	c := openTest(t)
	require.NoError(t, c.PutTrades("11350", "202403", nil))

	got, ok, err := c.GetTrades("11350", "202403")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)
}
