package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veda-rathna/mou-management-system/internal/config"
	"github.com/Veda-rathna/mou-management-system/internal/model"
)

func TestInitStore_SQLite(t *testing.T) {
	cfg = &config.Config{
		Store: config.StoreConfig{
			Driver:     "sqlite",
			SQLitePath: filepath.Join(t.TempDir(), "test.db"),
		},
	}

	st, err := initStore(context.Background())
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.NoError(t, st.Close())
}

func TestInitStore_UnsupportedDriver(t *testing.T) {
	cfg = &config.Config{Store: config.StoreConfig{Driver: "oracle"}}

	_, err := initStore(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store driver")
}

func TestParseDateFlag(t *testing.T) {
	got, err := parseDateFlag("2026-03-15")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), *got)

	got, err = parseDateFlag("")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = parseDateFlag("15/03/2026")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected YYYY-MM-DD")
}

func TestContractDates(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	expiry := time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)

	gotStart, gotExpiry := contractDates([]model.DateField{
		{Kind: model.DateKindStart, Parsed: &start},
		{Kind: model.DateKindEnd, Parsed: &end},
	})
	require.NotNil(t, gotStart)
	require.NotNil(t, gotExpiry)
	assert.True(t, gotStart.Equal(start))
	assert.True(t, gotExpiry.Equal(end), "end date stands in for a missing expiry")

	_, gotExpiry = contractDates([]model.DateField{
		{Kind: model.DateKindEnd, Parsed: &end},
		{Kind: model.DateKindExpiry, Parsed: &expiry},
	})
	require.NotNil(t, gotExpiry)
	assert.True(t, gotExpiry.Equal(expiry), "explicit expiry wins over end date")

	gotStart, gotExpiry = contractDates(nil)
	assert.Nil(t, gotStart)
	assert.Nil(t, gotExpiry)
}
