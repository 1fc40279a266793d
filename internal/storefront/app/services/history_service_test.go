package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hamburgueria/internal/storefront/adapter/kv"
	"hamburgueria/internal/storefront/adapter/repo"
	"hamburgueria/internal/storefront/domain/models"
	"hamburgueria/internal/xpkg/logger"
)

func entry(number int64, total string) models.LogEntry {
	return models.LogEntry{
		OrderNumber:   number,
		CustomerName:  "Ana",
		PaymentMethod: "pix",
		Total:         decimal.RequireFromString(total),
	}
}

func TestHistoryAppendNewestFirst(t *testing.T) {
	hs := NewHistoryService(repo.NewLogRepo(kv.NewMemory(), logger.Nop()), 0, logger.Nop())
	ctx := context.Background()

	require.NoError(t, hs.Append(ctx, entry(1001, "10.00")))
	require.NoError(t, hs.Append(ctx, entry(1002, "20.00")))

	logs, err := hs.List(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, int64(1002), logs[0].OrderNumber)
	assert.Equal(t, int64(1001), logs[1].OrderNumber)

	found, ok, err := hs.Find(ctx, 1001)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "10.00", found.Total.StringFixed(2))

	_, ok, err = hs.Find(ctx, 999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHistoryMaxEntries(t *testing.T) {
	hs := NewHistoryService(repo.NewLogRepo(kv.NewMemory(), logger.Nop()), 2, logger.Nop())
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, hs.Append(ctx, entry(1000+i, "1.00")))
	}

	logs, err := hs.List(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, int64(1003), logs[0].OrderNumber)
	assert.Equal(t, int64(1002), logs[1].OrderNumber)
}

func TestHistoryClear(t *testing.T) {
	hs := NewHistoryService(repo.NewLogRepo(kv.NewMemory(), logger.Nop()), 0, logger.Nop())
	ctx := context.Background()
	require.NoError(t, hs.Append(ctx, entry(1001, "1.00")))

	require.NoError(t, hs.Clear(ctx))

	logs, err := hs.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, logs)
	assert.Empty(t, logs)
}

func TestSummarize(t *testing.T) {
	empty := Summarize(nil)
	assert.False(t, empty.HasData)
	assert.Equal(t, 0, empty.Count)
	assert.True(t, empty.Average.IsZero())
	assert.True(t, empty.Revenue.IsZero())

	s := Summarize([]models.LogEntry{entry(1001, "35.98"), entry(1002, "30.98"), entry(1003, "10.00")})
	assert.True(t, s.HasData)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, "76.96", s.Revenue.StringFixed(2))
	assert.Equal(t, "25.65", s.Average.StringFixed(2))
}

func TestHistorySummaryEmptyStore(t *testing.T) {
	hs := NewHistoryService(repo.NewLogRepo(kv.NewMemory(), logger.Nop()), 0, logger.Nop())
	s, err := hs.Summary(context.Background())
	require.NoError(t, err)
	assert.False(t, s.HasData)
}
