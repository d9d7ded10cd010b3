package adapters

import (
	"context"
	"testing"
	"time"

	"wealth_backend/internal/feature/securities/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dailyPrice(securityID uint, ts time.Time, close float64) entity.Price {
	return entity.Price{
		SecurityID: securityID,
		Timestamp:  ts,
		Open:       close - 5,
		High:       close + 5,
		Low:        close - 10,
		Close:      close,
		Volume:     1000,
		Interval:   entity.IntervalDaily,
	}
}

func TestPriceMySQL_InsertBatch(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("success: inserts all rows", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		repo := NewPriceRepository(db)

		n, err := repo.InsertBatch(context.Background(), []entity.Price{
			dailyPrice(1, base, 100),
			dailyPrice(1, base.AddDate(0, 0, 1), 101),
			dailyPrice(1, base.AddDate(0, 0, 2), 102),
		})

		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})

	t.Run("success: re-sync skips existing rows", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		repo := NewPriceRepository(db)
		ctx := context.Background()

		_, err := repo.InsertBatch(ctx, []entity.Price{
			dailyPrice(1, base, 100),
			dailyPrice(1, base.AddDate(0, 0, 1), 101),
		})
		require.NoError(t, err)

		// 同じ2行と新しい1行を再同期
		n, err := repo.InsertBatch(ctx, []entity.Price{
			dailyPrice(1, base, 999), // 既存行は上書きされない
			dailyPrice(1, base.AddDate(0, 0, 1), 101),
			dailyPrice(1, base.AddDate(0, 0, 2), 102),
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1), n, "only the genuinely new row counts as synced")

		rows, err := repo.FindRange(ctx, 1, entity.IntervalDaily, base, base.AddDate(0, 0, 3))
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, 100.0, rows[0].Close, "existing rows are immutable")
	})

	t.Run("success: same timestamp under different intervals coexist", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		repo := NewPriceRepository(db)
		ctx := context.Background()

		minute := dailyPrice(1, base, 100)
		minute.Interval = entity.IntervalMinute

		n, err := repo.InsertBatch(ctx, []entity.Price{dailyPrice(1, base, 100), minute})
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("success: empty batch is a no-op", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		repo := NewPriceRepository(db)

		n, err := repo.InsertBatch(context.Background(), nil)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestPriceMySQL_FindRange(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewPriceRepository(db)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	seed := []entity.Price{
		dailyPrice(1, base.AddDate(0, 0, 2), 102),
		dailyPrice(1, base, 100),
		dailyPrice(1, base.AddDate(0, 0, 1), 101),
		dailyPrice(1, base.AddDate(0, 0, 10), 110), // 範囲外
		dailyPrice(2, base, 200),                   // 別の証券
	}
	_, err := repo.InsertBatch(ctx, seed)
	require.NoError(t, err)

	rows, err := repo.FindRange(ctx, 1, entity.IntervalDaily, base, base.AddDate(0, 0, 5))

	require.NoError(t, err)
	require.Len(t, rows, 3)
	// タイムスタンプ昇順で返ることを確認
	assert.Equal(t, 100.0, rows[0].Close)
	assert.Equal(t, 101.0, rows[1].Close)
	assert.Equal(t, 102.0, rows[2].Close)
	for _, r := range rows {
		assert.Equal(t, uint(1), r.SecurityID)
		assert.Equal(t, time.UTC, r.Timestamp.Location())
	}
}

func TestPriceMySQL_CountRange(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewPriceRepository(db)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := repo.InsertBatch(ctx, []entity.Price{
		dailyPrice(1, base, 100),
		dailyPrice(1, base.AddDate(0, 0, 1), 101),
	})
	require.NoError(t, err)

	count, err := repo.CountRange(ctx, 1, entity.IntervalDaily, base, base.AddDate(0, 0, 5))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountRange(ctx, 1, entity.IntervalMinute, base, base.AddDate(0, 0, 5))
	require.NoError(t, err)
	assert.Zero(t, count, "other intervals must not be counted")
}

func TestPriceMySQL_DeleteBySecurity(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewPriceRepository(db)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	minute := dailyPrice(1, base, 100)
	minute.Interval = entity.IntervalMinute
	_, err := repo.InsertBatch(ctx, []entity.Price{
		dailyPrice(1, base, 100),
		dailyPrice(2, base, 200),
		minute,
	})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteBySecurity(ctx, 1, entity.IntervalDaily))

	count, err := repo.CountRange(ctx, 1, entity.IntervalDaily, base.AddDate(0, 0, -1), base.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Zero(t, count, "daily history for security 1 must be gone")

	count, err = repo.CountRange(ctx, 1, entity.IntervalMinute, base.AddDate(0, 0, -1), base.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "other intervals must survive the reset")

	count, err = repo.CountRange(ctx, 2, entity.IntervalDaily, base.AddDate(0, 0, -1), base.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "other securities must be untouched")
}
