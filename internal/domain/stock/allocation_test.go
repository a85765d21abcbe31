package stock

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_Allocate(t *testing.T) {
	productID := uuid.New()
	now := time.Now()

	newPool := func() *Pool {
		return NewPool([]BatchEntry{
			{ProductID: productID, BatchCode: "B2", ExpiryDate: datePtr(now.AddDate(0, 4, 0)), AvailableQuantity: decimal.NewFromInt(100)},
			{ProductID: productID, BatchCode: "B1", ExpiryDate: datePtr(now.AddDate(0, 1, 0)), AvailableQuantity: decimal.NewFromInt(40)},
		})
	}

	t.Run("allocates in FEFO order across batches", func(t *testing.T) {
		pool := newPool()
		result := pool.Allocate(productID, decimal.NewFromInt(50))

		require.Len(t, result.Entries, 2)
		assert.Equal(t, "B1", result.Entries[0].BatchCode)
		assert.True(t, result.Entries[0].AllocatedQuantity.Equal(decimal.NewFromInt(40)))
		assert.True(t, result.Entries[0].AvailableBefore.Equal(decimal.NewFromInt(40)))
		assert.Equal(t, "B2", result.Entries[1].BatchCode)
		assert.True(t, result.Entries[1].AllocatedQuantity.Equal(decimal.NewFromInt(10)))
		assert.True(t, result.Entries[1].AvailableBefore.Equal(decimal.NewFromInt(100)))
		assert.True(t, result.Shortage.IsZero())
	})

	t.Run("decrements the pool in place", func(t *testing.T) {
		pool := newPool()
		pool.Allocate(productID, decimal.NewFromInt(50))

		// 140 - 50 remain for a subsequent order line in the same session
		assert.True(t, pool.TotalAvailable(productID).Equal(decimal.NewFromInt(90)))

		second := pool.Allocate(productID, decimal.NewFromInt(100))
		assert.True(t, second.TotalAllocated().Equal(decimal.NewFromInt(90)))
		assert.True(t, second.Shortage.Equal(decimal.NewFromInt(10)))
	})

	t.Run("reports shortage when stock is insufficient", func(t *testing.T) {
		pool := newPool()
		result := pool.Allocate(productID, decimal.NewFromInt(200))

		assert.True(t, result.TotalAllocated().Equal(decimal.NewFromInt(140)))
		assert.True(t, result.Shortage.Equal(decimal.NewFromInt(60)))
		assert.False(t, result.FullyAllocated())
		assert.True(t, pool.TotalAvailable(productID).IsZero())
	})

	t.Run("zero quantity allocates nothing without touching the pool", func(t *testing.T) {
		pool := newPool()
		result := pool.Allocate(productID, decimal.Zero)

		assert.Empty(t, result.Entries)
		assert.True(t, result.Shortage.IsZero())
		assert.True(t, pool.TotalAvailable(productID).Equal(decimal.NewFromInt(140)))
	})

	t.Run("negative quantity is treated as zero", func(t *testing.T) {
		pool := newPool()
		result := pool.Allocate(productID, decimal.NewFromInt(-5))

		assert.Empty(t, result.Entries)
		assert.True(t, result.Shortage.IsZero())
	})

	t.Run("unknown product yields full shortage", func(t *testing.T) {
		pool := newPool()
		result := pool.Allocate(uuid.New(), decimal.NewFromInt(25))

		assert.Empty(t, result.Entries)
		assert.True(t, result.Shortage.Equal(decimal.NewFromInt(25)))
	})

	t.Run("skips zero-availability batches", func(t *testing.T) {
		pool := NewPool([]BatchEntry{
			{ProductID: productID, BatchCode: "EMPTY", ExpiryDate: datePtr(now.AddDate(0, 1, 0)), AvailableQuantity: decimal.Zero},
			{ProductID: productID, BatchCode: "FULL", ExpiryDate: datePtr(now.AddDate(0, 2, 0)), AvailableQuantity: decimal.NewFromInt(10)},
		})

		result := pool.Allocate(productID, decimal.NewFromInt(5))
		require.Len(t, result.Entries, 1)
		assert.Equal(t, "FULL", result.Entries[0].BatchCode)
	})

	t.Run("undated batches are consumed only after dated ones", func(t *testing.T) {
		pool := NewPool([]BatchEntry{
			{ProductID: productID, BatchCode: "NODATE", AvailableQuantity: decimal.NewFromInt(50)},
			{ProductID: productID, BatchCode: "DATED", ExpiryDate: datePtr(now.AddDate(1, 0, 0)), AvailableQuantity: decimal.NewFromInt(30)},
		})

		result := pool.Allocate(productID, decimal.NewFromInt(60))
		require.Len(t, result.Entries, 2)
		assert.Equal(t, "DATED", result.Entries[0].BatchCode)
		assert.Equal(t, "NODATE", result.Entries[1].BatchCode)
		assert.True(t, result.Entries[1].AllocatedQuantity.Equal(decimal.NewFromInt(30)))
	})
}

// Conservation and no-over-allocation must hold for arbitrary pool shapes and
// request quantities, not just the handpicked cases above.
func TestPool_Allocate_Conservation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	now := time.Now()

	for run := 0; run < 200; run++ {
		productID := uuid.New()
		entries := make([]BatchEntry, 0)
		batchCount := rng.Intn(6)
		for i := 0; i < batchCount; i++ {
			var expiry *time.Time
			if rng.Intn(4) > 0 {
				expiry = datePtr(now.AddDate(0, rng.Intn(24), 0))
			}
			entries = append(entries, BatchEntry{
				ProductID:         productID,
				BatchCode:         string(rune('A' + i)),
				ExpiryDate:        expiry,
				AvailableQuantity: decimal.NewFromInt(int64(rng.Intn(50))),
			})
		}

		pool := NewPool(entries)
		before := pool.TotalAvailable(productID)
		requested := decimal.NewFromInt(int64(rng.Intn(150)))

		result := pool.Allocate(productID, requested)

		// sum(allocated) + shortage == requested
		assert.True(t, result.TotalAllocated().Add(result.Shortage).Equal(requested),
			"conservation violated: allocated %s + shortage %s != requested %s",
			result.TotalAllocated(), result.Shortage, requested)

		// pool decreased by exactly the allocated amount
		assert.True(t, before.Sub(pool.TotalAvailable(productID)).Equal(result.TotalAllocated()))

		// no entry exceeds its pre-allocation availability
		for _, e := range result.Entries {
			assert.True(t, e.AllocatedQuantity.IsPositive())
			assert.True(t, e.AllocatedQuantity.LessThanOrEqual(e.AvailableBefore))
		}
	}
}
