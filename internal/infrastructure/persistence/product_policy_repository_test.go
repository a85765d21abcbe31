package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB creates a GORM DB backed by a mocked SQL connection
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormProductPolicyRepository_FindByProductIDs(t *testing.T) {
	t.Run("loads policies for known products", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormProductPolicyRepository(gormDB)

		productA := uuid.New()
		productB := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "display_name", "free_goods_threshold", "free_goods_per_threshold", "unit_rate",
		}).AddRow(
			productA, "Amoxicillin 500mg", decimal.NewFromInt(100), decimal.NewFromInt(5), decimal.NewFromFloat(12.50),
		).AddRow(
			productB, "Paracetamol 650mg", decimal.NewFromInt(50), decimal.NewFromInt(2), decimal.NewFromFloat(3.75),
		)

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id IN`).
			WithArgs(productA, productB).
			WillReturnRows(rows)

		policies, err := repo.FindByProductIDs(context.Background(), []uuid.UUID{productA, productB})

		require.NoError(t, err)
		require.Len(t, policies, 2)
		assert.Equal(t, "Amoxicillin 500mg", policies[productA].DisplayName)
		assert.True(t, policies[productA].UnitRate.Equal(decimal.NewFromFloat(12.50)))
		assert.True(t, policies[productB].FreeGoodsThreshold.Equal(decimal.NewFromInt(50)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("omits products without a master row", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormProductPolicyRepository(gormDB)

		known := uuid.New()
		unknown := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "display_name", "free_goods_threshold", "free_goods_per_threshold", "unit_rate",
		}).AddRow(
			known, "Ibuprofen 400mg", decimal.NewFromInt(100), decimal.NewFromInt(5), decimal.NewFromFloat(6.00),
		)

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id IN`).
			WithArgs(known, unknown).
			WillReturnRows(rows)

		policies, err := repo.FindByProductIDs(context.Background(), []uuid.UUID{known, unknown})

		require.NoError(t, err)
		assert.Len(t, policies, 1)
		_, found := policies[unknown]
		assert.False(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("substitutes defaults when free-goods columns are NULL", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormProductPolicyRepository(gormDB)

		productID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "display_name", "free_goods_threshold", "free_goods_per_threshold", "unit_rate",
		}).AddRow(
			productID, "Cough Syrup 100ml", nil, nil, decimal.NewFromFloat(8.25),
		)

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id IN`).
			WithArgs(productID).
			WillReturnRows(rows)

		policies, err := repo.FindByProductIDs(context.Background(), []uuid.UUID{productID})

		require.NoError(t, err)
		policy := policies[productID]
		assert.True(t, policy.FreeGoodsThreshold.Equal(decimal.NewFromInt(100)))
		assert.True(t, policy.FreeGoodsPerThreshold.Equal(decimal.NewFromInt(5)))
		assert.True(t, policy.UnitRate.Equal(decimal.NewFromFloat(8.25)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("keeps explicit zero threshold as bonuses disabled", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormProductPolicyRepository(gormDB)

		productID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "display_name", "free_goods_threshold", "free_goods_per_threshold", "unit_rate",
		}).AddRow(
			productID, "Insulin Pen", decimal.Zero, decimal.NewFromInt(5), decimal.NewFromFloat(42.00),
		)

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id IN`).
			WithArgs(productID).
			WillReturnRows(rows)

		policies, err := repo.FindByProductIDs(context.Background(), []uuid.UUID{productID})

		require.NoError(t, err)
		policy := policies[productID]
		assert.True(t, policy.FreeGoodsThreshold.IsZero())
		assert.False(t, policy.GrantsFreeGoods())
		assert.True(t, policy.FreeGoodsFor(decimal.NewFromInt(500)).IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects master rows with negative policy values", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormProductPolicyRepository(gormDB)

		productID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "display_name", "free_goods_threshold", "free_goods_per_threshold", "unit_rate",
		}).AddRow(
			productID, "Corrupt Row", decimal.NewFromInt(100), decimal.NewFromInt(-1), decimal.NewFromFloat(1.00),
		)

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id IN`).
			WithArgs(productID).
			WillReturnRows(rows)

		policies, err := repo.FindByProductIDs(context.Background(), []uuid.UUID{productID})

		assert.Error(t, err)
		assert.Nil(t, policies)
		assert.Contains(t, err.Error(), productID.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns empty map for no product IDs without querying", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormProductPolicyRepository(gormDB)

		policies, err := repo.FindByProductIDs(context.Background(), nil)

		require.NoError(t, err)
		assert.Empty(t, policies)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates query errors", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormProductPolicyRepository(gormDB)

		queryErr := errors.New("connection refused")
		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id IN`).
			WillReturnError(queryErr)

		policies, err := repo.FindByProductIDs(context.Background(), []uuid.UUID{uuid.New()})

		assert.Error(t, err)
		assert.Nil(t, policies)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
