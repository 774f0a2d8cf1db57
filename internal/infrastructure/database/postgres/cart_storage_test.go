package postgres

import (
	"context"
	"io"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/curtains-backend/internal/domain/cart"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// a second pooled connection would open a different in-memory database
	sqlDB.SetMaxOpenConns(1)

	log := logrus.New()
	log.SetOutput(io.Discard)
	require.NoError(t, NewMigration(gdb, log).RunAutoMigrations())

	db := Wrap(gdb)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCartStorage_MissingKey(t *testing.T) {
	storage := newTestDB(t).CartStorage()

	value, found, err := storage.Get(context.Background(), "cart:user:42")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, value)
}

func TestCartStorage_Upsert(t *testing.T) {
	db := newTestDB(t)
	storage := db.CartStorage()
	ctx := context.Background()

	require.NoError(t, storage.Set(ctx, "cart:user:42", `[{"id":"a"}]`))
	require.NoError(t, storage.Set(ctx, "cart:user:42", `[]`))

	value, found, err := storage.Get(ctx, "cart:user:42")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, value)

	var rows int64
	require.NoError(t, db.GetDB().Model(&CartSnapshot{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestCartStorage_BacksCartStore(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	store := cart.NewStore(db.CartStorage(), "cart:user:42")
	item, err := store.AddItem(ctx, cart.NewLineItem{
		ProductID: "sheer-panel",
		Width:     140,
		Height:    250,
		Material:  "voile",
		Color:     "white",
		Addons:    []string{"hooks"},
		Quantity:  3,
		Price:     decimal.NewFromInt(90),
	})
	require.NoError(t, err)

	store.UpdateQuantity(ctx, item.ID, 5)

	reloaded := cart.NewStore(db.CartStorage(), "cart:user:42").ListItems(ctx)
	require.Len(t, reloaded, 1)
	assert.Equal(t, 5, reloaded[0].Quantity)
	assert.True(t, decimal.NewFromInt(150).Equal(reloaded[0].Price))
}

func TestHealth(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, db.Health(context.Background()))
}
