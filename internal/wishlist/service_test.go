package wishlist

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/planfinderz-storefront/pkg/db"
	"github.com/angelmondragon/planfinderz-storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/planfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/planfinderz-storefront/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupWishlistService(t *testing.T) (Service, *Repository) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, conn.AutoMigrate(&models.WishlistItem{}))

	repo := NewRepository(conn)
	svc, err := NewService(ServiceParams{Repo: repo, Tx: db.NewFromConn(conn, db.DriverSQLite)})
	require.NoError(t, err)
	return svc, repo
}

func entry(id string, price int64) Entry {
	return Entry{
		SourceID: id,
		Name:     "Plan " + id,
		Image:    "/img/" + id + ".jpg",
		Category: "Modern",
		Price:    decimal.NewFromInt(price),
	}
}

func TestToggleAddsThenRemoves(t *testing.T) {
	svc, _ := setupWishlistService(t)
	ctx := context.Background()
	owner := OwnerForSession("sess-1")

	res, err := svc.Toggle(ctx, owner, entry("admin-1", 100))
	require.NoError(t, err)
	assert.True(t, res.Saved)

	ok, err := svc.Contains(ctx, owner, "admin-1")
	require.NoError(t, err)
	assert.True(t, ok)

	res, err = svc.Toggle(ctx, owner, entry("admin-1", 100))
	require.NoError(t, err)
	assert.False(t, res.Saved)

	ok, err = svc.Contains(ctx, owner, "admin-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWishlistOwnersAreIsolated(t *testing.T) {
	svc, _ := setupWishlistService(t)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, OwnerForShopper("u1"), entry("admin-1", 100))
	require.NoError(t, err)

	ok, err := svc.Contains(ctx, OwnerForShopper("u2"), "admin-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListPaginatesNewestFirst(t *testing.T) {
	svc, repo := setupWishlistService(t)
	ctx := context.Background()
	owner := OwnerForShopper("u1")

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		item := modelFromEntry(owner, entry(fmt.Sprintf("admin-%d", i), int64(100*(i+1))))
		item.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.Create(ctx, item))
	}

	page, err := svc.List(ctx, owner, pagination.Params{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "admin-4", page.Items[0].SourceID)
	assert.Equal(t, "admin-3", page.Items[1].SourceID)
	assert.True(t, page.Items[0].Price.Equal(decimal.NewFromInt(500)))

	last, err := svc.List(ctx, owner, pagination.Params{Page: 9, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, last.Page)
	require.Len(t, last.Items, 1)
	assert.Equal(t, "admin-0", last.Items[0].SourceID)
}

func TestSalePriceRoundTrips(t *testing.T) {
	svc, _ := setupWishlistService(t)
	ctx := context.Background()
	owner := OwnerForSession("sess-1")

	e := entry("professional-9", 400)
	sale := decimal.NewFromInt(250)
	e.SalePrice = &sale
	_, err := svc.Toggle(ctx, owner, e)
	require.NoError(t, err)

	page, err := svc.List(ctx, owner, pagination.Params{Page: 1})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.NotNil(t, page.Items[0].SalePrice)
	assert.True(t, page.Items[0].SalePrice.Equal(sale))
}

func TestRemoveIsIdempotent(t *testing.T) {
	svc, _ := setupWishlistService(t)
	ctx := context.Background()
	owner := OwnerForSession("sess-1")

	_, err := svc.Toggle(ctx, owner, entry("admin-1", 100))
	require.NoError(t, err)
	require.NoError(t, svc.Remove(ctx, owner, "admin-1"))
	require.NoError(t, svc.Remove(ctx, owner, "admin-1"))

	page, err := svc.List(ctx, owner, pagination.Params{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalPages)
}

func TestDuplicateCreateIsUniqueViolation(t *testing.T) {
	_, repo := setupWishlistService(t)
	ctx := context.Background()
	owner := OwnerForSession("sess-1")

	require.NoError(t, repo.Create(ctx, modelFromEntry(owner, entry("admin-1", 100))))
	err := repo.Create(ctx, modelFromEntry(owner, entry("admin-1", 100)))
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""))
}

func TestWishlistValidation(t *testing.T) {
	svc, _ := setupWishlistService(t)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, "session:", entry("admin-1", 100))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Toggle(ctx, OwnerForSession("s"), Entry{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = NewService(ServiceParams{})
	assert.Error(t, err)
}
