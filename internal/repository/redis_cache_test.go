package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/matchpoint-app/matchpoint/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCatalogCache(t *testing.T) (*RedisCatalogCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCatalogCache(client), mr
}

func catalogFixture() []*domain.PackageDetail {
	return []*domain.PackageDetail{
		{
			Package: domain.Package{ID: "pkg-1", Name: "Basic", Price: 99000, DurationMonths: 3},
			Services: []domain.Service{
				{ID: "svc-1", Name: "Tournament hosting", Type: domain.ServiceTypeTournament, Config: `{"quota":1,"used":0}`},
			},
		},
		{
			Package: domain.Package{ID: "pkg-2", Name: "Pro", Price: 199000, DurationMonths: 6, ParentID: "pkg-3"},
		},
	}
}

func TestCatalogCacheMissReturnsNilNil(t *testing.T) {
	cache, _ := setupCatalogCache(t)

	list, err := cache.GetPackageList(context.Background(), "tournament")
	assert.NoError(t, err)
	assert.Nil(t, list)
}

func TestCatalogCacheRoundTrip(t *testing.T) {
	cache, _ := setupCatalogCache(t)
	ctx := context.Background()
	fixture := catalogFixture()

	require.NoError(t, cache.SetPackageList(ctx, "tournament", fixture, time.Minute))

	got, err := cache.GetPackageList(ctx, "tournament")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "pkg-1", got[0].ID)
	assert.Equal(t, int64(99000), got[0].Price)
	require.Len(t, got[0].Services, 1)
	assert.Equal(t, `{"quota":1,"used":0}`, got[0].Services[0].Config)
	assert.Equal(t, "pkg-3", got[1].ParentID)
}

func TestCatalogCacheKeysByServiceType(t *testing.T) {
	cache, _ := setupCatalogCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetPackageList(ctx, "", catalogFixture(), time.Minute))
	require.NoError(t, cache.SetPackageList(ctx, "group", catalogFixture()[:1], time.Minute))

	all, err := cache.GetPackageList(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	group, err := cache.GetPackageList(ctx, "group")
	require.NoError(t, err)
	assert.Len(t, group, 1)
}

func TestCatalogCacheExpiry(t *testing.T) {
	cache, mr := setupCatalogCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetPackageList(ctx, "tournament", catalogFixture(), time.Minute))
	mr.FastForward(2 * time.Minute)

	list, err := cache.GetPackageList(ctx, "tournament")
	assert.NoError(t, err)
	assert.Nil(t, list)
}

func TestCatalogCacheInvalidateDropsAllVariants(t *testing.T) {
	cache, mr := setupCatalogCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetPackageList(ctx, "", catalogFixture(), time.Minute))
	require.NoError(t, cache.SetPackageList(ctx, "tournament", catalogFixture(), time.Minute))
	require.NoError(t, cache.SetPackageList(ctx, "group", catalogFixture(), time.Minute))

	// An unrelated key must survive the invalidation
	mr.Set("idempotency:corr-1", "cached")

	require.NoError(t, cache.InvalidatePackageLists(ctx))

	for _, st := range []string{"", "tournament", "group"} {
		list, err := cache.GetPackageList(ctx, st)
		require.NoError(t, err)
		assert.Nil(t, list, "service type %q still cached", st)
	}
	assert.True(t, mr.Exists("idempotency:corr-1"))
}

func TestCatalogCacheInvalidateOnEmptyCache(t *testing.T) {
	cache, _ := setupCatalogCache(t)
	assert.NoError(t, cache.InvalidatePackageLists(context.Background()))
}
