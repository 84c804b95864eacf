package service

import (
	"context"
	"testing"
	"time"

	"github.com/matchpoint-app/matchpoint/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalogCache struct {
	entries     map[string][]*domain.PackageDetail
	reads       int
	writes      int
	invalidates int
}

func newFakeCatalogCache() *fakeCatalogCache {
	return &fakeCatalogCache{entries: make(map[string][]*domain.PackageDetail)}
}

func (f *fakeCatalogCache) GetPackageList(ctx context.Context, serviceType string) ([]*domain.PackageDetail, error) {
	f.reads++
	return f.entries[serviceType], nil
}

func (f *fakeCatalogCache) SetPackageList(ctx context.Context, serviceType string, list []*domain.PackageDetail, ttl time.Duration) error {
	f.writes++
	f.entries[serviceType] = list
	return nil
}

func (f *fakeCatalogCache) InvalidatePackageLists(ctx context.Context) error {
	f.invalidates++
	f.entries = make(map[string][]*domain.PackageDetail)
	return nil
}

type fakeServiceRepo struct {
	services []*domain.Service
}

func (f *fakeServiceRepo) Create(ctx context.Context, svc *domain.Service) error {
	svc.ID = "svc-new"
	f.services = append(f.services, svc)
	return nil
}

func (f *fakeServiceRepo) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	for _, svc := range f.services {
		if svc.ID == id {
			return svc, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeServiceRepo) List(ctx context.Context) ([]*domain.Service, error) {
	return f.services, nil
}

func (f *fakeServiceRepo) Update(ctx context.Context, svc *domain.Service) error { return nil }
func (f *fakeServiceRepo) Delete(ctx context.Context, id string) error           { return nil }

// listingPackageRepo counts catalog reads on top of the in-memory fake
type listingPackageRepo struct {
	*fakePackageRepo
	listCalls int
}

func (l *listingPackageRepo) List(ctx context.Context, serviceType string) ([]*domain.PackageDetail, error) {
	l.listCalls++
	var result []*domain.PackageDetail
	for _, pkg := range l.packages {
		result = append(result, &domain.PackageDetail{Package: *pkg, Services: l.services[pkg.ID]})
	}
	return result, nil
}

func newTestPackageService() (*PackageService, *listingPackageRepo, *fakeCatalogCache) {
	pkgRepo := &listingPackageRepo{fakePackageRepo: newFakePackageRepo()}
	seedCatalog(pkgRepo.fakePackageRepo)
	cache := newFakeCatalogCache()
	svc := NewPackageService(pkgRepo, &fakeServiceRepo{}, cache)
	return svc, pkgRepo, cache
}

func TestCatalogListPopulatesAndHitsCache(t *testing.T) {
	svc, pkgRepo, cache := newTestPackageService()
	ctx := context.Background()

	first, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, first, 4)
	assert.Equal(t, 1, pkgRepo.listCalls)
	assert.Equal(t, 1, cache.writes)

	second, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, second, 4)
	assert.Equal(t, 1, pkgRepo.listCalls, "the second read must come from the cache")
}

func TestCatalogWritesInvalidateCache(t *testing.T) {
	svc, pkgRepo, cache := newTestPackageService()
	ctx := context.Background()

	_, err := svc.List(ctx, "")
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreatePackageInput{Name: "Starter", Price: 49000, DurationMonths: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidates)

	// The next listing goes back to the repository
	_, err = svc.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, pkgRepo.listCalls)

	require.NoError(t, svc.Delete(ctx, "pkg-other"))
	assert.Equal(t, 2, cache.invalidates)
}

func TestCatalogListWithoutCache(t *testing.T) {
	pkgRepo := &listingPackageRepo{fakePackageRepo: newFakePackageRepo()}
	seedCatalog(pkgRepo.fakePackageRepo)
	svc := NewPackageService(pkgRepo, &fakeServiceRepo{}, nil)

	list, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, list, 4)
}
