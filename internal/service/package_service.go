package service

import (
	"context"
	"log"
	"time"

	"github.com/matchpoint-app/matchpoint/internal/domain"
)

const catalogCacheTTL = 5 * time.Minute

// CatalogCache caches package catalog listings. A miss is reported as
// (nil, nil).
type CatalogCache interface {
	GetPackageList(ctx context.Context, serviceType string) ([]*domain.PackageDetail, error)
	SetPackageList(ctx context.Context, serviceType string, list []*domain.PackageDetail, ttl time.Duration) error
	InvalidatePackageLists(ctx context.Context) error
}

// PackageService manages the package catalog
type PackageService struct {
	pkgRepo domain.PackageRepository
	svcRepo domain.ServiceRepository
	cache   CatalogCache
}

// NewPackageService creates a new PackageService. cache may be nil.
func NewPackageService(pkgRepo domain.PackageRepository, svcRepo domain.ServiceRepository, cache CatalogCache) *PackageService {
	return &PackageService{
		pkgRepo: pkgRepo,
		svcRepo: svcRepo,
		cache:   cache,
	}
}

// CreatePackageInput carries a new catalog entry and its service links
type CreatePackageInput struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Price          int64    `json:"price"`
	DurationMonths int      `json:"duration"`
	ParentID       string   `json:"parentId"`
	Features       []string `json:"features"`
	Images         []string `json:"images"`
	ServiceIDs     []string `json:"services"`
}

// Create inserts the package and its service links in one transaction
func (s *PackageService) Create(ctx context.Context, in CreatePackageInput) (*domain.Package, error) {
	pkg := &domain.Package{
		Name:           in.Name,
		Description:    in.Description,
		Price:          in.Price,
		DurationMonths: in.DurationMonths,
		ParentID:       in.ParentID,
		Features:       in.Features,
		Images:         in.Images,
	}
	if err := s.pkgRepo.Create(ctx, pkg, in.ServiceIDs); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)
	return pkg, nil
}

// List returns the catalog, optionally filtered by bundled service type.
// Results are cached with a short TTL.
func (s *PackageService) List(ctx context.Context, serviceType string) ([]*domain.PackageDetail, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetPackageList(ctx, serviceType); err != nil {
			log.Printf("[Catalog] Cache read failed: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	list, err := s.pkgRepo.List(ctx, serviceType)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetPackageList(ctx, serviceType, list, catalogCacheTTL); err != nil {
			log.Printf("[Catalog] Cache write failed: %v", err)
		}
	}
	return list, nil
}

// Get returns one package with its services expanded
func (s *PackageService) Get(ctx context.Context, id string) (*domain.PackageDetail, error) {
	return s.pkgRepo.GetDetail(ctx, id)
}

// Update overwrites mutable package fields
func (s *PackageService) Update(ctx context.Context, pkg *domain.Package) (*domain.Package, error) {
	if err := s.pkgRepo.Update(ctx, pkg); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)
	return pkg, nil
}

// Delete removes a package from the catalog
func (s *PackageService) Delete(ctx context.Context, id string) error {
	if err := s.pkgRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

// CreateService adds a bundled service definition
func (s *PackageService) CreateService(ctx context.Context, svc *domain.Service) error {
	return s.svcRepo.Create(ctx, svc)
}

// ListServices returns all bundled service definitions
func (s *PackageService) ListServices(ctx context.Context) ([]*domain.Service, error) {
	return s.svcRepo.List(ctx)
}

func (s *PackageService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePackageLists(ctx); err != nil {
		log.Printf("[Catalog] Cache invalidation failed: %v", err)
	}
}
