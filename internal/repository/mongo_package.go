package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/matchpoint-app/matchpoint/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// packageServiceLink is one row of the package/service join collection
type packageServiceLink struct {
	PackageID string `bson:"package_id"`
	ServiceID string `bson:"service_id"`
}

// MongoPackageRepository implements domain.PackageRepository
type MongoPackageRepository struct {
	db       *mongo.Database
	packages *mongo.Collection
	links    *mongo.Collection
	services *mongo.Collection
}

// NewMongoPackageRepository creates a new package repository
func NewMongoPackageRepository(db *mongo.Database) *MongoPackageRepository {
	return &MongoPackageRepository{
		db:       db,
		packages: db.Collection("packages"),
		links:    db.Collection("package_services"),
		services: db.Collection("services"),
	}
}

// Create inserts the package document and its service links inside one
// transaction, so a catalog entry never appears without its bundle.
func (r *MongoPackageRepository) Create(ctx context.Context, pkg *domain.Package, serviceIDs []string) error {
	now := time.Now().UTC()
	pkg.ID = primitive.NewObjectID().Hex()
	pkg.CreatedAt = now
	pkg.UpdatedAt = now

	session, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.packages.InsertOne(sc, pkg); err != nil {
			return nil, err
		}
		if len(serviceIDs) == 0 {
			return nil, nil
		}
		docs := make([]interface{}, 0, len(serviceIDs))
		seen := make(map[string]bool)
		for _, svcID := range serviceIDs {
			if seen[svcID] {
				continue
			}
			seen[svcID] = true
			docs = append(docs, packageServiceLink{PackageID: pkg.ID, ServiceID: svcID})
		}
		if _, err := r.links.InsertMany(sc, docs); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to create package: %w", err)
	}
	return nil
}

func (r *MongoPackageRepository) GetByID(ctx context.Context, id string) (*domain.Package, error) {
	var pkg domain.Package
	if err := r.packages.FindOne(ctx, bson.M{"_id": id}).Decode(&pkg); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get package: %w", err)
	}
	return &pkg, nil
}

// GetDetail returns the package with its bundled services expanded
func (r *MongoPackageRepository) GetDetail(ctx context.Context, id string) (*domain.PackageDetail, error) {
	pkg, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	services, err := r.servicesOf(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.PackageDetail{Package: *pkg, Services: services}, nil
}

// List returns all packages with services expanded, optionally keeping
// only packages bundling at least one service of the given type
func (r *MongoPackageRepository) List(ctx context.Context, serviceType string) ([]*domain.PackageDetail, error) {
	cursor, err := r.packages.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*domain.PackageDetail
	for cursor.Next(ctx) {
		var pkg domain.Package
		if err := cursor.Decode(&pkg); err != nil {
			return nil, err
		}

		services, err := r.servicesOf(ctx, pkg.ID)
		if err != nil {
			return nil, err
		}

		if serviceType != "" && !hasServiceOfType(services, serviceType) {
			continue
		}
		result = append(result, &domain.PackageDetail{Package: pkg, Services: services})
	}
	return result, cursor.Err()
}

// GetChildren returns the direct children of a package in the upgrade forest
func (r *MongoPackageRepository) GetChildren(ctx context.Context, parentID string) ([]*domain.Package, error) {
	cursor, err := r.packages.Find(ctx, bson.M{"parent_id": parentID})
	if err != nil {
		return nil, fmt.Errorf("failed to list child packages: %w", err)
	}
	defer cursor.Close(ctx)

	var children []*domain.Package
	for cursor.Next(ctx) {
		var pkg domain.Package
		if err := cursor.Decode(&pkg); err != nil {
			return nil, err
		}
		children = append(children, &pkg)
	}
	return children, cursor.Err()
}

func (r *MongoPackageRepository) Update(ctx context.Context, pkg *domain.Package) error {
	pkg.UpdatedAt = time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"name":            pkg.Name,
			"description":     pkg.Description,
			"price":           pkg.Price,
			"duration_months": pkg.DurationMonths,
			"parent_id":       pkg.ParentID,
			"features":        pkg.Features,
			"images":          pkg.Images,
			"updated_at":      pkg.UpdatedAt,
		},
	}

	result, err := r.packages.UpdateOne(ctx, bson.M{"_id": pkg.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update package: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoPackageRepository) Delete(ctx context.Context, id string) error {
	result, err := r.packages.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete package: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}

	// Best effort: orphaned links are harmless but pointless to keep
	if _, err := r.links.DeleteMany(ctx, bson.M{"package_id": id}); err != nil {
		return fmt.Errorf("failed to delete package service links: %w", err)
	}
	return nil
}

// servicesOf resolves the join collection into service documents
func (r *MongoPackageRepository) servicesOf(ctx context.Context, packageID string) ([]domain.Service, error) {
	cursor, err := r.links.Find(ctx, bson.M{"package_id": packageID})
	if err != nil {
		return nil, fmt.Errorf("failed to list service links: %w", err)
	}
	defer cursor.Close(ctx)

	var serviceIDs []string
	for cursor.Next(ctx) {
		var link packageServiceLink
		if err := cursor.Decode(&link); err != nil {
			return nil, err
		}
		serviceIDs = append(serviceIDs, link.ServiceID)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	if len(serviceIDs) == 0 {
		return nil, nil
	}

	svcCursor, err := r.services.Find(ctx, bson.M{"_id": bson.M{"$in": serviceIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer svcCursor.Close(ctx)

	var services []domain.Service
	for svcCursor.Next(ctx) {
		var svc domain.Service
		if err := svcCursor.Decode(&svc); err != nil {
			return nil, err
		}
		services = append(services, svc)
	}
	return services, svcCursor.Err()
}

func hasServiceOfType(services []domain.Service, serviceType string) bool {
	for _, svc := range services {
		if svc.Type == serviceType {
			return true
		}
	}
	return false
}
