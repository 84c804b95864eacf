package main

import (
	"context"
	"log"
	"time"

	"github.com/matchpoint-app/matchpoint/internal/config"
	"github.com/matchpoint-app/matchpoint/internal/domain"
	"github.com/matchpoint-app/matchpoint/internal/repository"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seeds the package catalog with a three-tier upgrade chain and the
// bundled services each tier sells. Safe to run against an empty database
// only; it does not deduplicate.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		log.Fatalf("Failed to connect to Mongo: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDB.Database)
	svcRepo := repository.NewMongoServiceRepository(db)
	pkgRepo := repository.NewMongoPackageRepository(db)

	services := []*domain.Service{
		{Name: "Tournament hosting", Type: domain.ServiceTypeTournament, Config: `{"quota":1,"used":0}`},
		{Name: "Tournament hosting plus", Type: domain.ServiceTypeTournament, Config: `{"quota":5,"used":0}`},
		{Name: "Group management", Type: domain.ServiceTypeGroup, Config: `{"quota":3,"used":0}`},
	}
	for _, svc := range services {
		if err := svcRepo.Create(ctx, svc); err != nil {
			log.Fatalf("Failed to seed service %s: %v", svc.Name, err)
		}
		log.Printf("Seeded service %s (%s)", svc.Name, svc.ID)
	}

	// Upgrade chain: elite is the parent of pro, pro is the parent of
	// basic. A basic buyer can therefore upgrade to pro or elite.
	elite := &domain.Package{
		Name:           "Elite",
		Description:    "Unlimited tournaments and groups for clubs",
		Price:          499000,
		DurationMonths: 12,
		Features:       []string{"5 tournaments", "3 groups", "priority support"},
	}
	if err := pkgRepo.Create(ctx, elite, []string{services[1].ID, services[2].ID}); err != nil {
		log.Fatalf("Failed to seed elite package: %v", err)
	}

	pro := &domain.Package{
		Name:           "Pro",
		Description:    "Host tournaments and manage a group",
		Price:          199000,
		DurationMonths: 6,
		ParentID:       elite.ID,
		Features:       []string{"1 tournament", "3 groups"},
	}
	if err := pkgRepo.Create(ctx, pro, []string{services[0].ID, services[2].ID}); err != nil {
		log.Fatalf("Failed to seed pro package: %v", err)
	}

	basic := &domain.Package{
		Name:           "Basic",
		Description:    "Host a single tournament",
		Price:          99000,
		DurationMonths: 3,
		ParentID:       pro.ID,
		Features:       []string{"1 tournament"},
	}
	if err := pkgRepo.Create(ctx, basic, []string{services[0].ID}); err != nil {
		log.Fatalf("Failed to seed basic package: %v", err)
	}

	log.Printf("Seeded packages: elite=%s pro=%s basic=%s", elite.ID, pro.ID, basic.ID)
}
