package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Service type constants
const (
	ServiceTypeTournament = "tournament"
	ServiceTypeGroup      = "group"
)

// Package represents a purchasable subscription tier. Packages form a
// forest: a child package references its upgrade target through ParentID.
type Package struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Description    string    `bson:"description,omitempty" json:"description"`
	Price          int64     `bson:"price" json:"price"` // Price in smallest currency unit
	DurationMonths int       `bson:"duration_months" json:"duration_months"`
	ParentID       string    `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	Features       []string  `bson:"features,omitempty" json:"features,omitempty"`
	Images         []string  `bson:"images,omitempty" json:"images,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

// Service is a bundled capability sold with a package. Config is a
// JSON-encoded blob interpreted by downstream consumers; the only field
// this backend touches is the "used" counter.
type Service struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Type      string    `bson:"type" json:"type"`
	Config    string    `bson:"config" json:"config"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// PackageDetail is a package with its bundled services expanded
type PackageDetail struct {
	Package  `bson:",inline"`
	Services []Service `json:"services"`
}

// ResetUsage zeroes the "used" counter inside the service config blob.
// Called when a purchase activates: the buyer starts with a clean quota.
func (s *Service) ResetUsage() error {
	var cfg map[string]interface{}
	if err := json.Unmarshal([]byte(s.Config), &cfg); err != nil {
		return fmt.Errorf("invalid service config for %s: %w", s.ID, err)
	}
	cfg["used"] = 0
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode service config: %w", err)
	}
	s.Config = string(data)
	return nil
}

// PackageRepository defines operations for the package catalog
type PackageRepository interface {
	// Create inserts the package and its service links atomically
	Create(ctx context.Context, pkg *Package, serviceIDs []string) error
	GetByID(ctx context.Context, id string) (*Package, error)
	// GetDetail returns the package with its bundled services expanded
	GetDetail(ctx context.Context, id string) (*PackageDetail, error)
	// List returns packages, optionally filtered by bundled service type
	List(ctx context.Context, serviceType string) ([]*PackageDetail, error)
	// GetChildren returns packages whose ParentID equals the given id.
	// This is the adjacency query behind the upgrade eligibility walk.
	GetChildren(ctx context.Context, parentID string) ([]*Package, error)
	Update(ctx context.Context, pkg *Package) error
	Delete(ctx context.Context, id string) error
}

// ServiceRepository defines operations for bundled services
type ServiceRepository interface {
	Create(ctx context.Context, svc *Service) error
	GetByID(ctx context.Context, id string) (*Service, error)
	List(ctx context.Context) ([]*Service, error)
	Update(ctx context.Context, svc *Service) error
	Delete(ctx context.Context, id string) error
}
