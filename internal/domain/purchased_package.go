package domain

import (
	"context"
	"time"
)

// PackageSnapshot is the denormalized copy of a package embedded in a
// PurchasedPackage at activation time. Services carry reset usage counters.
type PackageSnapshot struct {
	ID             string    `bson:"id" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Price          int64     `bson:"price" json:"price"`
	DurationMonths int       `bson:"duration_months" json:"duration_months"`
	Images         []string  `bson:"images,omitempty" json:"images,omitempty"`
	Services       []Service `bson:"services" json:"services"`
}

// PurchasedPackage is a user's active subscription record. One record
// exists per purchase lineage: upgrades and renewals mutate it in place
// and repoint OrderID to the newest completed order, so the order link is
// a moving pointer rather than a stable foreign key.
type PurchasedPackage struct {
	ID        string          `bson:"_id,omitempty" json:"id"`
	UserID    string          `bson:"user_id" json:"user_id"`
	OrderID   string          `bson:"order_id" json:"order_id"`
	EndDate   time.Time       `bson:"end_date" json:"end_date"`
	Expired   bool            `bson:"expired" json:"expired"`
	Package   PackageSnapshot `bson:"package" json:"package"`
	CreatedAt time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time       `bson:"updated_at" json:"updated_at"`
}

// RollForward applies a completed upgrade or renewal: the expiry stacks
// onto the existing end date (never onto "now") and the order pointer
// moves to the newest order. A nil snapshot keeps the current one (renew).
func (p *PurchasedPackage) RollForward(orderID string, durationMonths int, snapshot *PackageSnapshot) {
	p.EndDate = p.EndDate.AddDate(0, durationMonths, 0)
	p.OrderID = orderID
	p.Expired = false
	if snapshot != nil {
		p.Package = *snapshot
	}
}

// PurchasedPackageRepository defines operations for subscription records.
// Mutated exclusively by the order lifecycle on payment completion.
type PurchasedPackageRepository interface {
	Create(ctx context.Context, pp *PurchasedPackage) error
	GetByID(ctx context.Context, id string) (*PurchasedPackage, error)
	// GetByOrderID resolves the subscription currently pointing at the
	// given originating order
	GetByOrderID(ctx context.Context, orderID string) (*PurchasedPackage, error)
	GetByUserID(ctx context.Context, userID string) ([]*PurchasedPackage, error)
	// UpdateByOrderID overwrites the record keyed by its current order
	// pointer, preserving identity
	UpdateByOrderID(ctx context.Context, orderID string, pp *PurchasedPackage) error
}
