package domain

import (
	"context"
	"time"
)

// Order type constants
const (
	OrderTypeCreate  = "create"
	OrderTypeUpgrade = "upgrade"
	OrderTypeRenew   = "renew"
)

// Order status constants. Orders start in "new", move to "pending" once a
// payment URL is issued, and are transitioned to "completed" or "failed"
// only by the payment callback.
const (
	OrderStatusNew       = "new"
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusFailed    = "failed"
	OrderStatusCanceled  = "canceled"
)

// Order is the transactional record of a purchase, upgrade or renewal
// request. Price is captured at creation and never changes afterwards,
// decoupling the order from later catalog price edits.
type Order struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	UserID      string    `bson:"user_id" json:"user_id"`
	GroupID     string    `bson:"group_id,omitempty" json:"group_id,omitempty"`
	PackageID   string    `bson:"package_id" json:"package_id"`
	Price       int64     `bson:"price" json:"price"`
	Partner     string    `bson:"partner" json:"partner"`
	Type        string    `bson:"type" json:"type"`
	Status      string    `bson:"status" json:"status"`
	ReferenceID string    `bson:"reference_id,omitempty" json:"reference_id,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// OrderPage is one page of an order listing
type OrderPage struct {
	Data       []*Order `json:"data"`
	TotalCount int64    `json:"totalCount"`
	TotalPages int      `json:"totalPages"`
}

// OrderRepository defines operations for managing orders
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	// ListByUser returns a user's orders plus the total count. Orders still
	// in "new" status are excluded from the user-facing list.
	ListByUser(ctx context.Context, userID string, opts PageOptions) ([]*Order, int64, error)
	// ListAdmin returns orders across all users with optional filters
	ListAdmin(ctx context.Context, opts PageOptions) ([]*Order, int64, error)
	UpdateStatus(ctx context.Context, id string, status string) error
	Delete(ctx context.Context, id string) error
}
