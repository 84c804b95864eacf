package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/matchpoint-app/matchpoint/internal/config"
	"github.com/matchpoint-app/matchpoint/internal/domain"
	"github.com/oklog/ulid/v2"
)

// PushNotifier delivers a push notification to all of a user's devices.
// Delivery failures are logged by the implementation, never surfaced.
type PushNotifier interface {
	SendToUser(ctx context.Context, userID, title, body string) error
}

// OrderService owns the order lifecycle: creation, upgrade and renewal of
// package orders, and the subscription mutations triggered by payment
// completion callbacks.
type OrderService struct {
	orderRepo     domain.OrderRepository
	pkgRepo       domain.PackageRepository
	purchasedRepo domain.PurchasedPackageRepository
	payment       PaymentProvider
	notifier      PushNotifier
	paymentCfg    config.PaymentConfig
}

// NewOrderService creates a new OrderService. notifier may be nil.
func NewOrderService(
	orderRepo domain.OrderRepository,
	pkgRepo domain.PackageRepository,
	purchasedRepo domain.PurchasedPackageRepository,
	payment PaymentProvider,
	notifier PushNotifier,
	paymentCfg config.PaymentConfig,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		pkgRepo:       pkgRepo,
		purchasedRepo: purchasedRepo,
		payment:       payment,
		notifier:      notifier,
		paymentCfg:    paymentCfg,
	}
}

// CreateOrderInput carries a purchase request
type CreateOrderInput struct {
	PackageID string
	UserID    string
	GroupID   string
	Partner   string
	ClientIP  string
	Mobile    bool
}

// UpgradeOrderInput carries an upgrade request
type UpgradeOrderInput struct {
	PurchasedPackageID string
	PackageID          string // upgrade target
	UserID             string
	Partner            string
	ClientIP           string
	Mobile             bool
}

// RenewOrderInput carries a renewal request
type RenewOrderInput struct {
	PurchasedPackageID string
	UserID             string
	Partner            string
	ClientIP           string
	Mobile             bool
}

// OrderCheckout is the result of an order creation: the pending order and
// the hosted payment URL the client should redirect to
type OrderCheckout struct {
	Order      *domain.Order `json:"order"`
	PaymentURL string        `json:"payment"`
}

// OrderDetail is an order with its package expanded
type OrderDetail struct {
	*domain.Order
	Package *domain.PackageDetail `json:"package,omitempty"`
}

// Create looks up the package, captures its current price into a new
// order and requests a hosted payment URL. The subscription itself is
// only materialized when the payment completion callback arrives.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*OrderCheckout, error) {
	pkg, err := s.pkgRepo.GetByID(ctx, in.PackageID)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:        ulid.Make().String(),
		UserID:    in.UserID,
		GroupID:   in.GroupID,
		PackageID: pkg.ID,
		Price:     pkg.Price,
		Partner:   in.Partner,
		Type:      domain.OrderTypeCreate,
		Status:    domain.OrderStatusNew,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	return s.checkout(ctx, order, in.ClientIP, in.Mobile)
}

// Upgrade validates that the requested target package is a strict
// ancestor of the user's current package before creating an upgrade
// order. Eligibility is decided by a breadth-first walk over the
// parent/child forest: the current package must appear among the target's
// descendants.
func (s *OrderService) Upgrade(ctx context.Context, in UpgradeOrderInput) (*OrderCheckout, error) {
	purchased, err := s.purchasedRepo.GetByID(ctx, in.PurchasedPackageID)
	if err != nil {
		return nil, err
	}
	if purchased.UserID != in.UserID {
		return nil, domain.ErrForbidden
	}

	originOrder, err := s.orderRepo.GetByID(ctx, purchased.OrderID)
	if err != nil {
		return nil, err
	}

	descendants, err := s.descendantIDs(ctx, in.PackageID)
	if err != nil {
		return nil, err
	}
	if !descendants[originOrder.PackageID] {
		return nil, fmt.Errorf("%w: cannot upgrade to this package", domain.ErrValidation)
	}

	target, err := s.pkgRepo.GetByID(ctx, in.PackageID)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:          ulid.Make().String(),
		UserID:      in.UserID,
		PackageID:   target.ID,
		Price:       target.Price,
		Partner:     in.Partner,
		Type:        domain.OrderTypeUpgrade,
		Status:      domain.OrderStatusNew,
		ReferenceID: originOrder.ID,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	return s.checkout(ctx, order, in.ClientIP, in.Mobile)
}

// Renew creates a renewal order for the same package as the origin order,
// at the package's current price. No hierarchy walk is involved.
func (s *OrderService) Renew(ctx context.Context, in RenewOrderInput) (*OrderCheckout, error) {
	purchased, err := s.purchasedRepo.GetByID(ctx, in.PurchasedPackageID)
	if err != nil {
		return nil, err
	}
	if purchased.UserID != in.UserID {
		return nil, domain.ErrForbidden
	}

	originOrder, err := s.orderRepo.GetByID(ctx, purchased.OrderID)
	if err != nil {
		return nil, err
	}

	pkg, err := s.pkgRepo.GetByID(ctx, originOrder.PackageID)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:          ulid.Make().String(),
		UserID:      in.UserID,
		PackageID:   pkg.ID,
		Price:       pkg.Price,
		Partner:     in.Partner,
		Type:        domain.OrderTypeRenew,
		Status:      domain.OrderStatusNew,
		ReferenceID: originOrder.ID,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	return s.checkout(ctx, order, in.ClientIP, in.Mobile)
}

// descendantIDs collects every package below root in the parent/child
// forest: queue of ids, repeated direct-children fetches until the queue
// drains. The root itself is not part of the result, so membership means
// "strict descendant". The forest is assumed acyclic; a cycle would keep
// this loop alive forever.
func (s *OrderService) descendantIDs(ctx context.Context, root string) (map[string]bool, error) {
	result := make(map[string]bool)
	queue := []string{root}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		children, err := s.pkgRepo.GetChildren(ctx, current)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			result[child.ID] = true
			queue = append(queue, child.ID)
		}
	}

	return result, nil
}

// checkout requests the hosted payment URL for a freshly created order
func (s *OrderService) checkout(ctx context.Context, order *domain.Order, clientIP string, mobile bool) (*OrderCheckout, error) {
	returnURL := s.paymentCfg.ReturnURLWeb
	if mobile {
		returnURL = s.paymentCfg.ReturnURLMobile
	}

	paymentURL, err := s.payment.CreatePaymentURL(ctx, PaymentRequest{
		Amount:    order.Price,
		Locale:    s.paymentCfg.Locale,
		OrderID:   order.ID,
		Partner:   order.Partner,
		ClientIP:  clientIP,
		ReturnURL: returnURL,
	})
	if err != nil {
		return nil, err
	}

	return &OrderCheckout{Order: order, PaymentURL: paymentURL}, nil
}

// ApplyPaymentCompletion transitions an order to the status reported by
// the payment callback and, when the new status is "completed", applies
// the subscription side effect for the order's type. Failures inside the
// dispatch are reported as a generic internal error; there is no
// compensating transaction, so a failure after the subscription mutation
// leaves the order status stale.
func (s *OrderService) ApplyPaymentCompletion(ctx context.Context, orderID, newStatus string) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load order %s: %v", orderID, err)
	}

	if newStatus == domain.OrderStatusCompleted {
		switch order.Type {
		case domain.OrderTypeCreate:
			err = s.completeCreate(ctx, order)
		case domain.OrderTypeUpgrade:
			err = s.completeUpgrade(ctx, order)
		case domain.OrderTypeRenew:
			err = s.completeRenew(ctx, order)
		}
		if err != nil {
			// Re-wrapped as a generic internal error; the original kind is
			// deliberately not preserved across this boundary.
			return nil, fmt.Errorf("failed to process %s completion for order %s: %v", order.Type, orderID, err)
		}
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, newStatus); err != nil {
		return nil, fmt.Errorf("failed to update order status: %v", err)
	}
	order.Status = newStatus

	if newStatus == domain.OrderStatusCompleted && s.notifier != nil {
		if err := s.notifier.SendToUser(ctx, order.UserID, "Payment completed",
			"Your package order has been activated."); err != nil {
			log.Printf("[Order] Push notification failed for user %s: %v", order.UserID, err)
		}
	}

	return order, nil
}

// completeCreate materializes a brand-new subscription from a completed
// purchase order, with every bundled service's usage counter reset.
func (s *OrderService) completeCreate(ctx context.Context, order *domain.Order) error {
	detail, err := s.pkgRepo.GetDetail(ctx, order.PackageID)
	if err != nil {
		return err
	}

	snapshot, err := buildSnapshot(detail)
	if err != nil {
		return err
	}

	purchased := &domain.PurchasedPackage{
		UserID:  order.UserID,
		OrderID: order.ID,
		EndDate: time.Now().UTC().AddDate(0, detail.DurationMonths, 0),
		Expired: false,
		Package: *snapshot,
	}
	return s.purchasedRepo.Create(ctx, purchased)
}

// completeUpgrade rolls the existing subscription forward onto the new
// package: expiry stacks by the new package's duration from the current
// end date, the snapshot is replaced, and the order pointer moves.
func (s *OrderService) completeUpgrade(ctx context.Context, order *domain.Order) error {
	purchased, err := s.purchasedRepo.GetByOrderID(ctx, order.ReferenceID)
	if err != nil {
		return err
	}

	detail, err := s.pkgRepo.GetDetail(ctx, order.PackageID)
	if err != nil {
		return err
	}

	snapshot, err := buildSnapshot(detail)
	if err != nil {
		return err
	}

	purchased.UserID = order.UserID
	purchased.RollForward(order.ID, detail.DurationMonths, snapshot)
	return s.purchasedRepo.UpdateByOrderID(ctx, order.ReferenceID, purchased)
}

// completeRenew stacks the package duration onto the subscription's
// current end date, not onto "now", and repoints the order link.
func (s *OrderService) completeRenew(ctx context.Context, order *domain.Order) error {
	purchased, err := s.purchasedRepo.GetByOrderID(ctx, order.ReferenceID)
	if err != nil {
		return err
	}

	pkg, err := s.pkgRepo.GetByID(ctx, order.PackageID)
	if err != nil {
		return err
	}

	purchased.RollForward(order.ID, pkg.DurationMonths, nil)
	return s.purchasedRepo.UpdateByOrderID(ctx, order.ReferenceID, purchased)
}

// buildSnapshot copies a package detail into an embeddable snapshot with
// all service usage counters reset to zero
func buildSnapshot(detail *domain.PackageDetail) (*domain.PackageSnapshot, error) {
	services := make([]domain.Service, len(detail.Services))
	for i, svc := range detail.Services {
		if err := svc.ResetUsage(); err != nil {
			return nil, err
		}
		services[i] = svc
	}

	return &domain.PackageSnapshot{
		ID:             detail.ID,
		Name:           detail.Name,
		Price:          detail.Price,
		DurationMonths: detail.DurationMonths,
		Images:         detail.Images,
		Services:       services,
	}, nil
}

// List returns a user's orders, excluding those still in "new" status
func (s *OrderService) List(ctx context.Context, userID string, opts domain.PageOptions) (*domain.OrderPage, error) {
	opts.Normalize()
	orders, totalCount, err := s.orderRepo.ListByUser(ctx, userID, opts)
	if err != nil {
		return nil, err
	}
	return &domain.OrderPage{
		Data:       orders,
		TotalCount: totalCount,
		TotalPages: opts.TotalPages(totalCount),
	}, nil
}

// ListAdmin returns orders across all users with optional filters
func (s *OrderService) ListAdmin(ctx context.Context, opts domain.PageOptions) (*domain.OrderPage, error) {
	opts.Normalize()
	orders, totalCount, err := s.orderRepo.ListAdmin(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &domain.OrderPage{
		Data:       orders,
		TotalCount: totalCount,
		TotalPages: opts.TotalPages(totalCount),
	}, nil
}

// Get returns a single order with its package expanded
func (s *OrderService) Get(ctx context.Context, id string) (*OrderDetail, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &OrderDetail{Order: order}
	if pkg, err := s.pkgRepo.GetDetail(ctx, order.PackageID); err == nil {
		detail.Package = pkg
	}
	return detail, nil
}

// SetStatus is the administrative status override. It applies no
// subscription side effect.
func (s *OrderService) SetStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.orderRepo.GetByID(ctx, id)
}

// Delete removes an order (administrative use only)
func (s *OrderService) Delete(ctx context.Context, id string) error {
	return s.orderRepo.Delete(ctx, id)
}
