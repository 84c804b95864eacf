package domain

import (
	"testing"
	"time"
)

func TestRollForwardStacksFromEndDate(t *testing.T) {
	// Expiry must stack onto the existing end date even when it is far in
	// the future, never onto the current time.
	end := time.Date(2027, 3, 15, 0, 0, 0, 0, time.UTC)
	pp := PurchasedPackage{
		OrderID: "order-1",
		EndDate: end,
		Expired: true,
		Package: PackageSnapshot{ID: "pkg-basic", Name: "Basic"},
	}

	pp.RollForward("order-2", 6, nil)

	wantEnd := end.AddDate(0, 6, 0)
	if !pp.EndDate.Equal(wantEnd) {
		t.Errorf("EndDate = %v, want %v", pp.EndDate, wantEnd)
	}
	if pp.OrderID != "order-2" {
		t.Errorf("OrderID = %q, want order-2", pp.OrderID)
	}
	if pp.Expired {
		t.Error("Expired should be cleared")
	}
	if pp.Package.ID != "pkg-basic" {
		t.Errorf("nil snapshot must keep current package, got %q", pp.Package.ID)
	}
}

func TestRollForwardReplacesSnapshot(t *testing.T) {
	end := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	pp := PurchasedPackage{
		OrderID: "order-1",
		EndDate: end,
		Package: PackageSnapshot{ID: "pkg-basic", Name: "Basic"},
	}

	pp.RollForward("order-2", 12, &PackageSnapshot{ID: "pkg-pro", Name: "Pro"})

	if pp.Package.ID != "pkg-pro" {
		t.Errorf("Package.ID = %q, want pkg-pro", pp.Package.ID)
	}
	if !pp.EndDate.Equal(end.AddDate(0, 12, 0)) {
		t.Errorf("EndDate = %v, want %v", pp.EndDate, end.AddDate(0, 12, 0))
	}
}
