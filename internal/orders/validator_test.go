package orders

import (
	"testing"
	"time"
)

func TestValidator_AcceptsWellFormedOrder(t *testing.T) {
	v := NewValidator()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	order := Order{
		ID:              "order-1",
		Customer:        testCustomer(),
		CreatedDateTime: now,
		UpdatedDateTime: now,
		Status:          StatusPending,
		BranchID:        "branch-1",
		OrderLines: []OrderLine{
			{ID: "line-1", OrderID: "order-1", ProductID: "p1", ProductName: "Widget", Quantity: 1, Price: 10, Total: 10, CreatedDateTime: now, UpdatedDateTime: now},
		},
	}

	if err := v.Struct(order); err != nil {
		t.Fatalf("expected valid order, got %v", err)
	}
}

func TestValidator_RejectsLineParentMismatch(t *testing.T) {
	v := NewValidator()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	order := Order{
		ID:              "order-1",
		Customer:        testCustomer(),
		CreatedDateTime: now,
		UpdatedDateTime: now,
		Status:          StatusPending,
		BranchID:        "branch-1",
		OrderLines: []OrderLine{
			{ID: "line-1", OrderID: "someone-else", ProductID: "p1", ProductName: "Widget", Quantity: 1, Price: 10, Total: 10, CreatedDateTime: now, UpdatedDateTime: now},
		},
	}

	if err := v.Struct(order); err == nil {
		t.Fatal("expected validation failure for foreign line")
	}
}

func TestValidator_RejectsMissingTimestamps(t *testing.T) {
	v := NewValidator()

	order := Order{
		ID:       "order-1",
		Customer: testCustomer(),
		Status:   StatusPending,
		BranchID: "branch-1",
	}

	if err := v.Struct(order); err == nil {
		t.Fatal("expected validation failure for zero timestamps")
	}
}

func TestValidator_RejectsUnknownStatus(t *testing.T) {
	v := NewValidator()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	order := Order{
		ID:              "order-1",
		Customer:        testCustomer(),
		CreatedDateTime: now,
		UpdatedDateTime: now,
		Status:          OrderStatus("EXPLODED"),
		BranchID:        "branch-1",
	}

	if err := v.Struct(order); err == nil {
		t.Fatal("expected validation failure for unknown status")
	}
}
