package model

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from     OrderStatus
		to       OrderStatus
		expected bool
	}{
		{OrderPending, OrderPending, true},
		{OrderPending, OrderProcessed, true},
		{OrderProcessed, OrderShipped, true},
		{OrderShipped, OrderDelivered, true},
		{OrderDelivered, OrderDelivered, true},
		// No skipping ahead.
		{OrderPending, OrderShipped, false},
		{OrderPending, OrderDelivered, false},
		// No going back.
		{OrderProcessed, OrderPending, false},
		{OrderDelivered, OrderShipped, false},
		// Unknown statuses fail-closed.
		{"CANCELLED", OrderPending, false},
		{OrderPending, "CANCELLED", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got := CanTransition(tt.from, tt.to)
		if got != tt.expected {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.expected)
		}
	}
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{OrderPending, OrderProcessed, OrderShipped, OrderDelivered} {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if OrderStatus("pending").Valid() {
		t.Error("status matching is case-sensitive")
	}
}
