package model

import "time"

// Order is a customer order for units of one product.
type Order struct {
	ID              int64       `json:"id"`
	CustomerID      int64       `json:"customerId"`
	ProductID       int64       `json:"productId"`
	ProductCategory Category    `json:"productCategory"`
	QuantityUnits   int         `json:"quantityUnits"`
	UnitPrice       float64     `json:"unitPrice"`
	TotalPrice      float64     `json:"totalPrice"`
	Status          OrderStatus `json:"status"`
	OrderDate       time.Time   `json:"orderDate"`
}

// OrderUpdate holds the optional fields of an order update.
type OrderUpdate struct {
	QuantityUnits *int         `json:"quantityUnits,omitempty"`
	Status        *OrderStatus `json:"status,omitempty"`
}

// OrderStatus is the processing state of an order.
type OrderStatus string

// Order statuses, in processing order.
const (
	OrderPending   OrderStatus = "PENDING"
	OrderProcessed OrderStatus = "PROCESSED"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
)

var statusLevels = map[OrderStatus]int{
	OrderPending:   1,
	OrderProcessed: 2,
	OrderShipped:   3,
	OrderDelivered: 4,
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	return statusLevels[s] > 0
}

// CanTransition reports whether an order may move from one status to another.
// Orders only move forward one step at a time. Staying in place is allowed.
func CanTransition(from, to OrderStatus) bool {
	f, t := statusLevels[from], statusLevels[to]
	if f == 0 || t == 0 {
		return false
	}
	return t == f || t == f+1
}
