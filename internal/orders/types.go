package orders

import "time"

// OrderStatus enumerates the order lifecycle states.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Customer is a customer entity. On orders it appears as a snapshot
// denormalized at write time, not a live reference.
type Customer struct {
	ID              string    `json:"id" validate:"required"`
	Name            string    `json:"name" validate:"required"`
	Email           string    `json:"email" validate:"required,email"`
	AccountManager  string    `json:"accountManager" validate:"required"`
	CreatedDateTime time.Time `json:"createdDateTime"`
	UpdatedDateTime time.Time `json:"updatedDateTime"`
}

// OrderLine belongs to exactly one Order and cannot exist independently.
type OrderLine struct {
	ID              string    `json:"id" validate:"required"`
	OrderID         string    `json:"orderId" validate:"required"`
	ProductID       string    `json:"productId" validate:"required"`
	ProductName     string    `json:"productName" validate:"required"`
	Quantity        int       `json:"quantity" validate:"required,min=1"`
	Price           float64   `json:"price" validate:"gte=0"`
	Total           float64   `json:"total" validate:"gte=0"`
	CreatedDateTime time.Time `json:"createdDateTime"`
	UpdatedDateTime time.Time `json:"updatedDateTime"`
}

// Order is the aggregate root. TotalAmount defaults to the sum of the line
// totals when not supplied explicitly.
type Order struct {
	ID              string      `json:"id" validate:"required"`
	Customer        Customer    `json:"customer"`
	CreatedDateTime time.Time   `json:"createdDateTime"`
	UpdatedDateTime time.Time   `json:"updatedDateTime"`
	CreatedBy       string      `json:"createdBy"`
	Status          OrderStatus `json:"status" validate:"required,oneof=PENDING SHIPPED DELIVERED CANCELLED"`
	TotalAmount     float64     `json:"totalAmount" validate:"gte=0"`
	OrderLines      []OrderLine `json:"orderLines" validate:"dive"`
	BranchID        string      `json:"branchId" validate:"required"`
	Comments        string      `json:"comments"`
}

// LineDTO is the wire shape of an order line inside create/update payloads.
// ID and timestamps are optional; absent values are assigned at construction.
type LineDTO struct {
	ID              string  `json:"id"`
	ProductID       string  `json:"productId" validate:"required"`
	ProductName     string  `json:"productName" validate:"required"`
	Quantity        int     `json:"quantity" validate:"required,min=1"`
	Price           float64 `json:"price" validate:"gte=0"`
	Total           float64 `json:"total" validate:"gte=0"`
	CreatedDateTime string  `json:"createdDateTime,omitempty"`
	UpdatedDateTime string  `json:"updatedDateTime,omitempty"`
}

// NewOrderDTO is the payload for POST /orders. The customer is referenced by
// id and resolved to a snapshot during creation.
type NewOrderDTO struct {
	CustomerID  string    `json:"customerId" validate:"required"`
	Status      string    `json:"status" validate:"omitempty,oneof=PENDING SHIPPED DELIVERED CANCELLED"`
	TotalAmount *float64  `json:"totalAmount" validate:"omitempty,gte=0"`
	BranchID    string    `json:"branchId" validate:"required"`
	Comments    string    `json:"comments"`
	OrderLines  []LineDTO `json:"orderLines" validate:"dive"`
}

// UpdatedOrderDTO is the payload for PUT /orders/{id}. Lines present here
// survive the update; lines missing from it are deleted.
type UpdatedOrderDTO struct {
	CustomerID string    `json:"customerId" validate:"required"`
	Status     string    `json:"status" validate:"required,oneof=PENDING SHIPPED DELIVERED CANCELLED"`
	BranchID   string    `json:"branchId" validate:"required"`
	Comments   string    `json:"comments"`
	OrderLines []LineDTO `json:"orderLines" validate:"dive"`
}

// OrderList is a single page of orders. A non-empty Offset means more pages
// exist; passing it back resumes strictly after the last item of this page.
type OrderList struct {
	Items  []Order `json:"items"`
	Offset string  `json:"offset,omitempty"`
}

// ListFilter narrows a list request to one indexed dimension. At most one
// field drives the index query; precedence is fixed (see Store.List).
type ListFilter struct {
	CustomerID     string
	AccountManager string
	CustomerEmail  string
	BranchID       string
	CreatedBy      string
}
