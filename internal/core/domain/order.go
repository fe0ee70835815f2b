package domain

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderShipped, OrderCancelled},
	OrderShipped:   {OrderDelivered},
}

// CanTransitionTo reports whether moving from s to next is a valid
// transition.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderLine is one line of a placed order, snapshotted from the cart at
// checkout time.
type OrderLine struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Subtotal    float64 `json:"subtotal"`
}

// Order is a placed order as the API returns it.
type Order struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"userId"`
	OrderDate       time.Time   `json:"orderDate"`
	TotalAmount     float64     `json:"totalAmount"`
	Status          OrderStatus `json:"status"`
	ShippingAddress string      `json:"shippingAddress"`
	TrackingNumber  *string     `json:"trackingNumber"`
	Lines           []OrderLine `json:"items"`
}

// CreateOrderRequest is the payload for POST /orders. The order's contents
// come from the server-side cart, not from the client.
type CreateOrderRequest struct {
	ShippingAddress string `json:"shippingAddress" validate:"required,max=255"`
}

// UpdateOrderStatusRequest is the admin payload for
// PUT /admin/orders/{id}/status.
type UpdateOrderStatusRequest struct {
	Status         OrderStatus `json:"status" validate:"required,oneof=PENDING CONFIRMED SHIPPED DELIVERED CANCELLED"`
	TrackingNumber string      `json:"trackingNumber"`
}
