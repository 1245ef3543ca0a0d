package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

var orderTransitions = map[string][]string{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type ShippingAddress struct {
	Name       string  `json:"name" validate:"required,max=255"`
	Phone      string  `json:"phone" validate:"required,max=20"`
	Address    string  `json:"address" validate:"required"`
	City       string  `json:"city" validate:"required,max=100"`
	State      *string `json:"state" validate:"omitempty,max=100"`
	PostalCode string  `json:"postal_code" validate:"required,max=20"`
}

type Order struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	PaymentMethod string          `json:"payment_method"`
	Shipping      ShippingAddress `json:"shipping"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Total         decimal.Decimal `json:"total"`
	Notes         *string         `json:"notes"`
	Items         []OrderItem     `json:"items,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ID           int64           `json:"id"`
	OrderID      int64           `json:"order_id"`
	ProductID    *int64          `json:"product_id"`
	VariantID    *int64          `json:"variant_id"`
	ProductName  string          `json:"product_name"`
	VariantLabel *string         `json:"variant_label"`
	Quantity     int32           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

type OrderLineInput struct {
	ProductID int64  `json:"product_id" validate:"required,gte=1"`
	VariantID *int64 `json:"variant_id" validate:"omitempty,gte=1"`
	Quantity  int32  `json:"quantity" validate:"required,gte=1,lte=100"`
}

type PlaceOrderInput struct {
	Items         []OrderLineInput `json:"items" validate:"required,min=1,max=50,dive"`
	Shipping      ShippingAddress  `json:"shipping"`
	PaymentMethod string           `json:"payment_method" validate:"omitempty,oneof=cod upi card"`
	Notes         *string          `json:"notes" validate:"omitempty,max=1000"`
}
