// Package domain holds the event contracts shared by the API, which records
// them in the outbox, and the notifier, which consumes them from Kafka.
package domain

import "time"

const (
	TopicCatalogEvents = "catalog_events"
	TopicOrderEvents   = "order_events"
	TopicEnquiryEvents = "enquiry_events"
)

const (
	EventProductCreated     = "ProductCreated"
	EventProductUpdated     = "ProductUpdated"
	EventProductDeleted     = "ProductDeleted"
	EventOrderPlaced        = "OrderPlaced"
	EventOrderStatusChanged = "OrderStatusChanged"
	EventEnquiryReceived    = "EnquiryReceived"
)

// EventEnvelope is the JSON shape of every outbox payload. The outbox worker
// adds event_id before publishing.
type EventEnvelope[T any] struct {
	EventID int64  `json:"event_id,omitempty"`
	Event   string `json:"event"`
	Payload T      `json:"payload"`
}

type ProductChangedEvent struct {
	ProductID int64     `json:"product_id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	ChangedAt time.Time `json:"changed_at"`
}

type OrderItem struct {
	ProductID    *int64 `json:"product_id"`
	ProductName  string `json:"product_name"`
	VariantLabel string `json:"variant_label,omitempty"`
	Quantity     int32  `json:"quantity"`
	UnitPrice    string `json:"unit_price"`
	TotalPrice   string `json:"total_price"`
}

type OrderPlacedEvent struct {
	OrderID       int64       `json:"order_id"`
	UserID        int64       `json:"user_id"`
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
	Total         string      `json:"total"`
	Items         []OrderItem `json:"items"`
	PlacedAt      time.Time   `json:"placed_at"`
}

type OrderStatusChangedEvent struct {
	OrderID       int64     `json:"order_id"`
	CustomerEmail string    `json:"customer_email"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	ChangedAt     time.Time `json:"changed_at"`
}

type EnquiryReceivedEvent struct {
	EnquiryID  int64     `json:"enquiry_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Subject    string    `json:"subject"`
	Message    string    `json:"message"`
	ReceivedAt time.Time `json:"received_at"`
}
