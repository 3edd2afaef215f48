package events

import "time"

const (
	OrderCreatedQueue   = "order.created"
	OrderCompletedQueue = "order.completed"
	OrderCanceledQueue  = "order.canceled"
)

type OrderItemPayload struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

type OrderCreated struct {
	EventType     string             `json:"eventType"`
	OrderID       string             `json:"orderId"`
	OrderNumber   string             `json:"orderNumber"`
	UserID        string             `json:"userId"`
	TotalAmount   int64              `json:"totalAmount"`
	PaymentMethod string             `json:"paymentMethod"`
	Items         []OrderItemPayload `json:"items"`
	Timestamp     time.Time          `json:"timestamp"`
}

type OrderCompleted struct {
	EventType   string    `json:"eventType"`
	OrderID     string    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	UserID      string    `json:"userId"`
	Timestamp   time.Time `json:"timestamp"`
}

type OrderCanceled struct {
	EventType   string    `json:"eventType"`
	OrderID     string    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	UserID      string    `json:"userId"`
	Timestamp   time.Time `json:"timestamp"`
}
