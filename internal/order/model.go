package order

import "time"

type Item struct {
	ID          string `json:"itemId"`
	OrderID     string `json:"orderId"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	// UnitPrice and Subtotal are captured at order time and never
	// recomputed; catalog price changes must not alter existing orders.
	UnitPrice int64 `json:"unitPrice"`
	Subtotal  int64 `json:"subtotal"`
}

type Order struct {
	ID            string        `json:"orderId"`
	OrderNumber   string        `json:"orderNumber"`
	UserID        string        `json:"userId"`
	Items         []Item        `json:"items"`
	TotalAmount   int64         `json:"totalAmount"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	OrderStatus   Status        `json:"orderStatus"`
	CreatedAt     time.Time     `json:"createdAt"`
	// ExpiresAt is set only for orders that are not settled immediately.
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}
