package catalog

import "time"

// Product is the read model the order core sees. Stock is mutated only
// through the inventory ledger, never by writing this struct back.
type Product struct {
	ID          string    `json:"productId"`
	Name        string    `json:"name"`
	Price       int64     `json:"price"`
	Stock       int       `json:"stock"`
	IsAvailable bool      `json:"isAvailable"`
	CreatedAt   time.Time `json:"createdAt"`
}
