package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ledger is the registry entry for one tenant's order book. One per tenant,
// lazily created on first order, never deleted.
type Ledger struct {
	ID             primitive.ObjectID `bson:"_id" json:"-"`
	Tenant_id      string             `bson:"tenant_id" json:"tenant_id"`
	Name           string             `bson:"name" json:"name"` // "<label> - Orders"
	Collection     string             `bson:"collection" json:"-"`
	Status_options []string           `bson:"status_options" json:"status_options"`
	Status_colors  map[string]string  `bson:"status_colors" json:"-"`
	Order_count    int64              `bson:"order_count" json:"order_count"`
	Created_at     time.Time          `bson:"created_at" json:"-"`
}

// OrderStats is the derived read-side projection. Never the source of truth.
type OrderStats struct {
	Total         int     `json:"total"`
	Pending       int     `json:"pending"`
	Processing    int     `json:"processing"`
	Ready         int     `json:"ready"`
	Delivered     int     `json:"delivered"`
	Cancelled     int     `json:"cancelled"`
	Total_revenue float64 `json:"totalRevenue"`
}

type TopProduct struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}
