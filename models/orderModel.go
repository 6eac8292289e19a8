package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. Operators may move an order from any status to any other;
// Delivered and Cancelled are terminal only by convention.
const (
	StatusPending        = "Pending"
	StatusProcessing     = "Processing"
	StatusPreparing      = "Preparing"
	StatusReady          = "Ready"
	StatusOutForDelivery = "Out for Delivery"
	StatusDelivered      = "Delivered"
	StatusCancelled      = "Cancelled"
)

var StatusOptions = []string{
	StatusPending,
	StatusProcessing,
	StatusPreparing,
	StatusReady,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

// StatusColors mirrors the ledger's per-status row styling.
var StatusColors = map[string]string{
	StatusPending:        "#ffffff",
	StatusProcessing:     "#e3f2fd",
	StatusPreparing:      "#ffe0b2",
	StatusReady:          "#c8e6c9",
	StatusOutForDelivery: "#e1bee7",
	StatusDelivered:      "#a5d6a7",
	StatusCancelled:      "#ffcdd2",
}

func IsValidStatus(status string) bool {
	for _, s := range StatusOptions {
		if s == status {
			return true
		}
	}
	return false
}

// OrderItem is one line of the inbound create-order payload.
type OrderItem struct {
	Name       string  `json:"name" validate:"required"`
	Quantity   int     `json:"quantity" validate:"required,min=1"`
	Unit_price string  `json:"unitPrice"`
	Subtotal   float64 `json:"subtotal"`
}

// OrderPayload is the order part of the ledger write request.
type OrderPayload struct {
	Customer_name   string      `json:"customerName" validate:"required"`
	Email           string      `json:"email"`
	Location        string      `json:"location"`
	Items           []OrderItem `json:"items" validate:"required,min=1,dive"`
	Total           float64     `json:"total"`
	Total_formatted string      `json:"totalFormatted"`
	Note            string      `json:"note"`
}

// OrderRequest is the JSON body of the ledger write endpoint.
type OrderRequest struct {
	Tenant_id    string       `json:"tenantId" validate:"required"`
	Tenant_label string       `json:"tenantLabel" validate:"required"`
	Source       string       `json:"source"`
	Order        OrderPayload `json:"order" validate:"required"`
}

// Order is a ledger row. Immutable after insert except for Status (and the
// fields derived from it). Item lines are flattened to text the way the
// ledger displays them.
type Order struct {
	ID            primitive.ObjectID `bson:"_id" json:"-"`
	Order_id      string             `bson:"order_id" json:"orderId"`
	Date_time     string             `bson:"date_time" json:"dateTime"`
	Customer_name string             `bson:"customer_name" json:"customerName"`
	Email         string             `bson:"email" json:"email,omitempty"`
	Location      string             `bson:"location" json:"location"`
	Items         string             `bson:"items" json:"items"`
	Item_details  string             `bson:"item_details" json:"itemDetails"`
	Total_amount  string             `bson:"total_amount" json:"totalAmount"`
	Note          string             `bson:"note" json:"note"`
	Status        string             `bson:"status" json:"status"`
	Status_color  string             `bson:"status_color" json:"-"`
	Source        string             `bson:"source" json:"source,omitempty"`
	Position      int64              `bson:"position" json:"-"`
	Created_at    time.Time          `bson:"created_at" json:"-"`
	Updated_at    time.Time          `bson:"updated_at" json:"-"`
}
