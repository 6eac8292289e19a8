package services

import (
	"context"
	"errors"
	"strings"

	"go-storefront-orders/models"
)

var (
	ErrProvisioning   = errors.New("ledger provisioning failed")
	ErrOrderNotFound  = errors.New("order not found")
	ErrLedgerNotFound = errors.New("ledger not found for tenant")
)

// LedgerStore is the durable side of the tenant ledger. The mongo
// implementation (database.MongoLedgerStore) is the system of record;
// tests substitute an in-memory one.
type LedgerStore interface {
	// FindLedger returns (nil, nil) when the tenant has no ledger yet.
	FindLedger(ctx context.Context, tenantId string) (*models.Ledger, error)
	// EnsureLedger provisions the tenant's ledger if absent. Idempotent:
	// concurrent calls converge on a single ledger.
	EnsureLedger(ctx context.Context, tenantId string, name string) (*models.Ledger, error)
	// InsertOrder appends a row as the newest entry of the ledger.
	InsertOrder(ctx context.Context, ledger *models.Ledger, order *models.Order) error
	// ListOrders returns the ledger newest-first.
	ListOrders(ctx context.Context, ledger *models.Ledger) ([]models.Order, error)
	// UpdateOrderStatus overwrites the status in place (no history) and
	// returns the updated row.
	UpdateOrderStatus(ctx context.Context, ledger *models.Ledger, orderId string, status string, color string) (*models.Order, error)
}

// LedgerName derives the deterministic ledger name from the tenant label.
func LedgerName(tenantLabel string) string {
	return strings.TrimSpace(tenantLabel) + " - Orders"
}
