package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-storefront-orders/helpers"
	"go-storefront-orders/models"

	"github.com/go-playground/validator"
	"github.com/google/uuid"
)

var validate = validator.New()

var ErrInvalidOrder = errors.New("invalid order payload")

// OrderFeed receives ledger events for the operator's live dashboard.
// Implemented by ws.OrderFeedHub; nil disables the feed.
type OrderFeed interface {
	BroadcastOrderCreated(tenantId string, order models.Order)
	BroadcastStatusChanged(tenantId string, order models.Order)
}

// LedgerService owns the per-tenant order book: it serializes writes
// through the named mutex, provisions ledgers lazily and assigns order ids.
type LedgerService struct {
	store       LedgerStore
	mutex       NamedMutex
	notifier    Notifier
	feed        OrderFeed
	lockTimeout time.Duration
}

func NewLedgerService(store LedgerStore, mutex NamedMutex, notifier Notifier, feed OrderFeed) *LedgerService {
	return &LedgerService{
		store:       store,
		mutex:       mutex,
		notifier:    notifier,
		feed:        feed,
		lockTimeout: 10 * time.Second,
	}
}

// NewOrderID mints a collision-resistant order id: time-based prefix plus a
// random suffix. No uniqueness check is performed against the ledger.
func NewOrderID() string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix)
}

// SubmitOrder validates the payload, takes the tenant lock, provisions the
// ledger if needed and inserts the order as the newest row. Returns the
// assigned order id and the ledger name.
func (s *LedgerService) SubmitOrder(ctx context.Context, req models.OrderRequest) (orderId string, ledgerName string, err error) {
	// Reject malformed payloads before any lock is taken.
	if validationErr := validate.Struct(&req); validationErr != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidOrder, validationErr)
	}

	release, err := s.mutex.Acquire(ctx, "ledger:"+req.Tenant_id, s.lockTimeout)
	if err != nil {
		return "", "", err
	}
	locked := true
	defer func() {
		if locked {
			release()
		}
	}()

	ledger, err := s.store.EnsureLedger(ctx, req.Tenant_id, LedgerName(req.Tenant_label))
	if err != nil {
		return "", "", err
	}

	order := buildOrderRow(req)
	if err := s.store.InsertOrder(ctx, ledger, &order); err != nil {
		return "", "", err
	}

	release()
	locked = false

	if s.notifier != nil {
		// operator notification must not block the create response
		go s.notifier.NotifyNewOrder(order, req.Tenant_label)
	}
	if s.feed != nil {
		s.feed.BroadcastOrderCreated(req.Tenant_id, order)
	}
	return order.Order_id, ledger.Name, nil
}

// ReadOrders returns the tenant's ledger newest-first together with the
// stats projection. A missing ledger is not an error: it is provisioned
// lazily and an empty result is returned. Reads take no lock.
func (s *LedgerService) ReadOrders(ctx context.Context, tenantId string, tenantLabel string) ([]models.Order, models.OrderStats, string, error) {
	ledger, err := s.store.FindLedger(ctx, tenantId)
	if err != nil {
		return nil, models.OrderStats{}, "", err
	}
	if ledger == nil {
		ledger, err = s.store.EnsureLedger(ctx, tenantId, LedgerName(tenantLabel))
		if err != nil {
			return nil, models.OrderStats{}, "", err
		}
		return []models.Order{}, models.OrderStats{}, ledger.Name, nil
	}

	orders, err := s.store.ListOrders(ctx, ledger)
	if err != nil {
		return nil, models.OrderStats{}, "", err
	}
	return orders, ComputeStats(orders), ledger.Name, nil
}

// buildOrderRow flattens the payload into a ledger row, the way the order
// book displays it.
func buildOrderRow(req models.OrderRequest) models.Order {
	createdAt, _ := time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))

	itemsList := make([]string, 0, len(req.Order.Items))
	itemDetails := make([]string, 0, len(req.Order.Items))
	for _, item := range req.Order.Items {
		itemsList = append(itemsList, fmt.Sprintf("%s x%d", item.Name, item.Quantity))

		unitPrice := helpers.ParseCurrency(item.Unit_price)
		subtotal := unitPrice * float64(item.Quantity)
		itemDetails = append(itemDetails, fmt.Sprintf(
			"%s\n  Quantity: %d\n  Unit Price: %s\n  Subtotal: %s",
			item.Name, item.Quantity, item.Unit_price, helpers.FormatCurrency(subtotal),
		))
	}

	totalAmount := req.Order.Total_formatted
	if totalAmount == "" {
		totalAmount = helpers.FormatCurrency(req.Order.Total)
	}

	source := req.Source
	if source == "" {
		source = "storefront"
	}

	return models.Order{
		Order_id:      NewOrderID(),
		Date_time:     time.Now().Format("2006-01-02 15:04:05"),
		Customer_name: req.Order.Customer_name,
		Email:         req.Order.Email,
		Location:      req.Order.Location,
		Items:         strings.Join(itemsList, ", "),
		Item_details:  strings.Join(itemDetails, "\n\n"),
		Total_amount:  totalAmount,
		Note:          req.Order.Note,
		Status:        models.StatusPending,
		Status_color:  models.StatusColors[models.StatusPending],
		Source:        source,
		Created_at:    createdAt,
		Updated_at:    createdAt,
	}
}
