package services

import (
	"context"
	"errors"

	"go-storefront-orders/models"
)

var ErrUnknownStatus = errors.New("unknown order status")

// StatusService is the order-status workflow. No transition graph is
// enforced: the operator may move an order from any status to any other.
// The row is overwritten in place; no history is kept.
type StatusService struct {
	store    LedgerStore
	notifier Notifier
	feed     OrderFeed
}

func NewStatusService(store LedgerStore, notifier Notifier, feed OrderFeed) *StatusService {
	return &StatusService{store: store, notifier: notifier, feed: feed}
}

// SetStatus applies the transition and triggers the notification dispatcher
// exactly once, off the request path. The dispatcher is best-effort: its
// failures are logged inside it and never roll back the transition.
func (s *StatusService) SetStatus(ctx context.Context, tenantId string, orderId string, newStatus string) (*models.Order, error) {
	if !models.IsValidStatus(newStatus) {
		return nil, ErrUnknownStatus
	}

	ledger, err := s.store.FindLedger(ctx, tenantId)
	if err != nil {
		return nil, err
	}
	if ledger == nil {
		return nil, ErrLedgerNotFound
	}

	order, err := s.store.UpdateOrderStatus(ctx, ledger, orderId, newStatus, models.StatusColors[newStatus])
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		// a slow mail server must not stall the status edit response
		go s.notifier.NotifyStatusChange(*order, newStatus)
	}
	if s.feed != nil {
		s.feed.BroadcastStatusChanged(tenantId, *order)
	}
	return order, nil
}
