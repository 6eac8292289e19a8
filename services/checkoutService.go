package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go-storefront-orders/helpers"
	"go-storefront-orders/models"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)

// LedgerWriter is the remote hand-off boundary. The orchestrator fires one
// request per order and never awaits the outcome.
type LedgerWriter interface {
	SubmitOrder(ctx context.Context, req models.OrderRequest) error
}

// Clipboard is the local hand-off fallback for messaging channels that
// drop prefilled text.
type Clipboard interface {
	Copy(text string) error
}

// LogClipboard is the default clipboard in headless deployments: the
// summary is only logged so the operator can still recover it.
type LogClipboard struct{}

func (LogClipboard) Copy(text string) error {
	log.Printf("order summary (clipboard unavailable):\n%s", text)
	return nil
}

type CheckoutResult struct {
	Order_id      string `json:"order_id,omitempty"`
	Summary       string `json:"summary"`
	Messenger_url string `json:"messenger_url"`
	Copied        bool   `json:"copied"`
}

// CheckoutService turns a cart into an order and performs the two
// independent hand-offs: the local one (clipboard + messaging deep link,
// the user-visible confirmation channel) and the best-effort remote ledger
// write. Neither waits for the other.
type CheckoutService struct {
	cart        *CartService
	ledger      LedgerWriter
	clipboard   Clipboard
	tenantId    string
	tenantLabel string
	pageId      string // messaging channel page id
	source      string // "storefront" or "pos"

	mu          sync.Mutex
	checkingOut bool
}

func NewCheckoutService(cart *CartService, ledger LedgerWriter, clipboard Clipboard, tenantId, tenantLabel, pageId, source string) *CheckoutService {
	if clipboard == nil {
		clipboard = LogClipboard{}
	}
	return &CheckoutService{
		cart:        cart,
		ledger:      ledger,
		clipboard:   clipboard,
		tenantId:    tenantId,
		tenantLabel: tenantLabel,
		pageId:      pageId,
		source:      source,
	}
}

// Checkout builds the order, copies the summary locally, fires the remote
// ledger write without waiting for it, then clears the cart and draft.
func (s *CheckoutService) Checkout(ctx context.Context) (CheckoutResult, error) {
	s.mu.Lock()
	if s.checkingOut {
		s.mu.Unlock()
		return CheckoutResult{}, ErrCheckoutInProgress
	}
	if len(s.cart.Lines()) == 0 {
		s.mu.Unlock()
		return CheckoutResult{}, ErrEmptyCart
	}
	s.checkingOut = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.checkingOut = false
		s.mu.Unlock()
	}()

	draft := s.cart.Customer()
	req := s.buildOrderRequest(draft)
	summary := buildSummary(s.cart.Lines(), draft, s.cart.Total())

	result := CheckoutResult{
		Summary:       summary,
		Messenger_url: fmt.Sprintf("https://m.me/%s?text=%s", s.pageId, url.QueryEscape(summary)),
	}

	// Local hand-off: best effort, failure reported but non-fatal.
	if err := s.clipboard.Copy(summary); err != nil {
		log.Printf("failed to copy order summary to clipboard: %v", err)
	} else {
		result.Copied = true
	}

	// Remote hand-off: fire and forget. The operator also receives the
	// order through the messaging channel, so a failed write is only
	// logged, never surfaced.
	go func() {
		writeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.ledger.SubmitOrder(writeCtx, req); err != nil {
			log.Printf("error saving order to ledger: %v", err)
		}
	}()

	s.cart.Clear()
	return result, nil
}

func (s *CheckoutService) buildOrderRequest(draft models.CustomerDraft) models.OrderRequest {
	lines := s.cart.Lines()
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.OrderItem{
			Name:       DisplayName(line),
			Quantity:   line.Quantity,
			Unit_price: fmt.Sprintf("%.2f", line.Unit_price),
			Subtotal:   line.Unit_price * float64(line.Quantity),
		})
	}
	total := s.cart.Total()
	return models.OrderRequest{
		Tenant_id:    s.tenantId,
		Tenant_label: s.tenantLabel,
		Source:       s.source,
		Order: models.OrderPayload{
			Customer_name:   draft.Name,
			Email:           draft.Email,
			Location:        draft.Location,
			Items:           items,
			Total:           total,
			Total_formatted: helpers.FormatCurrency(total),
			Note:            draft.Note,
		},
	}
}

// buildSummary renders the human-readable order text sent through the
// messaging channel.
func buildSummary(lines []models.CartLine, draft models.CustomerDraft, total float64) string {
	out := []string{
		"New Order Request",
		"Customer: " + draft.Name,
	}
	if draft.Email != "" {
		out = append(out, "Email: "+draft.Email)
	}
	out = append(out, "------------------", "Items:")
	for _, line := range lines {
		subtotal := line.Unit_price * float64(line.Quantity)
		out = append(out, fmt.Sprintf("- %s x%d @ %s = %s",
			DisplayName(line), line.Quantity,
			helpers.FormatCurrency(line.Unit_price), helpers.FormatCurrency(subtotal)))
	}
	note := draft.Note
	if note == "" {
		note = "N/A"
	}
	out = append(out,
		"------------------",
		"Total: "+helpers.FormatCurrency(total),
		"",
		"Customer: "+draft.Name,
		"Location: "+draft.Location,
		"Note: "+note,
	)
	return strings.Join(out, "\n")
}

// HTTPLedgerWriter posts the order to a remote ledger write endpoint.
type HTTPLedgerWriter struct {
	URL    string
	Client *http.Client
}

func NewHTTPLedgerWriter(url string) *HTTPLedgerWriter {
	return &HTTPLedgerWriter{URL: url, Client: &http.Client{Timeout: 30 * time.Second}}
}

func (w *HTTPLedgerWriter) SubmitOrder(ctx context.Context, req models.OrderRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("ledger write returned status %d", resp.StatusCode)
	}
	return nil
}

// LocalLedgerWriter adapts the in-process ledger service so a storefront
// deployed alongside it skips the HTTP hop.
type LocalLedgerWriter struct {
	Ledger *LedgerService
}

func (w *LocalLedgerWriter) SubmitOrder(ctx context.Context, req models.OrderRequest) error {
	_, _, err := w.Ledger.SubmitOrder(ctx, req)
	return err
}
