package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go-storefront-orders/models"
)

type recordingWriter struct {
	requests chan models.OrderRequest
	err      error
}

func newRecordingWriter(err error) *recordingWriter {
	return &recordingWriter{requests: make(chan models.OrderRequest, 1), err: err}
}

func (w *recordingWriter) SubmitOrder(ctx context.Context, req models.OrderRequest) error {
	w.requests <- req
	return w.err
}

type failingClipboard struct{}

func (failingClipboard) Copy(string) error { return errors.New("no clipboard") }

type memoryClipboard struct{ text string }

func (c *memoryClipboard) Copy(text string) error {
	c.text = text
	return nil
}

func loadedCart(t *testing.T) *CartService {
	t.Helper()
	cart := NewCartService(testCatalog())
	if err := cart.AddLine("prod-a", 2, sizeLarge()); err != nil {
		t.Fatal(err)
	}
	cart.SetCustomer(models.CustomerDraft{
		Name:     "Ana Cruz",
		Email:    "ana@example.com",
		Location: "Quezon City",
		Note:     "less ice",
	})
	return cart
}

func TestCheckoutBuildsSummaryAndLink(t *testing.T) {
	cart := loadedCart(t)
	writer := newRecordingWriter(nil)
	clip := &memoryClipboard{}
	svc := NewCheckoutService(cart, writer, clip, "t1", "Big Brew", "bigbrewpage", "storefront")

	result, err := svc.Checkout(context.Background())
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	if !strings.HasPrefix(result.Messenger_url, "https://m.me/bigbrewpage?text=") {
		t.Errorf("messenger url = %q", result.Messenger_url)
	}
	if !result.Copied || clip.text != result.Summary {
		t.Error("summary was not copied to the clipboard")
	}
	for _, want := range []string{
		"New Order Request",
		"Customer: Ana Cruz",
		"Email: ana@example.com",
		"- Milk Tea (Size: Large) x2 @ ₱120.00 = ₱240.00",
		"Total: ₱240.00",
		"Location: Quezon City",
		"Note: less ice",
	} {
		if !strings.Contains(result.Summary, want) {
			t.Errorf("summary missing %q\n%s", want, result.Summary)
		}
	}
}

func TestCheckoutFiresRemoteWriteAndClearsCart(t *testing.T) {
	cart := loadedCart(t)
	writer := newRecordingWriter(nil)
	svc := NewCheckoutService(cart, writer, &memoryClipboard{}, "t1", "Big Brew", "bigbrewpage", "storefront")

	if _, err := svc.Checkout(context.Background()); err != nil {
		t.Fatal(err)
	}

	// cart and draft cleared synchronously, before the remote outcome
	if len(cart.Lines()) != 0 || cart.Customer().Name != "" {
		t.Error("cart/draft not cleared after checkout")
	}

	select {
	case req := <-writer.requests:
		if req.Tenant_id != "t1" || req.Source != "storefront" {
			t.Errorf("request tenant/source = %q/%q", req.Tenant_id, req.Source)
		}
		if len(req.Order.Items) != 1 || req.Order.Items[0].Name != "Milk Tea (Size: Large)" {
			t.Errorf("items = %+v", req.Order.Items)
		}
		if req.Order.Total != 240 || req.Order.Total_formatted != "₱240.00" {
			t.Errorf("total = %v / %q", req.Order.Total, req.Order.Total_formatted)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("remote ledger write never fired")
	}
}

func TestCheckoutSurvivesRemoteFailure(t *testing.T) {
	cart := loadedCart(t)
	writer := newRecordingWriter(errors.New("ledger unreachable"))
	svc := NewCheckoutService(cart, writer, &memoryClipboard{}, "t1", "Big Brew", "bigbrewpage", "storefront")

	result, err := svc.Checkout(context.Background())
	if err != nil {
		t.Fatalf("remote failure must not fail checkout: %v", err)
	}
	if result.Summary == "" {
		t.Error("local hand-off missing despite remote failure")
	}
	if len(cart.Lines()) != 0 {
		t.Error("cart not cleared despite remote failure")
	}
	<-writer.requests
}

func TestCheckoutClipboardFailureIsNonFatal(t *testing.T) {
	cart := loadedCart(t)
	writer := newRecordingWriter(nil)
	svc := NewCheckoutService(cart, writer, failingClipboard{}, "t1", "Big Brew", "bigbrewpage", "storefront")

	result, err := svc.Checkout(context.Background())
	if err != nil {
		t.Fatalf("clipboard failure must not fail checkout: %v", err)
	}
	if result.Copied {
		t.Error("Copied should be false when the clipboard fails")
	}
	<-writer.requests
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	cart := NewCartService(testCatalog())
	svc := NewCheckoutService(cart, newRecordingWriter(nil), &memoryClipboard{}, "t1", "Big Brew", "bigbrewpage", "storefront")

	if _, err := svc.Checkout(context.Background()); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("got %v, want ErrEmptyCart", err)
	}
}

func TestCheckoutReentrancyGuard(t *testing.T) {
	cart := loadedCart(t)
	svc := NewCheckoutService(cart, newRecordingWriter(nil), &memoryClipboard{}, "t1", "Big Brew", "bigbrewpage", "storefront")

	svc.mu.Lock()
	svc.checkingOut = true
	svc.mu.Unlock()

	if _, err := svc.Checkout(context.Background()); !errors.Is(err, ErrCheckoutInProgress) {
		t.Fatalf("got %v, want ErrCheckoutInProgress", err)
	}

	// guard released: checkout goes through
	svc.mu.Lock()
	svc.checkingOut = false
	svc.mu.Unlock()
	if _, err := svc.Checkout(context.Background()); err != nil {
		t.Fatalf("checkout after guard release: %v", err)
	}
}
