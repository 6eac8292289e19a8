package services

import (
	"errors"
	"testing"

	"go-storefront-orders/models"
)

func intPtr(n int) *int { return &n }

func testCatalog() []models.Product {
	return []models.Product{
		{
			Product_id:  "prod-a",
			Name:        "Milk Tea",
			Price:       "₱100.00",
			Track_stock: true,
			Stock:       intPtr(2),
			Options: []models.ProductOption{
				{
					Option_id: "size",
					Name:      "Size",
					Type:      models.OptionTypeSingle,
					Choices: []models.ProductOptionChoice{
						{Choice_id: "large", Name: "Large", Price: 20},
						{Choice_id: "regular", Name: "Regular", Price: 0},
					},
				},
			},
		},
		{Product_id: "prod-b", Name: "Cupcake", Price: "₱50.00"},
		{Product_id: "prod-c", Name: "Mystery Box", Price: "call us"},
	}
}

func sizeLarge() []models.SelectedOption {
	return []models.SelectedOption{{Option_id: "size", Option_name: "Size", Choice_id: "large", Choice_name: "Large", Price: 20}}
}

func TestAddLineTotalWithOptions(t *testing.T) {
	cart := NewCartService(testCatalog())

	if err := cart.AddLine("prod-a", 2, sizeLarge()); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if got := cart.Total(); got != 240 {
		t.Errorf("Total() = %v, want 240", got)
	}
	if got := cart.ItemCount(); got != 2 {
		t.Errorf("ItemCount() = %d, want 2", got)
	}
}

func TestStockCeilingAcrossLines(t *testing.T) {
	cart := NewCartService(testCatalog())

	// two distinct lines of the same product share the ceiling of 2
	if err := cart.AddLine("prod-a", 1, sizeLarge()); err != nil {
		t.Fatalf("AddLine large: %v", err)
	}
	if err := cart.AddLine("prod-a", 1, nil); err != nil {
		t.Fatalf("AddLine plain: %v", err)
	}

	err := cart.AddLine("prod-a", 1, nil)
	var stockErr *StockExceededError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected StockExceededError, got %v", err)
	}
	if stockErr.Available != 0 {
		t.Errorf("Available = %d, want 0", stockErr.Available)
	}
	// rejected add must not mutate the cart
	if got := cart.ItemCount(); got != 2 {
		t.Errorf("ItemCount() after rejection = %d, want 2", got)
	}
}

func TestIdenticalSelectionsMerge(t *testing.T) {
	cart := NewCartService(testCatalog())

	optsA := sizeLarge()
	// same selection in a different order must land on the same line
	optsB := []models.SelectedOption{optsA[0]}

	if err := cart.AddLine("prod-a", 1, optsA); err != nil {
		t.Fatal(err)
	}
	if err := cart.AddLine("prod-a", 1, optsB); err != nil {
		t.Fatal(err)
	}
	if got := len(cart.Lines()); got != 1 {
		t.Fatalf("lines = %d, want 1 (merged)", got)
	}
	if got := cart.Lines()[0].Quantity; got != 2 {
		t.Errorf("merged quantity = %d, want 2", got)
	}
}

func TestDifferentSelectionsStayDistinct(t *testing.T) {
	cart := NewCartService(testCatalog())

	if err := cart.AddLine("prod-a", 1, sizeLarge()); err != nil {
		t.Fatal(err)
	}
	regular := []models.SelectedOption{{Option_id: "size", Option_name: "Size", Choice_id: "regular", Choice_name: "Regular"}}
	if err := cart.AddLine("prod-a", 1, regular); err != nil {
		t.Fatal(err)
	}
	if got := len(cart.Lines()); got != 2 {
		t.Errorf("lines = %d, want 2 distinct", got)
	}
}

func TestSetQuantityRevalidatesStock(t *testing.T) {
	cart := NewCartService(testCatalog())

	if err := cart.AddLine("prod-a", 1, sizeLarge()); err != nil {
		t.Fatal(err)
	}
	if err := cart.AddLine("prod-a", 1, nil); err != nil {
		t.Fatal(err)
	}
	lineId := cart.Lines()[0].Line_id

	// 1 (other line) + 2 > stock of 2
	err := cart.SetQuantity(lineId, 2)
	var stockErr *StockExceededError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected StockExceededError, got %v", err)
	}
	if stockErr.Available != 1 {
		t.Errorf("Available = %d, want 1", stockErr.Available)
	}

	// shrinking the other line makes room
	cart.RemoveLine(cart.Lines()[1].Line_id)
	if err := cart.SetQuantity(lineId, 2); err != nil {
		t.Fatalf("SetQuantity after remove: %v", err)
	}
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	cart := NewCartService(testCatalog())

	if err := cart.AddLine("prod-b", 3, nil); err != nil {
		t.Fatal(err)
	}
	lineId := cart.Lines()[0].Line_id
	if err := cart.SetQuantity(lineId, 0); err != nil {
		t.Fatal(err)
	}
	if got := len(cart.Lines()); got != 0 {
		t.Errorf("lines = %d, want 0", got)
	}
}

func TestMalformedPriceParsesToZero(t *testing.T) {
	cart := NewCartService(testCatalog())

	if err := cart.AddLine("prod-c", 2, nil); err != nil {
		t.Fatal(err)
	}
	if got := cart.Total(); got != 0 {
		t.Errorf("Total() = %v, want 0 for unparseable price", got)
	}
}

func TestInvalidOptionSelections(t *testing.T) {
	cart := NewCartService(testCatalog())

	unknown := []models.SelectedOption{{Option_id: "size", Choice_id: "xl"}}
	if err := cart.AddLine("prod-a", 1, unknown); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("unknown choice: got %v, want ErrInvalidOptions", err)
	}

	double := []models.SelectedOption{
		{Option_id: "size", Choice_id: "large"},
		{Option_id: "size", Choice_id: "regular"},
	}
	if err := cart.AddLine("prod-a", 1, double); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("two choices on single-select: got %v, want ErrInvalidOptions", err)
	}
}

func TestClearResetsCartAndDraft(t *testing.T) {
	cart := NewCartService(testCatalog())
	if err := cart.AddLine("prod-b", 1, nil); err != nil {
		t.Fatal(err)
	}
	cart.SetCustomer(models.CustomerDraft{Name: "Ana", Email: "ana@example.com"})

	cart.Clear()
	if len(cart.Lines()) != 0 || cart.Customer().Name != "" {
		t.Error("Clear() should drop lines and draft")
	}
}

func TestDisplayNameFlattensOptions(t *testing.T) {
	cart := NewCartService(testCatalog())
	if err := cart.AddLine("prod-a", 1, sizeLarge()); err != nil {
		t.Fatal(err)
	}
	got := DisplayName(cart.Lines()[0])
	want := "Milk Tea (Size: Large)"
	if got != want {
		t.Errorf("DisplayName = %q, want %q", got, want)
	}
}
