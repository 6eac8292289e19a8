package services

import (
	"errors"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"go-storefront-orders/helpers"
	"go-storefront-orders/models"
)

var (
	ErrProductNotFound = errors.New("product not found in catalog")
	ErrLineNotFound    = errors.New("cart line not found")
	ErrInvalidOptions  = errors.New("invalid option selection")
)

// StockExceededError reports how many units of the product can still be
// added across all cart lines.
type StockExceededError struct {
	Product_id string
	Available  int
}

func (e *StockExceededError) Error() string {
	return fmt.Sprintf("sorry, only %d available in stock", e.Available)
}

// CartService is the in-memory cart engine. The catalog is read-only
// configuration passed at construction; all operations run on the caller's
// goroutine with no internal locking, matching the single-threaded client.
type CartService struct {
	catalog map[string]models.Product
	cart    models.Cart
}

func NewCartService(products []models.Product) *CartService {
	catalog := make(map[string]models.Product, len(products))
	for _, p := range products {
		catalog[p.Product_id] = p
	}
	return &CartService{catalog: catalog}
}

// LineKey derives the identity of a cart line from the product and the
// unordered option selection. Same product + same choices = same line.
func LineKey(productId string, options []models.SelectedOption) string {
	keys := make([]string, 0, len(options))
	for _, opt := range options {
		keys = append(keys, opt.Option_id+"="+opt.Choice_id)
	}
	sort.Strings(keys)

	h := fnv.New64a()
	h.Write([]byte(productId))
	for _, k := range keys {
		h.Write([]byte("|"))
		h.Write([]byte(k))
	}
	return fmt.Sprintf("%x", h.Sum64())
}

// AddLine inserts a new line or increments an existing one. When the
// product tracks stock, the quantity across every line of that product is
// checked against the ceiling before anything mutates.
func (s *CartService) AddLine(productId string, quantity int, options []models.SelectedOption) error {
	product, ok := s.catalog[productId]
	if !ok {
		return ErrProductNotFound
	}
	if quantity <= 0 {
		quantity = 1
	}
	if err := validateOptions(product, options); err != nil {
		return err
	}

	if product.Track_stock && product.Stock != nil {
		inCart := s.quantityOf(productId, "")
		if inCart+quantity > *product.Stock {
			return &StockExceededError{Product_id: productId, Available: *product.Stock - inCart}
		}
	}

	lineId := LineKey(productId, options)
	for i := range s.cart.Lines {
		if s.cart.Lines[i].Line_id == lineId {
			s.cart.Lines[i].Quantity += quantity
			return nil
		}
	}

	unit := helpers.ParseCurrency(product.Price)
	for _, opt := range options {
		unit += opt.Price
	}
	s.cart.Lines = append(s.cart.Lines, models.CartLine{
		Line_id:          lineId,
		Product_id:       productId,
		Product_name:     product.Name,
		Unit_price:       unit,
		Quantity:         quantity,
		Selected_options: options,
	})
	return nil
}

// SetQuantity re-validates stock against the other lines of the same
// product before applying. Zero or negative removes the line.
func (s *CartService) SetQuantity(lineId string, quantity int) error {
	idx := -1
	for i := range s.cart.Lines {
		if s.cart.Lines[i].Line_id == lineId {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrLineNotFound
	}
	if quantity <= 0 {
		s.cart.Lines = append(s.cart.Lines[:idx], s.cart.Lines[idx+1:]...)
		return nil
	}

	line := s.cart.Lines[idx]
	if product, ok := s.catalog[line.Product_id]; ok && product.Track_stock && product.Stock != nil {
		others := s.quantityOf(line.Product_id, lineId)
		if others+quantity > *product.Stock {
			return &StockExceededError{Product_id: line.Product_id, Available: *product.Stock - others}
		}
	}
	s.cart.Lines[idx].Quantity = quantity
	return nil
}

func (s *CartService) RemoveLine(lineId string) {
	for i := range s.cart.Lines {
		if s.cart.Lines[i].Line_id == lineId {
			s.cart.Lines = append(s.cart.Lines[:i], s.cart.Lines[i+1:]...)
			return
		}
	}
}

func (s *CartService) Clear() {
	s.cart.Lines = nil
	s.cart.Customer = models.CustomerDraft{}
}

func (s *CartService) Total() float64 {
	var sum float64
	for _, line := range s.cart.Lines {
		sum += line.Unit_price * float64(line.Quantity)
	}
	return sum
}

func (s *CartService) ItemCount() int {
	var count int
	for _, line := range s.cart.Lines {
		count += line.Quantity
	}
	return count
}

func (s *CartService) Lines() []models.CartLine {
	return s.cart.Lines
}

func (s *CartService) SetCustomer(draft models.CustomerDraft) {
	s.cart.Customer = draft
}

func (s *CartService) Customer() models.CustomerDraft {
	return s.cart.Customer
}

// quantityOf sums quantities for a product across all lines, skipping the
// line identified by excludeLineId when given.
func (s *CartService) quantityOf(productId string, excludeLineId string) int {
	var total int
	for _, line := range s.cart.Lines {
		if line.Product_id != productId {
			continue
		}
		if excludeLineId != "" && line.Line_id == excludeLineId {
			continue
		}
		total += line.Quantity
	}
	return total
}

// validateOptions checks the selection against the product's option groups:
// choices must exist, and a single-select group accepts at most one choice.
func validateOptions(product models.Product, options []models.SelectedOption) error {
	groups := make(map[string]models.ProductOption, len(product.Options))
	for _, g := range product.Options {
		groups[g.Option_id] = g
	}

	singleSeen := make(map[string]bool)
	for _, opt := range options {
		group, ok := groups[opt.Option_id]
		if !ok {
			return ErrInvalidOptions
		}
		found := false
		for _, choice := range group.Choices {
			if choice.Choice_id == opt.Choice_id {
				found = true
				break
			}
		}
		if !found {
			return ErrInvalidOptions
		}
		if group.Type == models.OptionTypeSingle {
			if singleSeen[group.Option_id] {
				return ErrInvalidOptions
			}
			singleSeen[group.Option_id] = true
		}
	}
	return nil
}

// DisplayName flattens a line's option selection into its product name,
// e.g. "Latte (Size: Large, Add-ons: Pearls)".
func DisplayName(line models.CartLine) string {
	if len(line.Selected_options) == 0 {
		return line.Product_name
	}
	parts := make([]string, 0, len(line.Selected_options))
	for _, opt := range line.Selected_options {
		parts = append(parts, opt.Option_name+": "+opt.Choice_name)
	}
	return line.Product_name + " (" + strings.Join(parts, ", ") + ")"
}
