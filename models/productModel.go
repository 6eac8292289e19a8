package models

// Option group types as configured in the catalog editor.
const (
	OptionTypeSingle   = "single"
	OptionTypeMultiple = "multiple"
)

type ProductOptionChoice struct {
	Choice_id string  `json:"choice_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"` // delta added to the base price
}

type ProductOption struct {
	Option_id string                `json:"option_id"`
	Name      string                `json:"name"`
	Type      string                `json:"type" validate:"eq=single|eq=multiple"`
	Choices   []ProductOptionChoice `json:"choices"`
}

// Product is owned by the tenant catalog and read-only to the cart.
// Price is the formatted display string (e.g. "₱100.00") as stored
// by the catalog; the cart parses it tolerantly.
type Product struct {
	Product_id  string          `json:"product_id" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Price       string          `json:"price"`
	Track_stock bool            `json:"track_stock"`
	Stock       *int            `json:"stock"`
	Options     []ProductOption `json:"options"`
}
