package models

// SelectedOption is immutable once attached to a cart line.
type SelectedOption struct {
	Option_id   string  `json:"option_id"`
	Option_name string  `json:"option_name"`
	Choice_id   string  `json:"choice_id"`
	Choice_name string  `json:"choice_name"`
	Price       float64 `json:"price"`
}

// CartLine is one distinct product+options selection. Two lines with the
// same product but different selections stay separate; identical
// selections merge quantities.
type CartLine struct {
	Line_id          string           `json:"line_id"`
	Product_id       string           `json:"product_id"`
	Product_name     string           `json:"product_name"`
	Unit_price       float64          `json:"unit_price"` // base price plus option deltas
	Quantity         int              `json:"quantity"`
	Selected_options []SelectedOption `json:"selected_options"`
}

// CustomerDraft holds the checkout form fields. Lives only for the session.
type CustomerDraft struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Location string `json:"location"`
	Note     string `json:"note"`
}

type Cart struct {
	Lines    []CartLine    `json:"lines"`
	Customer CustomerDraft `json:"customer"`
}
