package quotations

import "time"

// Quotation is a price list entry.
type Quotation struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency"`
	IsDefault   bool      `json:"is_default"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// CustomerPrice is a quotation seen through one customer's overrides.
// FinalPrice is the override price when present, else the base price.
type CustomerPrice struct {
	Quotation
	CustomPrice *float64 `json:"custom_price"`
	FinalPrice  float64  `json:"final_price"`
}

// MatrixRow is one cell of the all-customers × all-active-quotations grid.
type MatrixRow struct {
	CustomerID    int64    `json:"customer_id"`
	CustomerName  string   `json:"customer_name"`
	QuotationID   int64    `json:"quotation_id"`
	QuotationName string   `json:"quotation_name"`
	BasePrice     float64  `json:"base_price"`
	CustomPrice   *float64 `json:"custom_price"`
	FinalPrice    float64  `json:"final_price"`
}
