package quotations

// CreateQuotationRequest carries a new price list entry.
type CreateQuotationRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	Price       float64 `json:"price" validate:"required"`
	Currency    string  `json:"currency"`
	IsDefault   bool    `json:"is_default"`
}

// UpdateQuotationRequest overwrites an existing entry.
type UpdateQuotationRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	IsDefault   bool    `json:"is_default"`
}

// CopyToCustomerRequest upserts a per-customer price override.
type CopyToCustomerRequest struct {
	QuotationID int64    `json:"quotation_id" validate:"required,gt=0"`
	CustomerID  int64    `json:"customer_id" validate:"required,gt=0"`
	CustomPrice *float64 `json:"custom_price"`
}
