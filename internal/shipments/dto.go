package shipments

// CreateShipmentRequest carries a single shipment specification.
type CreateShipmentRequest struct {
	CustomerID     int64    `json:"customer_id" validate:"required,gt=0"`
	OrderNo        *string  `json:"order_no"`
	Country        string   `json:"country" validate:"required"`
	City           string   `json:"city" validate:"required"`
	Postcode       string   `json:"postcode" validate:"required"`
	Street         string   `json:"street" validate:"required"`
	HouseNo        *string  `json:"house_no"`
	Product        *string  `json:"product"`
	Quantity       *int     `json:"quantity"`
	DeclaredValue  *float64 `json:"declared_value"`
	Classification *string  `json:"classification"`
	NeedCustoms    bool     `json:"need_customs"`
}

// BulkRow is one entry of a bulk import. Field names follow the import
// front end's column mapping.
type BulkRow struct {
	CustomerID     int64    `json:"customerId"`
	OrderNo        *string  `json:"orderNo"`
	Country        string   `json:"country"`
	City           string   `json:"city"`
	Postcode       string   `json:"postcode"`
	Street         string   `json:"street"`
	HouseNo        *string  `json:"houseNo"`
	Product        *string  `json:"product"`
	Qty            *int     `json:"qty"`
	Value          *float64 `json:"value"`
	Classification *string  `json:"classification"`
	NeedCustoms    bool     `json:"needCustoms"`
}

// ListFilter narrows shipment listings.
type ListFilter struct {
	CustomerID *int64
	Status     *string
	Limit      int
	Offset     int
}
