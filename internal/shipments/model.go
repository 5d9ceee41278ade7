package shipments

import "time"

// DefaultStatus is assigned to newly created shipments. Shipment status is a
// free-form workflow string; the settlement tri-state lives in the tracking
// module.
const DefaultStatus = "created"

// Shipment is a single return parcel record.
type Shipment struct {
	ID             int64     `json:"id"`
	CustomerID     int64     `json:"customer_id"`
	OrderNo        *string   `json:"order_no"`
	DHLTrackingNo  *string   `json:"dhl_tracking_no"`
	Country        string    `json:"country"`
	City           string    `json:"city"`
	Postcode       string    `json:"postcode"`
	Street         string    `json:"street"`
	HouseNo        *string   `json:"house_no"`
	Product        *string   `json:"product"`
	Quantity       int       `json:"quantity"`
	DeclaredValue  float64   `json:"declared_value"`
	Classification string    `json:"classification"`
	NeedCustoms    bool      `json:"need_customs"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}
