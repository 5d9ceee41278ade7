package customers

import "time"

// Customer is a shipping customer referenced by shipments and quotations.
type Customer struct {
	ID           int64     `json:"id"`
	CustomerCode string    `json:"customer_code"`
	Name         string    `json:"name"`
	Remark       *string   `json:"remark"`
	CreatedAt    time.Time `json:"created_at"`
}
