package cn23

import (
	"encoding/json"
	"time"
)

// Product is a reusable customs line-item template.
type Product struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	HSCode        *string   `json:"hs_code"`
	OriginCountry string    `json:"origin_country"`
	NetWeightKg   *float64  `json:"net_weight_kg"`
	UnitValue     *float64  `json:"unit_value"`
	Currency      string    `json:"currency"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Form is the customs declaration attached to exactly one shipment.
type Form struct {
	ID              int64           `json:"id"`
	ShipmentID      int64           `json:"shipment_id"`
	TotalValue      *float64        `json:"total_value"`
	Currency        string          `json:"currency"`
	ReasonForExport *string         `json:"reason_for_export"`
	Incoterm        *string         `json:"incoterm"`
	FormData        json.RawMessage `json:"form_data"`
	CreatedAt       time.Time       `json:"created_at"`
}
