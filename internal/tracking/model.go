package tracking

import "time"

// Settlement statuses. Refunded is terminal: no transition leaves it.
const (
	StatusNormal     = "normal"
	StatusNoTracking = "no_tracking"
	StatusRefunded   = "refunded"
)

// NoTrackingThresholdDays is the tracking-silence age after which a
// shipment is flagged for settlement review.
const NoTrackingThresholdDays = 90

// Event is one carrier tracking update for a shipment. EventTime is
// assigned by the server at insert.
type Event struct {
	ID            int64     `json:"id"`
	ShipmentID    int64     `json:"shipment_id"`
	DHLTrackingNo *string   `json:"dhl_tracking_no"`
	EventTime     time.Time `json:"event_time"`
	Status        string    `json:"status"`
	Location      *string   `json:"location"`
	Description   *string   `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
}

// SettlementRecord tracks the refund lifecycle of one shipment.
type SettlementRecord struct {
	ID               int64      `json:"id"`
	ShipmentID       int64      `json:"shipment_id"`
	LastTrackingDate *time.Time `json:"last_tracking_date"`
	NoTrackingDays   int        `json:"no_tracking_days"`
	SettlementStatus string     `json:"settlement_status"`
	RefundAmount     *float64   `json:"refund_amount"`
	RefundReason     *string    `json:"refund_reason"`
	RefundedAt       *time.Time `json:"refunded_at"`
}

// ShipmentInfo is the shipment header shown on the tracking detail page.
type ShipmentInfo struct {
	ID            int64     `json:"id"`
	CustomerID    int64     `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	OrderNo       *string   `json:"order_no"`
	DHLTrackingNo *string   `json:"dhl_tracking_no"`
	Country       string    `json:"country"`
	City          string    `json:"city"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListRow is one line of the tracking overview: shipment basics joined
// with its settlement state.
type ListRow struct {
	ShipmentID       int64      `json:"shipment_id"`
	CustomerID       int64      `json:"customer_id"`
	CustomerName     string     `json:"customer_name"`
	OrderNo          *string    `json:"order_no"`
	DHLTrackingNo    *string    `json:"dhl_tracking_no"`
	Country          string     `json:"country"`
	Status           string     `json:"status"`
	LastTrackingDate *time.Time `json:"last_tracking_date"`
	NoTrackingDays   int        `json:"no_tracking_days"`
	SettlementStatus string     `json:"settlement_status"`
}

// PendingRow is a shipment awaiting refund review, with the tracking gap
// computed at query time.
type PendingRow struct {
	ShipmentID          int64      `json:"shipment_id"`
	CustomerID          int64      `json:"customer_id"`
	CustomerName        string     `json:"customer_name"`
	OrderNo             *string    `json:"order_no"`
	DHLTrackingNo       *string    `json:"dhl_tracking_no"`
	DeclaredValue       float64    `json:"declared_value"`
	LastTrackingDate    *time.Time `json:"last_tracking_date"`
	DaysWithoutTracking int        `json:"days_without_tracking"`
}

// ListFilter narrows the tracking overview.
type ListFilter struct {
	SettlementStatus *string
	CustomerID       *int64
	Limit            int
	Offset           int
}
