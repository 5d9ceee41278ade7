package oplog

import "time"

// Entry is an append-only operation log record.
type Entry struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Action     string    `json:"action"`
	TargetType *string   `json:"target_type"`
	TargetID   *int64    `json:"target_id"`
	Details    *string   `json:"details"`
	IP         string    `json:"ip"`
	CreatedAt  time.Time `json:"created_at"`

	// FullName is joined from users for display; empty when the actor
	// account has been removed.
	FullName string `json:"full_name"`
}
