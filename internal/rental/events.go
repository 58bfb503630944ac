package rental

import (
	"encoding/json"
	"time"
)

const (
	EventRentalCreated   = "RentalCreated"
	EventRentalCancelled = "RentalCancelled"
	EventCarSyncPending  = "CarSyncPending"
)

// Car flag transitions a sync event may request.
const (
	ActionRent   = "rent"
	ActionReturn = "return"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // one of the consts above
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "rental-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // rental id
	Payload       json.RawMessage `json:"payload"`
}

// ---- payload types per event ----

type RentalCreatedPayload struct {
	Rental Rental `json:"rental"`
}

type RentalCancelledPayload struct {
	RentalID int64 `json:"rental_id"`
	CarID    int64 `json:"car_id"`
}

// CarSyncPendingPayload records a car flag transition the API could not apply
// inline. The sync worker drains these; the rental itself already committed.
type CarSyncPendingPayload struct {
	RentalID int64  `json:"rental_id"`
	CarID    int64  `json:"car_id"`
	Action   string `json:"action"` // rent | return
	Reason   string `json:"reason,omitempty"`
}
