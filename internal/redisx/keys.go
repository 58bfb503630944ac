package redisx

import "time"

const (
	// Cache rental detail: rental:{id} -> rental JSON
	KeyRentalCache = "rental:%d"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLRentalCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
