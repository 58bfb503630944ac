package rental

import "strconv"

const (
	TopicRentalCreated   = "rental.created"
	TopicRentalCancelled = "rental.cancelled"
	TopicCarSyncPending  = "rental.carsync.pending"
)

// Partition key = car_id, so flag transitions for one car keep their order.
func PartitionKey(carID int64) []byte { return []byte(strconv.FormatInt(carID, 10)) }
