// Package syncworker drains rental.carsync.pending: flag transitions the
// rental API could not apply inline. The API already answered its caller by
// the time these events exist; the worker only repairs drift between the
// rental ledger and the cars service.
package syncworker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/cloudrental/go-car-rental.git/internal/cars"
	"github.com/cloudrental/go-car-rental.git/internal/carsapi"
	kafkax "github.com/cloudrental/go-car-rental.git/internal/kafka"
	"github.com/cloudrental/go-car-rental.git/internal/redisx"
	"github.com/cloudrental/go-car-rental.git/internal/rental"
)

type CarClient interface {
	FetchCar(ctx context.Context, id int64) (cars.Car, error)
	MarkRented(ctx context.Context, id int64) error
	MarkReturned(ctx context.Context, id int64) error
}

type Service struct {
	Cars  CarClient
	Redis *redis.Client
}

// HandleCarSyncPending is the consumer handler. Returning an error leaves the
// offset uncommitted, so transient failures are retried by redelivery.
func (s *Service) HandleCarSyncPending(ctx context.Context, m kafkago.Message) error {
	var env rental.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != rental.EventCarSyncPending {
		return nil
	}

	if s.seen(ctx, env.EventID) {
		return nil
	}

	p, err := kafkax.UnwrapPayload[rental.CarSyncPendingPayload](env.Payload)
	if err != nil {
		return err
	}

	switch p.Action {
	case rental.ActionRent:
		err = s.Cars.MarkRented(ctx, p.CarID)
	case rental.ActionReturn:
		err = s.Cars.MarkReturned(ctx, p.CarID)
	default:
		log.Printf("drop sync event %s: unknown action %q", env.EventID, p.Action)
		return nil
	}

	if err != nil {
		// final answers (car gone, flag already in the target state) are
		// dropped; anything transient is retried
		var se *carsapi.StatusError
		if errors.Is(err, carsapi.ErrCarNotFound) || (errors.As(err, &se) && !se.Retryable()) {
			log.Printf("drop sync %s rental=%d car=%d: %v", p.Action, p.RentalID, p.CarID, err)
			s.markSeen(ctx, env.EventID)
			return nil
		}
		return fmt.Errorf("sync %s rental=%d car=%d: %w", p.Action, p.RentalID, p.CarID, err)
	}

	log.Printf("sync %s applied: rental=%d car=%d", p.Action, p.RentalID, p.CarID)
	s.markSeen(ctx, env.EventID)
	return nil
}

func (s *Service) seen(ctx context.Context, eventID string) bool {
	if s.Redis == nil {
		return false
	}
	ok, _ := redisx.Exists(ctx, s.Redis, fmt.Sprintf(redisx.KeyDedup, "syncworker", eventID))
	return ok
}

func (s *Service) markSeen(ctx context.Context, eventID string) {
	if s.Redis == nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyDedup, "syncworker", eventID)
	_ = s.Redis.Set(ctx, key, "1", redisx.TTLDedup).Err()
}
