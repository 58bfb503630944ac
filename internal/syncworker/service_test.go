package syncworker_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/cloudrental/go-car-rental.git/internal/cars"
	"github.com/cloudrental/go-car-rental.git/internal/carsapi"
	"github.com/cloudrental/go-car-rental.git/internal/rental"
	"github.com/cloudrental/go-car-rental.git/internal/syncworker"
)

type carClientStub struct {
	rentErr     error
	returnErr   error
	rentCalls   int
	returnCalls int
}

func (c *carClientStub) FetchCar(context.Context, int64) (cars.Car, error) { return cars.Car{}, nil }
func (c *carClientStub) MarkRented(context.Context, int64) error {
	c.rentCalls++
	return c.rentErr
}
func (c *carClientStub) MarkReturned(context.Context, int64) error {
	c.returnCalls++
	return c.returnErr
}

func pendingMessage(t *testing.T, action string) kafkago.Message {
	t.Helper()
	payload, err := json.Marshal(rental.CarSyncPendingPayload{RentalID: 7, CarID: 3, Action: action})
	require.NoError(t, err)
	env := rental.Envelope{
		EventID:      uuid.NewString(),
		EventType:    rental.EventCarSyncPending,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     "rental-api",
		Payload:      payload,
	}
	b, err := json.Marshal(env)
	require.NoError(t, err)
	return kafkago.Message{Value: b}
}

func TestHandleCarSyncPending_Applies(t *testing.T) {
	stub := &carClientStub{}
	svc := &syncworker.Service{Cars: stub}

	require.NoError(t, svc.HandleCarSyncPending(context.Background(), pendingMessage(t, rental.ActionRent)))
	require.Equal(t, 1, stub.rentCalls)

	require.NoError(t, svc.HandleCarSyncPending(context.Background(), pendingMessage(t, rental.ActionReturn)))
	require.Equal(t, 1, stub.returnCalls)
}

func TestHandleCarSyncPending_RetryableFailure(t *testing.T) {
	stub := &carClientStub{rentErr: &carsapi.StatusError{StatusCode: 503, Body: "unavailable"}}
	svc := &syncworker.Service{Cars: stub}

	// offset must stay uncommitted so the broker redelivers
	require.Error(t, svc.HandleCarSyncPending(context.Background(), pendingMessage(t, rental.ActionRent)))
}

func TestHandleCarSyncPending_FinalFailuresDropped(t *testing.T) {
	stub := &carClientStub{rentErr: &carsapi.StatusError{StatusCode: 400, Body: "Car already rented"}}
	svc := &syncworker.Service{Cars: stub}
	require.NoError(t, svc.HandleCarSyncPending(context.Background(), pendingMessage(t, rental.ActionRent)))

	stub = &carClientStub{returnErr: carsapi.ErrCarNotFound}
	svc = &syncworker.Service{Cars: stub}
	require.NoError(t, svc.HandleCarSyncPending(context.Background(), pendingMessage(t, rental.ActionReturn)))
}

func TestHandleCarSyncPending_IgnoresOtherEvents(t *testing.T) {
	stub := &carClientStub{}
	svc := &syncworker.Service{Cars: stub}

	env := rental.Envelope{EventID: uuid.NewString(), EventType: rental.EventRentalCreated, Payload: json.RawMessage(`{}`)}
	b, err := json.Marshal(env)
	require.NoError(t, err)

	require.NoError(t, svc.HandleCarSyncPending(context.Background(), kafkago.Message{Value: b}))
	require.Zero(t, stub.rentCalls)
	require.Zero(t, stub.returnCalls)
}

func TestHandleCarSyncPending_BadEnvelope(t *testing.T) {
	svc := &syncworker.Service{Cars: &carClientStub{}}
	require.Error(t, svc.HandleCarSyncPending(context.Background(), kafkago.Message{Value: []byte("{")}))
}
