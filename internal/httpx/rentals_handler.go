package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/cloudrental/go-car-rental.git/internal/cars"
	"github.com/cloudrental/go-car-rental.git/internal/carsapi"
	kafkax "github.com/cloudrental/go-car-rental.git/internal/kafka"
	"github.com/cloudrental/go-car-rental.git/internal/redisx"
	"github.com/cloudrental/go-car-rental.git/internal/rental"
)

// RentalStore is the durable side of the booking workflow. Implemented by
// rental.Repo.
type RentalStore interface {
	HasOverlap(ctx context.Context, carID int64, start, end rental.Date) (bool, error)
	Create(ctx context.Context, rc rental.Rental) (rental.Rental, error)
	GetByID(ctx context.Context, id int64) (rental.Rental, error)
	List(ctx context.Context) ([]rental.Rental, error)
	DeleteByID(ctx context.Context, id int64) error
}

// CarClient is the remote side: the cars service owns the rented flag, this
// API only requests transitions on it. Implemented by carsapi.Client.
type CarClient interface {
	FetchCar(ctx context.Context, id int64) (cars.Car, error)
	MarkRented(ctx context.Context, id int64) error
	MarkReturned(ctx context.Context, id int64) error
}

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type RentalsHandler struct {
	Repo         RentalStore
	Cars         CarClient
	Events       Publisher // rental.created
	CancelEvents Publisher // rental.cancelled
	SyncEvents   Publisher // rental.carsync.pending
	Redis        *redis.Client
	Service      string
}

type CreateRentalReq struct {
	Customer  string      `json:"customer"`
	CarID     int64       `json:"carId"`
	StartDate rental.Date `json:"startDate"`
	EndDate   rental.Date `json:"endDate"`
}

func (h *RentalsHandler) Register(r *chi.Mux) {
	r.Post("/rentals", h.createRental)
	r.Get("/rentals", h.listRentals)
	r.Get("/rentals/{id}", h.getRental)
	r.Delete("/rentals/{id}", h.deleteRental)
}

// createRental runs the booking workflow step by step: validate, check the
// car exists, check for a date conflict, insert the rental, then ask the cars
// service to flip the rented flag. The insert is the commit point: whatever
// happens to the flag call afterwards, the caller gets the persisted rental.
func (h *RentalsHandler) createRental(w http.ResponseWriter, r *http.Request) {
	var req CreateRentalReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Customer == "" || req.CarID == 0 || req.StartDate.IsZero() || req.EndDate.IsZero() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}

	// the store write and the flag call must finish even if the caller goes
	// away mid-request
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 10*time.Second)
	defer cancel()

	if _, err := h.Cars.FetchCar(ctx, req.CarID); err != nil {
		if errors.Is(err, carsapi.ErrCarNotFound) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "car does not exist"})
			return
		}
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "cars service unavailable"})
		return
	}

	conflict, err := h.Repo.HasOverlap(ctx, req.CarID, req.StartDate, req.EndDate)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store error"})
		return
	}
	if conflict {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "car already rented during this period"})
		return
	}

	rc, err := h.Repo.Create(ctx, rental.Rental{
		Customer:  req.Customer,
		CarID:     req.CarID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if errors.Is(err, rental.ErrDateConflict) {
		// a concurrent booking won the advisory lock first
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "car already rented during this period"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store error"})
		return
	}

	trace := r.Header.Get("X-Request-Id")
	h.syncCar(ctx, rc.ID, rc.CarID, rental.ActionRent, trace)
	h.publish(h.Events, rental.EventRentalCreated, rc.CarID, rc.ID, trace,
		rental.RentalCreatedPayload{Rental: rc})
	h.cacheSet(ctx, rc)

	writeJSON(w, http.StatusCreated, rc)
}

// deleteRental mirrors creation: the row delete is the commit point, the
// return call on the cars service is best effort.
func (h *RentalsHandler) deleteRental(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 10*time.Second)
	defer cancel()

	rc, err := h.Repo.GetByID(ctx, id)
	if errors.Is(err, rental.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "rental not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store error"})
		return
	}

	if err := h.Repo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, rental.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "rental not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store error"})
		return
	}

	trace := r.Header.Get("X-Request-Id")
	h.syncCar(ctx, id, rc.CarID, rental.ActionReturn, trace)
	h.publish(h.CancelEvents, rental.EventRentalCancelled, rc.CarID, id, trace,
		rental.RentalCancelledPayload{RentalID: id, CarID: rc.CarID})
	h.cacheDel(ctx, id)

	writeJSON(w, http.StatusOK, map[string]any{"message": "rental cancelled", "id": id})
}

func (h *RentalsHandler) listRentals(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Repo.List(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store error"})
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *RentalsHandler) getRental(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if h.Redis != nil {
		key := fmt.Sprintf(redisx.KeyRentalCache, id)
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			writeJSON(w, http.StatusOK, json.RawMessage(s))
			return
		}
	}

	rc, err := h.Repo.GetByID(ctx, id)
	if errors.Is(err, rental.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "rental not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store error"})
		return
	}
	h.cacheSet(ctx, rc)
	writeJSON(w, http.StatusOK, rc)
}

// syncCar asks the cars service for a flag transition. The rental row is
// authoritative; a failure here is logged, queued for the sync worker, and
// never changes the response already decided at the commit point.
func (h *RentalsHandler) syncCar(ctx context.Context, rentalID, carID int64, action, trace string) {
	var err error
	switch action {
	case rental.ActionRent:
		err = h.Cars.MarkRented(ctx, carID)
	default:
		err = h.Cars.MarkReturned(ctx, carID)
	}
	if err == nil {
		log.Printf("car sync %s ok: rental=%d car=%d", action, rentalID, carID)
		return
	}
	log.Printf("car sync %s failed, rental=%d car=%d: %v", action, rentalID, carID, err)
	h.publish(h.SyncEvents, rental.EventCarSyncPending, carID, rentalID, trace,
		rental.CarSyncPendingPayload{RentalID: rentalID, CarID: carID, Action: action, Reason: err.Error()})
}

func (h *RentalsHandler) publish(p Publisher, eventType string, carID, rentalID int64, trace string, payload any) {
	if p == nil {
		return
	}
	ev := rental.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       trace,
		CorrelationID: strconv.FormatInt(rentalID, 10),
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(rental.PartitionKey(carID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *RentalsHandler) cacheSet(ctx context.Context, rc rental.Rental) {
	if h.Redis == nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyRentalCache, rc.ID)
	_ = h.Redis.Set(ctx, key, kafkax.MustMarshal(rc), redisx.TTLRentalCache).Err()
}

func (h *RentalsHandler) cacheDel(ctx context.Context, id int64) {
	if h.Redis == nil {
		return
	}
	_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyRentalCache, id)).Err()
}
