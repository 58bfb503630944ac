package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cloudrental/go-car-rental.git/internal/cars"
)

type CarStore interface {
	List(ctx context.Context) ([]cars.Car, error)
	GetByID(ctx context.Context, id int64) (cars.Car, error)
	SetRented(ctx context.Context, id int64, rented bool) (cars.Car, error)
}

type CarsHandler struct {
	Repo CarStore
}

func (h *CarsHandler) Register(r *chi.Mux) {
	r.Get("/cars", h.listCars)
	r.Get("/cars/{id}", h.getCar)
	r.Put("/cars/{id}/rent", h.rentCar)
	r.Put("/cars/{id}/return", h.returnCar)
}

func (h *CarsHandler) listCars(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Repo.List(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store error"})
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CarsHandler) getCar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	car, err := h.Repo.GetByID(ctx, id)
	if errors.Is(err, cars.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Car not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store error"})
		return
	}
	writeJSON(w, http.StatusOK, car)
}

func (h *CarsHandler) rentCar(w http.ResponseWriter, r *http.Request) {
	h.setRented(w, r, true, "Car already rented")
}

func (h *CarsHandler) returnCar(w http.ResponseWriter, r *http.Request) {
	h.setRented(w, r, false, "Car is not rented")
}

func (h *CarsHandler) setRented(w http.ResponseWriter, r *http.Request, rented bool, wrongState string) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	car, err := h.Repo.SetRented(ctx, id, rented)
	if errors.Is(err, cars.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Car not found"})
		return
	}
	if errors.Is(err, cars.ErrWrongState) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": wrongState})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store error"})
		return
	}
	writeJSON(w, http.StatusOK, car)
}
