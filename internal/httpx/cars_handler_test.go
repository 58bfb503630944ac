package httpx_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/cloudrental/go-car-rental.git/internal/cars"
	"github.com/cloudrental/go-car-rental.git/internal/httpx"
)

type memCarStore struct {
	byID map[int64]*cars.Car
}

func (s *memCarStore) List(context.Context) ([]cars.Car, error) {
	out := make([]cars.Car, 0, len(s.byID))
	for _, c := range s.byID {
		out = append(out, *c)
	}
	return out, nil
}

func (s *memCarStore) GetByID(_ context.Context, id int64) (cars.Car, error) {
	c, ok := s.byID[id]
	if !ok {
		return cars.Car{}, cars.ErrNotFound
	}
	return *c, nil
}

func (s *memCarStore) SetRented(_ context.Context, id int64, rented bool) (cars.Car, error) {
	c, ok := s.byID[id]
	if !ok {
		return cars.Car{}, cars.ErrNotFound
	}
	if c.Rented == rented {
		return cars.Car{}, cars.ErrWrongState
	}
	c.Rented = rented
	return *c, nil
}

func newCarsRouter() (*chi.Mux, *memCarStore) {
	store := &memCarStore{byID: map[int64]*cars.Car{
		1: {ID: 1, PlateNumber: "AA-111-AA", Brand: "Renault", Model: "Clio"},
		2: {ID: 2, PlateNumber: "BB-222-BB", Brand: "Peugeot", Model: "208", Rented: true},
	}}
	h := &httpx.CarsHandler{Repo: store}
	r := chi.NewRouter()
	h.Register(r)
	return r, store
}

func carsDo(r *chi.Mux, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCars_ListAndGet(t *testing.T) {
	r, _ := newCarsRouter()

	w := carsDo(r, http.MethodGet, "/cars")
	if w.Code != http.StatusOK {
		t.Fatalf("list got %d want 200", w.Code)
	}
	var list []cars.Car
	if err := json.NewDecoder(w.Body).Decode(&list); err != nil || len(list) != 2 {
		t.Fatalf("list decode err=%v len=%d", err, len(list))
	}

	w = carsDo(r, http.MethodGet, "/cars/1")
	if w.Code != http.StatusOK {
		t.Fatalf("get got %d want 200", w.Code)
	}
	var c cars.Car
	if err := json.NewDecoder(w.Body).Decode(&c); err != nil || c.PlateNumber != "AA-111-AA" {
		t.Fatalf("get decode err=%v car=%+v", err, c)
	}

	if w = carsDo(r, http.MethodGet, "/cars/9"); w.Code != http.StatusNotFound {
		t.Fatalf("unknown car got %d want 404", w.Code)
	}
}

func TestCars_RentAndReturnGuards(t *testing.T) {
	r, store := newCarsRouter()

	w := carsDo(r, http.MethodPut, "/cars/1/rent")
	if w.Code != http.StatusOK {
		t.Fatalf("rent got %d want 200", w.Code)
	}
	if !store.byID[1].Rented {
		t.Fatal("rent must set the flag")
	}

	if w = carsDo(r, http.MethodPut, "/cars/1/rent"); w.Code != http.StatusBadRequest {
		t.Fatalf("double rent got %d want 400", w.Code)
	}

	w = carsDo(r, http.MethodPut, "/cars/1/return")
	if w.Code != http.StatusOK {
		t.Fatalf("return got %d want 200", w.Code)
	}
	if store.byID[1].Rented {
		t.Fatal("return must clear the flag")
	}

	if w = carsDo(r, http.MethodPut, "/cars/1/return"); w.Code != http.StatusBadRequest {
		t.Fatalf("double return got %d want 400", w.Code)
	}

	if w = carsDo(r, http.MethodPut, "/cars/9/rent"); w.Code != http.StatusNotFound {
		t.Fatalf("unknown car rent got %d want 404", w.Code)
	}
}
