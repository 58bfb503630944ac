// Package carsapi is the HTTP client for the cars service. The rental API
// never owns the rented flag; it only asks for transitions through this
// client and treats any non-2xx answer as a reported failure, not a fault.
package carsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cloudrental/go-car-rental.git/internal/cars"
)

// ErrCarNotFound marks a 404 from the cars service: the referenced car does
// not exist. Every other failure mode comes back as a *StatusError or a
// wrapped transport error.
var ErrCarNotFound = errors.New("car not found")

// StatusError is a non-2xx answer other than 404.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cars service status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the failure is worth another attempt. 4xx answers
// are final (e.g. the flag is already in the requested state).
func (e *StatusError) Retryable() bool { return e.StatusCode >= 500 }

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *Client) FetchCar(ctx context.Context, id int64) (cars.Car, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/cars/%d", c.BaseURL, id), nil)
	if err != nil {
		return cars.Car{}, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return cars.Car{}, fmt.Errorf("cars service: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return cars.Car{}, ErrCarNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return cars.Car{}, statusErr(resp)
	}

	var car cars.Car
	if err := json.NewDecoder(resp.Body).Decode(&car); err != nil {
		return cars.Car{}, fmt.Errorf("cars service: decode: %w", err)
	}
	return car, nil
}

func (c *Client) MarkRented(ctx context.Context, id int64) error {
	return c.put(ctx, fmt.Sprintf("%s/cars/%d/rent", c.BaseURL, id))
}

func (c *Client) MarkReturned(ctx context.Context, id int64) error {
	return c.put(ctx, fmt.Sprintf("%s/cars/%d/return", c.BaseURL, id))
}

func (c *Client) put(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("cars service: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrCarNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return statusErr(resp)
	}
	return nil
}

func statusErr(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
}
