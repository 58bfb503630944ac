package rental

import (
	"encoding/json"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day. Rentals are booked in whole days with inclusive
// bounds on both ends.
type Date struct {
	time.Time
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string { return d.Format(dateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Overlaps reports whether the closed ranges [aStart,aEnd] and [bStart,bEnd]
// share at least one day: aStart <= bEnd && aEnd >= bStart. Ranges that touch
// on a boundary day overlap; the shared day counts as rented in both.
func Overlaps(aStart, aEnd, bStart, bEnd Date) bool {
	return !aStart.After(bEnd.Time) && !aEnd.Before(bStart.Time)
}

type Rental struct {
	ID        int64  `json:"id"`
	Customer  string `json:"customer"`
	CarID     int64  `json:"carId"`
	StartDate Date   `json:"startDate"`
	EndDate   Date   `json:"endDate"`
}
