package rental

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("rental not found")
	ErrDateConflict = errors.New("car already rented during this period")
)

type Repo struct{ DB *pgxpool.Pool }

const overlapSQL = `
	SELECT EXISTS(
		SELECT 1 FROM rentals
		WHERE car_id = $1 AND start_date <= $3 AND end_date >= $2
	)`

// HasOverlap runs the conflict predicate as a single filtered query against
// the store; the rentals table is the only source of truth for bookings.
func (r *Repo) HasOverlap(ctx context.Context, carID int64, start, end Date) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, overlapSQL, carID, start.Time, end.Time).Scan(&exists)
	return exists, err
}

// Create inserts the rental unless its dates overlap an existing booking for
// the same car. Check and insert run in one transaction holding an advisory
// lock keyed by car id, so two concurrent requests for the same car cannot
// both pass the check.
func (r *Repo) Create(ctx context.Context, rc Rental) (Rental, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Rental{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, rc.CarID); err != nil {
		return Rental{}, err
	}

	var exists bool
	if err := tx.QueryRow(ctx, overlapSQL, rc.CarID, rc.StartDate.Time, rc.EndDate.Time).Scan(&exists); err != nil {
		return Rental{}, err
	}
	if exists {
		return Rental{}, ErrDateConflict
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO rentals(customer, car_id, start_date, end_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		rc.Customer, rc.CarID, rc.StartDate.Time, rc.EndDate.Time,
	).Scan(&rc.ID)
	if err != nil {
		return Rental{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Rental{}, err
	}
	return rc, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (Rental, error) {
	var out Rental
	err := r.DB.QueryRow(ctx, `
		SELECT id, customer, car_id, start_date, end_date
		FROM rentals WHERE id = $1`, id,
	).Scan(&out.ID, &out.Customer, &out.CarID, &out.StartDate.Time, &out.EndDate.Time)
	if errors.Is(err, pgx.ErrNoRows) {
		return Rental{}, ErrNotFound
	}
	if err != nil {
		return Rental{}, err
	}
	return out, nil
}

func (r *Repo) List(ctx context.Context) ([]Rental, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, customer, car_id, start_date, end_date
		FROM rentals ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Rental, 0)
	for rows.Next() {
		var rc Rental
		if err := rows.Scan(&rc.ID, &rc.Customer, &rc.CarID, &rc.StartDate.Time, &rc.EndDate.Time); err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

func (r *Repo) DeleteByID(ctx context.Context, id int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM rentals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
