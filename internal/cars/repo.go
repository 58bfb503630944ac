package cars

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound   = errors.New("car not found")
	ErrWrongState = errors.New("car is not in the expected rental state")
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) List(ctx context.Context) ([]Car, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, plate_number, brand, model, rented
		FROM cars ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Car, 0)
	for rows.Next() {
		var c Car
		if err := rows.Scan(&c.ID, &c.PlateNumber, &c.Brand, &c.Model, &c.Rented); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) GetByID(ctx context.Context, id int64) (Car, error) {
	var c Car
	err := r.DB.QueryRow(ctx, `
		SELECT id, plate_number, brand, model, rented
		FROM cars WHERE id = $1`, id,
	).Scan(&c.ID, &c.PlateNumber, &c.Brand, &c.Model, &c.Rented)
	if errors.Is(err, pgx.ErrNoRows) {
		return Car{}, ErrNotFound
	}
	if err != nil {
		return Car{}, err
	}
	return c, nil
}

// SetRented flips the rented flag, guarded so a car cannot be rented twice or
// returned when it is not out. The guard lives in the UPDATE predicate.
func (r *Repo) SetRented(ctx context.Context, id int64, rented bool) (Car, error) {
	var c Car
	err := r.DB.QueryRow(ctx, `
		UPDATE cars SET rented = $2
		WHERE id = $1 AND rented = $3
		RETURNING id, plate_number, brand, model, rented`,
		id, rented, !rented,
	).Scan(&c.ID, &c.PlateNumber, &c.Brand, &c.Model, &c.Rented)
	if errors.Is(err, pgx.ErrNoRows) {
		// distinguish unknown car from a flag already in the target state
		if _, gerr := r.GetByID(ctx, id); gerr != nil {
			return Car{}, gerr
		}
		return Car{}, ErrWrongState
	}
	if err != nil {
		return Car{}, err
	}
	return c, nil
}
