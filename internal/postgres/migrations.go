package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const rentalsSQL = `
CREATE TABLE IF NOT EXISTS rentals (
	id BIGSERIAL PRIMARY KEY,
	customer TEXT NOT NULL,
	car_id BIGINT NOT NULL,
	start_date DATE NOT NULL,
	end_date DATE NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rentals_car_id ON rentals(car_id);
`

const carsSQL = `
CREATE TABLE IF NOT EXISTS cars (
	id BIGSERIAL PRIMARY KEY,
	plate_number TEXT UNIQUE NOT NULL,
	brand TEXT NOT NULL,
	model TEXT NOT NULL,
	rented BOOLEAN NOT NULL DEFAULT FALSE
);

INSERT INTO cars (plate_number, brand, model) VALUES
	('AA-111-AA', 'Renault', 'Clio'),
	('BB-222-BB', 'Peugeot', '208'),
	('CC-333-CC', 'Tesla', 'Model 3')
ON CONFLICT (plate_number) DO NOTHING;
`

func MigrateRentals(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, rentalsSQL)
	return err
}

// MigrateCars creates the cars table and seeds the demo fleet.
func MigrateCars(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, carsSQL)
	return err
}
