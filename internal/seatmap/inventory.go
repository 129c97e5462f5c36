package seatmap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Inventory answers which seats of a flight are already taken
type Inventory interface {
	Occupied(ctx context.Context, flightID int64) (map[string]bool, error)
}

// SyntheticInventory is the demo placeholder: a seat is taken when the sum of the
// character codes of its label is 0 or 1 mod 10. Roughly a fifth of the grid ends up taken
// and the answer never changes for a label. It ignores the flight entirely.
type SyntheticInventory struct{}

// Occupied implements Inventory
func (SyntheticInventory) Occupied(_ context.Context, _ int64) (map[string]bool, error) {
	out := make(map[string]bool)
	for _, label := range Labels() {
		if SyntheticOccupied(label) {
			out[label] = true
		}
	}
	return out, nil
}

// SyntheticOccupied is the per-label hash behind SyntheticInventory
func SyntheticOccupied(label string) bool {
	sum := 0
	for i := 0; i < len(label); i++ {
		sum += int(label[i])
	}
	return sum%10 < 2
}

// Querier is the part of pgxpool.Pool the inventory needs
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresInventory reads seat state from the seats table of the booking database
type PostgresInventory struct {
	db Querier
}

// NewPostgresInventory creates an inventory backed by db (usually a *pgxpool.Pool)
func NewPostgresInventory(db Querier) *PostgresInventory {
	return &PostgresInventory{db: db}
}

// Occupied returns booked seats and seats whose hold has not expired yet
func (p *PostgresInventory) Occupied(ctx context.Context, flightID int64) (map[string]bool, error) {
	query := `
		SELECT seat_number
		FROM seats
		WHERE flight_id = $1
		  AND (status = 'booked' OR (status = 'held' AND held_until > NOW()))
	`

	rows, err := p.db.Query(ctx, query, flightID)
	if err != nil {
		return nil, fmt.Errorf("failed to query seats: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var seatNumber string
		if err := rows.Scan(&seatNumber); err != nil {
			return nil, fmt.Errorf("failed to scan seat: %w", err)
		}
		if label, err := Normalize(seatNumber); err == nil {
			out[label] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read seats: %w", err)
	}
	return out, nil
}
