package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"vrptw-route-service/internal/domain"
	"vrptw-route-service/internal/platform/db"
	"vrptw-route-service/internal/platform/obs"
)

// SQL-backed implementation of the DeliveryRepository port.
// The dialect only changes bind parameter syntax.
type SQLDeliveryRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLDeliveryRepository(conn *sql.DB, dialect db.Dialect) *SQLDeliveryRepository {
	return &SQLDeliveryRepository{DB: conn, Dialect: dialect}
}

// Return all deliveries stored in the database.
func (s *SQLDeliveryRepository) ListDeliveries(ctx context.Context) (_ []domain.Delivery, err error) {
	defer obs.Time(ctx, "deliveries.List")(&err)

	if s.DB == nil {
		return nil, errors.New("delivery repository: DB is nil")
	}

	query := `
	SELECT
		delivery_id,
		x,
		y,
		demand,
		earliest,
		latest
	FROM deliveries
	ORDER BY delivery_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: query deliveries table: %w", err)
	}
	defer rows.Close()

	deliveries := make([]domain.Delivery, 0, 64)
	for rows.Next() {
		var d domain.Delivery
		err := rows.Scan(
			&d.ID,
			&d.Location.X,
			&d.Location.Y,
			&d.Demand,
			&d.Window.Earliest,
			&d.Window.Latest,
		)
		if err != nil {
			return nil, fmt.Errorf("list deliveries: scan row: %w", err)
		}
		deliveries = append(deliveries, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list deliveries: row iteration: %w", err)
	}

	return deliveries, nil
}

// Insert or replace deliveries in a single transaction.
func (s *SQLDeliveryRepository) SaveDeliveries(ctx context.Context, deliveries []domain.Delivery) error {
	if s.DB == nil {
		return errors.New("delivery repository: DB is nil")
	}

	if len(deliveries) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save deliveries: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// ON CONFLICT ... DO UPDATE is understood by both SQLite (>= 3.24) and Postgres.
	query := fmt.Sprintf(`
	INSERT INTO deliveries (
		delivery_id,
		x,
		y,
		demand,
		earliest,
		latest
	)
	VALUES (%s)
	ON CONFLICT (delivery_id) DO UPDATE
	SET x = EXCLUDED.x,
		y = EXCLUDED.y,
		demand = EXCLUDED.demand,
		earliest = EXCLUDED.earliest,
		latest = EXCLUDED.latest;
	`, s.Dialect.Placeholders(1, 6))

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("save deliveries: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range deliveries {
		id := strings.TrimSpace(d.ID)
		if id == "" {
			return errors.New("save deliveries: empty delivery id")
		}

		_, err := stmt.ExecContext(ctx, id, d.Location.X, d.Location.Y, d.Demand, d.Window.Earliest, d.Window.Latest)
		if err != nil {
			return fmt.Errorf("save deliveries: insert delivery_id=%q: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save deliveries: commit tx: %w", err)
	}

	return nil
}
