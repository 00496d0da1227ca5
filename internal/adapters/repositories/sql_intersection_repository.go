package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"haul-turn-planner/internal/domain"
	"haul-turn-planner/internal/platform/obs"
)

// SQL-backed implementation of the IntersectionProvider port.
// The same queries serve SQLite and Postgres; only placeholders differ.
type SQLIntersectionRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSqliteIntersectionRepository(db *sql.DB) *SQLIntersectionRepository {
	return &SQLIntersectionRepository{DB: db, Dialect: DialectSQLite}
}

func NewPostgresIntersectionRepository(db *sql.DB) *SQLIntersectionRepository {
	return &SQLIntersectionRepository{DB: db, Dialect: DialectPostgres}
}

const movementColumns = `
		intersection_id,
		from_road_id,
		to_road_id,
		start_x,
		start_y,
		start_heading_rad,
		goal_x,
		goal_y,
		goal_heading_rad`

// Return one movement through an intersection.
func (s *SQLIntersectionRepository) GetMovement(
	ctx context.Context,
	intersectionID string,
	fromRoadID string,
	toRoadID string,
) (_ domain.Movement, err error) {
	defer obs.Time(ctx, "movements.GetMovement")(&err)

	if s.DB == nil {
		return domain.Movement{}, errors.New("intersection repository: DB is nil")
	}

	q := fmt.Sprintf(`
	SELECT %s
	FROM intersection_movements
	WHERE intersection_id = %s
		AND from_road_id = %s
		AND to_road_id = %s;
	`, movementColumns, s.Dialect.Placeholder(1), s.Dialect.Placeholder(2), s.Dialect.Placeholder(3))

	row := s.DB.QueryRowContext(ctx, q, intersectionID, fromRoadID, toRoadID)
	m, err := scanMovement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Movement{}, fmt.Errorf(
			"get movement: intersection %q %s -> %s: %w",
			intersectionID, fromRoadID, toRoadID, domain.ErrMovementNotFound,
		)
	}
	if err != nil {
		return domain.Movement{}, fmt.Errorf("get movement: scan row: %w", err)
	}

	return m, nil
}

// Return every movement of an intersection ordered by road ids.
func (s *SQLIntersectionRepository) ListMovements(ctx context.Context, intersectionID string) (_ []domain.Movement, err error) {
	defer obs.Time(ctx, "movements.ListMovements")(&err)

	if s.DB == nil {
		return nil, errors.New("intersection repository: DB is nil")
	}

	q := fmt.Sprintf(`
	SELECT %s
	FROM intersection_movements
	WHERE intersection_id = %s
	ORDER BY from_road_id, to_road_id;
	`, movementColumns, s.Dialect.Placeholder(1))

	rows, err := s.DB.QueryContext(ctx, q, intersectionID)
	if err != nil {
		return nil, fmt.Errorf("list movements: query intersection_movements table: %w", err)
	}
	defer rows.Close()

	movements := make([]domain.Movement, 0, 16)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("list movements: scan row: %w", err)
		}
		movements = append(movements, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list movements: row iteration: %w", err)
	}

	return movements, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovement(r rowScanner) (domain.Movement, error) {
	var m domain.Movement
	err := r.Scan(
		&m.IntersectionID, &m.FromRoadID, &m.ToRoadID,
		&m.Start.X, &m.Start.Y, &m.Start.Theta,
		&m.Goal.X, &m.Goal.Y, &m.Goal.Theta,
	)
	return m, err
}
