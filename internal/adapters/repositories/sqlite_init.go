package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
)

// Initialize the database schema. The DDL is valid for both SQLite and
// Postgres.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createMovementsQuery := `
	CREATE TABLE IF NOT EXISTS intersection_movements (
		intersection_id TEXT NOT NULL,
		from_road_id TEXT NOT NULL,
		to_road_id TEXT NOT NULL,
		start_x DOUBLE PRECISION NOT NULL,
		start_y DOUBLE PRECISION NOT NULL,
		start_heading_rad DOUBLE PRECISION NOT NULL,
		goal_x DOUBLE PRECISION NOT NULL,
		goal_y DOUBLE PRECISION NOT NULL,
		goal_heading_rad DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (intersection_id, from_road_id, to_road_id)
	);
	`

	createPathCacheQuery := `
	CREATE TABLE IF NOT EXISTS path_cache (
		cache_key TEXT PRIMARY KEY,
		family TEXT NOT NULL,
		total_length_m DOUBLE PRECISION NOT NULL,
		payload TEXT NOT NULL,
		created_at BIGINT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_path_cache_created_at
	ON path_cache(created_at);
	`

	statements := []string{
		createMovementsQuery,
		createPathCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Seed pose with the heading in degrees, as surveyed.
type PoseSeed struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	HeadingDeg float64 `json:"heading_deg"`
}

type MovementSeed struct {
	IntersectionID string   `json:"intersection_id"`
	FromRoadID     string   `json:"from_road_id"`
	ToRoadID       string   `json:"to_road_id"`
	Start          PoseSeed `json:"start"`
	Goal           PoseSeed `json:"goal"`
}

// ReadMovementSeeds parses a JSON seed file with trimmed ids. Every
// movement needs an intersection id and both road ids.
func ReadMovementSeeds(jsonPath string) ([]MovementSeed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read movement seeds %q: %w", jsonPath, err)
	}

	var data []MovementSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("read movement seeds %q: parse json: %w", jsonPath, err)
	}

	rows := make([]MovementSeed, 0, len(data))
	for i, item := range data {
		item.IntersectionID = strings.TrimSpace(item.IntersectionID)
		item.FromRoadID = strings.TrimSpace(item.FromRoadID)
		item.ToRoadID = strings.TrimSpace(item.ToRoadID)
		if item.IntersectionID == "" || item.FromRoadID == "" || item.ToRoadID == "" {
			return nil, fmt.Errorf("read movement seeds: item at index %d: intersection and road ids cannot be empty", i+1)
		}
		rows = append(rows, item)
	}
	return rows, nil
}

// Populate the database with intersection movements from a JSON file.
// Existing movements with the same key are replaced.
func SeedFromJSON(db *sql.DB, jsonPath string, dialect Dialect) error {
	if db == nil {
		return errors.New("seed movements: DB is nil")
	}

	rows, err := ReadMovementSeeds(jsonPath)
	if err != nil {
		return fmt.Errorf("seed movements: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed movements: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ph := make([]string, 9)
	for i := range ph {
		ph[i] = dialect.Placeholder(i + 1)
	}
	query := fmt.Sprintf(`
	INSERT INTO intersection_movements (
		intersection_id,
		from_road_id,
		to_road_id,
		start_x,
		start_y,
		start_heading_rad,
		goal_x,
		goal_y,
		goal_heading_rad
	)
	VALUES (%s)
	ON CONFLICT (intersection_id, from_road_id, to_road_id) DO UPDATE
	SET start_x = EXCLUDED.start_x,
		start_y = EXCLUDED.start_y,
		start_heading_rad = EXCLUDED.start_heading_rad,
		goal_x = EXCLUDED.goal_x,
		goal_y = EXCLUDED.goal_y,
		goal_heading_rad = EXCLUDED.goal_heading_rad;
	`, strings.Join(ph, ", "))

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed movements: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range rows {
		if _, err := stmt.Exec(
			m.IntersectionID, m.FromRoadID, m.ToRoadID,
			m.Start.X, m.Start.Y, degToRad(m.Start.HeadingDeg),
			m.Goal.X, m.Goal.Y, degToRad(m.Goal.HeadingDeg),
		); err != nil {
			return fmt.Errorf("seed movements: insert %s %s -> %s: %w", m.IntersectionID, m.FromRoadID, m.ToRoadID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed movements: commit tx: %w", err)
	}

	return nil
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180 }
