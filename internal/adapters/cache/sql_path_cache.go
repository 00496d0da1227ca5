package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"haul-turn-planner/internal/adapters/repositories"
	"haul-turn-planner/internal/platform/obs"
	"haul-turn-planner/internal/ports"
	"strings"
	"time"
)

// SQLPathCache is a SQL-backed cache of solved paths keyed by their
// inputs. It works against SQLite or Postgres depending on Dialect.
type SQLPathCache struct {
	DB      *sql.DB
	Dialect repositories.Dialect
	now     func() time.Time
}

func NewSqlitePathCache(db *sql.DB) *SQLPathCache {
	return &SQLPathCache{DB: db, Dialect: repositories.DialectSQLite, now: time.Now}
}

func NewPostgresPathCache(db *sql.DB) *SQLPathCache {
	return &SQLPathCache{DB: db, Dialect: repositories.DialectPostgres, now: time.Now}
}

// Fetch a cached path.
func (s *SQLPathCache) Get(ctx context.Context, key string) (_ ports.CachedPath, _ bool, err error) {
	defer obs.Time(ctx, "path.cache.sql.Get")(&err)

	if s.DB == nil {
		return ports.CachedPath{}, false, errors.New("path cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return ports.CachedPath{}, false, errors.New("get path cache: key must not be empty")
	}

	q := fmt.Sprintf(`
	SELECT payload
	FROM path_cache
	WHERE cache_key = %s;
	`, s.Dialect.Placeholder(1))

	var payload string
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.CachedPath{}, false, nil
	}
	if err != nil {
		return ports.CachedPath{}, false, fmt.Errorf("get path cache: query path_cache table: %w", err)
	}

	entry, err := decodePath([]byte(payload))
	if err != nil {
		return ports.CachedPath{}, false, fmt.Errorf("get path cache key=%q: %w", key, err)
	}

	return entry, true, nil
}

// Store a path, replacing any previous entry under the key.
func (s *SQLPathCache) Put(ctx context.Context, key string, entry ports.CachedPath) (err error) {
	defer obs.Time(ctx, "path.cache.sql.Put")(&err)

	if s.DB == nil {
		return errors.New("path cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return errors.New("insert path cache: key must not be empty")
	}

	payload, err := encodePath(entry)
	if err != nil {
		return fmt.Errorf("insert path cache: %w", err)
	}

	now := time.Now
	if s.now != nil {
		now = s.now
	}

	q := fmt.Sprintf(`
	INSERT INTO path_cache (cache_key, family, total_length_m, payload, created_at)
	VALUES (%s, %s, %s, %s, %s)
	ON CONFLICT (cache_key) DO UPDATE
	SET family = EXCLUDED.family,
		total_length_m = EXCLUDED.total_length_m,
		payload = EXCLUDED.payload,
		created_at = EXCLUDED.created_at;
	`, s.Dialect.Placeholder(1), s.Dialect.Placeholder(2), s.Dialect.Placeholder(3), s.Dialect.Placeholder(4), s.Dialect.Placeholder(5))

	if _, err := s.DB.ExecContext(
		ctx, q,
		key, string(entry.Path.Family()), entry.Path.TotalLengthM(), string(payload), now().Unix(),
	); err != nil {
		return fmt.Errorf("insert path cache key=%q: %w", key, err)
	}

	return nil
}

// Delete entries older than maxAge and report how many were removed.
func (s *SQLPathCache) Prune(ctx context.Context, maxAge time.Duration) (_ int64, err error) {
	defer obs.Time(ctx, "path.cache.sql.Prune")(&err)

	if s.DB == nil {
		return 0, errors.New("path cache: db is nil")
	}

	now := time.Now
	if s.now != nil {
		now = s.now
	}
	cutoff := now().Add(-maxAge).Unix()

	q := fmt.Sprintf(`DELETE FROM path_cache WHERE created_at < %s;`, s.Dialect.Placeholder(1))
	res, err := s.DB.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune path cache: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune path cache: rows affected: %w", err)
	}
	return n, nil
}
