/*
Package sqlite provides a SQLite-backed resolution memo and log.

PURPOSE:
  Implements resolve.Memo and resolve.Log using SQLite so cached outputs
  and the audit trail survive restarts. Queries are built with goqu's
  sqlite3 dialect.

INTERFACES IMPLEMENTED:
  resolve.Memo: Cached outputs keyed by fingerprint, reference, location
  resolve.Log:  Append-only record of every resolution attempt

APPEND-ONLY ENFORCEMENT:
  - No UPDATE or DELETE statements on resolution_log
  - Record IDs are unique; a repeated ID is ErrDuplicateRecord

KEY TABLES:
  resolutions:    (fingerprint, reference, location) -> output_json
  resolution_log: One row per attempt, ordered by seq

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  store, err := sqlite.New("./data/algebra.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  r := resolve.New(resolve.WithMemo(store), resolve.WithLog(store))

SEE ALSO:
  - resolve/store.go: Interface definitions
  - resolve/memo/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"sync"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/warp/value-algebra/resolve"
	"github.com/warp/value-algebra/values"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var dialect = goqu.Dialect("sqlite3")

// Store implements resolve.Memo and resolve.Log using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	// One connection: ":memory:" databases are per connection.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to migrate database")
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Memoized outputs
	CREATE TABLE IF NOT EXISTS resolutions (
		fingerprint TEXT NOT NULL,
		reference TEXT NOT NULL,
		location TEXT NOT NULL,
		dimension TEXT NOT NULL,
		output_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (fingerprint, reference, location)
	);

	-- Resolution attempts (append-only)
	CREATE TABLE IF NOT EXISTS resolution_log (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		fingerprint TEXT NOT NULL,
		reference TEXT NOT NULL,
		location TEXT NOT NULL,
		dimension TEXT NOT NULL DEFAULT '',
		outcome TEXT NOT NULL,
		error TEXT,
		cached BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_resolution_log_fingerprint
		ON resolution_log(fingerprint);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// MEMO (resolve.Memo interface)
// =============================================================================

// Get returns the cached output for key.
func (s *Store) Get(ctx context.Context, key resolve.Key) (resolve.Output, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query, args, err := dialect.From("resolutions").
		Prepared(true).
		Select("output_json").
		Where(goqu.Ex{
			"fingerprint": key.Fingerprint,
			"reference":   formatTime(key.Reference),
			"location":    key.Location,
		}).
		ToSQL()
	if err != nil {
		return resolve.Output{}, false, errors.Wrap(err, "build memo query")
	}

	var raw string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if stderrors.Is(err, sql.ErrNoRows) {
		return resolve.Output{}, false, nil
	}
	if err != nil {
		return resolve.Output{}, false, errors.Wrap(err, "failed to read memo")
	}

	var out resolve.Output
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return resolve.Output{}, false, errors.Wrap(err, "failed to decode memo output")
	}
	return out, true, nil
}

// Put caches out. An existing entry for key is kept.
func (s *Store) Put(ctx context.Context, key resolve.Key, out resolve.Output) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(out)
	if err != nil {
		return errors.Wrap(err, "failed to encode memo output")
	}
	query, args, err := dialect.Insert("resolutions").
		Prepared(true).
		Rows(goqu.Record{
			"fingerprint": key.Fingerprint,
			"reference":   formatTime(key.Reference),
			"location":    key.Location,
			"dimension":   out.Dimension.String(),
			"output_json": string(raw),
			"created_at":  formatTime(time.Now()),
		}).
		OnConflict(goqu.DoNothing()).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build memo insert")
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "failed to write memo")
	}
	return nil
}

// =============================================================================
// LOG (resolve.Log interface)
// =============================================================================

// Append adds a record. Append-only.
func (s *Store) Append(ctx context.Context, r resolve.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dimension := ""
	if r.Dimension != 0 {
		dimension = r.Dimension.String()
	}
	query, args, err := dialect.Insert("resolution_log").
		Prepared(true).
		Rows(goqu.Record{
			"id":          r.ID.String(),
			"fingerprint": r.Fingerprint,
			"reference":   formatTime(r.Reference),
			"location":    r.Location,
			"dimension":   dimension,
			"outcome":     string(r.Outcome),
			"error":       nullString(r.Error),
			"cached":      r.Cached,
			"created_at":  formatTime(r.CreatedAt),
		}).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build log insert")
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueConstraintError(err) {
			return resolve.ErrDuplicateRecord
		}
		return errors.Wrap(err, "failed to append resolution record")
	}
	return nil
}

// Recent returns up to limit records, newest first. limit <= 0 returns all.
func (s *Store) Recent(ctx context.Context, limit int) ([]resolve.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ds := dialect.From("resolution_log").
		Prepared(true).
		Select("id", "fingerprint", "reference", "location", "dimension", "outcome", "error", "cached", "created_at").
		Order(goqu.I("seq").Desc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build log query")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query resolution log")
	}
	defer rows.Close()

	var records []resolve.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func scanRecord(rows *sql.Rows) (resolve.Record, error) {
	var (
		r                                            resolve.Record
		id, reference, dimension, outcome, createdAt string
		errText                                      sql.NullString
	)
	if err := rows.Scan(&id, &r.Fingerprint, &reference, &r.Location, &dimension, &outcome, &errText, &r.Cached, &createdAt); err != nil {
		return resolve.Record{}, errors.Wrap(err, "failed to scan resolution record")
	}

	var err error
	if r.ID, err = uuid.Parse(id); err != nil {
		return resolve.Record{}, errors.Wrapf(err, "record id %q", id)
	}
	if r.Reference, err = parseTime(reference); err != nil {
		return resolve.Record{}, err
	}
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return resolve.Record{}, err
	}
	if dimension != "" {
		var k values.Kind
		if err := k.UnmarshalText([]byte(dimension)); err != nil {
			return resolve.Record{}, errors.Wrap(err, "record dimension")
		}
		r.Dimension = k
	}
	r.Outcome = resolve.Outcome(outcome)
	r.Error = errText.String
	return r, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "stored time %q", s)
	}
	return t, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	var se sqlite3.Error
	if !stderrors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

var (
	_ resolve.Memo = (*Store)(nil)
	_ resolve.Log  = (*Store)(nil)
)
