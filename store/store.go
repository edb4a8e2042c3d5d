// Package store archives tracks in a SQLite database so a recording set
// only has to be parsed once.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/globetrotter-project/globetrotter/track"
)

const schema = `
CREATE TABLE IF NOT EXISTS tracks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	source TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS positions (
	track_id INTEGER NOT NULL REFERENCES tracks(id) ON DELETE CASCADE,
	utc TEXT NOT NULL,
	lat REAL NOT NULL,
	lon REAL NOT NULL,
	alt REAL,
	heading REAL,
	speed REAL,
	image_ref TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS positions_track_utc ON positions(track_id, utc);
`

// Store is an open track archive.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the archive at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	// WAL keeps readers usable while a conversion run is inserting.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the archive.
func (s *Store) Close() error {
	return s.db.Close()
}

// transaction executes fn within a transaction, rolling back on error.
func (s *Store) transaction(fn func(*sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// SaveTrack archives one track under the given source label and returns
// its row id. The whole track is inserted in a single transaction.
func (s *Store) SaveTrack(t *track.Track, source string) (int64, error) {
	if t.Len() == 0 {
		return 0, track.ErrEmptyTrack
	}
	var id int64
	err := s.transaction(func(tx *sql.Tx) error {
		res, err := tx.Exec("INSERT INTO tracks(name, source) VALUES(?, ?)", t.Name, source)
		if err != nil {
			return fmt.Errorf("insert track: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("track id: %w", err)
		}
		stmt, err := tx.Prepare(
			"INSERT INTO positions(track_id, utc, lat, lon, alt, heading, speed, image_ref) VALUES(?, ?, ?, ?, ?, ?, ?, ?)")
		if err != nil {
			return fmt.Errorf("prepare position insert: %w", err)
		}
		defer stmt.Close()
		for p := range t.Positions() {
			_, err := stmt.Exec(id, p.Time.UTC().Format(time.RFC3339Nano),
				p.Lat, p.Lon, optional(p.AltM), optional(p.HeadingDeg), optional(p.SpeedKt), p.ImageRef)
			if err != nil {
				return fmt.Errorf("insert position: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// LoadTrack reads one archived track back in chronological order.
func (s *Store) LoadTrack(id int64) (*track.Track, error) {
	var name string
	err := s.db.QueryRow("SELECT name FROM tracks WHERE id = ?", id).Scan(&name)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("track %d not in archive", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load track: %w", err)
	}

	rows, err := s.db.Query(
		"SELECT utc, lat, lon, alt, heading, speed, image_ref FROM positions WHERE track_id = ? ORDER BY utc", id)
	if err != nil {
		return nil, fmt.Errorf("load positions: %w", err)
	}
	defer rows.Close()

	var positions []track.Position
	for rows.Next() {
		var (
			utc                 string
			p                   track.Position
			alt, heading, speed sql.NullFloat64
		)
		if err := rows.Scan(&utc, &p.Lat, &p.Lon, &alt, &heading, &speed, &p.ImageRef); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		if p.Time, err = time.Parse(time.RFC3339Nano, utc); err != nil {
			return nil, fmt.Errorf("archived timestamp %q: %w", utc, err)
		}
		if alt.Valid {
			v := alt.Float64
			p.AltM = &v
		}
		if heading.Valid {
			v := heading.Float64
			p.HeadingDeg = &v
		}
		if speed.Valid {
			v := speed.Float64
			p.SpeedKt = &v
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load positions: %w", err)
	}
	return track.FromPositions(name, positions)
}

// TrackInfo describes one archived track.
type TrackInfo struct {
	ID        int64
	Name      string
	Source    string
	Positions int
}

// ListTracks enumerates the archive.
func (s *Store) ListTracks() ([]TrackInfo, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.name, t.source, COUNT(p.track_id)
		FROM tracks t LEFT JOIN positions p ON p.track_id = t.id
		GROUP BY t.id ORDER BY t.id`)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	defer rows.Close()

	var out []TrackInfo
	for rows.Next() {
		var info TrackInfo
		if err := rows.Scan(&info.ID, &info.Name, &info.Source, &info.Positions); err != nil {
			return nil, fmt.Errorf("scan track: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

func optional(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
