/*
DESCRIPTION
  store.go provides a SQLite record of traffic monitoring sessions and their
  time series.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package store records traffic monitoring sessions in a SQLite database.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ausocean/traffic/traffic"
)

// ErrUnknownSession is returned when a session has not been recorded.
var ErrUnknownSession = errors.New("unknown session")

const schema = `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		sensitivity INTEGER NOT NULL,
		period INTEGER NOT NULL,
		started INTEGER NOT NULL,
		ended INTEGER,
		frames INTEGER NOT NULL DEFAULT 0,
		vehicles INTEGER NOT NULL DEFAULT 0,
		buses INTEGER NOT NULL DEFAULT 0,
		violations INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS snapshots (
		session_id TEXT NOT NULL,
		frame INTEGER NOT NULL,
		time INTEGER NOT NULL,
		label TEXT NOT NULL,
		vehicles INTEGER NOT NULL,
		buses INTEGER NOT NULL,
		violations INTEGER NOT NULL,
		PRIMARY KEY(session_id, frame),
		FOREIGN KEY(session_id) REFERENCES sessions(id)
	);
`

// DB is a session database.
type DB struct {
	*sql.DB
}

// Open opens, creating if needed, the database at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(schema)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create schema: %w", err)
	}

	return &DB{db}, nil
}

// Session is a recorded session. Ended is zero for a session that has not
// finished.
type Session struct {
	ID                   uuid.UUID
	SensitivityThreshold uint
	SignalPeriod         uint
	Started              time.Time
	Ended                time.Time
	Counters             traffic.Counters
}

// StartSession records the start of a session.
func (db *DB) StartSession(id uuid.UUID, sensitivity, period uint, started time.Time) error {
	_, err := db.Exec(
		"INSERT INTO sessions (id, sensitivity, period, started) VALUES (?, ?, ?, ?)",
		id.String(), sensitivity, period, started.UnixNano(),
	)
	return err
}

// AddSnapshot appends a snapshot to the time series of session id.
func (db *DB) AddSnapshot(id uuid.UUID, s traffic.Snapshot) error {
	_, err := db.Exec(
		"INSERT INTO snapshots (session_id, frame, time, label, vehicles, buses, violations) VALUES (?, ?, ?, ?, ?, ?, ?)",
		id.String(), s.Frame, s.Time.UnixNano(), s.Label, s.Vehicles, s.Buses, s.Violations,
	)
	return err
}

// EndSession records the final counters of a session.
func (db *DB) EndSession(sum traffic.Summary) error {
	res, err := db.Exec(
		"UPDATE sessions SET ended = ?, frames = ?, vehicles = ?, buses = ?, violations = ? WHERE id = ?",
		sum.Ended.UnixNano(), sum.Counters.Frame, sum.Counters.Vehicles, sum.Counters.Buses, sum.Counters.Violations, sum.ID.String(),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownSession, sum.ID)
	}
	return nil
}

// Sessions returns all recorded sessions, most recent first.
func (db *DB) Sessions() ([]Session, error) {
	rows, err := db.Query("SELECT id, sensitivity, period, started, ended, frames, vehicles, buses, violations FROM sessions ORDER BY started DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var (
			s       Session
			id      string
			started int64
			ended   sql.NullInt64
		)
		err := rows.Scan(&id, &s.SensitivityThreshold, &s.SignalPeriod, &started, &ended,
			&s.Counters.Frame, &s.Counters.Vehicles, &s.Counters.Buses, &s.Counters.Violations)
		if err != nil {
			return nil, err
		}
		s.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("bad session id %q: %w", id, err)
		}
		s.Started = time.Unix(0, started).UTC()
		if ended.Valid {
			s.Ended = time.Unix(0, ended.Int64).UTC()
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Snapshots returns the time series of session id in frame order.
func (db *DB) Snapshots(id uuid.UUID) ([]traffic.Snapshot, error) {
	rows, err := db.Query("SELECT frame, time, label, vehicles, buses, violations FROM snapshots WHERE session_id = ? ORDER BY frame", id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []traffic.Snapshot
	for rows.Next() {
		var (
			s traffic.Snapshot
			t int64
		)
		if err := rows.Scan(&s.Frame, &t, &s.Label, &s.Vehicles, &s.Buses, &s.Violations); err != nil {
			return nil, err
		}
		s.Time = time.Unix(0, t).UTC()
		snaps = append(snaps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return snaps, nil
}
