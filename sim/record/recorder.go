// Package record persists simulation output into a SQLite database:
// one table of monitoring samples per resource, plus one table of per-customer
// waiting times. The database records output for offline analysis; it is not
// resumable simulation state.
package record

import (
	"database/sql"
	"fmt"
	"os"

	// SQLite driver registration.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/station-sim/station-sim/sim"
)

// Recorder writes simulation output to a SQLite file.
type Recorder struct {
	db   *sql.DB
	path string
}

// New opens (creating) a SQLite database at path. An empty path picks a
// unique file name in the working directory. Refuses to overwrite an
// existing file.
func New(path string) (*Recorder, error) {
	if path == "" {
		path = "station_sim_" + xid.New().String() + ".sqlite3"
	}

	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("recording database %s already exists", path)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open recording database %s: %w", path, err)
	}

	logrus.Infof("recording simulation output to %s", path)
	return &Recorder{db: db, path: path}, nil
}

// Path returns the database file path.
func (r *Recorder) Path() string {
	return r.path
}

// WriteSamples stores a resource's monitoring samples in a table named after
// the resource. The whole write is one transaction.
func (r *Recorder) WriteSamples(resource string, samples []sim.MonitoringSample) error {
	create := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %q (
			time INTEGER NOT NULL,
			queue_length INTEGER NOT NULL,
			active_users INTEGER NOT NULL
		)`, resource)
	if _, err := r.db.Exec(create); err != nil {
		return fmt.Errorf("create table %q: %w", resource, err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin sample write: %w", err)
	}
	stmt, err := tx.Prepare(fmt.Sprintf(
		`INSERT INTO %q (time, queue_length, active_users) VALUES (?, ?, ?)`, resource))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare sample insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range samples {
		if _, err := stmt.Exec(int64(s.Time), s.QueueLength, s.ActiveUsers); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert sample into %q: %w", resource, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit sample write: %w", err)
	}

	logrus.Debugf("recorded %d samples for %s", len(samples), resource)
	return nil
}

// WriteWaitingTimes stores the per-customer waiting times.
func (r *Recorder) WriteWaitingTimes(waits []sim.SimTime) error {
	if _, err := r.db.Exec(
		`CREATE TABLE IF NOT EXISTS waiting_times (waiting_time INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("create waiting_times table: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin waiting-time write: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO waiting_times (waiting_time) VALUES (?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare waiting-time insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range waits {
		if _, err := stmt.Exec(int64(d)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert waiting time: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit waiting-time write: %w", err)
	}
	return nil
}

// Close flushes and closes the database.
func (r *Recorder) Close() error {
	return r.db.Close()
}
