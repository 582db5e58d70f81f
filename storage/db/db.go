// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db stores summarized simulator results in a SQL database.
package db

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"

	"golang.org/x/net/context"

	"github.com/natsunoshion/CA-Final/simfmt"
	"github.com/natsunoshion/CA-Final/simstat"
)

// DB is a high-level interface to a database of summaries. It's safe
// for concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertUpload  *sql.Stmt
	insertSummary *sql.Stmt
}

// ErrNotFound is returned when an upload does not exist.
var ErrNotFound = errors.New("upload not found")

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to configure its connections.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Uploads (
	UploadID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT{{end}},
	Label VARCHAR(255),
	Created BIGINT
);
CREATE TABLE IF NOT EXISTS Summaries (
	UploadID BIGINT UNSIGNED,
	RecordID BIGINT UNSIGNED,
	ConfigKey VARCHAR(255),
	Metric VARCHAR(64),
	Mean DOUBLE,
	PRIMARY KEY (UploadID, RecordID, Metric),
	FOREIGN KEY (UploadID) REFERENCES Uploads(UploadID) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS SummariesConfigKey ON Summaries(ConfigKey);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.insertUpload, err = db.sql.Prepare("INSERT INTO Uploads(Label, Created) VALUES (?, ?)")
	if err != nil {
		return err
	}
	db.insertSummary, err = db.sql.Prepare("INSERT INTO Summaries(UploadID, RecordID, ConfigKey, Metric, Mean) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	return nil
}

// now is a hook for testing
var now = time.Now

// An Upload is a set of summary records stored under one upload ID.
// Records are not visible to readers until Commit is called.
type Upload struct {
	// ID is the public identifier of the upload.
	ID string

	// id is the numeric primary key behind ID.
	id int64
	// recordid is the index of the next record to insert.
	recordid int64
	// db is the underlying database that this upload is going to.
	db *DB
	// tx is the transaction used by the upload.
	tx *sql.Tx
}

// NewUpload returns an upload for storing new summaries. label is a
// free-form description, such as the name of the input file.
func (db *DB) NewUpload(ctx context.Context, label string) (*Upload, error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	res, err := tx.Stmt(db.insertUpload).ExecContext(ctx, label, now().Unix())
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	return &Upload{
		ID: strconv.FormatInt(id, 10),
		id: id,
		db: db,
		tx: tx,
	}, nil
}

// InsertSummary adds every record of s to the upload. Unavailable
// values are stored as NULL.
func (u *Upload) InsertSummary(s *simstat.Summary) error {
	stmt := u.tx.Stmt(u.db.insertSummary)
	defer stmt.Close()
	for _, rec := range s.Records {
		key := rec.Key.String()
		for _, m := range simfmt.Metrics {
			var mean sql.NullFloat64
			if v := rec.Values[m]; v.OK {
				mean = sql.NullFloat64{Float64: v.Mean, Valid: true}
			}
			if _, err := stmt.Exec(u.id, u.recordid, key, m.String(), mean); err != nil {
				return fmt.Errorf("inserting %s: %w", key, err)
			}
		}
		u.recordid++
	}
	return nil
}

// Commit finishes processing the upload.
func (u *Upload) Commit() error {
	return u.tx.Commit()
}

// Abort cleans up resources associated with the upload. It does not
// attempt to clean up partial database state.
func (u *Upload) Abort() error {
	return u.tx.Rollback()
}

// LoadSummary returns the summary stored under upload ID id, with
// records in the order they were inserted.
func (db *DB) LoadSummary(ctx context.Context, id string) (*simstat.Summary, error) {
	uid, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid upload ID %q", id)
	}
	var n int
	if err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM Uploads WHERE UploadID = ?", uid).Scan(&n); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("upload %s: %w", id, ErrNotFound)
	}

	rows, err := db.sql.QueryContext(ctx, "SELECT ConfigKey, Metric, Mean FROM Summaries WHERE UploadID = ? ORDER BY RecordID", uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	s := new(simstat.Summary)
	for rows.Next() {
		var (
			keyStr, label string
			mean          sql.NullFloat64
		)
		if err := rows.Scan(&keyStr, &label, &mean); err != nil {
			return nil, err
		}
		key, err := simfmt.ParseKey(keyStr)
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", id, err)
		}
		m, err := simfmt.ParseMetric(label)
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", id, err)
		}
		rec := s.Add(key)
		if mean.Valid {
			rec.Values[m] = simstat.Avail(mean.Float64)
		}
	}
	return s, rows.Err()
}

// An UploadInfo describes a stored upload.
type UploadInfo struct {
	ID      string
	Label   string
	Created time.Time
	Records int
}

// ListUploads returns every upload, newest first.
func (db *DB) ListUploads(ctx context.Context) ([]UploadInfo, error) {
	rows, err := db.sql.QueryContext(ctx, `
SELECT u.UploadID, u.Label, u.Created, COUNT(DISTINCT s.RecordID)
FROM Uploads u LEFT JOIN Summaries s ON u.UploadID = s.UploadID
GROUP BY u.UploadID, u.Label, u.Created
ORDER BY u.UploadID DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var infos []UploadInfo
	for rows.Next() {
		var (
			id      int64
			label   sql.NullString
			created int64
			info    UploadInfo
		)
		if err := rows.Scan(&id, &label, &created, &info.Records); err != nil {
			return nil, err
		}
		info.ID = strconv.FormatInt(id, 10)
		info.Label = label.String
		info.Created = time.Unix(created, 0).UTC()
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	if err := db.insertUpload.Close(); err != nil {
		return err
	}
	if err := db.insertSummary.Close(); err != nil {
		return err
	}
	return db.sql.Close()
}
