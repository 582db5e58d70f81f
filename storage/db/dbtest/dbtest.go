// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dbtest opens empty summary databases for tests and seeds
// them with summaries.
//
// Databases are in-memory SQLite unless the -cloudsql flag names a
// Cloud SQL instance, in which case each test gets its own MySQL
// database on that instance, dropped when the test ends.
package dbtest

import (
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"flag"
	"fmt"
	"testing"

	_ "github.com/GoogleCloudPlatform/cloudsql-proxy/proxy/dialers/mysql"
	"golang.org/x/net/context"

	"github.com/natsunoshion/CA-Final/simstat"
	"github.com/natsunoshion/CA-Final/storage/db"
	_ "github.com/natsunoshion/CA-Final/storage/db/sqlite3"
)

var cloudsql = flag.String("cloudsql", "", "run database tests on Cloud SQL `instance` (project:region:instance) instead of in-memory SQLite")

// cloudDB creates a uniquely named MySQL database on the Cloud SQL
// instance and returns its data source name. The database is dropped
// when t ends.
func cloudDB(t testing.TB, instance string) string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		t.Fatal(err)
	}
	name := "simstat_" + base64.RawURLEncoding.EncodeToString(buf)
	server := fmt.Sprintf("root:@cloudsql(%s)/", instance)

	conn, err := sql.Open("mysql", server)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Exec(fmt.Sprintf("CREATE DATABASE `%s`", name)); err != nil {
		conn.Close()
		t.Fatalf("creating database %s on %s: %v", name, instance, err)
	}
	t.Logf("using Cloud SQL database %s", name)
	t.Cleanup(func() {
		if _, err := conn.Exec(fmt.Sprintf("DROP DATABASE `%s`", name)); err != nil {
			t.Errorf("dropping database %s: %v", name, err)
		}
		conn.Close()
	})
	return server + name
}

// NewDB opens an empty summary database that is closed when t ends.
func NewDB(t testing.TB) *db.DB {
	t.Helper()
	driver, dsn := "sqlite3", ":memory:"
	if *cloudsql != "" {
		driver, dsn = "mysql", cloudDB(t, *cloudsql)
	}
	d, err := db.OpenSQL(driver, dsn)
	if err != nil {
		t.Fatalf("open %s database: %v", driver, err)
	}
	// Cleanups run last-in first-out, so d closes before a Cloud SQL
	// database is dropped.
	t.Cleanup(func() { d.Close() })

	uploads, err := d.ListUploads(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(uploads) != 0 {
		t.Fatalf("new %s database has %d upload(s), want 0", driver, len(uploads))
	}
	return d
}

// Save stores s in d as one committed upload and returns its ID.
func Save(t testing.TB, d *db.DB, label string, s *simstat.Summary) string {
	t.Helper()
	u, err := d.NewUpload(context.Background(), label)
	if err != nil {
		t.Fatalf("new upload %q: %v", label, err)
	}
	if err := u.InsertSummary(s); err != nil {
		u.Abort()
		t.Fatalf("saving %q: %v", label, err)
	}
	if err := u.Commit(); err != nil {
		t.Fatalf("committing %q: %v", label, err)
	}
	return u.ID
}
