// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natsunoshion/CA-Final/simfmt"
	"github.com/natsunoshion/CA-Final/simstat"
	. "github.com/natsunoshion/CA-Final/storage/db"
	"github.com/natsunoshion/CA-Final/storage/db/dbtest"
)

func mustKey(t *testing.T, s string) simfmt.Key {
	t.Helper()
	k, err := simfmt.ParseKey(s)
	require.NoError(t, err)
	return k
}

func testSummary(t *testing.T) *simstat.Summary {
	s := new(simstat.Summary)
	r := s.Add(mustKey(t, "next_line-ip_stride-lru-1"))
	r.Values[simfmt.IPC] = simstat.Avail(1.25)
	r.Values[simfmt.L1DHitRate] = simstat.Avail(91.5)
	r = s.Add(mustKey(t, "next_line-no-drip-2"))
	r.Values[simfmt.IPC] = simstat.Avail(0.5)
	s.Add(mustKey(t, "no-no-lru-1"))
	return s
}

// TestUploadIDs verifies that NewUpload generates increasing upload IDs.
func TestUploadIDs(t *testing.T) {
	ctx := context.Background()

	db := dbtest.NewDB(t)

	for _, want := range []string{"1", "2", "3"} {
		u, err := db.NewUpload(ctx, "sweep")
		require.NoError(t, err)
		require.NoError(t, u.Commit())
		assert.Equal(t, want, u.ID)
	}
}

func TestSummaryRoundTrip(t *testing.T) {
	ctx := context.Background()

	db := dbtest.NewDB(t)

	want := testSummary(t)
	id := dbtest.Save(t, db, "result.txt", want)

	got, err := db.LoadSummary(ctx, id)
	require.NoError(t, err)
	require.Equal(t, want.Len(), got.Len())
	for i, r := range want.Records {
		assert.Equal(t, r.Key, got.Records[i].Key)
		assert.Equal(t, r.Values, got.Records[i].Values, r.Key.String())
	}

	v, ok := got.Get(mustKey(t, "next_line-no-drip-2"), simfmt.L2CHitRate)
	assert.True(t, ok)
	assert.False(t, v.OK)
}

func TestUnavailableIsNull(t *testing.T) {
	db := dbtest.NewDB(t)

	dbtest.Save(t, db, "", testSummary(t))

	var nulls int
	err := DBSQL(db).QueryRow("SELECT COUNT(*) FROM Summaries WHERE Mean IS NULL").Scan(&nulls)
	require.NoError(t, err)
	// 3 records times 5 metrics, 3 of them available.
	assert.Equal(t, 12, nulls)
}

func TestAbort(t *testing.T) {
	ctx := context.Background()

	db := dbtest.NewDB(t)

	u, err := db.NewUpload(ctx, "aborted")
	require.NoError(t, err)
	require.NoError(t, u.InsertSummary(testSummary(t)))
	require.NoError(t, u.Abort())

	uploads, err := db.ListUploads(ctx)
	require.NoError(t, err)
	assert.Empty(t, uploads)

	_, err = db.LoadSummary(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListUploads(t *testing.T) {
	SetNow(time.Unix(86400, 0))
	defer SetNow(time.Time{})

	ctx := context.Background()

	db := dbtest.NewDB(t)

	first := dbtest.Save(t, db, "first", testSummary(t))
	empty := dbtest.Save(t, db, "empty", new(simstat.Summary))

	uploads, err := db.ListUploads(ctx)
	require.NoError(t, err)
	want := []UploadInfo{
		{ID: empty, Label: "empty", Created: time.Unix(86400, 0).UTC(), Records: 0},
		{ID: first, Label: "first", Created: time.Unix(86400, 0).UTC(), Records: 3},
	}
	assert.Equal(t, want, uploads)
}

func TestLoadSummaryErrors(t *testing.T) {
	ctx := context.Background()

	db := dbtest.NewDB(t)

	_, err := db.LoadSummary(ctx, "42")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = db.LoadSummary(ctx, "latest")
	assert.EqualError(t, err, `invalid upload ID "latest"`)
}
