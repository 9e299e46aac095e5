package snapshot_test

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suomisf/suomisf/pkg/config"
	"github.com/suomisf/suomisf/pkg/server"
	"github.com/suomisf/suomisf/pkg/snapshot"
	"github.com/suomisf/suomisf/pkg/testutils"
	"github.com/uptrace/bun"
)

var updateSnapshots = flag.Bool("update-snapshots", false, "rewrite the stored API snapshots")

func newHarness(t *testing.T, dir string) (*snapshot.Harness, *bun.DB) {
	t.Helper()
	db := testutils.NewDB(t)
	f := testutils.Seed(t, db)
	e, err := server.NewEcho(config.NewForTest(), db)
	require.NoError(t, err)

	runID := snapshot.NewRunID()
	return &snapshot.Harness{
		Handler:   e,
		Store:     &snapshot.Store{Dir: dir},
		Endpoints: snapshot.DefaultEndpoints(f),
		Timings:   snapshot.NewTimings(runID, time.Now()),
		RunID:     runID,
	}, db
}

func TestHarness_RecordAndCheck(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	h, db := newHarness(t, dir)

	h.Update = true
	for _, ep := range h.Endpoints {
		_, err := h.Step(ep)
		require.NoError(t, err, ep.Name)
	}
	names, err := h.Store.Names()
	require.NoError(t, err)
	assert.Len(t, names, len(h.Endpoints))

	stored, err := h.Store.Load("frontpagedata")
	require.NoError(t, err)
	assert.Equal(t, 200, stored.Response.StatusCode)
	assert.Equal(t, "/api/frontpagedata", stored.Metadata.Path)
	assert.Equal(t, h.RunID, stored.Metadata.RunID)

	h.Update = false
	for _, ep := range h.Endpoints {
		mismatches, err := h.Step(ep)
		require.NoError(t, err, ep.Name)
		assert.Empty(t, mismatches, ep.Name)
	}

	_, err = db.NewRaw("INSERT INTO works (title) VALUES (?)", "Uusi teos").Exec(t.Context())
	require.NoError(t, err)
	byName := map[string]snapshot.Endpoint{}
	for _, ep := range h.Endpoints {
		byName[ep.Name] = ep
	}
	mismatches, err := h.Check(byName["frontpagedata"])
	require.NoError(t, err)
	require.Len(t, mismatches, 1)
	assert.Equal(t, "works", mismatches[0].Field)
	mismatches, err = h.Check(byName["latest_works_5"])
	require.NoError(t, err)
	require.Len(t, mismatches, 1)
	assert.Equal(t, "length", mismatches[0].Field)

	report := h.Timings.Report()
	assert.Len(t, report.Tests, len(h.Endpoints))
	assert.Zero(t, report.Failed)
}

func TestHarness_MissingSnapshot(t *testing.T) {
	t.Parallel()
	h, _ := newHarness(t, t.TempDir())

	_, err := h.Step(h.Endpoints[0])
	require.ErrorIs(t, err, snapshot.ErrNotFound)
	assert.Equal(t, 1, h.Timings.Report().Failed)
}

// TestSnapshots pins the read endpoints to testdata/snapshots. Run with
// -update-snapshots after an intended change to the fixture or responses.
func TestSnapshots(t *testing.T) {
	h, _ := newHarness(t, "testdata/snapshots")
	h.Update = *updateSnapshots
	if !h.Update {
		names, err := h.Store.Names()
		require.NoError(t, err)
		if len(names) == 0 {
			t.Skip("no snapshots captured yet; run with -update-snapshots")
		}
	}
	h.Run(t)
	require.NoError(t, h.Timings.Write(t.TempDir()))
}
