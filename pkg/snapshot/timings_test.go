package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimings_Write(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	first := NewTimings("run-1", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	first.Add("genres", StatusPassed, 10*time.Millisecond, "")
	first.Add("work_1", StatusFailed, 20*time.Millisecond, "length: expected 1, got 2")
	require.NoError(t, first.Write(dir))

	second := NewTimings("run-2", time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	second.Add("genres", StatusPassed, 30*time.Millisecond, "")
	require.NoError(t, second.Write(dir))

	latest, err := LoadReport(filepath.Join(dir, LatestResultsFile))
	require.NoError(t, err)
	assert.Equal(t, "run-2", latest.RunID)
	assert.Equal(t, 1, latest.Passed)
	assert.InDelta(t, 30.0, latest.TotalDurationMS, 0.001)

	previous, err := PreviousReport(dir)
	require.NoError(t, err)
	assert.Equal(t, "run-1", previous.RunID)
	assert.Equal(t, 1, previous.Failed)
	require.NotNil(t, previous.Tests["work_1"].Error)

	_, err = os.Stat(filepath.Join(dir, "history", "results_20260301_100000.json"))
	assert.NoError(t, err)
}

func TestPreviousReport_SingleRun(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	timings := NewTimings("only", time.Now())
	require.NoError(t, timings.Write(dir))

	_, err := PreviousReport(dir)
	assert.Error(t, err)
}

func TestCompareReports(t *testing.T) {
	t.Parallel()

	baseline := &Report{Tests: map[string]Result{
		"slower":  {DurationMS: 10},
		"faster":  {DurationMS: 10},
		"same":    {DurationMS: 10},
		"removed": {DurationMS: 5},
	}}
	current := &Report{Tests: map[string]Result{
		"slower": {DurationMS: 15},
		"faster": {DurationMS: 5},
		"same":   {DurationMS: 11},
		"added":  {DurationMS: 1},
	}}

	deltas := CompareReports(baseline, current, 20)
	kinds := map[string]string{}
	var order []string
	for _, d := range deltas {
		kinds[d.Name] = d.Kind
		order = append(order, d.Name)
	}
	assert.Equal(t, map[string]string{
		"slower":  DeltaRegression,
		"faster":  DeltaImprovement,
		"same":    DeltaUnchanged,
		"removed": DeltaRemoved,
		"added":   DeltaNew,
	}, kinds)
	assert.Equal(t, []string{"slower", "faster", "added", "removed", "same"}, order)
	assert.InDelta(t, 50.0, deltas[0].Percent, 0.001)
}
