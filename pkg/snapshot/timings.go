package snapshot

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

const (
	StatusPassed = "passed"
	StatusFailed = "failed"

	LatestResultsFile = "test_results.json"
	historyDir        = "history"
	historyLayout     = "20060102_150405"
)

type Result struct {
	Status     string  `json:"status"`
	DurationMS float64 `json:"duration_ms"`
	Error      *string `json:"error"`
}

// Report is one run's results as written to disk.
type Report struct {
	Timestamp       time.Time         `json:"timestamp"`
	RunID           string            `json:"run_id"`
	Passed          int               `json:"passed"`
	Failed          int               `json:"failed"`
	TotalDurationMS float64           `json:"total_duration_ms"`
	Tests           map[string]Result `json:"tests"`
}

// Timings collects per-endpoint durations of one run. It is safe for use by
// parallel subtests.
type Timings struct {
	mu     sync.Mutex
	report Report
}

func NewTimings(runID string, started time.Time) *Timings {
	return &Timings{report: Report{
		Timestamp: started.UTC(),
		RunID:     runID,
		Tests:     map[string]Result{},
	}}
}

func (t *Timings) Add(name, status string, d time.Duration, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ms := float64(d.Microseconds()) / 1000
	r := Result{Status: status, DurationMS: ms}
	if msg != "" {
		r.Error = &msg
	}
	t.report.Tests[name] = r
	t.report.TotalDurationMS += ms
	if status == StatusPassed {
		t.report.Passed++
	} else {
		t.report.Failed++
	}
}

// Report returns a copy of the collected results.
func (t *Timings) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()

	r := t.report
	r.Tests = make(map[string]Result, len(t.report.Tests))
	for k, v := range t.report.Tests {
		r.Tests[k] = v
	}
	return r
}

// Write stores the report as dir/test_results.json and as a timestamped
// copy under dir/history.
func (t *Timings) Write(dir string) error {
	report := t.Report()
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, historyDir), 0755); err != nil {
		return errors.WithStack(err)
	}
	if err := os.WriteFile(filepath.Join(dir, LatestResultsFile), b, 0600); err != nil {
		return errors.WithStack(err)
	}
	name := "results_" + report.Timestamp.Format(historyLayout) + ".json"
	return errors.WithStack(os.WriteFile(filepath.Join(dir, historyDir, name), b, 0600))
}

func LoadReport(path string) (*Report, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	r := &Report{}
	if err := json.Unmarshal(b, r); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return r, nil
}

// PreviousReport returns the run before the latest one. The newest history
// file is the latest run itself.
func PreviousReport(dir string) (*Report, error) {
	entries, err := os.ReadDir(filepath.Join(dir, historyDir))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	if len(names) < 2 {
		return nil, errors.New("no previous run recorded")
	}
	sort.Strings(names)
	return LoadReport(filepath.Join(dir, historyDir, names[len(names)-2]))
}

const (
	DeltaRegression  = "regression"
	DeltaImprovement = "improvement"
	DeltaUnchanged   = "unchanged"
	DeltaNew         = "new"
	DeltaRemoved     = "removed"
)

// Delta compares one test between two runs.
type Delta struct {
	Name       string
	BaselineMS float64
	CurrentMS  float64
	Percent    float64
	Kind       string
}

// CompareReports classifies every test of both runs. A test slower by at
// least threshold percent is a regression; faster by as much, an
// improvement. Regressions come first, worst first.
func CompareReports(baseline, current *Report, threshold float64) []Delta {
	names := map[string]struct{}{}
	for n := range baseline.Tests {
		names[n] = struct{}{}
	}
	for n := range current.Tests {
		names[n] = struct{}{}
	}

	deltas := make([]Delta, 0, len(names))
	for n := range names {
		b, inBase := baseline.Tests[n]
		c, inCurr := current.Tests[n]
		d := Delta{Name: n, BaselineMS: b.DurationMS, CurrentMS: c.DurationMS}
		switch {
		case !inBase:
			d.Kind = DeltaNew
		case !inCurr:
			d.Kind = DeltaRemoved
		default:
			if b.DurationMS > 0 {
				d.Percent = (c.DurationMS - b.DurationMS) / b.DurationMS * 100
			}
			switch {
			case d.Percent >= threshold:
				d.Kind = DeltaRegression
			case d.Percent <= -threshold:
				d.Kind = DeltaImprovement
			default:
				d.Kind = DeltaUnchanged
			}
		}
		deltas = append(deltas, d)
	}

	rank := map[string]int{DeltaRegression: 0, DeltaImprovement: 1, DeltaNew: 2, DeltaRemoved: 3, DeltaUnchanged: 4}
	sort.Slice(deltas, func(i, j int) bool {
		a, b := deltas[i], deltas[j]
		if rank[a.Kind] != rank[b.Kind] {
			return rank[a.Kind] < rank[b.Kind]
		}
		if a.Kind == DeltaRegression && a.Percent != b.Percent {
			return a.Percent > b.Percent
		}
		if a.Kind == DeltaImprovement && a.Percent != b.Percent {
			return a.Percent < b.Percent
		}
		return a.Name < b.Name
	})
	return deltas
}
