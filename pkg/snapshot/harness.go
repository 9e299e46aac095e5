package snapshot

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// Harness replays endpoints against an in-process handler and either stores
// the responses or checks them against the stored ones.
type Harness struct {
	Handler   http.Handler
	Store     *Store
	Endpoints []Endpoint
	// Token is sent as a bearer token when set.
	Token string
	// Update rewrites the stored snapshots instead of checking them.
	Update  bool
	Timings *Timings
	RunID   string
	now     func() time.Time
}

// NewRunID returns a fresh id tying snapshots and timings to one run.
func NewRunID() string {
	return uuid.NewString()
}

// Captured is the unwrapped response of one endpoint.
type Captured struct {
	StatusCode int
	Data       json.RawMessage
}

// Capture issues one request. Enveloped responses are unwrapped to their
// payload; other bodies are kept whole.
func (h *Harness) Capture(ep Endpoint) *Captured {
	req := httptest.NewRequest(ep.Method, ep.Path, strings.NewReader(ep.Body))
	if ep.Body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if h.Token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+h.Token)
	}
	rec := httptest.NewRecorder()
	h.Handler.ServeHTTP(rec, req)

	captured := &Captured{StatusCode: rec.Code, Data: rec.Body.Bytes()}
	var env struct {
		Response json.RawMessage `json:"response"`
		Status   *int            `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err == nil && env.Status != nil {
		captured.Data = env.Response
	}
	return captured
}

func (h *Harness) timestamp() time.Time {
	if h.now != nil {
		return h.now()
	}
	return time.Now().UTC()
}

// Record captures ep and writes it to the store.
func (h *Harness) Record(ep Endpoint) error {
	captured := h.Capture(ep)
	return h.Store.Save(ep.Name, &Snapshot{
		Metadata: Metadata{
			Method:     ep.Method,
			Path:       ep.Path,
			CapturedAt: h.timestamp(),
			RunID:      h.RunID,
		},
		Response: Response{
			StatusCode: captured.StatusCode,
			Data:       captured.Data,
		},
	})
}

// Check captures ep and compares it with its stored snapshot.
func (h *Harness) Check(ep Endpoint) ([]Mismatch, error) {
	stored, err := h.Store.Load(ep.Name)
	if err != nil {
		return nil, err
	}
	captured := h.Capture(ep)
	return Compare(stored, captured.StatusCode, captured.Data)
}

// Step records or checks one endpoint and adds its timing. It returns the
// mismatches found; a non-nil error means the endpoint could not be run.
func (h *Harness) Step(ep Endpoint) ([]Mismatch, error) {
	start := time.Now()
	var (
		mismatches []Mismatch
		err        error
	)
	if h.Update {
		err = h.Record(ep)
	} else {
		mismatches, err = h.Check(ep)
	}

	if h.Timings != nil {
		switch {
		case err != nil:
			h.Timings.Add(ep.Name, StatusFailed, time.Since(start), err.Error())
		case len(mismatches) > 0:
			h.Timings.Add(ep.Name, StatusFailed, time.Since(start), mismatches[0].String())
		default:
			h.Timings.Add(ep.Name, StatusPassed, time.Since(start), "")
		}
	}
	return mismatches, err
}

// Run runs every endpoint as a subtest.
func (h *Harness) Run(t *testing.T) {
	t.Helper()
	for _, ep := range h.Endpoints {
		t.Run(ep.Name, func(t *testing.T) {
			mismatches, err := h.Step(ep)
			if errors.Is(err, ErrNotFound) {
				t.Fatalf("snapshot %q not found; run with -update-snapshots to capture it", ep.Name)
			}
			if err != nil {
				t.Fatal(err)
			}
			for _, m := range mismatches {
				t.Errorf("%s %s: %s", ep.Method, ep.Path, m)
			}
		})
	}
}
