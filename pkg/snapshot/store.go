package snapshot

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// ErrNotFound is returned by Load for a snapshot that was never captured.
var ErrNotFound = errors.New("snapshot not found")

type Metadata struct {
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	CapturedAt time.Time `json:"captured_at"`
	RunID      string    `json:"run_id"`
}

type Response struct {
	StatusCode int             `json:"status_code"`
	Data       json.RawMessage `json:"data"`
}

type Snapshot struct {
	Metadata Metadata `json:"metadata"`
	Response Response `json:"response"`
}

// Store keeps one <name>.json file per snapshot in Dir.
type Store struct {
	Dir string
}

func (s *Store) path(name string) string {
	return filepath.Join(s.Dir, name+".json")
}

func (s *Store) Load(name string) (*Snapshot, error) {
	b, err := os.ReadFile(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(ErrNotFound, name)
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	snap := &Snapshot{}
	if err := json.Unmarshal(b, snap); err != nil {
		return nil, errors.Wrapf(err, "decode snapshot %s", name)
	}
	return snap, nil
}

func (s *Store) Save(name string, snap *Snapshot) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return errors.WithStack(err)
	}
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(os.WriteFile(s.path(name), append(b, '\n'), 0600))
}

// Names lists the stored snapshots in name order.
func (s *Store) Names() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}
