package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stored(status int, data string) *Snapshot {
	return &Snapshot{Response: Response{StatusCode: status, Data: []byte(data)}}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		stored *Snapshot
		status int
		data   string
		fields []string
	}{
		{"same list length", stored(200, `[1,2,3]`), 200, `[3,2,1]`, nil},
		{"list length", stored(200, `[1,2,3]`), 200, `[1,2]`, []string{"length"}},
		{"status", stored(200, `[]`), 404, `[]`, []string{"status_code"}},
		{"count keys", stored(200, `{"works":4,"editions":5,"title":"a"}`), 200, `{"works":5,"editions":5,"title":"b"}`, []string{"works"}},
		{"total prefix", stored(200, `{"total_pages":998}`), 200, `{"total_pages":999}`, []string{"total_pages"}},
		{"listed counts", stored(200, `{"covers":[1,2]}`), 200, `{"covers":[3,4]}`, nil},
		{"missing key", stored(200, `{"works":4}`), 200, `{}`, nil},
		{"type change", stored(200, `[1]`), 200, `{"works":1}`, []string{"data"}},
		{"scalar", stored(200, `"Virhe"`), 400, `"Toinen"`, []string{"status_code"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mismatches, err := Compare(tt.stored, tt.status, []byte(tt.data))
			require.NoError(t, err)
			var fields []string
			for _, m := range mismatches {
				fields = append(fields, m.Field)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestCompare_InvalidJSON(t *testing.T) {
	t.Parallel()
	_, err := Compare(stored(200, `[]`), 200, []byte(`{`))
	assert.Error(t, err)
}
