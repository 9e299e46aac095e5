package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suomisf/suomisf/pkg/config"
)

func TestGlobPatterns(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "*[öÖ][hH][mM]*", GlobContains("öhm"))
	assert.Equal(t, "[äÄ]*", GlobPrefix("Ä"))
	assert.Equal(t, "[oO]'[bB]", GlobEqual("O'B"))
	assert.Equal(t, "*[*][?][[]%_]*", GlobContains("*?[%_]"))
	assert.Equal(t, "*", GlobContains(""))
}

func TestGlobMatching(t *testing.T) {
	t.Parallel()

	db, err := New(config.NewForTest())
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	_, err = db.Exec(`CREATE TABLE names (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`)
	require.NoError(t, err)
	for _, name := range []string{"Öhman, Åke", "O'Brien, Fitz-James", "Ärmänen, Ilkka", "Lem, Stanisław", "100% [Tosi]"} {
		_, err = db.Exec(`INSERT INTO names (name) VALUES (?)`, name)
		require.NoError(t, err)
	}

	match := func(pattern string) []string {
		t.Helper()
		var names []string
		err := db.NewSelect().TableExpr("names").Column("name").Where("name GLOB ?", pattern).Order("id").Scan(ctx, &names)
		require.NoError(t, err)
		return names
	}

	assert.Equal(t, []string{"Öhman, Åke"}, match(GlobContains("öhm")))
	assert.Equal(t, []string{"Öhman, Åke"}, match(GlobContains("ÅKE")))
	assert.Equal(t, []string{"Ärmänen, Ilkka"}, match(GlobContains("ÄRM")))
	assert.Equal(t, []string{"O'Brien, Fitz-James"}, match(GlobContains("o'br")))
	assert.Equal(t, []string{"Lem, Stanisław"}, match(GlobContains("STANISŁAW")))
	assert.Equal(t, []string{"100% [Tosi]"}, match(GlobContains("% [t")))
	assert.Empty(t, match(GlobContains("%%")))
	assert.Empty(t, match(GlobContains("*")))
	assert.Equal(t, []string{"Ärmänen, Ilkka"}, match(GlobPrefix("ä")))
	assert.Equal(t, []string{"Lem, Stanisław"}, match(GlobEqual("lem, stanisław")))
}
