package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitWritesScriptPair(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db", "migrations")
	r := fullSession(t)
	m := &Emitter{Dir: dir, Name: "Book Store", Dialect: Postgres{}, Deriver: NewDeriver(DefaultRegistry(), nil)}

	files, script, err := m.Emit(r.log.Entries())
	require.NoError(t, err)
	require.NotNil(t, files)
	assert.False(t, script.Empty())
	assert.Equal(t, filepath.Join(dir, "20240301093000_book-store.up.sql"), files.Up)
	assert.Equal(t, filepath.Join(dir, "20240301093000_book-store.down.sql"), files.Down)

	up, err := os.ReadFile(files.Up)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- forward migration derived from 10 command(s), dialect postgres")
	assert.Contains(t, string(up), `CREATE TABLE "tag"`)
	assert.Contains(t, string(up), `ALTER TABLE "author" RENAME TO "writer";`)

	down, err := os.ReadFile(files.Down)
	require.NoError(t, err)
	assert.Contains(t, string(down), `DROP TABLE "tag";`)
	assert.Less(t, strings.Index(string(down), `RENAME TO "author"`), strings.Index(string(down), `DROP TABLE "tag"`))
}

func TestEmitEmptyLog(t *testing.T) {
	dir := t.TempDir()
	m := &Emitter{Dir: dir, Dialect: SQLite{}, Deriver: NewDeriver(DefaultRegistry(), nil)}
	files, _, err := m.Emit(nil)
	require.NoError(t, err)
	assert.Nil(t, files)
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}
