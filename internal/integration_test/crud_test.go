package integration

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/leengari/secindex/internal/engine"
	"github.com/leengari/secindex/internal/executor"
	"github.com/leengari/secindex/internal/index"
	"github.com/leengari/secindex/internal/storage/manager"
)

// setupEngine returns an engine whose snapshots live in dir
func setupEngine(t *testing.T, dir string) *engine.Engine {
	t.Helper()
	registry := manager.NewRegistry(dir, 16)
	assert.NilError(t, registry.LoadAll())
	t.Cleanup(registry.CloseAll)
	return engine.New(registry)
}

func exec(t *testing.T, eng *engine.Engine, sql string) *executor.Result {
	t.Helper()
	res, err := eng.Execute(sql)
	assert.NilError(t, err, sql)
	return res
}

func column(res *executor.Result, i int) []string {
	out := []string{}
	for _, row := range res.Rows {
		out = append(out, row[i])
	}
	return out
}

// TestIndexLifecycle drives one index through every statement kind
func TestIndexLifecycle(t *testing.T) {
	eng := setupEngine(t, t.TempDir())

	exec(t, eng, "CREATE INDEX users (username STRING, age INT32, joined TIME)")
	exec(t, eng, "INSERT INTO users ID 'u1' VALUES ('admin', 40, '2020-01-02T00:00:00Z')")
	exec(t, eng, "INSERT INTO users ID 'u2' VALUES ('alice', 31, '2021-06-30T00:00:00Z')")
	exec(t, eng, "INSERT INTO users ID 'u3' VALUES ('bob', 25, '2023-11-05T00:00:00Z')")
	exec(t, eng, "INSERT INTO users ID 'u4' VALUES ('alice', 19, '2024-02-29T00:00:00Z')")

	t.Run("SelectAll", func(t *testing.T) {
		res := exec(t, eng, "SELECT FROM users")
		assert.DeepEqual(t, column(res, 0), []string{"u1", "u4", "u2", "u3"})
		assert.DeepEqual(t, res.Columns, []string{"id", "username", "age", "joined"})
	})

	t.Run("SelectWhere", func(t *testing.T) {
		res := exec(t, eng, "SELECT FROM users WHERE username = 'alice' AND age >= 20")
		assert.DeepEqual(t, column(res, 0), []string{"u2"})
	})

	t.Run("SelectPrefix", func(t *testing.T) {
		res := exec(t, eng, "SELECT FROM users WHERE username LIKE 'a%' LIMIT 2")
		assert.DeepEqual(t, column(res, 0), []string{"u1", "u4"})
	})

	t.Run("SelectScan", func(t *testing.T) {
		res := exec(t, eng, "SELECT FROM users WHERE joined < '2022-01-01T00:00:00Z'")
		assert.DeepEqual(t, column(res, 0), []string{"u1", "u2"})
	})

	t.Run("Update", func(t *testing.T) {
		exec(t, eng, "SET users ID 'u3' (username = 'bob', age = '26', joined = '2023-11-05T00:00:00Z')")
		res := exec(t, eng, "SELECT FROM users WHERE username = 'bob'")
		assert.DeepEqual(t, column(res, 2), []string{"26"})
	})

	t.Run("Delete", func(t *testing.T) {
		res := exec(t, eng, "DELETE FROM users ID 'u4'")
		assert.Equal(t, res.RowsAffected, 1)
		assert.DeepEqual(t, exec(t, eng, "COUNT users").Rows, [][]string{{"3"}})

		_, err := eng.Execute("DELETE FROM users ID 'u4'")
		assert.ErrorIs(t, err, index.ErrNotFound)
		assert.ErrorContains(t, err, "execution error")
	})

	t.Run("ShowIndexes", func(t *testing.T) {
		res := exec(t, eng, "SHOW INDEXES")
		assert.DeepEqual(t, column(res, 0), []string{"users"})
	})
}

// TestSnapshotSurvivesRestart saves an index, reopens the data dir with a
// fresh engine and checks queries see the same entries
func TestSnapshotSurvivesRestart(t *testing.T) {
	dir := t.TempDir()

	first := setupEngine(t, dir)
	exec(t, first, "CREATE UNIQUE INDEX emails (email STRING)")
	exec(t, first, "INSERT INTO emails ID 'a' VALUES ('ann@example.com')")
	exec(t, first, "INSERT INTO emails ID 'b' VALUES ('bob@example.com')")
	exec(t, first, "SAVE emails")
	before := exec(t, first, "SELECT FROM emails")

	second := setupEngine(t, dir)
	after := exec(t, second, "SELECT FROM emails")
	assert.DeepEqual(t, after.Rows, before.Rows)

	// uniqueness is part of the snapshot
	_, err := second.Execute("INSERT INTO emails ID 'c' VALUES ('ann@example.com')")
	assert.ErrorIs(t, err, index.ErrDuplicateKey)

	// dropping removes the snapshot, so a third start finds nothing
	exec(t, second, "DROP INDEX emails")
	third := setupEngine(t, dir)
	assert.Equal(t, len(exec(t, third, "SHOW INDEXES").Rows), 0)
}
