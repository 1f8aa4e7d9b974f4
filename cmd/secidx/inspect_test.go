package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/leengari/secindex/internal/domain/changeset"
	"github.com/leengari/secindex/internal/domain/spec"
	"github.com/leengari/secindex/internal/domain/value"
	"github.com/leengari/secindex/internal/index"
	"github.com/leengari/secindex/internal/storage/snapshot"
)

func TestInspect(t *testing.T) {
	sp, err := spec.New(0,
		spec.Property{Name: "name", Type: value.KindString},
		spec.Property{Name: "age", Type: value.KindInt32},
	)
	assert.NilError(t, err)
	ix := index.New(sp)
	assert.NilError(t, ix.Apply(changeset.New(
		changeset.AddChange("u1", value.String("ann"), value.Int32(30)),
		changeset.AddChange("u2", value.String("bob"), value.Null()),
		changeset.AddChange("u3", value.String("cat"), value.Int32(7)),
	)))

	path := filepath.Join(t.TempDir(), "users.snap")
	assert.NilError(t, snapshot.Save(path, ix))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"inspect", "-n", "2", path})
	t.Cleanup(func() { inspectLimit = 0 })
	assert.NilError(t, rootCmd.Execute())

	text := out.String()
	assert.Assert(t, strings.Contains(text, "entries:  3"), text)
	assert.Assert(t, strings.Contains(text, `("ann", 30)`), text)
	assert.Assert(t, strings.Contains(text, `("bob", NULL)`), text)
	assert.Assert(t, strings.Contains(text, "1 more"), text)
	assert.Assert(t, !strings.Contains(text, "cat"), text)
}

func TestInspectMissingFile(t *testing.T) {
	rootCmd.SetArgs([]string{"inspect", filepath.Join(t.TempDir(), "nope.snap")})
	assert.ErrorContains(t, rootCmd.Execute(), "failed to read snapshot")
}
