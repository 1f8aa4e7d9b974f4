package manager

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/leengari/secindex/internal/domain/changeset"
	"github.com/leengari/secindex/internal/domain/spec"
	"github.com/leengari/secindex/internal/domain/value"
	"github.com/leengari/secindex/internal/index"
	"github.com/leengari/secindex/internal/query"
)

func usersSpec(t *testing.T) *spec.Spec {
	t.Helper()
	sp, err := spec.New(0,
		spec.Property{Name: "name", Type: value.KindString},
		spec.Property{Name: "age", Type: value.KindInt32},
	)
	assert.NilError(t, err)
	return sp
}

func seed(t *testing.T, r *Registry, name string) {
	t.Helper()
	assert.NilError(t, r.Create(name, usersSpec(t)))
	err := r.With(name, func(e *Entry) error {
		return e.Index().Apply(changeset.New(
			changeset.AddChange("u1", value.String("ann"), value.Int32(30)),
			changeset.AddChange("u2", value.String("bob"), value.Int32(40)),
		))
	})
	assert.NilError(t, err)
}

func TestCreateGetDrop(t *testing.T) {
	r := NewRegistry(t.TempDir(), 8)
	seed(t, r, "users")

	assert.ErrorIs(t, r.Create("users", usersSpec(t)), ErrIndexExists)
	assert.DeepEqual(t, r.List(), []string{"users"})

	e, err := r.Get("users")
	assert.NilError(t, err)
	assert.Equal(t, e.Name(), "users")
	assert.Equal(t, e.Index().Len(), 2)

	assert.NilError(t, r.Drop("users"))
	_, err = r.Get("users")
	assert.ErrorIs(t, err, ErrIndexNotFound)
	assert.ErrorIs(t, r.Drop("users"), ErrIndexNotFound)
	assert.ErrorIs(t, r.With("users", func(*Entry) error { return nil }), ErrIndexNotFound)
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	r := NewRegistry(dir, 8)
	seed(t, r, "users")
	assert.NilError(t, r.SaveAll())

	_, err := os.Stat(filepath.Join(dir, "users"+SnapshotExt))
	assert.NilError(t, err)

	fresh := NewRegistry(dir, 8)
	assert.NilError(t, fresh.LoadAll())
	assert.DeepEqual(t, fresh.List(), []string{"users"})

	e, err := fresh.Get("users")
	assert.NilError(t, err)
	assert.Equal(t, e.Index().Len(), 2)

	// dropping removes the snapshot too
	assert.NilError(t, fresh.Drop("users"))
	_, err = os.Stat(filepath.Join(dir, "users"+SnapshotExt))
	assert.Assert(t, os.IsNotExist(err))
}

func TestLoadReplacesIndex(t *testing.T) {
	r := NewRegistry(t.TempDir(), 8)
	seed(t, r, "users")
	assert.NilError(t, r.Save("users"))

	old, _ := r.Get("users")
	assert.NilError(t, r.With("users", func(e *Entry) error {
		return e.Index().Apply(changeset.New(changeset.DeleteChange("u1")))
	}))
	assert.Equal(t, old.Index().Len(), 1)

	assert.NilError(t, r.Load("users"))
	e, _ := r.Get("users")
	assert.Equal(t, e.Index().Len(), 2)
	// the replaced index was freed
	assert.Equal(t, old.Index().Len(), 0)
}

func TestLoadAllMissingDir(t *testing.T) {
	r := NewRegistry(filepath.Join(t.TempDir(), "absent"), 8)
	assert.NilError(t, r.LoadAll())
	assert.Equal(t, len(r.List()), 0)
}

func TestQueryCache(t *testing.T) {
	r := NewRegistry(t.TempDir(), 2)
	seed(t, r, "users")
	e, _ := r.Get("users")

	builds := 0
	build := func() (*query.Query, error) {
		builds++
		return query.New(query.Equals(query.Name("age"), value.Int64(30))), nil
	}

	q1, err := e.Query("age = 30", build)
	assert.NilError(t, err)
	q2, err := e.Query("age = 30", build)
	assert.NilError(t, err)
	assert.Equal(t, builds, 1)
	assert.Assert(t, q1 == q2)
	assert.Equal(t, e.CachedQueries(), 1)

	// cached queries come back normalized
	i, ok := q1.Root.(*query.PredicateNode).Pred.Column.Ordinal()
	assert.Assert(t, ok)
	assert.Equal(t, i, 1)

	// invalid queries are reported and not cached
	_, err = e.Query("nope = 1", func() (*query.Query, error) {
		return query.New(query.Equals(query.Name("nope"), value.Int64(1))), nil
	})
	assert.ErrorIs(t, err, query.ErrInvalidProperty)
	assert.Equal(t, e.CachedQueries(), 1)
}

func TestCacheDisabled(t *testing.T) {
	r := NewRegistry(t.TempDir(), 0)
	seed(t, r, "users")
	e, _ := r.Get("users")

	builds := 0
	for range 3 {
		_, err := e.Query("x", func() (*query.Query, error) {
			builds++
			return query.New(query.NullCheck(query.Ordinal(0))), nil
		})
		assert.NilError(t, err)
	}
	assert.Equal(t, builds, 3)
	assert.Equal(t, e.CachedQueries(), 0)
}

func TestWithSerializesAccess(t *testing.T) {
	r := NewRegistry(t.TempDir(), 0)
	assert.NilError(t, r.Create("ids", usersSpec(t)))

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 50 {
				id := string(rune('a'+w)) + string(rune('a'+i%26)) + string(rune('0'+i/26))
				err := r.With("ids", func(e *Entry) error {
					return e.Index().Apply(changeset.New(changeset.AddChange(id, value.String(id), value.Int32(int32(i)))))
				})
				assert.Check(t, err)
			}
		}()
	}
	wg.Wait()

	e, _ := r.Get("ids")
	assert.Equal(t, e.Index().Len(), 400)
}

func TestWithAfterDrop(t *testing.T) {
	r := NewRegistry(t.TempDir(), 8)
	seed(t, r, "users")

	// a caller looked the entry up, then lost the race to a DROP
	e, err := r.Get("users")
	assert.NilError(t, err)
	assert.NilError(t, r.Drop("users"))

	called := false
	err = r.withEntry("users", e, func(*Entry) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrIndexNotFound)
	assert.Assert(t, !called)

	_, err = e.Query("($1 = 1)", func() (*query.Query, error) {
		return query.New(query.Equals(query.Ordinal(0), value.Int64(1))), nil
	})
	assert.ErrorIs(t, err, index.ErrClosed)
}

func TestWithAfterLoad(t *testing.T) {
	r := NewRegistry(t.TempDir(), 8)
	seed(t, r, "users")
	assert.NilError(t, r.Save("users"))

	old, err := r.Get("users")
	assert.NilError(t, err)
	assert.NilError(t, r.Load("users"))

	err = r.withEntry("users", old, func(*Entry) error { return nil })
	assert.ErrorIs(t, err, errReplaced)

	// With follows the replacement
	var seen *Entry
	assert.NilError(t, r.With("users", func(e *Entry) error {
		seen = e
		return nil
	}))
	fresh, _ := r.Get("users")
	assert.Assert(t, seen == fresh)
	assert.Equal(t, seen.Index().Len(), 2)
}

func TestWithDuringDrop(t *testing.T) {
	r := NewRegistry(t.TempDir(), 8)

	for range 20 {
		seed(t, r, "users")

		var wg sync.WaitGroup
		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := r.With("users", func(e *Entry) error {
					_, err := e.Query("age = 30", func() (*query.Query, error) {
						return query.New(query.Equals(query.Name("age"), value.Int64(30))), nil
					})
					return err
				})
				if err != nil {
					assert.Check(t, errors.Is(err, ErrIndexNotFound), err)
				}
			}()
		}
		assert.NilError(t, r.Drop("users"))
		wg.Wait()
	}
}
