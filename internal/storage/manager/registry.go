package manager

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/leengari/secindex/internal/domain/spec"
	"github.com/leengari/secindex/internal/index"
	"github.com/leengari/secindex/internal/query"
	"github.com/leengari/secindex/internal/storage/snapshot"
)

// SnapshotExt is the file extension of index snapshots in the data dir
const SnapshotExt = ".snap"

var (
	ErrIndexExists   = errors.New("index already exists")
	ErrIndexNotFound = errors.New("index not found")
)

// Entry is one named index with its own lock and query cache
type Entry struct {
	mu      sync.Mutex
	name    string
	ix      *index.CompoundIndex
	queries *lru.Cache[string, *query.Query]
}

func (e *Entry) Name() string { return e.name }

// Index returns the underlying index. Callers must hold the entry via
// Registry.With.
func (e *Entry) Index() *index.CompoundIndex { return e.ix }

// Query returns the normalized query cached under text, building and
// normalizing it on a miss. Invalid queries are not cached.
func (e *Entry) Query(text string, build func() (*query.Query, error)) (*query.Query, error) {
	if e.ix.Closed() {
		return nil, index.ErrClosed
	}
	if e.queries != nil {
		if q, ok := e.queries.Get(text); ok {
			return q, nil
		}
	}

	q, err := build()
	if err != nil {
		return nil, err
	}
	if err := query.Normalize(q, e.ix.Spec()); err != nil {
		return nil, err
	}

	if e.queries != nil {
		e.queries.Add(text, q)
	}
	return q, nil
}

// CachedQueries returns the number of normalized queries held
func (e *Entry) CachedQueries() int {
	if e.queries == nil {
		return 0
	}
	return e.queries.Len()
}

// Registry manages named indexes in a thread-safe way
type Registry struct {
	mu        sync.RWMutex
	indexes   map[string]*Entry
	basePath  string
	cacheSize int
}

// NewRegistry creates an empty registry that keeps snapshots under
// basePath. cacheSize bounds the per-index query cache; 0 disables it.
func NewRegistry(basePath string, cacheSize int) *Registry {
	return &Registry{
		indexes:   make(map[string]*Entry),
		basePath:  basePath,
		cacheSize: cacheSize,
	}
}

func (r *Registry) newEntry(name string, ix *index.CompoundIndex) (*Entry, error) {
	e := &Entry{name: name, ix: ix}
	if r.cacheSize > 0 {
		cache, err := lru.New[string, *query.Query](r.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create query cache: %w", err)
		}
		e.queries = cache
	}
	return e, nil
}

// Create registers a new empty index
func (r *Registry) Create(name string, sp *spec.Spec) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.indexes[name]; ok {
		return fmt.Errorf("%w: %s", ErrIndexExists, name)
	}

	e, err := r.newEntry(name, index.New(sp))
	if err != nil {
		return err
	}
	r.indexes[name] = e
	return nil
}

// Drop frees an index and removes its snapshot, if any
func (r *Registry) Drop(name string) error {
	r.mu.Lock()
	e, ok := r.indexes[name]
	delete(r.indexes, name)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrIndexNotFound, name)
	}

	e.mu.Lock()
	e.ix.Free()
	e.mu.Unlock()

	return RemoveSnapshot(r.basePath, name)
}

// Get returns the named entry
func (r *Registry) Get(name string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.indexes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, name)
	}
	return e, nil
}

// errReplaced means a LOAD swapped the entry while a caller waited for it
var errReplaced = errors.New("index replaced")

// With runs fn while holding the named entry's lock, so one index is
// never driven from two goroutines at once. An entry replaced by Load in
// the meantime is looked up again.
func (r *Registry) With(name string, fn func(e *Entry) error) error {
	for {
		e, err := r.Get(name)
		if err != nil {
			return err
		}
		err = r.withEntry(name, e, fn)
		if !errors.Is(err, errReplaced) {
			return err
		}
	}
}

// withEntry locks e and runs fn, unless e was dropped or replaced while
// waiting for the lock
func (r *Registry) withEntry(name string, e *Entry, fn func(e *Entry) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r.mu.RLock()
	current := r.indexes[name]
	r.mu.RUnlock()

	switch {
	case current != nil && current != e:
		return errReplaced
	case current == nil || e.ix.Closed():
		return fmt.Errorf("%w: %s", ErrIndexNotFound, name)
	}
	return fn(e)
}

// List returns the registered index names in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.indexes))
	for name := range r.indexes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) path(name string) string {
	return SnapshotPath(r.basePath, name)
}

// Save writes the named index to its snapshot file
func (r *Registry) Save(name string) error {
	return r.With(name, func(e *Entry) error {
		if err := snapshot.Save(r.path(name), e.ix); err != nil {
			return err
		}
		slog.Info("index saved", "index", name, "entries", e.ix.Len(), "path", r.path(name))
		return nil
	})
}

// Load replaces the named index, or registers it, from its snapshot file.
// The query cache starts empty.
func (r *Registry) Load(name string) error {
	ix, err := snapshot.Load(r.path(name))
	if err != nil {
		return fmt.Errorf("failed to load index %s: %w", name, err)
	}

	fresh, err := r.newEntry(name, ix)
	if err != nil {
		ix.Free()
		return err
	}

	r.mu.Lock()
	old := r.indexes[name]
	r.indexes[name] = fresh
	r.mu.Unlock()

	if old != nil {
		old.mu.Lock()
		old.ix.Free()
		old.mu.Unlock()
	}

	slog.Info("index loaded", "index", name, "entries", ix.Len())
	return nil
}

// LoadAll loads every snapshot found in the data directory. A missing
// directory is not an error.
func (r *Registry) LoadAll() error {
	names, err := ListSnapshots(r.basePath)
	if err != nil {
		return err
	}

	var errs []error
	for _, name := range names {
		if err := r.Load(name); err != nil {
			slog.Error("failed to load index", "index", name, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SaveAll saves every registered index
func (r *Registry) SaveAll() error {
	var errs []error
	for _, name := range r.List() {
		if err := r.Save(name); err != nil {
			slog.Error("failed to save index", "index", name, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CloseAll frees every index (call on shutdown)
func (r *Registry) CloseAll() {
	r.mu.Lock()
	indexes := r.indexes
	r.indexes = make(map[string]*Entry)
	r.mu.Unlock()

	// entry locks are never taken while holding r.mu
	for _, e := range indexes {
		e.mu.Lock()
		e.ix.Free()
		e.mu.Unlock()
	}
}
