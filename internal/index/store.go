package index

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/filedepot/filedepot/internal/config"
	deperr "github.com/filedepot/filedepot/internal/errors"
	"github.com/filedepot/filedepot/internal/metadata"
	"github.com/filedepot/filedepot/internal/scanner"
	"github.com/filedepot/filedepot/internal/search"
	"github.com/filedepot/filedepot/internal/tree"
)

// Options configures a Store.
type Options struct {
	// Root is the absolute directory to index.
	Root string

	// Extensions is the allow-list, lowercase with leading dots.
	Extensions []string

	// FuzzyThreshold is the maximum accepted fuzzy score in (0, 1].
	FuzzyThreshold float64

	// RescanInterval schedules periodic rescans (0 = disabled).
	RescanInterval time.Duration

	// Workers is the scanner worker count (0 = NumCPU).
	Workers int

	// FollowSymlinks enables following symbolic links during scans.
	FollowSymlinks bool

	// CacheSize is the per-query result cache capacity (0 = no cache).
	CacheSize int

	// MaxResults caps results per query (0 = unlimited).
	MaxResults int
}

// OptionsFromConfig derives store options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	root, err := cfg.AbsRoot()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Root:           root,
		Extensions:     cfg.NormalizedExtensions(),
		FuzzyThreshold: cfg.Search.FuzzyThreshold,
		RescanInterval: cfg.RescanInterval(),
		Workers:        cfg.Scan.Workers,
		FollowSymlinks: cfg.Scan.FollowSymlinks,
		CacheSize:      cfg.Search.CacheSize,
		MaxResults:     cfg.Search.MaxResults,
	}, nil
}

// indexState bundles everything derived from one scan: the snapshot, the
// engine primed from it, and that scan's query cache. It is published with a
// single atomic pointer store, so a reader can never pair the snapshot of one
// scan with the matcher collection or cached results of another.
type indexState struct {
	snap   *Snapshot
	engine *search.Engine
	cache  *lru.Cache[string, []search.Result]
}

// Store owns the current index state and answers all read operations from it.
//
// Readers (Search, GetAll, GetByID, DirectoryTree) dereference the current
// state pointer once and never block on an in-flight rescan. A rescan builds
// its replacement state, snapshot plus primed engine plus fresh cache,
// entirely off to the side; the swap is one atomic pointer store. Overlapping
// rescans are not mutually excluded: whichever publishes last wins, as one
// unit.
type Store struct {
	opts    Options
	scanner *scanner.Scanner
	current atomic.Pointer[indexState]

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a Store. The index is empty until Start.
func New(opts Options) (*Store, error) {
	return &Store{
		opts:    opts,
		scanner: scanner.New(),
		stopCh:  make(chan struct{}),
	}, nil
}

// Start performs the first scan synchronously, so callers are guaranteed a
// populated index on return, and schedules periodic rescans if a positive
// interval is configured. The context is retained for the periodic rescans.
func (st *Store) Start(ctx context.Context) error {
	if err := st.Rescan(ctx); err != nil {
		return err
	}

	if st.opts.RescanInterval > 0 {
		st.wg.Add(1)
		go st.rescanLoop(ctx)
	}

	return nil
}

// Stop cancels periodic rescanning. The last state stays readable; a scan
// already in flight is not interrupted.
func (st *Store) Stop() {
	st.stopOnce.Do(func() {
		close(st.stopCh)
	})
	st.wg.Wait()
}

// rescanLoop runs periodic rescans until Stop or context cancellation.
func (st *Store) rescanLoop(ctx context.Context) {
	defer st.wg.Done()

	ticker := time.NewTicker(st.opts.RescanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-st.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := st.Rescan(ctx); err != nil {
				slog.Error("periodic rescan failed",
					slog.String("root", st.opts.Root),
					slog.String("error", err.Error()))
			}
		}
	}
}

// Rescan walks the root, builds a fresh snapshot with its engine and cache,
// and atomically publishes the bundle. On failure the previous state remains
// authoritative. Per-file metadata errors are logged and the file is omitted;
// only a scan-level failure aborts the rescan.
func (st *Store) Rescan(ctx context.Context) error {
	started := time.Now()

	results, err := st.scanner.Scan(ctx, &scanner.Options{
		RootDir:        st.opts.Root,
		Extensions:     st.opts.Extensions,
		Workers:        st.opts.Workers,
		FollowSymlinks: st.opts.FollowSymlinks,
	})
	if err != nil {
		return err
	}

	files := make(map[string]metadata.FileMetadata)
	var scanErr error
	skipped := 0

	for r := range results {
		switch {
		case r.Err != nil && r.Path == "":
			// Walk-level failure: remember it, drain the channel.
			scanErr = r.Err
		case r.Err != nil:
			skipped++
			slog.Warn("skipping file",
				slog.String("path", r.Path),
				slog.String("error", r.Err.Error()))
		default:
			if prev, dup := files[r.File.ID]; dup && prev.Path != r.File.Path {
				slog.Warn("file id collision, keeping later entry",
					slog.String("id", r.File.ID),
					slog.String("previous", prev.Path),
					slog.String("path", r.File.Path))
			}
			files[r.File.ID] = *r.File
		}
	}

	if scanErr != nil {
		return scanErr
	}

	snap := newSnapshot(files)
	engine := search.NewEngine(st.opts.FuzzyThreshold)
	engine.SetCollection(snap.All())

	state := &indexState{snap: snap, engine: engine}
	if st.opts.CacheSize > 0 {
		cache, err := lru.New[string, []search.Result](st.opts.CacheSize)
		if err != nil {
			return deperr.New(deperr.ErrCodeInternal, "failed to create query cache", err)
		}
		state.cache = cache
	}

	st.current.Store(state)

	slog.Info("index rescanned",
		slog.String("root", st.opts.Root),
		slog.Int("files", snap.Len()),
		slog.Int("skipped", skipped),
		slog.Duration("elapsed", time.Since(started)))

	return nil
}

// Search answers a query against the current state. Results are ranked
// ascending by score; an empty query or an uninitialized index yields an
// empty list, never an error. Cached results live and die with the state they
// were computed from.
func (st *Store) Search(query string) []search.Result {
	s := st.current.Load()
	if s == nil {
		return nil
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(query); ok {
			return cached
		}
	}

	results := s.engine.Search(query)
	if st.opts.MaxResults > 0 && len(results) > st.opts.MaxResults {
		results = results[:st.opts.MaxResults]
	}

	if s.cache != nil {
		s.cache.Add(query, results)
	}

	return results
}

// GetAll returns every indexed file sorted by path.
func (st *Store) GetAll() []metadata.FileMetadata {
	s := st.current.Load()
	if s == nil {
		return nil
	}
	return s.snap.All()
}

// GetByID resolves a file id against the current snapshot. Absence is an
// expected case (stale links), reported via the second return value.
func (st *Store) GetByID(id string) (metadata.FileMetadata, bool) {
	s := st.current.Load()
	if s == nil {
		return metadata.FileMetadata{}, false
	}
	return s.snap.Get(id)
}

// DirectoryTree projects the current snapshot into a nested directory tree.
func (st *Store) DirectoryTree() *tree.Node {
	return tree.Build(st.GetAll())
}

// Snapshot returns the current snapshot, nil before the first scan.
func (st *Store) Snapshot() *Snapshot {
	s := st.current.Load()
	if s == nil {
		return nil
	}
	return s.snap
}
