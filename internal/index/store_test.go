package index

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filedepot/filedepot/internal/config"
	deperr "github.com/filedepot/filedepot/internal/errors"
	"github.com/filedepot/filedepot/internal/metadata"
)

func testOptions(root string) Options {
	return Options{
		Root:           root,
		Extensions:     []string{".pdf", ".txt"},
		FuzzyThreshold: 0.4,
		CacheSize:      16,
	}
}

func seedFiles(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		abs := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte("x"), 0o644))
	}
}

func startStore(t *testing.T, opts Options) *Store {
	t.Helper()
	st, err := New(opts)
	require.NoError(t, err)
	require.NoError(t, st.Start(context.Background()))
	t.Cleanup(st.Stop)
	return st
}

func allPaths(st *Store) []string {
	files := st.GetAll()
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

func TestStartPopulatesIndex(t *testing.T) {
	root := t.TempDir()
	seedFiles(t, root, "dragon.pdf", "patterns/bunny.pdf", "skip.exe")

	st := startStore(t, testOptions(root))

	assert.Equal(t, []string{"dragon.pdf", "patterns/bunny.pdf"}, allPaths(st))
	require.NotNil(t, st.Snapshot())
	assert.Equal(t, 2, st.Snapshot().Len())
}

func TestStartMissingRoot(t *testing.T) {
	opts := testOptions(filepath.Join(t.TempDir(), "missing"))

	st, err := New(opts)
	require.NoError(t, err)
	err = st.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, deperr.ErrCodeRootNotFound, deperr.GetCode(err))
	assert.Nil(t, st.Snapshot())
}

func TestRescanReflectsChanges(t *testing.T) {
	root := t.TempDir()
	seedFiles(t, root, "old.pdf")

	st := startStore(t, testOptions(root))
	require.Equal(t, []string{"old.pdf"}, allPaths(st))

	require.NoError(t, os.Remove(filepath.Join(root, "old.pdf")))
	seedFiles(t, root, "new.pdf")

	require.NoError(t, st.Rescan(context.Background()))
	assert.Equal(t, []string{"new.pdf"}, allPaths(st))

	// The removed file's id must no longer resolve.
	_, ok := st.GetByID(metadata.ID("old.pdf"))
	assert.False(t, ok)
}

func TestRescanIdempotent(t *testing.T) {
	root := t.TempDir()
	seedFiles(t, root, "a.pdf", "b/c.txt")

	st := startStore(t, testOptions(root))
	before := allPaths(st)

	require.NoError(t, st.Rescan(context.Background()))
	require.NoError(t, st.Rescan(context.Background()))
	assert.Equal(t, before, allPaths(st))
}

func TestFailedRescanKeepsPreviousSnapshot(t *testing.T) {
	root := t.TempDir()
	seedFiles(t, root, "keep.pdf")

	st := startStore(t, testOptions(root))
	require.Equal(t, []string{"keep.pdf"}, allPaths(st))

	// Point the store at a root that no longer exists. The rescan must
	// fail without touching the served snapshot.
	st.opts.Root = filepath.Join(root, "vanished")
	err := st.Rescan(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"keep.pdf"}, allPaths(st))
}

func TestGetByID(t *testing.T) {
	root := t.TempDir()
	seedFiles(t, root, "patterns/dragon.pdf")

	st := startStore(t, testOptions(root))

	got, ok := st.GetByID(metadata.ID("patterns/dragon.pdf"))
	require.True(t, ok)
	assert.Equal(t, "patterns/dragon.pdf", got.Path)

	_, ok = st.GetByID("zzzzzzzzzzzzz")
	assert.False(t, ok)
}

func TestGetBeforeStart(t *testing.T) {
	st, err := New(testOptions(t.TempDir()))
	require.NoError(t, err)

	assert.Empty(t, st.GetAll())
	_, ok := st.GetByID("anything")
	assert.False(t, ok)
	assert.Empty(t, st.Search("anything"))
	assert.True(t, st.DirectoryTree().IsEmpty())
}

func TestSearchAgainstIndex(t *testing.T) {
	root := t.TempDir()
	seedFiles(t, root, "cactus.txt", "carrot.txt", "patterns/dragon.pdf")

	st := startStore(t, testOptions(root))

	results := st.Search("catcus")
	require.NotEmpty(t, results)
	assert.Equal(t, "cactus.txt", results[0].File.Path)

	results = st.Search(`"patterns/"`)
	require.Len(t, results, 1)
	assert.Equal(t, "patterns/dragon.pdf", results[0].File.Path)
}

func TestSearchMaxResults(t *testing.T) {
	root := t.TempDir()
	seedFiles(t, root, "dragon1.pdf", "dragon2.pdf", "dragon3.pdf")

	opts := testOptions(root)
	opts.MaxResults = 2
	st := startStore(t, opts)

	results := st.Search("dragon")
	assert.Len(t, results, 2)
}

func TestSearchCacheInvalidatedOnRescan(t *testing.T) {
	root := t.TempDir()
	seedFiles(t, root, "dragon.pdf")

	st := startStore(t, testOptions(root))
	require.Len(t, st.Search("dragon"), 1)
	// Served from cache on repeat.
	require.Len(t, st.Search("dragon"), 1)

	seedFiles(t, root, "fire-dragon.pdf")
	require.NoError(t, st.Rescan(context.Background()))

	assert.Len(t, st.Search("dragon"), 2)
}

func TestCachedResultsDieWithTheirSnapshot(t *testing.T) {
	root := t.TempDir()
	seedFiles(t, root, "old.pdf")

	st := startStore(t, testOptions(root))
	// Prime the cache for this query in the first snapshot's era.
	require.Len(t, st.Search("old"), 1)

	require.NoError(t, os.Remove(filepath.Join(root, "old.pdf")))
	require.NoError(t, st.Rescan(context.Background()))

	// The old era's cache entry must not leak into the new snapshot.
	assert.Empty(t, st.Search("old"))
	_, ok := st.GetByID(metadata.ID("old.pdf"))
	assert.False(t, ok)
}

func TestConcurrentRescansStayConsistent(t *testing.T) {
	root := t.TempDir()
	seedFiles(t, root, "patterns/dragon.pdf", "patterns/bunny.pdf")

	st := startStore(t, testOptions(root))

	// Overlapping rescans are allowed; whichever publishes last must leave
	// snapshot, matcher collection, and cache agreeing with each other.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, st.Rescan(context.Background()))
		}()
	}
	wg.Wait()

	assert.Equal(t,
		[]string{"patterns/bunny.pdf", "patterns/dragon.pdf"},
		allPaths(st))

	results := st.Search("dragon")
	require.Len(t, results, 1)
	got, ok := st.GetByID(results[0].File.ID)
	require.True(t, ok)
	assert.Equal(t, "patterns/dragon.pdf", got.Path)
}

func TestSearchWithoutCache(t *testing.T) {
	root := t.TempDir()
	seedFiles(t, root, "dragon.pdf")

	opts := testOptions(root)
	opts.CacheSize = 0
	st := startStore(t, opts)

	assert.Len(t, st.Search("dragon"), 1)
	assert.Len(t, st.Search("dragon"), 1)
}

func TestDirectoryTree(t *testing.T) {
	root := t.TempDir()
	seedFiles(t, root, "a.pdf", "dir/b.txt")

	st := startStore(t, testOptions(root))

	tr := st.DirectoryTree()
	require.Len(t, tr.Files, 1)
	assert.Equal(t, "a.pdf", tr.Files[0].Path)
	require.Contains(t, tr.Children, "dir")
	assert.Equal(t, "dir/b.txt", tr.Children["dir"].Files[0].Path)
	assert.Equal(t, 2, tr.FileCount())
}

func TestStopKeepsSnapshotReadable(t *testing.T) {
	root := t.TempDir()
	seedFiles(t, root, "a.pdf")

	st, err := New(testOptions(root))
	require.NoError(t, err)
	require.NoError(t, st.Start(context.Background()))

	st.Stop()
	st.Stop() // idempotent

	assert.Equal(t, []string{"a.pdf"}, allPaths(st))
	assert.Len(t, st.Search("a"), 1)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Root = t.TempDir()
	cfg.Extensions = []string{"PDF", "txt"}

	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(opts.Root))
	assert.Equal(t, []string{".pdf", ".txt"}, opts.Extensions)
	assert.Equal(t, 0.4, opts.FuzzyThreshold)
	assert.Equal(t, 256, opts.CacheSize)
}
