package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	deperr "github.com/filedepot/filedepot/internal/errors"
)

func writeFiles(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		abs := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte("content of "+p), 0o644))
	}
}

func collectPaths(t *testing.T, results <-chan Result) []string {
	t.Helper()
	var paths []string
	for r := range results {
		require.NoError(t, r.Err, "unexpected scan error for %q", r.Path)
		require.NotNil(t, r.File)
		paths = append(paths, r.File.Path)
	}
	return paths
}

func TestScanBasic(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"dragon.pdf",
		"patterns/bunny.pdf",
		"patterns/sub/cactus.txt",
		"notes.md",
	)

	s := New()
	results, err := s.Scan(context.Background(), &Options{
		RootDir:    root,
		Extensions: []string{".pdf", ".txt", ".md"},
	})
	require.NoError(t, err)

	paths := collectPaths(t, results)
	assert.ElementsMatch(t, []string{
		"dragon.pdf",
		"patterns/bunny.pdf",
		"patterns/sub/cactus.txt",
		"notes.md",
	}, paths)
}

func TestScanExtensionFilter(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "keep.pdf", "skip.exe", "skip.tmp", "noext")

	s := New()
	results, err := s.Scan(context.Background(), &Options{
		RootDir:    root,
		Extensions: []string{".pdf"},
	})
	require.NoError(t, err)

	paths := collectPaths(t, results)
	assert.Equal(t, []string{"keep.pdf"}, paths)
}

func TestScanExtensionCaseInsensitive(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "upper.PDF", "mixed.Pdf", "lower.pdf")

	s := New()
	results, err := s.Scan(context.Background(), &Options{
		RootDir:    root,
		Extensions: []string{".PDF"},
	})
	require.NoError(t, err)

	paths := collectPaths(t, results)
	assert.ElementsMatch(t, []string{"upper.PDF", "mixed.Pdf", "lower.pdf"}, paths)
}

func TestScanEmptyAllowListMatchesNothing(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.pdf", "b.txt")

	s := New()
	results, err := s.Scan(context.Background(), &Options{RootDir: root})
	require.NoError(t, err)

	assert.Empty(t, collectPaths(t, results))
}

func TestScanMissingRoot(t *testing.T) {
	s := New()
	_, err := s.Scan(context.Background(), &Options{
		RootDir:    filepath.Join(t.TempDir(), "does-not-exist"),
		Extensions: []string{".pdf"},
	})
	require.Error(t, err)
	assert.Equal(t, deperr.ErrCodeRootNotFound, deperr.GetCode(err))
}

func TestScanRootIsFile(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "plain.txt")

	s := New()
	_, err := s.Scan(context.Background(), &Options{
		RootDir:    filepath.Join(root, "plain.txt"),
		Extensions: []string{".txt"},
	})
	require.Error(t, err)
	assert.Equal(t, deperr.ErrCodeRootNotFound, deperr.GetCode(err))
}

func TestScanSkipsSymlinks(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "real.pdf")
	if err := os.Symlink(
		filepath.Join(root, "real.pdf"),
		filepath.Join(root, "link.pdf")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	s := New()
	results, err := s.Scan(context.Background(), &Options{
		RootDir:    root,
		Extensions: []string{".pdf"},
	})
	require.NoError(t, err)

	paths := collectPaths(t, results)
	assert.Equal(t, []string{"real.pdf"}, paths)
}

func TestScanRootUnreadableAbortsScan(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}

	root := t.TempDir()
	writeFiles(t, root, "a.pdf")
	require.NoError(t, os.Chmod(root, 0o000))
	t.Cleanup(func() { _ = os.Chmod(root, 0o755) })

	s := New()
	results, err := s.Scan(context.Background(), &Options{
		RootDir:    root,
		Extensions: []string{".pdf"},
	})
	require.NoError(t, err)

	// The scan must end in a walk-level failure, never in a quietly empty
	// result set.
	var fatal *Result
	for r := range results {
		r := r
		if r.Err != nil && r.Path == "" {
			fatal = &r
		}
	}
	require.NotNil(t, fatal)
	assert.Equal(t, deperr.ErrCodeScanFailed, deperr.GetCode(fatal.Err))
}

func TestScanReportsInaccessibleEntries(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}

	root := t.TempDir()
	writeFiles(t, root, "open.pdf", "locked/secret.pdf")
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	s := New()
	results, err := s.Scan(context.Background(), &Options{
		RootDir:    root,
		Extensions: []string{".pdf"},
	})
	require.NoError(t, err)

	var paths []string
	var failed []string
	for r := range results {
		switch {
		case r.Err != nil && r.Path == "":
			t.Fatalf("unexpected walk-level failure: %v", r.Err)
		case r.Err != nil:
			failed = append(failed, r.Path)
		default:
			paths = append(paths, r.File.Path)
		}
	}

	// The readable file survives; the unreadable directory is reported as a
	// non-fatal per-entry failure instead of vanishing silently.
	assert.Equal(t, []string{"open.pdf"}, paths)
	assert.Equal(t, []string{"locked"}, failed)
}

func TestScanContextCancellation(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 50; i++ {
		writeFiles(t, root, filepath.Join("dir", "file"+string(rune('a'+i%26))+".pdf"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New()
	results, err := s.Scan(ctx, &Options{
		RootDir:    root,
		Extensions: []string{".pdf"},
	})
	require.NoError(t, err)

	// The channel must still close promptly after cancellation.
	done := make(chan struct{})
	go func() {
		for range results {
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scan did not terminate after cancellation")
	}
}

func TestScanMetadataPopulated(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "patterns/dragon.pdf")

	s := New()
	results, err := s.Scan(context.Background(), &Options{
		RootDir:    root,
		Extensions: []string{".pdf"},
	})
	require.NoError(t, err)

	var got []Result
	for r := range results {
		got = append(got, r)
	}
	require.Len(t, got, 1)
	f := got[0].File
	require.NotNil(t, f)
	assert.NotEmpty(t, f.ID)
	assert.Equal(t, "dragon.pdf", f.Name)
	assert.Equal(t, "patterns/dragon.pdf", f.Path)
	assert.Equal(t, "application/pdf", f.MIMEType)
	assert.Positive(t, f.Size)
}

func TestExtensionAllowed(t *testing.T) {
	allowed := map[string]struct{}{".pdf": {}, ".txt": {}}

	assert.True(t, extensionAllowed("a.pdf", allowed))
	assert.True(t, extensionAllowed("a.PDF", allowed))
	assert.False(t, extensionAllowed("a.epub", allowed))
	assert.False(t, extensionAllowed("noext", allowed))
	assert.False(t, extensionAllowed("a.pdf", nil))
}
