package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	deperr "github.com/filedepot/filedepot/internal/errors"
	"github.com/filedepot/filedepot/internal/metadata"
)

// Scanner discovers indexable files in the configured root directory.
type Scanner struct{}

// New creates a new Scanner instance.
func New() *Scanner {
	return &Scanner{}
}

// Scan walks the root directory and streams a Result for every file whose
// extension is on the allow-list. The channel is closed when scanning
// completes. The root is validated synchronously: a missing or non-directory
// root fails here, before any result is produced.
func (s *Scanner) Scan(ctx context.Context, opts *Options) (<-chan Result, error) {
	if opts == nil {
		opts = &Options{}
	}

	rootDir := opts.RootDir
	if rootDir == "" {
		rootDir = "."
	}

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, deperr.New(deperr.ErrCodeInvalidPath,
			fmt.Sprintf("failed to resolve root %q", rootDir), err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, deperr.New(deperr.ErrCodeRootNotFound,
			fmt.Sprintf("failed to stat root directory: %s", absRoot), err)
	}
	if !info.IsDir() {
		return nil, deperr.New(deperr.ErrCodeRootNotFound,
			fmt.Sprintf("root path is not a directory: %s", absRoot), nil)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	allowed := make(map[string]struct{}, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		allowed[strings.ToLower(ext)] = struct{}{}
	}

	results := make(chan Result, workers*10)

	go func() {
		defer close(results)
		s.scan(ctx, absRoot, allowed, opts, workers, results)
	}()

	return results, nil
}

// scan walks the tree, feeding matched paths to a pool of metadata workers.
func (s *Scanner) scan(ctx context.Context, absRoot string, allowed map[string]struct{}, opts *Options, workers int, results chan<- Result) {
	paths := make(chan string, workers*4)
	builder := metadata.NewBuilder(absRoot)

	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for relPath := range paths {
				meta, err := builder.Build(relPath)
				var r Result
				if err != nil {
					// Per-file failures are reported but never abort the scan.
					r = Result{Path: relPath, Err: err}
				} else {
					r = Result{File: &meta, Path: relPath}
				}
				select {
				case results <- r:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-gctx.Done():
			return gctx.Err()
		default:
		}

		if err != nil {
			// A failure on the root itself invalidates the whole walk; a
			// degraded root must never masquerade as an empty one.
			if path == absRoot {
				return err
			}
			relPath, rerr := filepath.Rel(absRoot, path)
			if rerr != nil {
				relPath = path
			}
			r := Result{
				Path: filepath.ToSlash(relPath),
				Err: deperr.New(deperr.ErrCodeFileStat,
					fmt.Sprintf("cannot access %s", relPath), err),
			}
			select {
			case results <- r:
			case <-gctx.Done():
				return gctx.Err()
			}
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil || relPath == "." {
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 && !opts.FollowSymlinks {
			return nil
		}

		if !extensionAllowed(d.Name(), allowed) {
			return nil
		}

		select {
		case paths <- filepath.ToSlash(relPath):
		case <-gctx.Done():
			return gctx.Err()
		}

		return nil
	})
	close(paths)

	if err := g.Wait(); err != nil && walkErr == nil {
		walkErr = err
	}

	if walkErr != nil && walkErr != context.Canceled {
		r := Result{Err: deperr.New(deperr.ErrCodeScanFailed, "scan aborted", walkErr)}
		select {
		case results <- r:
		case <-ctx.Done():
		}
	}
}

// extensionAllowed reports whether the file name carries an allow-listed
// extension, compared case-insensitively.
func extensionAllowed(name string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	_, ok := allowed[ext]
	return ok
}
