package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
	"github.com/yargevad/filepathx"
)

// ignoreFileName is an optional gitignore-style file at the scan root that
// excludes paths from the audit.
const ignoreFileName = ".fitsignore"

type locateOptions struct {
	// Glob, when non-empty, replaces the directory walk with a recursive
	// glob pattern (supports ** via filepathx).
	Glob string
	// NoIgnore disables .fitsignore handling.
	NoIgnore bool
}

// isFITSPath reports whether a file name looks like a FITS file, plain or
// gzip-compressed.
func isFITSPath(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".fits") || strings.HasSuffix(lower, ".fits.gz")
}

func isCompressedPath(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".gz")
}

// locateFITSFiles resolves the root path to the list of candidate FITS
// files beneath it, sorted for deterministic output. Re-invoking rescans
// the tree. The root must exist and be readable; anything else is fatal to
// the run.
func locateFITSFiles(root string, opts locateOptions) ([]string, error) {
	if opts.Glob != "" {
		return locateByGlob(opts.Glob)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("images path %s: %w", root, err)
	}

	if !info.IsDir() {
		if !isFITSPath(root) {
			return nil, fmt.Errorf("images path %s is not a FITS file", root)
		}
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", root, err)
		}
		return []string{abs}, nil
	}

	var ignoreMatcher gitignore.IgnoreMatcher
	if !opts.NoIgnore {
		ignorePath := filepath.Join(root, ignoreFileName)
		if _, err := os.Stat(ignorePath); err == nil {
			matcher, err := gitignore.NewGitIgnore(ignorePath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not parse %s: %v\n", ignorePath, err)
			} else {
				ignoreMatcher = matcher
			}
		}
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("images path %s: %w", root, err)
			}
			fmt.Fprintf(os.Stderr, "Warning: error accessing %s: %v\n", path, err)
			return nil
		}
		if d.IsDir() {
			if ignoreMatcher != nil && path != root {
				relPath, _ := filepath.Rel(root, path)
				if ignoreMatcher.Match(relPath, true) {
					return fs.SkipDir
				}
			}
			return nil
		}
		if !isFITSPath(d.Name()) {
			return nil
		}
		if ignoreMatcher != nil {
			relPath, _ := filepath.Rel(root, path)
			if ignoreMatcher.Match(relPath, false) {
				return nil
			}
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not resolve %s: %v\n", path, err)
			return nil
		}
		files = append(files, abs)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// locateByGlob matches files against a recursive glob pattern, e.g.
// "/data/**/*.fits". Non-FITS matches are dropped.
func locateByGlob(pattern string) ([]string, error) {
	matches, err := filepathx.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob pattern %q: %w", pattern, err)
	}

	var files []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		if !isFITSPath(match) {
			continue
		}
		abs, err := filepath.Abs(match)
		if err != nil {
			continue
		}
		files = append(files, abs)
	}

	sort.Strings(files)
	return files, nil
}
