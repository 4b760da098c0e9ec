package foldersize

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
)

// Walker selects how a directory tree is traversed.
type Walker string

const (
	// WalkerStack drains an explicit stack of pending directories on the calling goroutine.
	WalkerStack Walker = "stack"
	// WalkerFast uses fastwalk for parallel traversal of a single tree.
	WalkerFast Walker = "fast"
)

// ParseWalker validates a walker name. An empty name selects WalkerStack.
func ParseWalker(name string) (Walker, error) {
	switch w := Walker(strings.ToLower(strings.TrimSpace(name))); w {
	case "", WalkerStack:
		return WalkerStack, nil
	case WalkerFast:
		return WalkerFast, nil
	default:
		return "", fmt.Errorf("unknown walker %q: must be one of [%s %s]", name, WalkerStack, WalkerFast)
	}
}

// Measure returns the usage of the tree at root using the selected strategy.
func (w Walker) Measure(root string) Usage {
	if w == WalkerFast {
		return MeasureFast(root)
	}

	return Measure(root)
}

// ComputeSize returns the total size in bytes of all regular files under rootPath.
// It never fails: a blank, missing or non-directory root yields 0, and
// unreadable entries contribute 0 to the total.
func ComputeSize(rootPath string) int64 {
	return Measure(rootPath).Bytes
}

// Measure is ComputeSize with the full set of traversal counters.
func Measure(rootPath string) Usage {
	if strings.TrimSpace(rootPath) == "" {
		return Usage{}
	}

	return SizeFS(os.DirFS(rootPath), ".")
}

// SizeFS walks the tree rooted at root within fsys and sums the sizes of all
// regular files. Directories are kept on an explicit stack rather than the call
// stack, so arbitrarily deep trees are handled.
//
// A failure listing one directory or reading one file's info is counted in
// Usage.Errors and skipped. Entries returned alongside a listing error are still
// processed. Symbolic links are neither followed nor counted.
func SizeFS(fsys fs.FS, root string) Usage {
	var usage Usage

	info, err := fs.Stat(fsys, root)
	if err != nil || !info.IsDir() {
		return usage
	}

	pending := []string{root}

	for len(pending) > 0 {
		dir := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		usage.Dirs++

		entries, err := fs.ReadDir(fsys, dir)
		if err != nil {
			usage.Errors++
		}

		for _, entry := range entries {
			switch {
			case entry.IsDir():
				pending = append(pending, path.Join(dir, entry.Name()))
			case entry.Type().IsRegular():
				fileInfo, err := entry.Info()
				if err != nil {
					usage.Errors++

					continue
				}

				if size := fileInfo.Size(); size > 0 {
					usage.Bytes += size
				}

				usage.Files++
			}
		}
	}

	return usage
}

// MeasureFast sums regular file sizes under rootPath with fastwalk.
// Failure handling matches SizeFS: every error is counted and skipped.
func MeasureFast(rootPath string) Usage {
	if strings.TrimSpace(rootPath) == "" {
		return Usage{}
	}

	if info, err := os.Stat(rootPath); err != nil || !info.IsDir() {
		return Usage{}
	}

	var bytes, files, dirs, errs atomic.Int64

	conf := &fastwalk.Config{
		Follow: false, // Don't follow symlinks
	}

	//nolint:varnamelen // d is standard for DirEntry
	walkErr := fastwalk.Walk(conf, rootPath, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			errs.Add(1)

			return nil // Silently skip errors
		}

		if d.IsDir() {
			dirs.Add(1)

			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		fileInfo, err := d.Info()
		if err != nil {
			errs.Add(1)

			return nil //nolint:nilerr // Intentionally skip errors during walk
		}

		if size := fileInfo.Size(); size > 0 {
			bytes.Add(size)
		}

		files.Add(1)

		return nil
	})
	if walkErr != nil {
		errs.Add(1)
	}

	return Usage{
		Bytes:  bytes.Load(),
		Files:  files.Load(),
		Dirs:   dirs.Load(),
		Errors: errs.Load(),
	}
}
