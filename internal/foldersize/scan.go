package foldersize

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// MaxParallelism returns how many folders may be measured at once on a host
// with cpus logical processing units: one less than cpus, but never below 2.
func MaxParallelism(cpus int) int {
	return max(2, cpus-1)
}

// Scanner measures an ordered folder list under the user's home directory.
type Scanner struct {
	folders []string
	cpus    int
	log     *slog.Logger

	// homeDir resolves the base directory the folders live in.
	homeDir func() (string, error)
	// measure computes the usage of one existing folder.
	measure func(string) Usage
}

// NewScanner creates a Scanner from opt, filling in defaults.
func NewScanner(opt Options) *Scanner {
	folders := opt.Folders
	if folders == nil {
		folders = DefaultFolders
	}

	cpus := opt.CPUs
	if cpus <= 0 {
		cpus = runtime.NumCPU()
	}

	logger := opt.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	walker := opt.Walker
	if walker == "" {
		walker = WalkerStack
	}

	return &Scanner{
		folders: folders,
		cpus:    cpus,
		log:     logger,
		homeDir: os.UserHomeDir,
		measure: walker.Measure,
	}
}

// indexedResult tags a result with its position in the folder list.
type indexedResult struct {
	index  int
	result FolderResult
}

// Scan measures every folder and returns one FolderResult per folder, in the
// order the folders were declared.
//
// Folders that do not exist are reported with a zero size and are never
// dispatched. At most MaxParallelism(cpus) folders are measured concurrently.
// The only error Scan returns is a failure to resolve the home directory;
// problems inside a folder lower its reported size instead.
func (s *Scanner) Scan(ctx context.Context) ([]FolderResult, error) {
	home, err := s.homeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}

	limit := MaxParallelism(s.cpus)

	s.log.DebugContext(ctx, "starting scan",
		slog.String("home", home),
		slog.Int("folders", len(s.folders)),
		slog.Int("cpus", s.cpus),
		slog.Int("parallelism", limit))

	var (
		mu        sync.Mutex
		collected = make([]indexedResult, 0, len(s.folders))
	)

	record := func(index int, result FolderResult) {
		mu.Lock()
		defer mu.Unlock()

		collected = append(collected, indexedResult{index: index, result: result})
	}

	var group errgroup.Group

	group.SetLimit(limit)

	for i, name := range s.folders {
		folderPath := filepath.Join(home, name)

		if !dirExists(folderPath) {
			s.log.DebugContext(ctx, "folder missing", slog.String("folder", name), slog.String("path", folderPath))
			record(i, FolderResult{Name: name, Path: folderPath})

			continue
		}

		group.Go(func() error {
			usage := s.measureFolder(ctx, name, folderPath)
			record(i, FolderResult{Name: name, Path: folderPath, Exists: true, SizeBytes: usage.Bytes})

			return nil
		})
	}

	// Tasks never return errors.
	_ = group.Wait()

	sort.Slice(collected, func(i, j int) bool {
		return collected[i].index < collected[j].index
	})

	results := make([]FolderResult, len(collected))
	for i := range collected {
		results[i] = collected[i].result
	}

	return results, nil
}

// measureFolder measures one folder, mapping a panic to zero usage so that a
// single folder can never take down the scan.
func (s *Scanner) measureFolder(ctx context.Context, name, folderPath string) (usage Usage) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			s.log.ErrorContext(ctx, "measuring folder failed",
				slog.String("folder", name),
				slog.String("path", folderPath),
				slog.Any("panic", r))

			usage = Usage{}
		}
	}()

	usage = s.measure(folderPath)

	s.log.DebugContext(ctx, "measured folder",
		slog.String("folder", name),
		slog.Int64("bytes", usage.Bytes),
		slog.Int64("files", usage.Files),
		slog.Int64("dirs", usage.Dirs),
		slog.Int64("errors", usage.Errors),
		slog.Duration("elapsed", time.Since(start)))

	return usage
}

// dirExists reports whether path is an existing directory.
func dirExists(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
