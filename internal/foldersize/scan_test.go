package foldersize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestScanner(t *testing.T, home string, opt Options) *Scanner {
	t.Helper()

	scanner := NewScanner(opt)
	scanner.homeDir = func() (string, error) { return home, nil }

	return scanner
}

func makeFolders(t *testing.T, home string, names ...string) {
	t.Helper()

	for _, name := range names {
		if err := os.MkdirAll(filepath.Join(home, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}
}

func TestMaxParallelism(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cpus int
		want int
	}{
		{cpus: 0, want: 2},
		{cpus: 1, want: 2},
		{cpus: 2, want: 2},
		{cpus: 3, want: 2},
		{cpus: 4, want: 3},
		{cpus: 16, want: 15},
	}

	for _, tt := range tests {
		if got := MaxParallelism(tt.cpus); got != tt.want {
			t.Errorf("MaxParallelism(%d) = %d, want %d", tt.cpus, got, tt.want)
		}
	}
}

func TestScan_EndToEnd(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	writeFile(t, filepath.Join(home, "Documents", "a.txt"), 10)
	writeFile(t, filepath.Join(home, "Documents", "sub", "b.txt"), 20)
	makeFolders(t, home, "Music")

	results, err := newTestScanner(t, home, Options{}).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if len(results) != len(DefaultFolders) {
		t.Fatalf("got %d results, want %d", len(results), len(DefaultFolders))
	}

	for i, result := range results {
		if result.Name != DefaultFolders[i] {
			t.Errorf("results[%d].Name = %q, want %q", i, result.Name, DefaultFolders[i])
		}

		if want := filepath.Join(home, DefaultFolders[i]); result.Path != want {
			t.Errorf("results[%d].Path = %q, want %q", i, result.Path, want)
		}
	}

	byName := make(map[string]FolderResult, len(results))
	for _, result := range results {
		byName[result.Name] = result
	}

	if got := byName["Documents"]; !got.Exists || got.SizeBytes != 30 {
		t.Errorf("Documents = %+v, want exists with 30 bytes", got)
	}

	if got := byName["Music"]; !got.Exists || got.SizeBytes != 0 {
		t.Errorf("Music = %+v, want exists with 0 bytes", got)
	}

	if got := byName["Pictures"]; got.Exists || got.SizeBytes != 0 {
		t.Errorf("Pictures = %+v, want missing with 0 bytes", got)
	}
}

func TestScan_FileInPlaceOfFolder(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	writeFile(t, filepath.Join(home, "Videos"), 99)

	results, err := newTestScanner(t, home, Options{Folders: []string{"Videos"}}).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if got := results[0]; got.Exists || got.SizeBytes != 0 {
		t.Errorf("Videos = %+v, want missing with 0 bytes", got)
	}
}

func TestScan_HomeUnavailable(t *testing.T) {
	t.Parallel()

	scanner := NewScanner(Options{})
	scanner.homeDir = func() (string, error) { return "", errors.New("no home") }

	results, err := scanner.Scan(context.Background())
	if err == nil {
		t.Fatal("expected error when home directory cannot be resolved")
	}

	if results != nil {
		t.Errorf("expected no results, got %v", results)
	}
}

func TestScan_OrderIndependentOfCompletion(t *testing.T) {
	t.Parallel()

	folders := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	home := t.TempDir()
	makeFolders(t, home, folders...)

	scanner := newTestScanner(t, home, Options{Folders: folders, CPUs: 32})

	// Earlier folders finish last.
	scanner.measure = func(path string) Usage {
		name := filepath.Base(path)
		delay := time.Duration(len(folders)-int(name[0]-'a')) * 5 * time.Millisecond
		time.Sleep(delay)

		return Usage{Bytes: int64(name[0])}
	}

	results, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	for i, result := range results {
		if result.Name != folders[i] {
			t.Errorf("results[%d].Name = %q, want %q", i, result.Name, folders[i])
		}

		if result.SizeBytes != int64(folders[i][0]) {
			t.Errorf("results[%d].SizeBytes = %d, want %d", i, result.SizeBytes, folders[i][0])
		}
	}
}

func TestScan_ConcurrencyBound(t *testing.T) {
	t.Parallel()

	folders := []string{"f0", "f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8", "f9"}

	for _, cpus := range []int{1, 2, 4, 8} {
		home := t.TempDir()
		makeFolders(t, home, folders...)

		var inFlight, peak atomic.Int64

		scanner := newTestScanner(t, home, Options{Folders: folders, CPUs: cpus})
		scanner.measure = func(string) Usage {
			current := inFlight.Add(1)
			defer inFlight.Add(-1)

			for {
				old := peak.Load()
				if current <= old || peak.CompareAndSwap(old, current) {
					break
				}
			}

			time.Sleep(10 * time.Millisecond)

			return Usage{}
		}

		if _, err := scanner.Scan(context.Background()); err != nil {
			t.Fatalf("Scan() error = %v", err)
		}

		if limit := int64(MaxParallelism(cpus)); peak.Load() > limit {
			t.Errorf("cpus=%d: peak concurrency %d exceeds limit %d", cpus, peak.Load(), limit)
		}
	}
}

func TestScan_MissingFoldersAreNotDispatched(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	makeFolders(t, home, "Documents", "Videos")

	var (
		mu       sync.Mutex
		measured []string
	)

	scanner := newTestScanner(t, home, Options{})
	scanner.measure = func(path string) Usage {
		mu.Lock()
		defer mu.Unlock()

		measured = append(measured, filepath.Base(path))

		return Usage{}
	}

	if _, err := scanner.Scan(context.Background()); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if len(measured) != 2 {
		t.Errorf("measured %v, want only Documents and Videos", measured)
	}
}

func TestScan_PanicMapsToZero(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	makeFolders(t, home, DefaultFolders...)

	scanner := newTestScanner(t, home, Options{})
	scanner.measure = func(path string) Usage {
		if filepath.Base(path) == "Music" {
			panic("boom")
		}

		return Usage{Bytes: 7}
	}

	results, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	for _, result := range results {
		if !result.Exists {
			t.Errorf("%s: expected exists to survive the failure", result.Name)
		}

		want := int64(7)
		if result.Name == "Music" {
			want = 0
		}

		if result.SizeBytes != want {
			t.Errorf("%s: SizeBytes = %d, want %d", result.Name, result.SizeBytes, want)
		}
	}
}

func TestScan_FastWalker(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	writeFile(t, filepath.Join(home, "Documents", "a.txt"), 10)
	writeFile(t, filepath.Join(home, "Documents", "sub", "b.txt"), 20)

	results, err := newTestScanner(t, home, Options{Walker: WalkerFast}).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if got := results[1]; got.Name != "Documents" || got.SizeBytes != 30 {
		t.Errorf("results[1] = %+v, want Documents with 30 bytes", got)
	}
}
