package foldersize

import (
	"log/slog"
)

// DefaultFolders is the ordered list of well-known folders scanned by default.
//
//nolint:gochecknoglobals // Built-in folder list
var DefaultFolders = []string{"3D Objects", "Documents", "Downloads", "Music", "Pictures", "Videos"}

// FolderResult is the outcome of scanning one well-known folder.
type FolderResult struct {
	// Name is the logical folder name as declared in the folder list.
	Name string `json:"name"`
	// Path is the absolute path where the folder was expected.
	Path string `json:"path"`
	// Exists reports whether Path was a directory at scan time.
	Exists bool `json:"exists"`
	// SizeBytes is the cumulative size of all regular files under Path.
	SizeBytes int64 `json:"sizeBytes"`
}

// Usage holds the counters gathered while measuring a single directory tree.
type Usage struct {
	// Bytes is the cumulative size of all regular files found.
	Bytes int64
	// Files is the number of regular files counted.
	Files int64
	// Dirs is the number of directories visited, including the root.
	Dirs int64
	// Errors is the number of listing or stat failures that were absorbed.
	Errors int64
}

// Options configures a folder scan.
type Options struct {
	// Folders is the ordered folder list (nil = DefaultFolders).
	Folders []string
	// CPUs is the declared number of logical processing units (0 = runtime.NumCPU).
	CPUs int
	// Walker selects the traversal strategy (empty = WalkerStack).
	Walker Walker
	// Logger receives debug output (nil = discard).
	Logger *slog.Logger
}
