package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/foldersizes/internal/foldersize"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

// PrintJSON outputs the results as a compact JSON array followed by a newline.
func PrintJSON(results []foldersize.FolderResult, writer io.Writer) error {
	if results == nil {
		results = []foldersize.FolderResult{}
	}

	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintTable outputs the results in human-readable table format.
func PrintTable(results []foldersize.FolderResult, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	var total int64

	fmt.Fprintln(w, "Folder\tSize\tPath")

	for _, r := range results {
		size := humanize.IBytes(uint64(r.SizeBytes)) //nolint:gosec // Sizes are never negative
		if !r.Exists {
			size = "-"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, size, r.Path)

		total += r.SizeBytes
	}

	fmt.Fprintf(w, "\nTotal:\t%s (%d bytes)\t\n", humanize.IBytes(uint64(total)), total) //nolint:gosec // Sum of non-negative sizes

	return w.Flush()
}
