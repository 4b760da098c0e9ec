package cli

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// flags holds the raw command-line values before they are merged into the config.
type flags struct {
	output     string
	walker     string
	cpus       int
	configPath string
	debug      bool
}

//nolint:gochecknoglobals // Config constant
var allowedOutputs = []string{"json", "table"}

// Execute runs the CLI, writing the scan result to standard output.
func (c CLI) Execute() error {
	return c.command().ExecuteContext(context.Background())
}

func (c CLI) command() *cobra.Command {
	var opts flags

	cmd := &cobra.Command{
		Use:   "foldersizes",
		Short: "Report disk usage of well-known folders in the home directory",
		Long: heredoc.Doc(`
			foldersizes reports the disk usage of the well-known folders in the
			current user's home directory as a single JSON array on standard output.

			Each element carries the folder name, its absolute path, whether it exists
			and the total size in bytes of all regular files below it. Unreadable
			files and directories count as zero. Elements always follow the built-in
			folder order.

			Diagnostics are written to standard error. On failure nothing is written
			to standard output and the exit status is non-zero.
		`),
		Args:          cobra.NoArgs,
		Version:       c.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !slices.Contains(allowedOutputs, opts.output) {
				return fmt.Errorf("invalid output format %q: must be one of %v", opts.output, allowedOutputs)
			}

			return logic(cmd, opts)
		},
	}

	cmd.SetVersionTemplate("{{.Version}}\n")

	f := cmd.Flags()
	f.SortFlags = false
	f.StringVarP(&opts.output, "output", "o", "json", "Output format: json or table")
	f.StringVar(&opts.walker, "walker", "stack", "Traversal strategy: stack or fast")
	f.IntVar(&opts.cpus, "cpus", 0, "Logical CPUs to size the worker limit from (0=detect)")
	f.StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	f.BoolVar(&opts.debug, "debug", false, "Enable debug output on stderr")

	return cmd
}

// writeAll writes data in a single call so that output is never partial.
func writeAll(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}
