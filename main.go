// Command foldersizes prints the disk usage of well-known home folders as JSON.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/foldersizes/internal/cli"
)

// version is set at build time with -ldflags.
//
//nolint:gochecknoglobals // Build-time variable
var version = "unknown - unofficial & generated by unknown"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
