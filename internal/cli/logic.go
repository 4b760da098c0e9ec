package cli

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idelchi/foldersizes/internal/config"
	"github.com/idelchi/foldersizes/internal/foldersize"
	"github.com/idelchi/foldersizes/internal/logging"
)

func logic(cmd *cobra.Command, opts flags) error {
	configPath := opts.configPath
	if configPath == "" {
		configPath = os.Getenv(config.EnvPath)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Explicit flags win over file and environment.
	if cmd.Flags().Changed("walker") {
		cfg.Scan.Walker = opts.walker
	}
	if cmd.Flags().Changed("cpus") {
		cfg.Scan.CPUs = opts.cpus
	}
	if opts.debug {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closer := logging.New(cfg.Logging, os.Stderr)
	defer closer.Close() //nolint:errcheck

	scanner := foldersize.NewScanner(foldersize.Options{
		CPUs:   cfg.Scan.CPUs,
		Walker: foldersize.Walker(cfg.Scan.Walker),
		Logger: logger,
	})

	results, err := scanner.Scan(cmd.Context())
	if err != nil {
		logger.Error("scan failed", slog.Any("error", err))

		return err
	}

	var buf bytes.Buffer

	switch strings.ToLower(opts.output) {
	case "json":
		err = PrintJSON(results, &buf)
	case "table":
		err = PrintTable(results, &buf)
	default:
		err = fmt.Errorf("unknown output format: %s", opts.output)
	}

	if err != nil {
		return err
	}

	return writeAll(cmd.OutOrStdout(), buf.Bytes())
}
