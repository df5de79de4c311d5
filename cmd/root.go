package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/hostfetch/hostfetch/internal/config"
	"github.com/hostfetch/hostfetch/internal/engine/state"
	"github.com/hostfetch/hostfetch/internal/utils"
)

// Version information - set via ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hostfetch [page-url...]",
	Short: "Batch downloader for file-hosting page links",
	Long: `hostfetch resolves file-hosting page links to direct download links and
downloads them concurrently, showing per-file progress and the combined speed.

URLs come from the arguments, a batch file (--batch) or the clipboard (--clipboard).`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		initializeGlobalState()

		opts, err := readBatchOptions(cmd, args)
		if err != nil {
			return err
		}
		return runBatch(cmd.Context(), opts)
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	addBatchFlags(rootCmd)
	rootCmd.SetVersionTemplate("hostfetch version {{.Version}}\n")
}

func addBatchFlags(c *cobra.Command) {
	flags := c.Flags()
	flags.StringP("batch", "b", "", "File containing URLs to download (one per line, # comments)")
	flags.StringP("output", "o", "", "Destination directory (default from settings)")
	flags.IntP("concurrency", "c", 0, "Downloads running at once, 1-20 (default from settings)")
	flags.Bool("headless", false, "Print progress lines instead of the TUI")
	flags.Bool("direct", false, "Treat URLs as direct links and skip page resolution")
	flags.Bool("clipboard", false, "Also read URLs from the clipboard")
	flags.Bool("stay", false, "Keep the TUI open after the batch finishes")
	flags.Duration("resolve-timeout", 0, "Upper bound on resolving one page link (default from settings)")
	flags.Duration("idle-timeout", 0, "Fail a transfer after this long without data (default from settings)")
}

// initializeGlobalState sets up the environment and configures the engine state and logging
func initializeGlobalState() {
	if err := config.EnsureDirs(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	state.Configure(filepath.Join(config.GetStateDir(), "hostfetch.db"))
	utils.ConfigureDebug(config.GetLogsDir())

	keep := config.DefaultKeepLogs
	if s, err := config.LoadSettings(); err == nil {
		keep = s.Logging.KeepLogs
	}
	utils.CleanupLogs(keep)
	utils.Debug("hostfetch %s (built %s) started at %s", Version, BuildTime, time.Now().Format(time.RFC3339))
}
