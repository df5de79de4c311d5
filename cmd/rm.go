package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hostfetch/hostfetch/internal/engine/state"
)

var rmCmd = &cobra.Command{
	Use:   "rm <ID>",
	Short: "Remove a history entry",
	Long:  `Remove a history entry by its ID or a unique ID prefix. Use --clean to remove all completed entries and --failed for all failed ones.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		initializeGlobalState()

		clean, _ := cmd.Flags().GetBool("clean")
		failed, _ := cmd.Flags().GetBool("failed")

		if !clean && !failed && len(args) == 0 {
			return fmt.Errorf("provide a download ID or use --clean / --failed")
		}

		if clean {
			count, err := state.RemoveCompletedDownloads()
			if err != nil {
				return fmt.Errorf("cleaning downloads: %w", err)
			}
			fmt.Printf("Removed %d completed downloads.\n", count)
		}
		if failed {
			count, err := state.RemoveFailedDownloads()
			if err != nil {
				return fmt.Errorf("cleaning downloads: %w", err)
			}
			fmt.Printf("Removed %d failed downloads.\n", count)
		}
		if len(args) == 0 {
			return nil
		}

		id, err := resolveDownloadID(args[0])
		if err != nil {
			return err
		}
		if err := state.RemoveFromMasterList(id); err != nil {
			return fmt.Errorf("removing download: %w", err)
		}
		fmt.Printf("Removed download %s\n", shortID(id))
		return nil
	},
}

// resolveDownloadID expands a unique ID prefix to the full ID.
func resolveDownloadID(prefix string) (string, error) {
	downloads, err := state.ListAllDownloads()
	if err != nil {
		return "", err
	}

	var matches []string
	for _, d := range downloads {
		if d.ID == prefix {
			return d.ID, nil
		}
		if strings.HasPrefix(d.ID, prefix) {
			matches = append(matches, d.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no download matches %q", prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ID prefix %q is ambiguous (%d matches)", prefix, len(matches))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	rootCmd.AddCommand(rmCmd)
	rmCmd.Flags().Bool("clean", false, "Remove all completed downloads")
	rmCmd.Flags().Bool("failed", false, "Remove all failed downloads")
}
