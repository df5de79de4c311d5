package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hostfetch/hostfetch/internal/engine/state"
	"github.com/hostfetch/hostfetch/internal/engine/types"
	"github.com/hostfetch/hostfetch/internal/utils"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List download history",
	Long:  `List finished downloads recorded in the history database, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		initializeGlobalState()

		jsonOutput, _ := cmd.Flags().GetBool("json")
		failedOnly, _ := cmd.Flags().GetBool("failed")

		downloads, err := state.ListAllDownloads()
		if err != nil {
			return fmt.Errorf("listing downloads: %w", err)
		}
		if failedOnly {
			downloads = filterStatus(downloads, state.StatusFailed)
		}
		return printDownloads(os.Stdout, downloads, jsonOutput)
	},
}

func filterStatus(entries []types.DownloadEntry, status string) []types.DownloadEntry {
	var out []types.DownloadEntry
	for _, e := range entries {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}

func printDownloads(w io.Writer, downloads []types.DownloadEntry, jsonOutput bool) error {
	if jsonOutput {
		if downloads == nil {
			downloads = []types.DownloadEntry{}
		}
		data, err := json.MarshalIndent(downloads, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	if len(downloads) == 0 {
		fmt.Fprintln(w, "No downloads found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFILENAME\tSTATUS\tSIZE\tTIME\tFINISHED")
	fmt.Fprintln(tw, "--\t--------\t------\t----\t----\t--------")

	for _, d := range downloads {
		id := d.ID
		if len(id) > 8 {
			id = id[:8]
		}

		filename := d.Filename
		if filename == "" {
			filename = utils.FilenameFromURL(d.URL)
		}
		if len(filename) > 30 {
			filename = filename[:27] + "..."
		}

		size := "-"
		if d.TotalSize > 0 {
			size = utils.ConvertBytesToHumanReadable(d.TotalSize)
		} else if d.Downloaded > 0 {
			size = utils.ConvertBytesToHumanReadable(d.Downloaded)
		}

		finished := "-"
		if d.CompletedAt > 0 {
			finished = time.Unix(d.CompletedAt, 0).Format("2006-01-02 15:04")
		}

		status := d.Status
		if d.Error != "" {
			status += " (" + truncateMessage(d.Error, 40) + ")"
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", id, filename, status, size,
			(time.Duration(d.TimeTaken) * time.Millisecond).Round(time.Millisecond), finished)
	}
	return tw.Flush()
}

func truncateMessage(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func init() {
	rootCmd.AddCommand(lsCmd)
	lsCmd.Flags().Bool("json", false, "Output in JSON format")
	lsCmd.Flags().Bool("failed", false, "Only show failed downloads")
}
