package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hostfetch/hostfetch/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show settings and their defaults",
	Long: `Print every setting with its current value, default and effect.
Settings live in settings.yaml under the hostfetch config directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showPath, _ := cmd.Flags().GetBool("path"); showPath {
			fmt.Println(config.GetSettingsPath())
			return nil
		}

		if initFile, _ := cmd.Flags().GetBool("init"); initFile {
			path := config.GetSettingsPath()
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.SaveSettings(config.DefaultSettings()); err != nil {
				return err
			}
			fmt.Printf("Wrote defaults to %s\n", path)
			return nil
		}

		settings, err := config.LoadSettings()
		if err != nil {
			return err
		}
		return printOptions(os.Stdout, settings)
	},
}

func printOptions(w io.Writer, settings *config.Settings) error {
	values := settings.Values()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "OPTION\tVALUE\tDEFAULT\tEFFECT")
	for _, opt := range config.Options() {
		value := values[opt.Key]
		if opt.Key == "transfer.user_agent" && value == config.DefaultSettings().Transfer.UserAgent {
			value = opt.Default
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", opt.Key, value, opt.Default, opt.Effect)
	}
	return tw.Flush()
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().Bool("path", false, "Print the settings file location")
	configCmd.Flags().Bool("init", false, "Write a settings file with the defaults")
}
