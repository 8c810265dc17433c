// Command analyzer drives the file analysis panel against a running API.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	v := viper.New()
	rootCmd := newRootCommand(v)

	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(v *viper.Viper) *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "analyzer",
		Short: "Analyze utility bills and create Energy Use records",
		Long: `analyzer uploads or picks a file attached to a record, runs the AI analysis
and shows the result as a table or a field list.

Commands:
  files     List files attached to the record
  analyze   Upload or pick a file and analyze it
  format    Format an analysis result read from stdin`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(v, configPath); err != nil {
				return err
			}
			color.NoColor = color.NoColor || v.GetBool(keyNoColor)
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default .analyzer.yaml in . or $HOME)")
	flags.String("api-url", defaultAPIURL, "analysis API base URL")
	flags.String("record-id", "", "context record id")
	flags.String("user-id", "", "user id sent as X-User-Id")
	flags.String("guest-id", defaultGuestID, "guest id sent as X-Guest-Id when no user id is set")
	flags.String("flow-api-name", "", "workflow launched by --flow")
	flags.Bool("no-color", false, "disable colored output")
	bindFlags(v, flags)

	rootCmd.AddCommand(newFilesCommand(v))
	rootCmd.AddCommand(newAnalyzeCommand(v))
	rootCmd.AddCommand(newFormatCommand())
	return rootCmd
}

func requireRecordID(v *viper.Viper) (string, error) {
	id := v.GetString(keyRecordID)
	if id == "" {
		return "", fmt.Errorf("--record-id (or ANALYZER_RECORD_ID) is required")
	}
	return id, nil
}
