package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/qntx-eurostat/cmd/qntx-eurostat/commands"
	"github.com/teranos/qntx-eurostat/errors"
	"github.com/teranos/qntx-eurostat/logger"
)

var rootCmd = &cobra.Command{
	Use:   "qntx-eurostat",
	Short: "qntx-eurostat - Eurostat open data for tools and terminals",
	Long: `qntx-eurostat - Eurostat open data access.

Search the Eurostat catalogue, inspect dataset structures, fetch filtered data
and resolve geographic codes, from the terminal or as MCP tools.

Available commands:
  serve     - Serve the tools over MCP (stdio)
  search    - Search datasets by keywords
  structure - Show the dimensions and codes of a dataset
  data      - Fetch values of a dataset
  preview   - Fetch the most recent period of a dataset
  geo       - Find geographic codes
  url       - Print a download URL
  am        - Manage configuration ("I am")

Examples:
  qntx-eurostat search gdp
  qntx-eurostat data nama_10_gdp -f geo=DE -f unit=CP_MEUR -f na_item=B1GQ
  qntx-eurostat serve -v`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")

		// Structured logs follow log.json; a broken config is reported by the command itself
		jsonLogs := false
		if cfg, err := commands.LoadConfig(); err == nil {
			jsonLogs = cfg.Log.JSON
		}
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json", false, "Output JSON instead of tables")
	rootCmd.PersistentFlags().StringVar(&commands.ConfigFile, "config", "", "Read configuration from this file only (skips the cascade and env)")

	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.SearchCmd)
	rootCmd.AddCommand(commands.StructureCmd)
	rootCmd.AddCommand(commands.DataCmd)
	rootCmd.AddCommand(commands.PreviewCmd)
	rootCmd.AddCommand(commands.GeoCmd)
	rootCmd.AddCommand(commands.URLCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Cleanup()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintln(os.Stderr, "Hint:", hint)
		}
		os.Exit(1)
	}
}
