package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/qntx-eurostat/am"
	"github.com/teranos/qntx-eurostat/display"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage qntx-eurostat configuration",
	Long: `am - Manage qntx-eurostat configuration ("I am")

Configuration sources (later overrides earlier):
1. Default values
2. System config (/etc/qntx-eurostat/am.toml)
3. User config (~/.qntx-eurostat/am.toml)
4. Project config (./am.toml, searched up the directory tree)
5. Environment variables (QNTX_EUROSTAT_* prefix)

Examples:
  qntx-eurostat am show                    # Show current configuration
  qntx-eurostat am show --format json      # Show configuration in JSON format
  qntx-eurostat am get eurostat.language   # Get specific config value
  qntx-eurostat am validate                # Validate current configuration`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., eurostat.language, server.metrics_addr)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	Long:  "Validate the effective configuration and report unknown keys in config files",
	RunE:  runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	RunE:  runAmWhere,
}

var configFormat string

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
}

func loadRawConfig() (*am.Config, error) {
	if ConfigFile != "" {
		return am.LoadFromFile(ConfigFile)
	}
	return am.Load()
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadRawConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return writeConfig(cmd.OutOrStdout(), cfg, configFormat)
}

func writeConfig(out io.Writer, cfg *am.Config, format string) error {
	switch format {
	case "json":
		return display.WriteJSON(out, cfg)

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config to YAML: %w", err)
		}
		_, err = fmt.Fprintf(out, "# qntx-eurostat configuration\n%s", data)
		return err

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config to TOML: %w", err)
		}
		_, err = fmt.Fprintf(out, "# qntx-eurostat configuration\n%s", data)
		return err

	default:
		return fmt.Errorf("unsupported format: %s (supported: toml, json, yaml)", format)
	}
}

func runAmGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	v := am.GetViper()
	if !v.IsSet(key) {
		return fmt.Errorf("configuration key %q not found", key)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), am.Get(key))
	return err
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadRawConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	files := []string{ConfigFile}
	if ConfigFile == "" {
		files = files[:0]
		for _, p := range am.ConfigPaths() {
			if p.Exists {
				files = append(files, p.Path)
			}
		}
	}
	warn := pterm.Warning.WithWriter(cmd.ErrOrStderr())
	for _, f := range files {
		unknown, err := am.UnknownKeys(f)
		if err != nil {
			return err
		}
		for _, key := range unknown {
			warn.Printfln("%s: unknown key %q", f, key)
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	pterm.Success.WithWriter(cmd.OutOrStdout()).Println("Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	intro, err := am.GetConfigIntrospection()
	if err != nil {
		return fmt.Errorf("failed to get config introspection: %w", err)
	}

	out := cmd.OutOrStdout()
	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(out, intro)
	}

	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(out, "  [DEFAULT]  Built-in defaults")
	for _, f := range intro.Files {
		state := "missing"
		if f.Exists {
			state = "loaded"
		}
		fmt.Fprintf(out, "  [%-8s] %s (%s)\n", sourceTag(f.Source), f.Path, state)
	}
	fmt.Fprintf(out, "  [ENV]      %s_* environment variables\n\n", am.EnvPrefix)

	settings := append([]am.SettingInfo(nil), intro.Settings...)
	sort.Slice(settings, func(i, j int) bool { return settings[i].Key < settings[j].Key })

	rows := make([][]string, 0, len(settings))
	for _, s := range settings {
		origin := string(s.Source)
		if s.SourcePath != "" {
			origin += " (" + s.SourcePath + ")"
		}
		rows = append(rows, []string{s.Key, fmt.Sprint(s.Value), origin})
	}
	return display.Table(out, []string{"key", "value", "source"}, rows)
}

func sourceTag(s am.ConfigSource) string {
	switch s {
	case am.SourceSystem:
		return "SYSTEM"
	case am.SourceUser:
		return "USER"
	case am.SourceProject:
		return "PROJECT"
	default:
		return string(s)
	}
}
