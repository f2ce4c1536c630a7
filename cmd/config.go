package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/tabprep-cli/internal/config"
	"github.com/KaramelBytes/tabprep-cli/internal/logging"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set tabprep configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "quarter_columns: %s\n", strings.Join(cfg.QuarterColumns, ", "))
		fmt.Fprintf(out, "drop_columns: %s\n", strings.Join(cfg.DropColumns, ", "))
		fmt.Fprintf(out, "average_column: %s\n", cfg.AverageColumn)
		fmt.Fprintf(out, "bin_column: %s\n", cfg.BinColumn)
		fmt.Fprintf(out, "bin_labels: %s\n", strings.Join(cfg.BinLabels, ", "))
		fmt.Fprintf(out, "precision: %d\n", cfg.Precision)
		if cfg.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", cfg.Delimiter)
		}
		if cfg.SheetName != "" {
			fmt.Fprintf(out, "sheet_name: %s\n", cfg.SheetName)
		}
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long:  "List values (quarter_columns, drop_columns, bin_labels) are comma-separated.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// start from the file alone so flag and env overrides are not persisted
		c, err := cfgpkg.LoadFile(cfgFile)
		if err != nil {
			return err
		}
		switch key {
		case "quarter_columns":
			c.QuarterColumns = cfgpkg.SplitList(val)
		case "drop_columns":
			c.DropColumns = cfgpkg.SplitList(val)
		case "average_column":
			c.AverageColumn = val
		case "bin_column":
			c.BinColumn = val
		case "bin_labels":
			c.BinLabels = cfgpkg.SplitList(val)
		case "precision":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for precision: %w", err)
			}
			c.Precision = i
		case "delimiter":
			c.Delimiter = val
		case "sheet_name":
			c.SheetName = val
		case "log_level":
			c.LogLevel = strings.ToLower(val)
		case "log_format":
			switch strings.ToLower(val) {
			case logging.FormatText, logging.FormatJSON:
				c.LogFormat = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_format: %s (use text or json)", val)
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
