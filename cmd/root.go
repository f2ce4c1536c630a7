package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/tabprep-cli/internal/config"
	"github.com/KaramelBytes/tabprep-cli/internal/loader"
	"github.com/KaramelBytes/tabprep-cli/internal/logging"
)

var (
	// Global flags (override config when set)
	cfgFile        string
	flagLogLevel   string
	flagLogFormat  string
	flagDelimiter  string
	flagSheetName  string
	flagSheetIndex int

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "tabprep",
	Short: "tabprep: clean and encode tabular datasets for analysis",
	Long: `tabprep loads CSV/TSV/XLSX datasets and runs a preprocessing pipeline over them:
mean imputation, column pruning, quarter normalization, quantile binning and
feature encoding. Results are written as CSV ready for classification,
regression, clustering or association-rule mining.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Assigned here rather than in the literal to avoid an initialization cycle
	// (loadConfig reads rootCmd's flags).
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	}

	// Persistent global flags available to all subcommands
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ~/.tabprep/config.yaml)")
	pf.StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
	pf.StringVar(&flagLogFormat, "log-format", "", "log format: text|json (overrides config)")
	pf.StringVar(&flagDelimiter, "delimiter", "", "input delimiter: ',' | ';' | 'tab' (auto if omitted)")
	pf.StringVar(&flagSheetName, "sheet-name", "", "XLSX: sheet name to load")
	pf.IntVar(&flagSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

// loadConfig resolves configuration, applies flag overrides and installs the logger.
func loadConfig() error {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return err
	}
	f := rootCmd.PersistentFlags()
	if f.Changed("log-level") {
		c.LogLevel = flagLogLevel
	}
	if f.Changed("log-format") {
		c.LogFormat = flagLogFormat
	}
	if f.Changed("delimiter") {
		c.Delimiter = flagDelimiter
	}
	if f.Changed("sheet-name") {
		c.SheetName = flagSheetName
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if _, err := logging.Init(c.LogLevel, c.LogFormat, os.Stderr); err != nil {
		return err
	}
	cfg = c
	return nil
}

// loaderOptions builds input options from the effective configuration.
func loaderOptions() (loader.Options, error) {
	delim, err := cfg.DelimiterRune()
	if err != nil {
		return loader.Options{}, err
	}
	return loader.Options{Delimiter: delim, SheetName: cfg.SheetName, SheetIndex: flagSheetIndex}, nil
}

func writeOptions(precision int) loader.WriteOptions {
	opt := loader.DefaultWriteOptions()
	opt.Precision = precision
	return opt
}
