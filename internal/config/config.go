package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/tabprep-cli/internal/logging"
	"github.com/KaramelBytes/tabprep-cli/internal/utils"
)

// DirName is the per-user config directory under $HOME.
const DirName = ".tabprep"

// Global configuration structure.
type Global struct {
	QuarterColumns []string `mapstructure:"quarter_columns" yaml:"quarter_columns"`
	DropColumns    []string `mapstructure:"drop_columns" yaml:"drop_columns"`
	AverageColumn  string   `mapstructure:"average_column" yaml:"average_column"`
	BinColumn      string   `mapstructure:"bin_column" yaml:"bin_column"`
	BinLabels      []string `mapstructure:"bin_labels" yaml:"bin_labels"`
	// Precision is the number of decimals written for numeric cells; -1 is shortest round-trip.
	Precision int `mapstructure:"precision" yaml:"precision"`

	// Input parsing
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	SheetName string `mapstructure:"sheet_name" yaml:"sheet_name"`

	// Diagnostics
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// DefaultQuarterColumns are the sales columns of the quarterly dataset.
var DefaultQuarterColumns = []string{"2024 Quarter 1", "2024 Quarter 2", "2024 Quarter 3", "2024 Quarter 4"}

// DefaultPath returns ~/.tabprep/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, DirName, "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.tabprep/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) { return load(cfgFile, true) }

// LoadFile loads the config file over the defaults, ignoring TABPREP_*
// variables. Use it when the result is saved back to disk.
func LoadFile(cfgFile string) (*Global, error) { return load(cfgFile, false) }

func load(cfgFile string, env bool) (*Global, error) {
	v := viper.New()
	if env {
		v.SetEnvPrefix("TABPREP")
		v.AutomaticEnv()
	}

	// Defaults
	v.SetDefault("quarter_columns", DefaultQuarterColumns)
	v.SetDefault("drop_columns", []string{})
	v.SetDefault("average_column", "Quarterly Average")
	v.SetDefault("bin_column", "AvgBin")
	v.SetDefault("bin_labels", []string{"Low", "Medium", "High"})
	v.SetDefault("precision", -1)
	v.SetDefault("delimiter", "")
	v.SetDefault("sheet_name", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", logging.FormatText)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, DirName))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// a missing file means defaults; a malformed one is an error
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.QuarterColumns = trimList(c.QuarterColumns)
	c.DropColumns = trimList(c.DropColumns)
	c.BinLabels = trimList(c.BinLabels)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate reports the first invalid setting.
func (c *Global) Validate() error {
	if len(c.BinLabels) == 0 {
		return fmt.Errorf("invalid config: bin_labels is empty")
	}
	if c.Precision < -1 {
		return fmt.Errorf("invalid config: precision %d (use -1 or a non-negative number)", c.Precision)
	}
	if _, err := c.DelimiterRune(); err != nil {
		return err
	}
	if strings.TrimSpace(c.AverageColumn) == "" || strings.TrimSpace(c.BinColumn) == "" {
		return fmt.Errorf("invalid config: average_column and bin_column must be set")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DelimiterRune decodes the delimiter setting. Empty means auto-detect (0).
// The names "tab", "comma" and "semicolon" and the escape `\t` are accepted.
func (c *Global) DelimiterRune() (rune, error) {
	return ParseDelimiter(c.Delimiter)
}

// ParseDelimiter decodes a single-character delimiter or one of its names.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	case "comma":
		return ',', nil
	case "semicolon":
		return ';', nil
	case "pipe":
		return '|', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError || r == '"' || r == '\n' || r == '\r' {
		return 0, fmt.Errorf("invalid delimiter %q: want a single character", s)
	}
	return r, nil
}

// SplitList splits a comma-separated value into trimmed, non-blank entries.
func SplitList(s string) []string { return trimList(strings.Split(s, ",")) }

// trimList drops blank entries. Env values such as
// TABPREP_DROP_COLUMNS="Geolocation,Notes" arrive already split by viper.
func trimList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if p := strings.TrimSpace(s); p != "" {
			out = append(out, p)
		}
	}
	return out
}
