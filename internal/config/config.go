package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const dirName = ".filmstats"

// Global configuration structure.
type Global struct {
	// Report defaults
	HeadRows      int    `mapstructure:"head_rows" yaml:"head_rows"`
	TopN          int    `mapstructure:"top_n" yaml:"top_n"`
	HistogramBins int    `mapstructure:"histogram_bins" yaml:"histogram_bins"`
	OutputFormat  string `mapstructure:"output_format" yaml:"output_format"`
	Delimiter     string `mapstructure:"delimiter" yaml:"delimiter"`

	// Remote datasets
	HTTPTimeoutSec int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	MaxDownloadMB  int `mapstructure:"max_download_mb" yaml:"max_download_mb"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// Formats lists the supported report output formats.
var Formats = []string{"markdown", "json", "yaml"}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.filmstats/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("FILMSTATS")
	v.AutomaticEnv()

	v.SetDefault("head_rows", 5)
	v.SetDefault("top_n", 5)
	v.SetDefault("histogram_bins", 10)
	v.SetDefault("output_format", "markdown")
	v.SetDefault("delimiter", "")
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("max_download_mb", 100)
	v.SetDefault("log_level", "info")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects values the CLI cannot act on.
func (c *Global) Validate() error {
	if c.HeadRows < 0 {
		return fmt.Errorf("invalid head_rows: %d", c.HeadRows)
	}
	if c.TopN < 0 {
		return fmt.Errorf("invalid top_n: %d", c.TopN)
	}
	if c.HistogramBins < 0 {
		return fmt.Errorf("invalid histogram_bins: %d", c.HistogramBins)
	}
	if _, err := ParseFormat(c.OutputFormat); err != nil {
		return err
	}
	if _, err := ParseDelimiter(c.Delimiter); err != nil {
		return err
	}
	return nil
}

// ParseFormat normalizes an output format name.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return "markdown", nil
	case "json":
		return "json", nil
	case "yaml", "yml":
		return "yaml", nil
	}
	return "", fmt.Errorf("unsupported output format: %s (use %s)", s, strings.Join(Formats, "|"))
}

// ParseDelimiter maps a delimiter name to a rune; empty means auto-detect.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";":
		return ';', nil
	case "|", "pipe":
		return '|', nil
	}
	return 0, fmt.Errorf("unsupported delimiter: %s (use ','|';'|'tab'|'pipe')", s)
}

// CreateLogger builds a console logger at the configured level. debug forces
// the debug level.
func (c *Global) CreateLogger(w io.Writer, debug bool) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || c.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Logger()
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName), nil
}
