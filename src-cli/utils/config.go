package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	configPath   string
	databasePath string
	location     *time.Location

	rssOutput    string
	icalOutput   string
	importSource string
	metricsFile  string
}

// fileConfig mirrors config.yaml. The flat *_output/*_source keys are the
// older spelling of the sectioned ones.
type fileConfig struct {
	Database databaseSource `yaml:"database"`
	Timezone string         `yaml:"timezone"`
	RSS      struct {
		Output string `yaml:"output"`
	} `yaml:"rss"`
	Ical struct {
		Output string `yaml:"output"`
	} `yaml:"ical"`
	Import struct {
		Source string `yaml:"source"`
	} `yaml:"import"`
	MetricsFile string `yaml:"metrics_file"`

	RSSOutput    string `yaml:"rss_output"`
	IcalOutput   string `yaml:"ical_output"`
	ImportSource string `yaml:"import_source"`
}

// databaseSource accepts both `database: path` and `database: {path: path}`.
type databaseSource struct {
	Path string
}

func (d *databaseSource) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&d.Path)
	case yaml.MappingNode:
		var section struct {
			Path string `yaml:"path"`
		}
		if err := node.Decode(&section); err != nil {
			return err
		}
		d.Path = section.Path
		return nil
	default:
		return fmt.Errorf("line %d: database must be a path or a mapping with a path", node.Line)
	}
}

// NewConfig resolves every setting from, in order, the command line,
// the environment, the YAML file at configPath and the defaults. Blank
// arguments mean the flag was not given.
func NewConfig(configPath, databaseFlag string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath()
	}
	file, err := loadFileConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("NewConfig: %w", err)
	}

	location, err := func() (*time.Location, error) {
		timezoneStr := firstNonEmpty(os.Getenv("TOKI_TIMEZONE"), file.Timezone)
		switch timezoneStr {
		case "":
			slog.Debug("timezone is not set, using local timezone", "timezone", time.Local)
			return time.Local, nil
		case "UTC":
			return time.UTC, nil
		default:
			loc, err := time.LoadLocation(timezoneStr)
			if err != nil {
				return nil, fmt.Errorf("unknown timezone '%s'", timezoneStr)
			}
			slog.Debug("config", "timezone", timezoneStr)
			return loc, nil
		}
	}()
	if err != nil {
		return nil, fmt.Errorf("NewConfig: %w", err)
	}

	return &Config{
		configPath: configPath,
		location:   location,

		databasePath: func() string {
			path := firstNonEmpty(databaseFlag, os.Getenv("TOKI_DATABASE"), file.Database.Path)
			if path == "" {
				path = DefaultDatabasePath()
			}
			path = expandHome(path)
			slog.Debug("config", "database", path)
			return path
		}(),

		rssOutput: func() string {
			return expandHome(firstNonEmpty(file.RSS.Output, file.RSSOutput))
		}(),
		icalOutput: func() string {
			return expandHome(firstNonEmpty(file.Ical.Output, file.IcalOutput))
		}(),
		importSource: func() string {
			return expandHome(firstNonEmpty(file.Import.Source, file.ImportSource))
		}(),
		metricsFile: func() string {
			path := expandHome(firstNonEmpty(os.Getenv("TOKI_METRICS_FILE"), file.MetricsFile))
			if path != "" {
				slog.Debug("config", "metrics_file", path)
			}
			return path
		}(),
	}, nil
}

func loadFileConfig(path string) (fileConfig, error) {
	var file fileConfig
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("no config file, using defaults", "path", path)
		return file, nil
	case err != nil:
		return file, fmt.Errorf("can't read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return file, fmt.Errorf("can't parse config file %s: %w", path, err)
	}
	return file, nil
}

// DefaultConfigPath is <user config dir>/toki/config.yaml.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(dir, "toki", "config.yaml")
}

// DefaultDatabasePath follows the XDG data directory.
func DefaultDatabasePath() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "toki", "toki.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "toki.db"
	}
	return filepath.Join(home, ".local", "share", "toki", "toki.db")
}

// ParseLogLevel maps TOKI_LOG_LEVEL onto a slog level, info by default.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// Get the config file path that was read (it may not exist)
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// Get --database / TOKI_DATABASE / database
func (c *Config) GetDatabasePath() string {
	return c.databasePath
}

// Get TOKI_TIMEZONE / timezone, the zone civil dates and times are read in
func (c *Config) GetLocation() *time.Location {
	return c.location
}

// Get rss.output
func (c *Config) GetRSSOutput() string {
	return c.rssOutput
}

// Get ical.output
func (c *Config) GetIcalOutput() string {
	return c.icalOutput
}

// Get import.source
func (c *Config) GetImportSource() string {
	return c.importSource
}

// Get TOKI_METRICS_FILE / metrics_file
func (c *Config) GetMetricsFile() string {
	return c.metricsFile
}
