// Package toml loads docdex configuration from TOML files.
package toml

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/docdex"
	"github.com/fwojciec/docdex/crawl"
	"github.com/fwojciec/docdex/robots"
	gotoml "github.com/pelletier/go-toml/v2"
)

// Environment variables consulted by Load and DefaultPath.
const (
	EnvConfig = "DOCDEX_CONFIG"
	EnvDB     = "DOCDEX_DB"
)

// Config is the top-level configuration.
type Config struct {
	DB         DBConfig         `toml:"db"`
	Crawl      CrawlConfig      `toml:"crawl"`
	Politeness PolitenessConfig `toml:"politeness"`
	Logging    LoggingConfig    `toml:"logging"`
}

// DBConfig locates the SQLite database.
type DBConfig struct {
	Path string `toml:"path"`
}

// CrawlConfig tunes the scheduler.
type CrawlConfig struct {
	Workers           int      `toml:"workers"`
	MaxPages          int      `toml:"max_pages"`
	NavigationTimeout Duration `toml:"navigation_timeout"`
	SeedFactor        int      `toml:"seed_factor"`
	Subtabs           []string `toml:"subtabs"`
	MinSegments       int      `toml:"min_segments"`
	MaxSegments       int      `toml:"max_segments"`
}

// PolitenessConfig tunes robots.txt handling and request pacing.
type PolitenessConfig struct {
	UserAgent     string   `toml:"user_agent"`
	DefaultDelay  Duration `toml:"default_delay"`
	RobotsTimeout Duration `toml:"robots_timeout"`
}

// LoggingConfig selects the log level and output format.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Duration is a time.Duration written as a Go duration string, e.g. "1.5s".
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration as a string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	matcher := crawl.DefaultComponentMatcher()
	return &Config{
		DB: DBConfig{
			Path: defaultDBPath(),
		},
		Crawl: CrawlConfig{
			Workers:           crawl.DefaultWorkers,
			MaxPages:          crawl.DefaultMaxPages,
			NavigationTimeout: Duration(crawl.DefaultNavigationTimeout),
			SeedFactor:        crawl.DefaultSeedFactor,
			Subtabs:           append([]string(nil), crawl.DefaultSubtabs...),
			MinSegments:       matcher.MinSegments,
			MaxSegments:       matcher.MaxSegments,
		},
		Politeness: PolitenessConfig{
			UserAgent:     robots.DefaultUserAgent,
			DefaultDelay:  Duration(robots.DefaultDelay),
			RobotsTimeout: Duration(robots.DefaultTimeout),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath returns the config file location: $DOCDEX_CONFIG if set,
// otherwise ~/.docdex/config.toml.
func DefaultPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".docdex", "config.toml")
	}
	return filepath.Join(home, ".docdex", "config.toml")
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".docdex", "docdex.db")
	}
	return filepath.Join(home, ".docdex", "docdex.db")
}

// Load reads the config file at path on top of the defaults. A missing file
// yields the defaults. $DOCDEX_DB overrides the database path.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := gotoml.Unmarshal(data, cfg); err != nil {
			return nil, docdex.Errorf(docdex.EINVALID, "parse config %s: %v", path, err)
		}
	}

	if p := os.Getenv(EnvDB); p != "" {
		cfg.DB.Path = p
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns an error if the configuration contains invalid values.
func (c *Config) Validate() error {
	if c.DB.Path == "" {
		return docdex.Errorf(docdex.EINVALID, "db.path required")
	}
	if c.Crawl.Workers < 1 {
		return docdex.Errorf(docdex.EINVALID, "crawl.workers must be at least 1")
	}
	if c.Crawl.MaxPages < 1 {
		return docdex.Errorf(docdex.EINVALID, "crawl.max_pages must be at least 1")
	}
	if c.Crawl.NavigationTimeout <= 0 {
		return docdex.Errorf(docdex.EINVALID, "crawl.navigation_timeout must be positive")
	}
	if c.Crawl.MinSegments < 1 || c.Crawl.MaxSegments < c.Crawl.MinSegments {
		return docdex.Errorf(docdex.EINVALID, "crawl.min_segments and crawl.max_segments must satisfy 1 <= min <= max")
	}
	if c.Politeness.DefaultDelay < 0 {
		return docdex.Errorf(docdex.EINVALID, "politeness.default_delay must not be negative")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return docdex.Errorf(docdex.EINVALID, "unknown logging.level %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return docdex.Errorf(docdex.EINVALID, "unknown logging.format %q", c.Logging.Format)
	}
	return nil
}

// ComponentMatcher returns the segment bounds for component discovery.
func (c CrawlConfig) ComponentMatcher() crawl.ComponentMatcher {
	return crawl.ComponentMatcher{MinSegments: c.MinSegments, MaxSegments: c.MaxSegments}
}
