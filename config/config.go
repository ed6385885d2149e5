// Package config loads arraybench CLI settings from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/arraybench"
	"github.com/hupe1980/arraybench/buffer"
	"github.com/hupe1980/arraybench/codec"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// Config is the CLI configuration.
type Config struct {
	Elements         int            `yaml:"elements"`
	Seed             int64          `yaml:"seed"`
	Fill             string         `yaml:"fill"`
	OutputDir        string         `yaml:"output_dir"`
	KeepArtifacts    bool           `yaml:"keep_artifacts"`
	Codecs           []string       `yaml:"codecs"`
	Text             Text           `yaml:"text"`
	Raw              Raw            `yaml:"raw"`
	SelfDescribing   SelfDescribing `yaml:"self_describing"`
	MemoryLimitBytes int64          `yaml:"memory_limit_bytes"`
	Logging          Logging        `yaml:"logging"`
	Report           Report         `yaml:"report"`
	Metrics          Metrics        `yaml:"metrics"`
	Publish          Publish        `yaml:"publish"`
}

// Text configures the text codec.
type Text struct {
	// Precision is the number of significant digits; -1 is exact.
	Precision int `yaml:"precision"`
}

// Raw configures the raw codec.
type Raw struct {
	Mmap bool `yaml:"mmap"`
	Sync bool `yaml:"sync"`
}

// SelfDescribing configures the self-describing codec.
type SelfDescribing struct {
	// Backend is "native" or "hdf5".
	Backend string `yaml:"backend"`
	Dataset string `yaml:"dataset"`
}

// Logging contains logging configuration.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Report selects the report sink.
type Report struct {
	// Format is "text" or "json".
	Format string `yaml:"format"`
}

// Metrics configures metric export.
type Metrics struct {
	// Textfile, if set, receives Prometheus metrics after the run.
	Textfile string `yaml:"textfile"`
}

// Publish configures artifact upload.
type Publish struct {
	// Target is "", "local", "minio" or "s3". Empty disables publishing.
	Target               string `yaml:"target"`
	Bucket               string `yaml:"bucket"`
	Prefix               string `yaml:"prefix"`
	Concurrency          int    `yaml:"concurrency"`
	RateLimitBytesPerSec int64  `yaml:"rate_limit_bytes_per_sec"`
	Minio                Minio  `yaml:"minio"`
	S3                   S3     `yaml:"s3"`
	Local                Local  `yaml:"local"`
}

// Minio holds MinIO connection settings.
type Minio struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Region    string `yaml:"region"`
	Secure    bool   `yaml:"secure"`
}

// S3 holds AWS S3 settings. Credentials come from the default AWS chain.
type S3 struct {
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
}

// Local publishes into a directory.
type Local struct {
	Dir string `yaml:"dir"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Elements:      arraybench.DefaultElementCount,
		Seed:          1,
		Fill:          "integers",
		OutputDir:     ".",
		KeepArtifacts: true,
		Text: Text{
			Precision: codec.DefaultPrecision,
		},
		SelfDescribing: SelfDescribing{
			Backend: "native",
			Dataset: codec.DefaultDataset,
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
		Report: Report{
			Format: "text",
		},
		Publish: Publish{
			Prefix:      "arraybench",
			Concurrency: 2,
		},
	}
}

// Load reads path on top of the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to path.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Elements < 0 {
		invalid("elements must be >= 0, got %d", c.Elements)
	}
	if _, err := c.FillFunc(); err != nil {
		errs = append(errs, err)
	}
	if c.OutputDir == "" {
		invalid("output_dir is empty")
	}
	if c.Text.Precision < 1 && c.Text.Precision != -1 {
		invalid("text.precision must be >= 1 or -1, got %d", c.Text.Precision)
	}
	switch c.SelfDescribing.Backend {
	case "native", "hdf5":
	default:
		invalid("self_describing.backend %q (want native or hdf5)", c.SelfDescribing.Backend)
	}
	if c.MemoryLimitBytes < 0 {
		invalid("memory_limit_bytes must be >= 0")
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		invalid("logging.format %q (want text or json)", c.Logging.Format)
	}
	switch c.Report.Format {
	case "text", "json":
	default:
		invalid("report.format %q (want text or json)", c.Report.Format)
	}

	p := c.Publish
	switch p.Target {
	case "":
	case "local":
		if p.Local.Dir == "" {
			invalid("publish.local.dir is required")
		}
	case "minio":
		if p.Bucket == "" {
			invalid("publish.bucket is required for minio")
		}
		if p.Minio.Endpoint == "" {
			invalid("publish.minio.endpoint is required")
		}
	case "s3":
		if p.Bucket == "" {
			invalid("publish.bucket is required for s3")
		}
	default:
		invalid("publish.target %q (want local, minio or s3)", p.Target)
	}
	if p.Concurrency < 0 {
		invalid("publish.concurrency must be >= 0")
	}
	if p.RateLimitBytesPerSec < 0 {
		invalid("publish.rate_limit_bytes_per_sec must be >= 0")
	}

	return errors.Join(errs...)
}

// FillFunc returns the buffer generator named by Fill.
func (c *Config) FillFunc() (buffer.FillFunc, error) {
	switch strings.ToLower(c.Fill) {
	case "integers", "":
		return buffer.Integers(c.Seed), nil
	case "uniform":
		return buffer.Uniform(c.Seed), nil
	case "sequence":
		return buffer.Sequence(0, 1), nil
	default:
		return nil, fmt.Errorf("%w: fill %q (want integers, uniform or sequence)", ErrInvalid, c.Fill)
	}
}

// LogLevel parses Logging.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return 0, fmt.Errorf("%w: logging.level %q", ErrInvalid, c.Logging.Level)
	}
	return level, nil
}
