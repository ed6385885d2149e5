package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hupe1980/arraybench"
	"github.com/hupe1980/arraybench/blobstore"
	"github.com/hupe1980/arraybench/blobstore/minio"
	"github.com/hupe1980/arraybench/blobstore/s3"
	"github.com/hupe1980/arraybench/codec"
	"github.com/hupe1980/arraybench/config"
	"github.com/hupe1980/arraybench/container"
	h5backend "github.com/hupe1980/arraybench/container/hdf5"
	"github.com/hupe1980/arraybench/container/native"
	"github.com/hupe1980/arraybench/metric"
	"github.com/hupe1980/arraybench/persistence"
	"github.com/hupe1980/arraybench/report"
	"github.com/hupe1980/arraybench/resource"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark",
		Long: `Run writes and reads the buffer through every selected codec.

Example:
  arraybench run --elements 1000000 --codecs raw,text --output-dir /tmp/bench`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			applyFlags(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runBenchmark(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.Int("elements", arraybench.DefaultElementCount, "number of float64 elements")
	f.Int64("seed", 1, "random seed")
	f.String("fill", "integers", "buffer contents: integers, uniform or sequence")
	f.StringP("output-dir", "o", ".", "directory for codec output files")
	f.Bool("keep-artifacts", true, "leave codec output files on disk")
	f.StringSlice("codecs", nil, "codecs to run (default all)")
	f.Int("precision", codec.DefaultPrecision, "text codec significant digits, -1 for exact")
	f.Bool("raw-mmap", false, "read raw files through a memory mapping")
	f.String("backend", "native", "self-describing backend: native or hdf5")
	f.Int64("memory-limit", 0, "memory budget for buffers in bytes, 0 for unlimited")
	f.String("log-level", "info", "log level")
	f.String("log-format", "text", "log format: text or json")
	f.String("format", "text", "report format: text or json")
	f.String("metrics-textfile", "", "write Prometheus metrics to this file")
	f.String("publish-target", "", "publish artifacts to local, minio or s3")
	f.String("publish-bucket", "", "bucket for minio and s3")
	f.String("publish-prefix", "arraybench", "object name prefix")
	f.String("publish-dir", "", "directory for the local target")

	return cmd
}

// applyFlags overrides file settings with explicitly set flags.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	set := func(name string, apply func()) {
		if f.Changed(name) {
			apply()
		}
	}

	set("elements", func() { cfg.Elements, _ = f.GetInt("elements") })
	set("seed", func() { cfg.Seed, _ = f.GetInt64("seed") })
	set("fill", func() { cfg.Fill, _ = f.GetString("fill") })
	set("output-dir", func() { cfg.OutputDir, _ = f.GetString("output-dir") })
	set("keep-artifacts", func() { cfg.KeepArtifacts, _ = f.GetBool("keep-artifacts") })
	set("codecs", func() { cfg.Codecs, _ = f.GetStringSlice("codecs") })
	set("precision", func() { cfg.Text.Precision, _ = f.GetInt("precision") })
	set("raw-mmap", func() { cfg.Raw.Mmap, _ = f.GetBool("raw-mmap") })
	set("backend", func() { cfg.SelfDescribing.Backend, _ = f.GetString("backend") })
	set("memory-limit", func() { cfg.MemoryLimitBytes, _ = f.GetInt64("memory-limit") })
	set("log-level", func() { cfg.Logging.Level, _ = f.GetString("log-level") })
	set("log-format", func() { cfg.Logging.Format, _ = f.GetString("log-format") })
	set("format", func() { cfg.Report.Format, _ = f.GetString("format") })
	set("metrics-textfile", func() { cfg.Metrics.Textfile, _ = f.GetString("metrics-textfile") })
	set("publish-target", func() { cfg.Publish.Target, _ = f.GetString("publish-target") })
	set("publish-bucket", func() { cfg.Publish.Bucket, _ = f.GetString("publish-bucket") })
	set("publish-prefix", func() { cfg.Publish.Prefix, _ = f.GetString("publish-prefix") })
	set("publish-dir", func() { cfg.Publish.Local.Dir, _ = f.GetString("publish-dir") })
}

func runBenchmark(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) error {
	logger, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}

	reg, err := newRegistry(cfg)
	if err != nil {
		return err
	}
	codecs, err := reg.Select(cfg.Codecs)
	if err != nil {
		return err
	}

	fill, err := cfg.FillFunc()
	if err != nil {
		return err
	}

	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:     cfg.MemoryLimitBytes,
		MaxConcurrentUploads: cfg.Publish.Concurrency,
		UploadBytesPerSec:    cfg.Publish.RateLimitBytesPerSec,
	})

	opts := []arraybench.Option{
		arraybench.WithElementCount(cfg.Elements),
		arraybench.WithFill(fill),
		arraybench.WithOutputDir(cfg.OutputDir),
		arraybench.WithKeepArtifacts(cfg.KeepArtifacts || cfg.Publish.Target != ""),
		arraybench.WithSink(newSink(cfg, stdout)),
		arraybench.WithLogger(logger),
		arraybench.WithResourceController(rc),
	}

	var prom *metric.PrometheusCollector
	if cfg.Metrics.Textfile != "" {
		prom = metric.NewPrometheusCollector()
		opts = append(opts, arraybench.WithMetricsCollector(prom))
	}

	runner, err := arraybench.NewRunner(codecs, opts...)
	if err != nil {
		return err
	}

	rep, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	if prom != nil {
		if err := prom.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	if cfg.Publish.Target != "" {
		store, err := newStore(ctx, cfg.Publish)
		if err != nil {
			return err
		}
		if _, err := arraybench.Publish(ctx, store, rep,
			arraybench.WithPublishPrefix(cfg.Publish.Prefix),
			arraybench.WithPublishResources(rc),
			arraybench.WithPublishLogger(logger),
		); err != nil {
			return err
		}
		if !cfg.KeepArtifacts {
			for _, a := range rep.Artifacts {
				if err := persistence.RemoveStale(a.Path); err != nil {
					logger.WarnContext(ctx, "remove artifact", "path", a.Path, "error", err)
				}
			}
		}
	}

	return nil
}

func newLogger(cfg *config.Config, w io.Writer) (*arraybench.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	if cfg.Logging.Format == "json" {
		return arraybench.NewJSONLogger(w, level), nil
	}
	return arraybench.NewTextLogger(w, level), nil
}

func newRegistry(cfg *config.Config) (*codec.Registry, error) {
	var backend container.Backend
	switch cfg.SelfDescribing.Backend {
	case "native", "":
		backend = native.New()
	case "hdf5":
		backend = h5backend.New()
	default:
		return nil, fmt.Errorf("unknown self-describing backend %q", cfg.SelfDescribing.Backend)
	}

	return codec.Defaults(codec.Config{
		Text: []codec.TextOption{codec.WithPrecision(cfg.Text.Precision)},
		Raw:  []codec.RawOption{codec.WithMmap(cfg.Raw.Mmap), codec.WithSync(cfg.Raw.Sync)},
		SelfDescribing: []codec.SelfDescribingOption{
			codec.WithBackend(backend),
			codec.WithDataset(cfg.SelfDescribing.Dataset),
		},
	}), nil
}

func newSink(cfg *config.Config, w io.Writer) arraybench.ReportSink {
	if cfg.Report.Format == "json" {
		return report.NewJSON(w)
	}
	return report.NewText(w)
}

func newStore(ctx context.Context, p config.Publish) (blobstore.Store, error) {
	switch p.Target {
	case "local":
		return blobstore.NewLocalStore(p.Local.Dir), nil
	case "minio":
		client, err := minio.NewClient(minio.Config{
			Endpoint:  p.Minio.Endpoint,
			AccessKey: p.Minio.AccessKey,
			SecretKey: p.Minio.SecretKey,
			Region:    p.Minio.Region,
			Secure:    p.Minio.Secure,
		})
		if err != nil {
			return nil, err
		}
		store := minio.NewStore(client, p.Bucket, "")
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case "s3":
		return s3.New(ctx, p.Bucket, s3.WithRegion(p.S3.Region), s3.WithEndpoint(p.S3.Endpoint))
	default:
		return nil, fmt.Errorf("unknown publish target %q", p.Target)
	}
}
