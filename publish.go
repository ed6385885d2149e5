package arraybench

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/arraybench/blobstore"
	"github.com/hupe1980/arraybench/resource"
)

// ReportObjectName is the object name of the JSON report within a run prefix.
const ReportObjectName = "report.json"

type publishOptions struct {
	prefix      string
	concurrency int
	resources   *resource.Controller
	logger      *Logger
}

// PublishOption configures Publish.
type PublishOption func(*publishOptions)

// WithPublishPrefix places objects under prefix/<run-id>/.
func WithPublishPrefix(prefix string) PublishOption {
	return func(o *publishOptions) {
		o.prefix = prefix
	}
}

// WithPublishConcurrency caps parallel uploads. It overrides the resource
// controller's MaxConcurrentUploads.
func WithPublishConcurrency(n int) PublishOption {
	return func(o *publishOptions) {
		o.concurrency = n
	}
}

// WithPublishResources throttles uploads through rc.
func WithPublishResources(rc *resource.Controller) PublishOption {
	return func(o *publishOptions) {
		o.resources = rc
	}
}

// WithPublishLogger sets the logger for upload events.
func WithPublishLogger(l *Logger) PublishOption {
	return func(o *publishOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// PublishResult lists the uploaded objects.
type PublishResult struct {
	Objects []string
	Bytes   int64
}

// Publish uploads the artifacts of rep and the report itself to store.
// Uploads run outside every measured interval and may proceed in parallel.
func Publish(ctx context.Context, store blobstore.Store, rep *Report, opts ...PublishOption) (*PublishResult, error) {
	o := publishOptions{logger: NoopLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.concurrency <= 0 {
		o.concurrency = o.resources.Config().MaxConcurrentUploads
	}

	base := path.Join(o.prefix, rep.RunID.String())

	data, err := rep.Marshal()
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}

	var (
		mu  sync.Mutex
		res PublishResult
	)
	done := func(name string, n int64) {
		mu.Lock()
		res.Objects = append(res.Objects, name)
		res.Bytes += n
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for _, a := range rep.Artifacts {
		name := path.Join(base, filepath.Base(a.Path))
		g.Go(func() error {
			n, err := uploadFile(gctx, store, name, a.Path, o.resources)
			o.logger.LogPublish(gctx, name, n, err)
			if err != nil {
				return fmt.Errorf("publish %s: %w", a.Codec, err)
			}
			done(name, n)
			return nil
		})
	}

	name := path.Join(base, ReportObjectName)
	g.Go(func() error {
		r := resource.NewRateLimitedReader(gctx, bytes.NewReader(data), o.resources)
		err := store.Put(gctx, name, r, int64(len(data)))
		o.logger.LogPublish(gctx, name, int64(len(data)), err)
		if err != nil {
			return fmt.Errorf("publish report: %w", err)
		}
		done(name, int64(len(data)))
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &res, nil
}

func uploadFile(ctx context.Context, store blobstore.Store, name, src string, rc *resource.Controller) (int64, error) {
	f, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return 0, err
	}
	if err := store.Put(ctx, name, resource.NewRateLimitedReader(ctx, f, rc), fi.Size()); err != nil {
		return 0, err
	}
	return fi.Size(), nil
}
