// Package pipeline implements the Pipeline Coordinator: a bounded-queue
// producer/consumer topology that downloads MRF files one stage ahead of
// processing, then guarantees their on-disk footprint is removed no matter
// how processing turns out.
//
// Grounded on original_source's pipeline_process/download_worker/feed_urls
// (three Python threads joined by two Queue(maxsize=max_buffered)
// instances, a None poison pill, and result_queue.get() called exactly
// len(urls) times), translated to three goroutines joined by two buffered
// channels — channel close stands in for the poison pill.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/gyeh/hospitalmrf/internal/extract"
	"github.com/gyeh/hospitalmrf/internal/fetch"
)

// Status is the outcome of fetching and extracting one URL.
type Status int

const (
	StatusSuccess Status = iota
	StatusError
)

// Result is what the Worker hands to Main for one URL.
type Result struct {
	URL     string
	Status  Status
	Payload string
	Cleanup []string
	Err     error
}

// Options configures the pipeline's backpressure and extraction behavior.
type Options struct {
	// MaxBuffered bounds both channels: at most this many files may be
	// downloaded ahead of processing. Per spec.md, defaults to 1 when <= 0.
	MaxBuffered int
	// TargetExtensions filters which extracted zip entries are eligible
	// payloads; nil means any file.
	TargetExtensions []string
}

// Summary tallies what Run did, for the caller's own logging.
type Summary struct {
	Succeeded int
	Failed    int
}

// Run downloads and extracts each URL in urls, one MaxBuffered stage ahead
// of processing, and invokes handle on every successfully fetched payload.
// handle's error does not stop the pipeline; Run counts it in the returned
// Summary's Failed count, the same as a fetch or extract failure.
func Run(ctx context.Context, urls []string, opts Options, handle func(context.Context, string) error) Summary {
	maxBuffered := opts.MaxBuffered
	if maxBuffered <= 0 {
		maxBuffered = 1
	}

	urlQ := make(chan string, maxBuffered)
	resultQ := make(chan Result, maxBuffered)

	// errgroup replaces an ad hoc sync.WaitGroup for the feeder/worker
	// pair: both goroutines share the group's derived context, so a
	// cancellation propagates to whichever of the two is still running,
	// and Wait below gives Run a clean join point before it returns.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		feed(gctx, urls, urlQ)
		return nil
	})
	g.Go(func() error {
		work(gctx, urlQ, resultQ, opts.TargetExtensions)
		return nil
	})

	var summary Summary
	for i := 0; i < len(urls); i++ {
		var res Result
		select {
		case res = <-resultQ:
		case <-ctx.Done():
			_ = g.Wait()
			for {
				select {
				case res := <-resultQ:
					cleanup(res.Cleanup)
				default:
					return summary
				}
			}
		}

		func() {
			defer cleanup(res.Cleanup)

			if res.Status != StatusSuccess {
				summary.Failed++
				return
			}
			if err := handle(ctx, res.Payload); err != nil {
				summary.Failed++
				return
			}
			summary.Succeeded++
		}()
	}
	_ = g.Wait()
	return summary
}

// feed ranges over urls, sending each to urlQ (blocking when full — this
// is the pipeline's backpressure), then closes urlQ. Closing is the signal
// to work that no more URLs are coming, the Go equivalent of the original
// pipeline's None poison pill.
func feed(ctx context.Context, urls []string, urlQ chan<- string) {
	defer close(urlQ)
	for _, u := range urls {
		select {
		case urlQ <- u:
		case <-ctx.Done():
			return
		}
	}
}

// work ranges over urlQ until it is closed, fetching and extracting each
// URL and sending a Result to resultQ. A panic in fetch/extract is
// recovered and converted into an error Result, mirroring the original's
// broad except Exception inside download_worker.
func work(ctx context.Context, urlQ <-chan string, resultQ chan<- Result, targetExtensions []string) {
	for {
		var url string
		var ok bool
		select {
		case url, ok = <-urlQ:
			if !ok {
				return
			}
		case <-ctx.Done():
			return
		}

		res := processOne(ctx, url, targetExtensions)

		select {
		case resultQ <- res:
		case <-ctx.Done():
			cleanup(res.Cleanup)
			return
		}
	}
}

func processOne(ctx context.Context, url string, targetExtensions []string) (res Result) {
	res.URL = url
	defer func() {
		if r := recover(); r != nil {
			res.Status = StatusError
			res.Err = fmt.Errorf("pipeline: panic fetching %s: %v", url, r)
		}
	}()

	fetched, err := fetch.Fetch(ctx, url)
	if err != nil {
		res.Status = StatusError
		res.Err = err
		return res
	}

	tmp, err := os.CreateTemp("", "hospitalmrf-*-"+filepath.Base(fetched.Filename))
	if err != nil {
		fetched.Body.Close()
		res.Status = StatusError
		res.Err = fmt.Errorf("pipeline: creating temp file for %s: %w", url, err)
		return res
	}
	res.Cleanup = []string{tmp.Name(), tmp.Name() + "_extracted"}
	_, copyErr := io.Copy(tmp, fetched.Body)
	fetched.Body.Close()
	tmp.Close()
	if copyErr != nil {
		os.Remove(tmp.Name())
		res.Status = StatusError
		res.Err = fmt.Errorf("pipeline: writing downloaded file for %s: %w", url, copyErr)
		return res
	}

	ext, err := extract.Extract(tmp.Name(), targetExtensions)
	if err != nil {
		res.Status = StatusError
		res.Err = fmt.Errorf("pipeline: extracting %s: %w", url, err)
		return res
	}

	res.Status = StatusSuccess
	res.Payload = ext.Payload
	res.Cleanup = ext.CleanupPaths
	return res
}

// cleanup removes every path in paths, logging failures the way
// original_source's cleanup() does (best-effort, never fatal).
func cleanup(paths []string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.RemoveAll(p); err != nil {
			log.Printf("pipeline: cleanup %s: %v", p, err)
		}
	}
}
