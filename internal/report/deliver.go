package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Reporter delivers a finished evaluation to the hosting context.
type Reporter interface {
	Deliver(ctx context.Context, msg Message) error
}

// Func adapts a function to Reporter.
type Func func(ctx context.Context, msg Message) error

// Deliver implements Reporter.
func (f Func) Deliver(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

type discard struct{}

func (discard) Deliver(context.Context, Message) error { return nil }

// Discard drops every message.
var Discard Reporter = discard{}

// DefaultHTTPTimeout bounds a single delivery attempt.
const DefaultHTTPTimeout = 5 * time.Second

// HTTPReporter posts the message as JSON to a hosting URL. The hosting page
// accepts results from any origin, so no origin check is applied here.
type HTTPReporter struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
}

// NewHTTPReporter creates a reporter for url with the default timeout.
func NewHTTPReporter(url string, timeout time.Duration) *HTTPReporter {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &HTTPReporter{URL: url, Client: &http.Client{}, Timeout: timeout}
}

// Deliver implements Reporter.
func (r *HTTPReporter) Deliver(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("post result: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("post result: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// FileReporter writes the message as indented JSON to Path.
type FileReporter struct {
	Path string
}

// Deliver implements Reporter.
func (r FileReporter) Deliver(_ context.Context, msg Message) error {
	return WriteJSONFile(r.Path, msg)
}

// WriterReporter encodes the message to W.
type WriterReporter struct {
	mu sync.Mutex
	W  io.Writer
}

// NewWriterReporter wraps w.
func NewWriterReporter(w io.Writer) *WriterReporter {
	return &WriterReporter{W: w}
}

// Deliver implements Reporter.
func (r *WriterReporter) Deliver(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return WriteJSON(r.W, msg)
}

// MultiReporter fans a message out to every reporter concurrently and
// joins their errors.
type MultiReporter []Reporter

// Deliver implements Reporter.
func (m MultiReporter) Deliver(ctx context.Context, msg Message) error {
	errs := make([]error, len(m))
	var g errgroup.Group
	for i, r := range m {
		g.Go(func() error {
			errs[i] = r.Deliver(ctx, msg)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}
