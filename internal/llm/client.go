// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/pdiddy/autosurvey/internal/metrics"
	"github.com/pdiddy/autosurvey/internal/tokens"
	"github.com/pdiddy/autosurvey/pkg/types"
)

// backoffBase controls the base duration for exponential backoff between
// attempts. Tests override this to avoid real sleeps.
var backoffBase = time.Second

// Client issues chat calls against a Backend.
type Client struct {
	backend     Backend
	log         *zap.Logger
	maxAttempts int
	concurrency int
	limiter     *rate.Limiter
	inflight    *semaphore.Weighted

	calls        atomic.Int64
	inputTokens  atomic.Int64
	outputTokens atomic.Int64
}

// New creates a Client. Zero config fields take the LLMConfig defaults; a
// nil logger discards output.
func New(backend Backend, cfg types.LLMConfig, log *zap.Logger) *Client {
	cfg = cfg.WithDefaults()
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		backend:     backend,
		log:         log.With(zap.String("backend", backend.Name())),
		maxAttempts: cfg.MaxAttempts,
		concurrency: cfg.Concurrency,
	}
	if cfg.RequestsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}
	if cfg.MaxInFlight > 0 {
		c.inflight = semaphore.NewWeighted(int64(cfg.MaxInFlight))
	}
	return c
}

// Chat sends one prompt, retrying failed or empty completions up to the
// configured number of attempts. After the last attempt the error wraps
// ErrNoResponse and the cause.
func (c *Client) Chat(ctx context.Context, prompt string, temperature float64) (string, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			c.log.Debug("retrying chat call",
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		text, err := c.attempt(ctx, prompt, temperature)
		if err == nil {
			metrics.ModelCalls.WithLabelValues(c.backend.Name(), "ok").Inc()
			return text, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err
	}

	metrics.ModelCalls.WithLabelValues(c.backend.Name(), "exhausted").Inc()
	c.log.Warn("chat call exhausted attempts",
		zap.Int("attempts", c.maxAttempts),
		zap.Error(lastErr))
	return "", fmt.Errorf("%w after %d attempts: %w", ErrNoResponse, c.maxAttempts, lastErr)
}

// attempt performs one throttled backend call and records its usage.
func (c *Client) attempt(ctx context.Context, prompt string, temperature float64) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}
	if c.inflight != nil {
		if err := c.inflight.Acquire(ctx, 1); err != nil {
			return "", err
		}
		defer c.inflight.Release(1)
	}

	metrics.ModelAttempts.WithLabelValues(c.backend.Name()).Inc()
	start := time.Now()
	comp, err := c.backend.Complete(ctx, prompt, temperature)
	metrics.ModelLatency.WithLabelValues(c.backend.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", err
	}
	if comp.Text == "" {
		return "", ErrEmptyResponse
	}

	in, out := comp.InputTokens, comp.OutputTokens
	if in == 0 {
		in = tokens.Estimate(prompt)
	}
	if out == 0 {
		out = tokens.Estimate(comp.Text)
	}
	c.calls.Add(1)
	c.inputTokens.Add(int64(in))
	c.outputTokens.Add(int64(out))
	metrics.ModelTokens.WithLabelValues("input").Add(float64(in))
	metrics.ModelTokens.WithLabelValues("output").Add(float64(out))
	return comp.Text, nil
}

// BatchChat sends independent prompts through a worker pool of the
// configured width. The results are aligned with prompts by index; each
// worker owns exactly one index. A failed or panicking worker reports its
// error in its own Result and never affects the other items.
func (c *Client) BatchChat(ctx context.Context, prompts []string, temperature float64) []Result {
	results := make([]Result, len(prompts))
	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, p := range prompts {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					c.log.Error("batch worker panicked", zap.Int("index", i), zap.Any("panic", r))
					results[i] = Result{Err: fmt.Errorf("%w: %v", ErrWorkerPanic, r)}
				}
			}()
			text, err := c.Chat(ctx, p, temperature)
			results[i] = Result{Text: text, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Usage returns the token usage accumulated so far.
func (c *Client) Usage() Usage {
	return Usage{
		Calls:        c.calls.Load(),
		InputTokens:  c.inputTokens.Load(),
		OutputTokens: c.outputTokens.Load(),
	}
}
