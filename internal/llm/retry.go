package llm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Retry retries failed completions with a doubling delay.
type Retry struct {
	next        Client
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	logger      *slog.Logger
	sleep       func(ctx context.Context, d time.Duration) error
}

var _ Client = (*Retry)(nil)

// NewRetry wraps next. maxAttempts counts the first call; values below 1 mean 1.
func NewRetry(next Client, maxAttempts int, baseDelay time.Duration, logger *slog.Logger) *Retry {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Retry{
		next:        next,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		maxDelay:    30 * time.Second,
		logger:      logger,
		sleep:       sleepContext,
	}
}

func (r *Retry) Complete(ctx context.Context, prompt string) (string, error) {
	var err error
	delay := r.baseDelay
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		var out string
		out, err = r.next.Complete(ctx, prompt)
		if err == nil {
			return out, nil
		}
		// The caller's context bounds the whole call; a per-request
		// client timeout with ctx still alive is retried.
		if ctx.Err() != nil {
			return "", errors.Join(ctx.Err(), err)
		}
		if attempt == r.maxAttempts || !Retryable(err) {
			break
		}

		r.logger.Warn("llm_retry",
			"component", "llm",
			"attempt", attempt,
			"delay_ms", delay.Milliseconds(),
			"error_message", err.Error())

		if serr := r.sleep(ctx, delay); serr != nil {
			return "", serr
		}
		delay *= 2
		if delay > r.maxDelay {
			delay = r.maxDelay
		}
	}
	return "", err
}

// Retryable reports whether err is worth another attempt.
// 4xx responses other than 429 are final.
func Retryable(err error) bool {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	if status == http.StatusTooManyRequests {
		return true
	}
	return status < 400 || status >= 500
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
