package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/zen-systems/tiergate/pkg/config"
)

// CallReport captures dispatch metadata for one request.
type CallReport struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Usage    Usage  `json:"usage"`
	Retries  int    `json:"retries"`
	Error    string `json:"error,omitempty"`
}

// Call sends req to a, retrying transient failures with exponential backoff.
func Call(ctx context.Context, a Adapter, req Request, retry config.RetryConfig) (*Response, CallReport, error) {
	report := CallReport{Provider: a.Name(), Model: req.Model}
	var lastErr error

	for attempt := 0; attempt <= retry.MaxRetries; attempt++ {
		report.Retries = attempt

		resp, err := a.Generate(ctx, req)
		if err == nil {
			if resp.Usage != nil {
				report.Usage = *resp.Usage
			}
			return resp, report, nil
		}

		lastErr = err
		if !IsTransient(err) || attempt == retry.MaxRetries {
			break
		}

		if err := sleepWithContext(ctx, computeBackoff(retry.BaseBackoffMs, retry.MaxBackoffMs, attempt)); err != nil {
			lastErr = err
			break
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%s call failed", a.Name())
	}
	report.Error = lastErr.Error()
	return nil, report, lastErr
}

func computeBackoff(baseMs, maxMs, attempt int) time.Duration {
	backoff := time.Duration(baseMs) * time.Millisecond
	limit := time.Duration(maxMs) * time.Millisecond
	for i := 0; i < attempt; i++ {
		backoff *= 2
		if backoff >= limit {
			return limit
		}
	}
	if backoff > limit {
		return limit
	}
	return backoff
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
