package repository

import (
	"context"
	"time"

	"golang-shopify-warroom/internal/dto"
	"golang-shopify-warroom/pkg/logger"
	"golang-shopify-warroom/pkg/utils"
)

// completeWithRetry runs a completion call up to maxAttempts times, sleeping
// an exponentially growing backoff between attempts (backoff, 2*backoff, ...).
// The bounded loop keeps attempt count and timing part of the visible
// contract instead of hiding them in a decorator. When all attempts fail the
// last error is wrapped in a ReasoningServiceError.
func completeWithRetry(ctx context.Context, log *logger.Logger, maxAttempts int, backoff time.Duration, call func(context.Context) (string, error)) (string, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		text, err := call(ctx)
		if err == nil {
			return text, nil
		}
		lastErr = err
		log.Warn("Reasoning service attempt failed",
			logger.IntField("attempt", attempt+1),
			logger.ErrorField(err),
		)
		if attempt < maxAttempts-1 {
			delay := backoff << attempt
			if !utils.SleepWithContext(ctx, delay) {
				break
			}
		}
	}
	return "", &dto.ReasoningServiceError{Attempts: maxAttempts, Err: lastErr}
}
