// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package indexing

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// permanentError stops RetryWithBackoff on the attempt that returned it.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. RetryWithBackoff returns the
// underlying error at once.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// RetryWithBackoff calls operation up to maxAttempts times. The wait before
// attempt n+1 is baseDelay doubled n-1 times; a zero baseDelay retries
// immediately. It returns the last error, or the context error when ctx
// ends between attempts.
func RetryWithBackoff(ctx context.Context, operation func() error, maxAttempts int, baseDelay time.Duration) error {
	if maxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	var err error
	delay := baseDelay
	for attempt := range maxAttempts {
		if attempt > 0 {
			if !wait(ctx, delay) {
				return ctx.Err()
			}
			delay *= 2
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err = operation(); err == nil {
			if attempt > 0 {
				slog.Debug("operation succeeded after retry", "attempt", attempt+1)
			}
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		slog.Debug("operation failed", "attempt", attempt+1, "maxAttempts", maxAttempts, "err", err)
	}
	return err
}

// wait sleeps for d and reports whether ctx is still live.
func wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
