package credentials

import (
	"context"
	"errors"
	"log/slog"

	"prospector/internal/logging"
	"prospector/internal/services"
)

// Do invokes call with the active credential. Each time call reports
// services.ErrRateLimited the pool rotates and the identical call is issued
// again with the new credential. Any other error is returned as is. When the
// pool cannot rotate further the error is marked services.ErrAuthExhausted.
// The returned count is the number of rotations performed.
func Do[T any](ctx context.Context, pool *Pool, logger *slog.Logger, call func(context.Context, Credential) (T, error)) (T, int, error) {
	var zero T
	if logger == nil {
		logger = logging.NewNop()
	}
	cred, err := pool.Get()
	if err != nil {
		return zero, 0, services.Wrap(services.ErrAuthExhausted, "credentials", "select", pool.Purpose().String(), err)
	}
	rotations := 0
	for {
		if err := ctx.Err(); err != nil {
			return zero, rotations, err
		}
		value, err := call(ctx, cred)
		if err == nil {
			return value, rotations, nil
		}
		if !errors.Is(err, services.ErrRateLimited) {
			return zero, rotations, err
		}
		logger.Warn("credential rate limited",
			logging.String("purpose", pool.Purpose().String()),
			logging.String("key", cred.Masked()),
			logging.Int("index", pool.Index()),
			logging.Int("pool_size", pool.Len()),
		)
		next, rotateErr := pool.Rotate()
		if rotateErr != nil {
			return zero, rotations, services.Wrap(services.ErrAuthExhausted, "credentials", "rotate", pool.Purpose().String(), rotateErr)
		}
		rotations++
		logger.Info("rotated credential",
			logging.String("purpose", pool.Purpose().String()),
			logging.String("key", next.Masked()),
			logging.Int("index", pool.Index()),
		)
		cred = next
	}
}
