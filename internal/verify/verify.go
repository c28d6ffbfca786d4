package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"prospector/internal/credentials"
	"prospector/internal/logging"
	"prospector/internal/metrics"
	"prospector/internal/runlock"
	"prospector/internal/services"
	"prospector/internal/services/emailcheck"
	"prospector/internal/store"
)

// Source label used in metrics and logs.
const Source = "email"

const defaultBatchSize = 25

// ErrNothingToVerify reports that every fetched record was already processed.
// It is a no-more-data condition, not a failure.
var ErrNothingToVerify = fmt.Errorf("nothing to verify: %w", services.ErrNoMoreData)

// Outcome is how one record was settled.
type Outcome string

const (
	OutcomeMatched   Outcome = "matched"
	OutcomeNoMatch   Outcome = "no_match"
	OutcomeNoWebsite Outcome = "no_website"
)

// Checker verifies one address with the given key.
type Checker interface {
	Verify(ctx context.Context, key, email string) (emailcheck.Result, error)
}

// Options wires a Validator.
type Options struct {
	Store     *store.Store
	Checker   Checker
	Metrics   *metrics.Recorder
	Logger    *slog.Logger
	LockDir   string
	BatchSize int
}

// Validator guesses and confirms addresses for stored records.
type Validator struct {
	store     *store.Store
	checker   Checker
	metrics   *metrics.Recorder
	logger    *slog.Logger
	lockDir   string
	batchSize int
}

// New constructs a Validator.
func New(opts Options) (*Validator, error) {
	if opts.Store == nil || opts.Checker == nil {
		return nil, errors.New("verify requires a store and an email checker")
	}
	batch := opts.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	return &Validator{
		store:     opts.Store,
		checker:   opts.Checker,
		metrics:   opts.Metrics,
		logger:    logging.NewComponentLogger(opts.Logger, "verify"),
		lockDir:   opts.LockDir,
		batchSize: batch,
	}, nil
}

// Result summarizes one run.
type Result struct {
	Processed int `json:"processed"`
	Matched   int `json:"matched"`
	NoMatch   int `json:"no_match"`
	NoWebsite int `json:"no_website"`
	Requests  int `json:"requests"`
	Rotations int `json:"rotations"`
}

func (r *Result) add(outcome Outcome) {
	r.Processed++
	switch outcome {
	case OutcomeMatched:
		r.Matched++
	case OutcomeNoMatch:
		r.NoMatch++
	case OutcomeNoWebsite:
		r.NoWebsite++
	}
}

// Run processes up to requested records that follow the collection's
// verified_count, in insertion order. The count is clamped to the records
// not yet processed. Each settled record stores its email (when one was
// confirmed) and advances verified_count by one in the same transaction.
// Any failure other than rate limiting stops the run before the current
// record is counted.
func (v *Validator) Run(ctx context.Context, collection *store.Collection, pool *credentials.Pool, requested int) (Result, error) {
	var result Result
	if collection == nil || pool == nil {
		return result, services.Wrap(services.ErrValidation, "verify", "run", "collection and credential pool are required", nil)
	}
	if requested <= 0 {
		return result, services.Wrap(services.ErrValidation, "verify", "run", "count must be positive", nil)
	}

	ctx = services.WithCollectionID(ctx, collection.ID)
	ctx = services.WithPurpose(ctx, pool.Purpose().String())
	logger := logging.WithContext(ctx, v.logger)

	if v.lockDir != "" {
		lock, err := runlock.Acquire(v.lockDir, collection.ID)
		if err != nil {
			return result, err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("release collection lock failed", logging.Error(err))
			}
		}()
	}

	cur, err := v.store.LoadCursor(ctx, collection.ID)
	if err != nil {
		return result, err
	}
	pending := cur.Unverified()
	if pending == 0 {
		return result, ErrNothingToVerify
	}
	target := int(min(int64(requested), pending))
	logger.Info("verification started",
		logging.String("list", collection.Name),
		logging.Int("requested", requested),
		logging.Int("target", target),
		logging.Int64("verified_count", cur.VerifiedCount),
	)

	for result.Processed < target {
		window := store.Window{
			Limit:  min(v.batchSize, target-result.Processed),
			Offset: int(cur.VerifiedCount) + result.Processed,
		}
		page, err := v.store.ReadWindow(ctx, collection.ID, window)
		if err != nil {
			return result, err
		}
		if len(page.Items) == 0 {
			logger.Warn("no stored records at verified offset", logging.Int("offset", window.Offset))
			return result, nil
		}

		for _, rec := range page.Items {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			outcome, email, err := v.settle(ctx, logger, pool, rec, &result)
			if err != nil {
				v.metrics.ObserveVerification(services.Label(err))
				logger.Error("verification aborted",
					logging.Int64("record_id", rec.ID),
					logging.String("outcome", services.Label(err)),
					logging.Error(err),
				)
				return result, err
			}
			if err := v.store.RecordVerification(ctx, collection.ID, rec.ID, email); err != nil {
				return result, err
			}
			result.add(outcome)
			v.metrics.ObserveVerification(string(outcome))
			logger.Debug("record settled",
				logging.Int64("record_id", rec.ID),
				logging.String("outcome", string(outcome)),
			)
		}
	}

	logger.Info("verification finished",
		logging.Int("processed", result.Processed),
		logging.Int("matched", result.Matched),
		logging.Int("requests", result.Requests),
	)
	return result, nil
}

// settle checks the candidates of one record in order and stops at the first
// confirmed address.
func (v *Validator) settle(ctx context.Context, logger *slog.Logger, pool *credentials.Pool, rec store.Record, result *Result) (Outcome, string, error) {
	domain := BareDomain(rec.OrganizationWebsite)
	if domain == "" {
		return OutcomeNoWebsite, "", nil
	}
	for _, candidate := range Candidates(rec.FirstName, rec.LastName, domain) {
		verdict, rotations, err := credentials.Do(ctx, pool, logger, func(ctx context.Context, cred credentials.Credential) (emailcheck.Result, error) {
			result.Requests++
			res, err := v.checker.Verify(ctx, cred.Key, candidate)
			v.metrics.ObserveRequest(Source, err)
			return res, err
		})
		result.Rotations += rotations
		v.metrics.AddRotations(pool.Purpose().String(), rotations)
		if err != nil {
			return "", "", err
		}
		if verdict.Confirmed() {
			return OutcomeMatched, candidate, nil
		}
	}
	return OutcomeNoMatch, "", nil
}
