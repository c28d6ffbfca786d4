package ingest

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"prospector/internal/credentials"
	"prospector/internal/filter"
	"prospector/internal/logging"
	"prospector/internal/metrics"
	"prospector/internal/runlock"
	"prospector/internal/services"
	"prospector/internal/services/leadsource"
	"prospector/internal/store"
)

// Source label used in metrics and logs.
const Source = "leads"

// PageFetcher retrieves one page of search results with the given key.
type PageFetcher interface {
	FetchPage(ctx context.Context, key string, spec filter.Spec, cursor string) (leadsource.Page, error)
}

// Options wires a Fetcher.
type Options struct {
	Store   *store.Store
	Source  PageFetcher
	Metrics *metrics.Recorder
	Logger  *slog.Logger
	LockDir string
}

// Fetcher drives the paginated ingestion loop for one collection at a time.
type Fetcher struct {
	store   *store.Store
	source  PageFetcher
	metrics *metrics.Recorder
	logger  *slog.Logger
	lockDir string
}

// New constructs a Fetcher.
func New(opts Options) (*Fetcher, error) {
	if opts.Store == nil || opts.Source == nil {
		return nil, errors.New("ingest requires a store and a lead source")
	}
	return &Fetcher{
		store:   opts.Store,
		source:  opts.Source,
		metrics: opts.Metrics,
		logger:  logging.NewComponentLogger(opts.Logger, "ingest"),
		lockDir: opts.LockDir,
	}, nil
}

// Result summarizes one run.
type Result struct {
	Pages      int    `json:"pages"`
	Fetched    int    `json:"fetched"`
	Inserted   int    `json:"inserted"`
	Skipped    int    `json:"skipped"`
	Requests   int    `json:"requests"`
	Rotations  int    `json:"rotations"`
	Done       bool   `json:"done"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// Run fetches pages for the collection until at least requested people were
// received or the source has no further pages. Every page is persisted
// together with its cursor before the next request, so an error leaves the
// collection resumable from the last committed page. Done reports that the
// source returned no continuation token.
//
// A collection whose cursor is already exhausted yields services.ErrNoMoreData
// without any request.
func (f *Fetcher) Run(ctx context.Context, collection *store.Collection, pool *credentials.Pool, requested int) (Result, error) {
	var result Result
	if collection == nil || pool == nil {
		return result, services.Wrap(services.ErrValidation, "ingest", "run", "collection and credential pool are required", nil)
	}
	if requested <= 0 {
		return result, services.Wrap(services.ErrValidation, "ingest", "run", "count must be positive", nil)
	}

	ctx = services.WithCollectionID(ctx, collection.ID)
	ctx = services.WithPurpose(ctx, pool.Purpose().String())
	logger := logging.WithContext(ctx, f.logger)

	if f.lockDir != "" {
		lock, err := runlock.Acquire(f.lockDir, collection.ID)
		if err != nil {
			return result, err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("release collection lock failed", logging.Error(err))
			}
		}()
	}

	cur, err := f.store.LoadCursor(ctx, collection.ID)
	if err != nil {
		return result, err
	}
	if cur.Exhausted() {
		result.Done = true
		return result, services.Wrap(services.ErrNoMoreData, "ingest", "run",
			"list "+collection.Name+" has no further pages", nil)
	}

	cursor := cur.NextCursor
	accumulated := 0
	logger.Info("fetch started",
		logging.String("list", collection.Name),
		logging.Int("requested", requested),
		logging.Int64("fetched_count", cur.FetchedCount),
		logging.Bool("resuming", cursor != ""),
	)

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		page, rotations, err := credentials.Do(ctx, pool, logger, func(ctx context.Context, cred credentials.Credential) (leadsource.Page, error) {
			result.Requests++
			p, err := f.source.FetchPage(ctx, cred.Key, collection.Filter, cursor)
			f.metrics.ObserveRequest(Source, err)
			return p, err
		})
		result.Rotations += rotations
		f.metrics.AddRotations(pool.Purpose().String(), rotations)
		if err != nil {
			logger.Error("fetch aborted",
				logging.String("outcome", services.Label(err)),
				logging.Int("pages", result.Pages),
				logging.Error(err),
			)
			return result, err
		}

		records, dropped := toRecords(page.People)
		if dropped > 0 {
			logger.Warn("skipped people without an id", logging.Int("count", dropped))
		}
		saved, err := f.store.SavePage(ctx, collection.ID, records, page.Next)
		if err != nil {
			return result, err
		}
		saved.Skipped += dropped
		f.metrics.AddPage(saved.Inserted, saved.Skipped)

		accumulated += len(page.People)
		result.Pages++
		result.Fetched += len(page.People)
		result.Inserted += saved.Inserted
		result.Skipped += saved.Skipped
		result.NextCursor = page.Next
		cursor = page.Next

		logger.Info("page committed",
			logging.Int("people", len(page.People)),
			logging.Int("inserted", saved.Inserted),
			logging.Int("skipped", saved.Skipped),
			logging.Int64("fetched_count", saved.Cursor.FetchedCount),
			logging.Bool("has_next", page.Next != ""),
		)

		switch {
		case page.Next == "":
			result.Done = true
			return result, nil
		case accumulated >= requested:
			return result, nil
		case len(page.People) == 0:
			logger.Warn("empty page carried a continuation token; stopping", logging.String("next", page.Next))
			return result, nil
		}
	}
}

// toRecords maps people to records. People without an id cannot be keyed in
// the list and are dropped; the count is returned.
func toRecords(people []leadsource.Person) ([]store.Record, int) {
	records := make([]store.Record, 0, len(people))
	dropped := 0
	for _, p := range people {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			dropped++
			continue
		}
		fullName := strings.TrimSpace(p.Name)
		if fullName == "" {
			fullName = strings.TrimSpace(p.FirstName + " " + p.LastName)
		}
		records = append(records, store.Record{
			ExternalID:           id,
			FirstName:            p.FirstName,
			LastName:             p.LastName,
			FullName:             fullName,
			Title:                p.Title,
			LinkedInURL:          p.LinkedInURL,
			City:                 p.City,
			State:                p.State,
			Country:              p.Country,
			OrganizationName:     p.OrganizationName,
			OrganizationWebsite:  p.OrganizationWebsiteURL,
			OrganizationFacebook: p.OrganizationFacebookURL,
			OrganizationLinkedIn: p.OrganizationLinkedInURL,
		})
	}
	return records, dropped
}
