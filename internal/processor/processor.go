// Package processor orchestrates a batch: lookups run with bounded
// parallelism against the enrichment API, persistence is serialized so
// upserts never race, and per-input failures never abort the batch.
package processor

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/input"
	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/lookup"
	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/mapper"
	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/store"
	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/telemetry"
)

// Failure reports one input that could not be processed.
type Failure struct {
	Input  string `json:"input"`
	Reason string `json:"reason"`
}

// Summary is the result of one batch. Batches are best-effort: Processed
// plus Skipped plus len(Failures) always accounts for every input.
type Summary struct {
	Processed int       `json:"processed"`
	Skipped   int       `json:"skipped"`
	Failures  []Failure `json:"failures,omitempty"`
}

// Processor runs batches of profile URLs through lookup, mapping and
// persistence.
type Processor struct {
	client      lookup.Client
	mapper      *mapper.Mapper
	store       store.Store
	logger      *zap.Logger
	concurrency int

	processedCounter metric.Int64Counter
	failedCounter    metric.Int64Counter
}

// New creates a Processor. concurrency bounds parallel lookups; values
// below one are treated as one.
func New(client lookup.Client, m *mapper.Mapper, st store.Store, tel *telemetry.Telemetry, logger *zap.Logger, concurrency int) *Processor {
	if concurrency < 1 {
		concurrency = 1
	}
	p := &Processor{
		client:      client,
		mapper:      m,
		store:       st,
		logger:      logger.Named("processor"),
		concurrency: concurrency,
	}
	if tel != nil {
		p.processedCounter, _ = tel.Meter.Int64Counter("profiles_processed_total",
			metric.WithDescription("Number of profiles fetched, mapped and persisted"))
		p.failedCounter, _ = tel.Meter.Int64Counter("profiles_failed_total",
			metric.WithDescription("Number of inputs that failed processing"))
	}
	return p
}

type fetchResult struct {
	url string
	doc *lookup.Document
	err error
}

// ProcessURLs runs one batch. Duplicate inputs are dropped (counted as
// skipped), invalid inputs are reported as failures, and a positive limit
// caps how many URLs are attempted (the rest are skipped). Already-persisted
// URLs are re-fetched and upserted.
func (p *Processor) ProcessURLs(ctx context.Context, urls []string, limit int) *Summary {
	return p.process(ctx, urls, limit, false)
}

// ProcessNewURLs behaves like ProcessURLs but leaves already-persisted
// profiles untouched, counting them as skipped. Roster ingestion uses it so
// re-runs over the same roster do not spend API credits on known profiles;
// the limit then caps new profiles only.
func (p *Processor) ProcessNewURLs(ctx context.Context, urls []string, limit int) *Summary {
	return p.process(ctx, urls, limit, true)
}

func (p *Processor) process(ctx context.Context, urls []string, limit int, skipExisting bool) *Summary {
	batchID := uuid.New().String()
	log := p.logger.With(zap.String("batch_id", batchID))
	log.Info("starting batch", zap.Int("inputs", len(urls)))

	summary := &Summary{}

	deduped := input.Dedupe(urls)
	summary.Skipped += len(urls) - len(deduped)

	var valid []string
	for _, raw := range deduped {
		url, ok := input.NormalizeProfileURL(raw)
		if !ok {
			summary.Failures = append(summary.Failures, Failure{
				Input:  raw,
				Reason: "not a LinkedIn profile URL",
			})
			continue
		}
		if skipExisting {
			if _, ok, err := p.store.ProfileIDByURL(ctx, url); err == nil && ok {
				summary.Skipped++
				continue
			}
		}
		valid = append(valid, url)
	}

	if limit > 0 && len(valid) > limit {
		summary.Skipped += len(valid) - limit
		valid = valid[:limit]
	}

	results := p.fetchAll(ctx, valid)
	p.persistAll(ctx, results, summary, log)

	p.count(ctx, summary)
	log.Info("batch finished",
		zap.Int("processed", summary.Processed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", len(summary.Failures)))
	return summary
}

// fetchAll looks up every URL with bounded parallelism, preserving input
// order in the result slice.
func (p *Processor) fetchAll(ctx context.Context, urls []string) []fetchResult {
	results := make([]fetchResult, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			doc, err := p.client.Fetch(gctx, url)
			results[i] = fetchResult{url: url, doc: doc, err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// persistAll maps and upserts fetched documents one at a time. Writes stay
// serialized so two upserts for the same profile id cannot interleave.
func (p *Processor) persistAll(ctx context.Context, results []fetchResult, summary *Summary, log *zap.Logger) {
	maxID, err := p.store.MaxProfileID(ctx)
	if err != nil {
		log.Error("failed to read max profile id", zap.Error(err))
		for _, res := range results {
			summary.Failures = append(summary.Failures, Failure{Input: res.url, Reason: err.Error()})
		}
		return
	}

	for _, res := range results {
		if res.err != nil {
			summary.Failures = append(summary.Failures, Failure{Input: res.url, Reason: res.err.Error()})
			continue
		}

		bundle, err := p.mapper.Map(res.doc, res.url)
		if err != nil {
			var mie *mapper.MissingIdentifierError
			reason := err.Error()
			if errors.As(err, &mie) {
				reason = "missing identifier: " + reason
			}
			summary.Failures = append(summary.Failures, Failure{Input: res.url, Reason: reason})
			continue
		}

		if bundle.Profile.ProfileID == 0 {
			// Reuse the id of an already-persisted URL; allocate otherwise.
			if existing, ok, err := p.store.ProfileIDByURL(ctx, res.url); err == nil && ok {
				bundle.SetProfileID(existing)
			} else {
				maxID++
				bundle.SetProfileID(maxID)
			}
		} else {
			bundle.SetProfileID(bundle.Profile.ProfileID)
			if bundle.Profile.ProfileID > maxID {
				maxID = bundle.Profile.ProfileID
			}
		}

		if err := p.store.Upsert(ctx, bundle); err != nil {
			var pe *store.PersistenceError
			if errors.As(err, &pe) {
				log.Warn("constraint violation",
					zap.Int64("profile_id", pe.ProfileID),
					zap.Error(pe))
			}
			summary.Failures = append(summary.Failures, Failure{Input: res.url, Reason: err.Error()})
			continue
		}

		log.Info("profile persisted",
			zap.Int64("profile_id", bundle.Profile.ProfileID),
			zap.String("profile_url", res.url))
		summary.Processed++
	}
}

func (p *Processor) count(ctx context.Context, summary *Summary) {
	if p.processedCounter != nil {
		p.processedCounter.Add(ctx, int64(summary.Processed))
	}
	if p.failedCounter != nil {
		p.failedCounter.Add(ctx, int64(len(summary.Failures)))
	}
}
