package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"

	"movies-etl/internal/model"
	"movies-etl/pkg/cache"
)

const (
	// lockTTL outlives any realistic run; a crashed process frees the date after it.
	lockTTL   = 6 * time.Hour
	reportTTL = 7 * 24 * time.Hour

	dateLayout = "2006-01-02"
)

var ErrRunInProgress = errors.New("sync already running for this date")

// Syncer runs one sync for a release date. *catalog.Sync satisfies it.
type Syncer interface {
	RunDate(ctx context.Context, date string) (model.Report, error)
}

// Runner guards sync runs with a per-date lock and keeps the last report of
// each date in the cache.
type Runner struct {
	sync  Syncer
	cache cache.Cache
	now   func() time.Time
}

func NewRunner(s Syncer, c cache.Cache) *Runner {
	return &Runner{sync: s, cache: c, now: time.Now}
}

// LanguagesCacheKey holds the cached GET /languages body.
const LanguagesCacheKey = "http:languages"

func lockKey(date string) string   { return "sync:lock:" + date }
func reportKey(date string) string { return "sync:report:" + date }

// MoviesGenerationKey holds the id of the last finished run for date. Cached
// movie pages for date are keyed by it, so a new run retires them all.
func MoviesGenerationKey(date string) string { return "sync:gen:" + date }

// ResolveDate maps an empty date to today in UTC.
func (r *Runner) ResolveDate(date string) string {
	if date == "" {
		return r.now().UTC().Format(dateLayout)
	}
	return date
}

// Run executes a sync for date in the calling goroutine.
func (r *Runner) Run(ctx context.Context, date string) (model.Report, error) {
	date = r.ResolveDate(date)
	release, err := r.acquire(ctx, date)
	if err != nil {
		return model.Report{}, err
	}
	defer release()
	return r.execute(ctx, date)
}

// Start acquires the lock for date and runs the sync in a background
// goroutine. It returns the resolved date, or ErrRunInProgress.
func (r *Runner) Start(ctx context.Context, date string) (string, error) {
	date = r.ResolveDate(date)
	release, err := r.acquire(ctx, date)
	if err != nil {
		return date, err
	}
	go func() {
		defer release()
		if _, err := r.execute(ctx, date); err != nil {
			log.Error().Err(err).Str("release_date", date).Msg("background sync failed")
		}
	}()
	return date, nil
}

// LastReport returns the stored report of the latest finished run for date.
func (r *Runner) LastReport(ctx context.Context, date string) (model.Report, bool, error) {
	raw, ok := r.cache.Get(ctx, reportKey(date))
	if !ok {
		return model.Report{}, false, nil
	}
	var rep model.Report
	if err := json.Unmarshal([]byte(raw), &rep); err != nil {
		return model.Report{}, false, err
	}
	return rep, true, nil
}

func (r *Runner) acquire(ctx context.Context, date string) (func(), error) {
	key := lockKey(date)
	ok, err := r.cache.SetNX(ctx, key, xid.New().String(), lockTTL)
	if err != nil {
		// cache down: run unguarded
		log.Warn().Err(err).Str("release_date", date).Msg("run lock unavailable, continuing without it")
		return func() {}, nil
	}
	if !ok {
		return nil, ErrRunInProgress
	}
	return func() {
		if err := r.cache.Delete(context.WithoutCancel(ctx), key); err != nil {
			log.Warn().Err(err).Str("release_date", date).Msg("failed to release run lock")
		}
	}, nil
}

func (r *Runner) execute(ctx context.Context, date string) (model.Report, error) {
	rep, err := r.sync.RunDate(ctx, date)
	if err != nil {
		rep.Error = err.Error()
	}
	if rep.ReleaseDate != "" {
		b, mErr := json.Marshal(rep)
		if mErr == nil {
			mErr = r.cache.Set(context.WithoutCancel(ctx), reportKey(date), string(b), reportTTL)
		}
		if mErr != nil {
			log.Warn().Err(mErr).Str("release_date", date).Msg("failed to store run report")
		}
	}
	r.invalidate(ctx, date, rep.RunID)
	return rep, err
}

// invalidate drops cached API responses a run may have made stale. It runs on
// failure too: languages and earlier languages' movies are already committed.
func (r *Runner) invalidate(ctx context.Context, date, runID string) {
	ctx = context.WithoutCancel(ctx)
	if runID == "" {
		runID = xid.New().String()
	}
	if err := r.cache.Delete(ctx, LanguagesCacheKey); err != nil {
		log.Warn().Err(err).Msg("failed to drop cached languages")
	}
	if err := r.cache.Set(ctx, MoviesGenerationKey(date), runID, reportTTL); err != nil {
		log.Warn().Err(err).Str("release_date", date).Msg("failed to bump movies cache generation")
	}
}
