package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"movies-etl/internal/model"

	pkgtmdb "movies-etl/pkg/tmdb"
)

// Run syncs the configured release date, or today's UTC date when none is set.
func (s *Sync) Run(ctx context.Context) (model.Report, error) {
	return s.RunDate(ctx, s.releaseDate)
}

// RunDate syncs movies released on date (YYYY-MM-DD; empty means today UTC).
//
// Languages are committed first. Each language's movies are then inserted in
// their own transaction: a failing language is rolled back, logged and
// skipped, and the run moves on. Only failures before the per-language loop
// (session, schema, language catalog) and cancellation of ctx abort the run.
func (s *Sync) RunDate(ctx context.Context, date string) (model.Report, error) {
	rep := model.Report{RunID: xid.New().String()}
	if err := s.requireCredential(); err != nil {
		return rep, err
	}
	date, err := s.resolveDate(date)
	if err != nil {
		return rep, err
	}
	rep.ReleaseDate = date
	rep.StartedAt = s.now().UTC()

	log := s.log.With().Str("run_id", rep.RunID).Str("release_date", date).Logger()
	log.Info().Msg("sync started")

	sess, err := s.store.Session(ctx)
	if err != nil {
		return rep, &StoreError{Op: "acquire session", Err: err}
	}
	defer sess.Close()

	if err := sess.EnsureSchema(ctx); err != nil {
		return rep, &StoreError{Op: "ensure schema", Err: err}
	}

	cat, err := s.FetchLanguageCatalog(ctx)
	if err != nil {
		return rep, err
	}
	n, err := sess.UpsertLanguages(ctx, cat.Entries)
	if err != nil {
		return rep, &StoreError{Op: "upsert languages", Err: err}
	}
	rep.Languages = n
	log.Info().Int("languages", n).Int("codes", len(cat.Codes)).Msg("language catalog committed")

	for _, code := range cat.Codes {
		if err := ctx.Err(); err != nil {
			return s.interrupted(log, rep, err)
		}
		res := s.syncLanguage(ctx, log, sess, code, date)
		if res.Error != "" {
			if err := ctx.Err(); err != nil {
				return s.interrupted(log, rep, err)
			}
			rep.PerLanguage = append(rep.PerLanguage, res)
			rep.Failed = append(rep.Failed, code)
			continue
		}
		rep.PerLanguage = append(rep.PerLanguage, res)
		rep.Inserted += res.Inserted
	}

	sess.Close()
	rep.FinishedAt = s.now().UTC()
	log.Info().
		Int("total_inserted", rep.Inserted).
		Int("failed_languages", len(rep.Failed)).
		Dur("duration", rep.FinishedAt.Sub(rep.StartedAt)).
		Msg("sync finished")
	return rep, nil
}

// interrupted ends a run whose context was cancelled mid-loop. Languages
// committed so far stay committed.
func (s *Sync) interrupted(log zerolog.Logger, rep model.Report, err error) (model.Report, error) {
	rep.FinishedAt = s.now().UTC()
	log.Warn().Err(err).
		Int("total_inserted", rep.Inserted).
		Int("languages_done", len(rep.PerLanguage)).
		Msg("sync interrupted")
	return rep, fmt.Errorf("sync interrupted: %w", err)
}

func (s *Sync) resolveDate(date string) (string, error) {
	if date == "" {
		return s.now().UTC().Format(pkgtmdb.DateLayout), nil
	}
	if _, err := time.Parse(pkgtmdb.DateLayout, date); err != nil {
		return "", configErrorf("release date %q is not YYYY-MM-DD", date)
	}
	return date, nil
}

func (s *Sync) syncLanguage(ctx context.Context, log zerolog.Logger, sess Session, code, date string) model.LanguageResult {
	res := model.LanguageResult{Code: code}
	fail := func(err error) model.LanguageResult {
		log.Error().Err(err).Str("language", code).Msg("language sync failed, rolled back")
		res.Inserted = 0
		res.Error = err.Error()
		return res
	}

	tx, err := sess.Begin(ctx)
	if err != nil {
		return fail(&StoreError{Op: "begin", Err: err})
	}
	if err := s.insertMovies(ctx, tx, code, date, &res); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			log.Warn().Err(rbErr).Str("language", code).Msg("rollback failed")
		}
		return fail(err)
	}
	log.Info().Str("language", code).Int("inserted", res.Inserted).Msg("language committed")
	return res
}

func (s *Sync) insertMovies(ctx context.Context, tx Tx, code, date string, res *model.LanguageResult) error {
	for m, err := range s.FetchMovies(ctx, code, date) {
		if err != nil {
			return err
		}
		if m.ReleaseDate == "" {
			continue
		}
		res.Fetched++
		inserted, err := tx.InsertMovie(ctx, m)
		if err != nil {
			return &StoreError{Op: "insert movie", Err: err}
		}
		if inserted {
			res.Inserted++
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return &StoreError{Op: "commit", Err: err}
	}
	return nil
}
