// Package catalog pulls the TMDB movie catalog for one release date and
// stores it next to the language reference table.
package catalog

import (
	"context"
	"iter"
	"time"

	"github.com/rs/zerolog"

	"movies-etl/internal/config"
	"movies-etl/internal/model"

	pkgtmdb "movies-etl/pkg/tmdb"
)

const sortByReleaseAsc = "primary_release_date.asc"

// Upstream is the subset of the TMDB client the sync relies on.
// *tmdb.Client satisfies it.
type Upstream interface {
	Languages(ctx context.Context) ([]pkgtmdb.Language, error)
	Discover(ctx context.Context, q pkgtmdb.DiscoverQuery) (pkgtmdb.DiscoverPage, error)
}

// LanguageCatalog is the provider's language list as returned, plus the
// distinct non-empty codes in first-seen order.
type LanguageCatalog struct {
	Entries []model.Language
	Codes   []string
}

type Sync struct {
	api    Upstream
	store  Store
	log    zerolog.Logger
	apiKey string
	// releaseDate is the configured override; empty means today (UTC).
	releaseDate string
	now         func() time.Time
}

func New(cfg config.Config, api Upstream, store Store, logger zerolog.Logger) *Sync {
	return &Sync{
		api:         api,
		store:       store,
		log:         logger.With().Str("component", "catalog_sync").Logger(),
		apiKey:      cfg.TMDBAPIKey,
		releaseDate: cfg.ReleaseDate,
		now:         time.Now,
	}
}

func (s *Sync) requireCredential() error {
	if s.apiKey == "" {
		return &config.MissingError{Key: "TMDB_API_KEY"}
	}
	return nil
}

// FetchLanguageCatalog fetches the language reference list once.
func (s *Sync) FetchLanguageCatalog(ctx context.Context) (LanguageCatalog, error) {
	if err := s.requireCredential(); err != nil {
		return LanguageCatalog{}, err
	}
	langs, err := s.api.Languages(ctx)
	if err != nil {
		return LanguageCatalog{}, &UpstreamError{Op: "fetch language catalog", Err: err}
	}
	out := LanguageCatalog{Entries: make([]model.Language, 0, len(langs))}
	seen := make(map[string]struct{}, len(langs))
	for _, l := range langs {
		out.Entries = append(out.Entries, model.Language{Code: l.Code, EnglishName: l.EnglishName, Name: l.Name})
		if l.Code == "" {
			continue
		}
		if _, ok := seen[l.Code]; ok {
			continue
		}
		seen[l.Code] = struct{}{}
		out.Codes = append(out.Codes, l.Code)
	}
	return out, nil
}

// FetchMovies pages through discover results for one language and release
// date, yielding only records whose release date equals date exactly.
// Each range over the returned sequence starts again from page 1. A failed
// page yields its error and ends the sequence.
func (s *Sync) FetchMovies(ctx context.Context, languageCode, date string) iter.Seq2[model.Movie, error] {
	return func(yield func(model.Movie, error) bool) {
		if err := s.requireCredential(); err != nil {
			yield(model.Movie{}, err)
			return
		}
		if date == "" {
			yield(model.Movie{}, configErrorf("release date is empty"))
			return
		}
		yielded := 0
		for page := 1; ; page++ {
			p, err := s.api.Discover(ctx, pkgtmdb.DiscoverQuery{
				OriginalLanguage: languageCode,
				ReleaseDateGTE:   date,
				ReleaseDateLTE:   date,
				SortBy:           sortByReleaseAsc,
				IncludeAdult:     false,
				Page:             page,
			})
			if err != nil {
				yield(model.Movie{}, &UpstreamError{Op: "discover movies", Err: err})
				return
			}
			if len(p.Results) == 0 {
				break
			}
			for _, it := range p.Results {
				// the upstream date window is not exact
				if it.ReleaseDate != date {
					continue
				}
				yielded++
				if !yield(normalize(it), nil) {
					return
				}
			}
			if page >= p.TotalPages {
				break
			}
		}
		s.log.Info().
			Str("language", languageCode).
			Str("release_date", date).
			Int("yielded", yielded).
			Msg("fetched movies")
	}
}

func normalize(it pkgtmdb.DiscoverItem) model.Movie {
	return model.Movie{
		ID:            it.ID,
		Language:      it.OriginalLanguage,
		OriginalTitle: it.OriginalTitle,
		ReleaseDate:   it.ReleaseDate,
		Title:         it.Title,
		Overview:      it.Overview,
		Popularity:    it.Popularity,
		Adult:         it.Adult,
	}
}
