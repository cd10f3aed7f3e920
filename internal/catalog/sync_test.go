package catalog_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"movies-etl/internal/catalog"
	"movies-etl/internal/config"
	"movies-etl/pkg/tmdb"
)

const day = "2024-03-15"

func seedCatalog(f *fakeTMDB) {
	f.languages = []tmdb.Language{
		{Code: "en", EnglishName: "English", Name: "English"},
		{Code: "fr", EnglishName: "French", Name: "Français"},
		{Code: "ja", EnglishName: "Japanese", Name: "日本語"},
	}
	f.pages["en"] = []tmdb.DiscoverPage{
		{Page: 1, TotalPages: 2, Results: []tmdb.DiscoverItem{item(1, "en", day), item(2, "en", "2024-03-14")}},
		{Page: 2, TotalPages: 2, Results: []tmdb.DiscoverItem{item(3, "en", day)}},
	}
	f.pages["fr"] = []tmdb.DiscoverPage{
		{Page: 1, TotalPages: 1, Results: []tmdb.DiscoverItem{item(20, "fr", day)}},
	}
	f.pages["ja"] = []tmdb.DiscoverPage{
		{Page: 1, TotalPages: 1, Results: []tmdb.DiscoverItem{item(30, "ja", day), item(31, "ja", day)}},
	}
}

func TestRunInsertsAllLanguages(t *testing.T) {
	f, c := newFakeTMDB(t)
	seedCatalog(f)
	store := newMemStore()
	s := newSync(t, c, store)

	rep, err := s.RunDate(context.Background(), day)
	require.NoError(t, err)
	require.Equal(t, day, rep.ReleaseDate)
	require.NotEmpty(t, rep.RunID)
	require.Equal(t, 3, rep.Languages)
	require.Equal(t, 5, rep.Inserted)
	require.Empty(t, rep.Failed)
	require.Len(t, rep.PerLanguage, 3)
	require.Equal(t, "en", rep.PerLanguage[0].Code)
	require.Equal(t, 2, rep.PerLanguage[0].Inserted)
	require.Equal(t, 5, store.movieCount())
	require.Equal(t, 1, store.sessions)
	require.Equal(t, 1, store.closed)
	require.Equal(t, 1, store.schemaRuns)
}

func TestRunIsIdempotent(t *testing.T) {
	f, c := newFakeTMDB(t)
	seedCatalog(f)
	store := newMemStore()
	s := newSync(t, c, store)

	_, err := s.RunDate(context.Background(), day)
	require.NoError(t, err)
	first := store.movieCount()

	rep, err := s.RunDate(context.Background(), day)
	require.NoError(t, err)
	require.Equal(t, first, store.movieCount())
	require.Zero(t, rep.Inserted)
	require.Empty(t, rep.Failed)
	require.Equal(t, 5, rep.PerLanguage[0].Fetched+rep.PerLanguage[1].Fetched+rep.PerLanguage[2].Fetched)
}

func TestRunUpdatesLanguageNames(t *testing.T) {
	f, c := newFakeTMDB(t)
	seedCatalog(f)
	store := newMemStore()
	s := newSync(t, c, store)

	_, err := s.RunDate(context.Background(), day)
	require.NoError(t, err)

	f.mu.Lock()
	f.languages[1].EnglishName = "French (France)"
	f.mu.Unlock()

	_, err = s.RunDate(context.Background(), day)
	require.NoError(t, err)
	require.Len(t, store.languages, 3)
	require.Equal(t, "French (France)", store.languages["fr"].EnglishName)
}

func TestRunIsolatesFailingLanguage(t *testing.T) {
	f, c := newFakeTMDB(t)
	seedCatalog(f)
	f.failLang["fr"] = http.StatusBadGateway
	store := newMemStore()
	s := newSync(t, c, store)

	rep, err := s.RunDate(context.Background(), day)
	require.NoError(t, err)
	require.Equal(t, []string{"fr"}, rep.Failed)
	require.Equal(t, 4, rep.Inserted)
	require.Contains(t, store.movies, int64(1))
	require.Contains(t, store.movies, int64(30))
	require.NotContains(t, store.movies, int64(20))
	require.NotEmpty(t, rep.PerLanguage[1].Error)
}

func TestRunRollsBackPartialLanguage(t *testing.T) {
	f, c := newFakeTMDB(t)
	seedCatalog(f)
	store := newMemStore()
	// second movie of "ja" fails after the first was inserted in the same tx
	store.failInsert[31] = errors.New("connection reset")
	s := newSync(t, c, store)

	rep, err := s.RunDate(context.Background(), day)
	require.NoError(t, err)
	require.Equal(t, []string{"ja"}, rep.Failed)
	require.NotContains(t, store.movies, int64(30))
	require.Equal(t, 3, rep.Inserted)
	require.Zero(t, rep.PerLanguage[2].Inserted)
}

func TestRunMissingCredential(t *testing.T) {
	f, c := newFakeTMDB(t)
	seedCatalog(f)
	store := newMemStore()
	s := catalog.New(config.Config{}, c, store, zerolog.Nop())

	_, err := s.Run(context.Background())
	require.True(t, errors.Is(err, catalog.ErrConfiguration))
	var me *config.MissingError
	require.ErrorAs(t, err, &me)
	require.Zero(t, f.callCount())
	require.Zero(t, store.sessions)
}

func TestRunInvalidDate(t *testing.T) {
	f, c := newFakeTMDB(t)
	store := newMemStore()
	s := newSync(t, c, store)

	_, err := s.RunDate(context.Background(), "15/03/2024")
	require.True(t, errors.Is(err, catalog.ErrConfiguration))
	require.Zero(t, f.callCount())
	require.Zero(t, store.sessions)
}

func TestRunAbortsOnLanguageCatalogFailure(t *testing.T) {
	store := newMemStore()
	s := newSync(t, stubUpstream{langErr: &tmdb.Error{Endpoint: "/configuration/languages", StatusCode: 500}}, store)

	_, err := s.RunDate(context.Background(), day)
	require.True(t, errors.Is(err, catalog.ErrUpstream))
	require.Zero(t, store.movieCount())
	require.Equal(t, 1, store.closed)
}

func TestRunAbortsOnSchemaFailure(t *testing.T) {
	f, c := newFakeTMDB(t)
	seedCatalog(f)
	store := newMemStore()
	store.failSchema = errors.New("permission denied for schema public")
	s := newSync(t, c, store)

	_, err := s.RunDate(context.Background(), day)
	require.True(t, errors.Is(err, catalog.ErrStore))
	require.Zero(t, f.callCount())
	require.Equal(t, 1, store.closed)
}

func TestRunUsesConfiguredDate(t *testing.T) {
	f, c := newFakeTMDB(t)
	seedCatalog(f)
	s := catalog.New(config.Config{TMDBAPIKey: "k", ReleaseDate: day}, c, newMemStore(), zerolog.Nop())

	rep, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, day, rep.ReleaseDate)
	require.Equal(t, 5, rep.Inserted)
}

func TestRunLogsTotal(t *testing.T) {
	f, c := newFakeTMDB(t)
	seedCatalog(f)
	f.failLang["en"] = http.StatusTooManyRequests
	var buf bytes.Buffer
	s := catalog.New(config.Config{TMDBAPIKey: "k"}, c, newMemStore(), zerolog.New(&buf))

	_, err := s.RunDate(context.Background(), day)
	require.NoError(t, err)

	var last map[string]any
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &last))
	require.Equal(t, "sync finished", last["message"])
	require.Equal(t, float64(3), last["total_inserted"])
	require.Equal(t, day, last["release_date"])
}

func TestRunStopsWhenContextCancelled(t *testing.T) {
	f, c := newFakeTMDB(t)
	seedCatalog(f)
	store := newMemStore()
	s := newSync(t, c, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.onDiscover = func(lang string, _ int) {
		if lang == "en" {
			cancel()
		}
	}

	rep, err := s.RunDate(ctx, day)
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
	require.NotErrorIs(t, err, catalog.ErrUpstream)
	require.Empty(t, rep.Failed)
	require.Empty(t, f.pagesRequested("fr"))
	require.Empty(t, f.pagesRequested("ja"))
	require.Zero(t, store.movieCount())
	require.Equal(t, 1, store.closed)
}
