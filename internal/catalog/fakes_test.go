package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"movies-etl/internal/catalog"
	"movies-etl/internal/model"
	"movies-etl/pkg/tmdb"
)

// fakeTMDB serves /configuration/languages and /discover/movie from memory.
type fakeTMDB struct {
	mu        sync.Mutex
	languages []tmdb.Language
	// pages per language; page N is pages[lang][N-1]
	pages      map[string][]tmdb.DiscoverPage
	failLang   map[string]int // language -> HTTP status for discover
	calls      int
	discovered map[string][]int // language -> requested pages
	onDiscover func(lang string, page int)
}

func newFakeTMDB(t *testing.T) (*fakeTMDB, *tmdb.Client) {
	t.Helper()
	f := &fakeTMDB{
		pages:      map[string][]tmdb.DiscoverPage{},
		failLang:   map[string]int{},
		discovered: map[string][]int{},
	}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	c := tmdb.New("test-key")
	c.BaseURL = srv.URL
	return f, c
}

func (f *fakeTMDB) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/configuration/languages":
		_ = json.NewEncoder(w).Encode(f.languages)
	case "/discover/movie":
		lang := r.URL.Query().Get("with_original_language")
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		f.discovered[lang] = append(f.discovered[lang], page)
		if f.onDiscover != nil {
			f.onDiscover(lang, page)
		}
		if status, ok := f.failLang[lang]; ok {
			w.WriteHeader(status)
			return
		}
		pages := f.pages[lang]
		if page < 1 || page > len(pages) {
			_ = json.NewEncoder(w).Encode(tmdb.DiscoverPage{Page: page, TotalPages: len(pages)})
			return
		}
		_ = json.NewEncoder(w).Encode(pages[page-1])
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeTMDB) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeTMDB) pagesRequested(lang string) []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.discovered[lang]...)
}

func item(id int64, lang, date string) tmdb.DiscoverItem {
	return tmdb.DiscoverItem{
		ID:               id,
		OriginalLanguage: lang,
		OriginalTitle:    fmt.Sprintf("orig-%d", id),
		Title:            fmt.Sprintf("title-%d", id),
		ReleaseDate:      date,
		Popularity:       float64(id) / 10,
	}
}

// memStore mimics the two tables, including the foreign key and
// transaction visibility.
type memStore struct {
	mu         sync.Mutex
	languages  map[string]model.Language
	movies     map[int64]model.Movie
	sessions   int
	closed     int
	schemaRuns int
	failInsert map[int64]error
	failSchema error
}

func newMemStore() *memStore {
	return &memStore{
		languages:  map[string]model.Language{},
		movies:     map[int64]model.Movie{},
		failInsert: map[int64]error{},
	}
}

func (s *memStore) Session(context.Context) (catalog.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions++
	return &memSession{s: s}, nil
}

func (s *memStore) movieCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movies)
}

type memSession struct {
	s      *memStore
	closed bool
}

func (m *memSession) EnsureSchema(context.Context) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.schemaRuns++
	return m.s.failSchema
}

func (m *memSession) UpsertLanguages(_ context.Context, langs []model.Language) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	n := 0
	for _, l := range langs {
		if l.Code == "" {
			continue
		}
		m.s.languages[l.Code] = l
		n++
	}
	return n, nil
}

func (m *memSession) Begin(context.Context) (catalog.Tx, error) {
	return &memTx{s: m.s, pending: map[int64]model.Movie{}}, nil
}

func (m *memSession) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.s.mu.Lock()
	m.s.closed++
	m.s.mu.Unlock()
}

type memTx struct {
	s       *memStore
	pending map[int64]model.Movie
	done    bool
}

func (t *memTx) InsertMovie(_ context.Context, mv model.Movie) (bool, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if err, ok := t.s.failInsert[mv.ID]; ok {
		return false, err
	}
	if _, ok := t.s.languages[mv.Language]; !ok {
		return false, errors.New("violates foreign key constraint movies_language_fkey")
	}
	if _, ok := t.s.movies[mv.ID]; ok {
		return false, nil
	}
	if _, ok := t.pending[mv.ID]; ok {
		return false, nil
	}
	t.pending[mv.ID] = mv
	return true, nil
}

func (t *memTx) Commit(context.Context) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for id, mv := range t.pending {
		t.s.movies[id] = mv
	}
	t.done = true
	return nil
}

func (t *memTx) Rollback(context.Context) error {
	t.pending = nil
	t.done = true
	return nil
}
