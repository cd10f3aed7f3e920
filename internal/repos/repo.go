package repos

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"movies-etl/internal/model"
	"movies-etl/internal/store"
)

type Repository struct {
	db *pgxpool.Pool
	q  *store.Queries

	Languages *LanguagesRepo
	Movies    *MoviesRepo
}

func New(db *pgxpool.Pool) *Repository {
	q := store.New(db)
	r := &Repository{db: db, q: q}
	r.Languages = &LanguagesRepo{q: q}
	r.Movies = &MoviesRepo{q: q}
	return r
}

// Forwarders used by the HTTP handlers
func (r *Repository) ListLanguages(ctx context.Context) ([]model.Language, error) {
	return r.Languages.ListLanguages(ctx)
}
func (r *Repository) ListMoviesByDatePage(ctx context.Context, date string, cursorPop *float64, cursorID *int64, limit int32) ([]model.Movie, error) {
	return r.Movies.ListMoviesByDatePage(ctx, date, cursorPop, cursorID, limit)
}
func (r *Repository) CountMoviesByDate(ctx context.Context, date string) (int64, error) {
	return r.Movies.CountMoviesByDate(ctx, date)
}
