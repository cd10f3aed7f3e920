package repos

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"movies-etl/internal/model"
	"movies-etl/internal/store"
)

type MoviesRepo struct {
	q *store.Queries
}

// InsertMovie inserts m unless a movie with the same id exists.
// Returns inserted=false for the no-op case.
func (r *MoviesRepo) InsertMovie(ctx context.Context, m model.Movie) (bool, error) {
	d, err := dateVal(m.ReleaseDate)
	if err != nil {
		return false, err
	}
	n, err := r.q.InsertMovieIfAbsent(ctx, store.InsertMovieIfAbsentParams{
		ID:            m.ID,
		Language:      textVal(m.Language),
		OriginalTitle: textVal(m.OriginalTitle),
		ReleaseDate:   d,
		Title:         textVal(m.Title),
		Overview:      textVal(m.Overview),
		Popularity:    pgtype.Float8{Float64: m.Popularity, Valid: true},
		Adult:         pgtype.Bool{Bool: m.Adult, Valid: true},
	})
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *MoviesRepo) ListMoviesByDatePage(ctx context.Context, date string, cursorPop *float64, cursorID *int64, limit int32) ([]model.Movie, error) {
	d, err := dateVal(date)
	if err != nil {
		return nil, err
	}
	params := store.ListMoviesByReleaseDatePageParams{ReleaseDate: d, RowLimit: limit}
	if cursorPop != nil && cursorID != nil {
		params.HasCursor = true
		params.CursorPopularity = *cursorPop
		params.CursorID = *cursorID
	}
	rows, err := r.q.ListMoviesByReleaseDatePage(ctx, params)
	if err != nil {
		return nil, err
	}
	out := make([]model.Movie, 0, len(rows))
	for _, m := range rows {
		out = append(out, model.Movie{
			ID:            m.ID,
			Language:      m.Language.String,
			OriginalTitle: m.OriginalTitle.String,
			Title:         m.Title.String,
			Overview:      m.Overview.String,
			ReleaseDate:   dateString(m.ReleaseDate),
			Popularity:    m.Popularity.Float64,
			Adult:         m.Adult.Bool,
			FetchedAt:     timePtr(m.FetchedAt),
		})
	}
	return out, nil
}

func (r *MoviesRepo) CountMoviesByDate(ctx context.Context, date string) (int64, error) {
	d, err := dateVal(date)
	if err != nil {
		return 0, err
	}
	return r.q.CountMoviesByReleaseDate(ctx, d)
}
