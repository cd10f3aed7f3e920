package repos

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"movies-etl/internal/migrate"
	"movies-etl/internal/model"
	"movies-etl/internal/store"
)

// Session pins one pooled connection for a whole sync run. Every write goes
// through an explicit transaction on that connection.
type Session struct {
	pool *pgxpool.Pool
	conn *pgxpool.Conn
}

// Session acquires a connection. Callers must Close it.
func (r *Repository) Session(ctx context.Context) (*Session, error) {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return &Session{pool: r.db, conn: conn}, nil
}

// Close releases the connection back to the pool. Safe to call twice.
func (s *Session) Close() {
	if s.conn != nil {
		s.conn.Release()
		s.conn = nil
	}
}

// EnsureSchema applies the embedded migrations.
func (s *Session) EnsureSchema(_ context.Context) error {
	if err := migrate.Up(s.pool); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// UpsertLanguages writes the language catalog in a single committed transaction.
func (s *Session) UpsertLanguages(ctx context.Context, langs []model.Language) (n int, err error) {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()
	repo := LanguagesRepo{q: store.New(tx)}
	n, err = repo.UpsertLanguages(ctx, langs)
	if err != nil {
		return 0, fmt.Errorf("upsert languages: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit languages: %w", err)
	}
	return n, nil
}

// Begin opens the transaction for one language partition of movies.
func (s *Session) Begin(ctx context.Context) (*MovieTx, error) {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	return &MovieTx{tx: tx, movies: MoviesRepo{q: store.New(tx)}}, nil
}

type MovieTx struct {
	tx     pgx.Tx
	movies MoviesRepo
}

func (t *MovieTx) InsertMovie(ctx context.Context, m model.Movie) (bool, error) {
	return t.movies.InsertMovie(ctx, m)
}

func (t *MovieTx) Commit(ctx context.Context) error { return t.tx.Commit(ctx) }

// Rollback discards uncommitted inserts. Rolling back a finished tx is not an error.
func (t *MovieTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}
