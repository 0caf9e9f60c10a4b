package infra_postgres_movie

import (
	"context"
	"fmt"

	"github.com/humanbelnik/matchmovie/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// ByCategories returns the best rated movies sharing at least one genre with categories.
// No categories means no genre filter.
func (r *Repository) ByCategories(ctx context.Context, categories []string, limit int) ([]model.Movie, error) {
	query := `
		SELECT id, title, overview, poster_path, release_date, vote_average, genres
		FROM movies
		WHERE cardinality($1::text[]) = 0 OR genres && $1::text[]
		ORDER BY vote_average DESC, id
		LIMIT $2
	`

	var moviesDB []MovieDB
	err := r.db.SelectContext(ctx, &moviesDB, query, pq.StringArray(categories), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies by categories: %w", err)
	}

	movies := make([]model.Movie, len(moviesDB))
	for i, movieDB := range moviesDB {
		movies[i] = movieDB.ToDomain()
	}

	return movies, nil
}

func (r *Repository) Categories(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT unnest(genres) AS genre
		FROM movies
		ORDER BY genre
	`

	var categories []string
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}

	return categories, nil
}
