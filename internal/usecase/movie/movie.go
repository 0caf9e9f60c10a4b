package usecase_movie

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/humanbelnik/matchmovie/internal/model"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrFailedToLoadMovies = errors.New("failed to load movies")
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

//go:generate mockery --name=Repository --output=./mocks/repository --filename=repository.go
type Repository interface {
	ByCategories(ctx context.Context, categories []string, limit int) ([]model.Movie, error)
	Categories(ctx context.Context) ([]string, error)
}

// Usecase serves the catalog the host picks room candidates from.
type Usecase struct {
	repository Repository
}

func New(repository Repository) *Usecase {
	return &Usecase{
		repository: repository,
	}
}

func (u *Usecase) Candidates(ctx context.Context, categories []string, limit int) ([]model.Movie, error) {
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 0 || limit > MaxLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, MaxLimit)
	}

	cleaned := make([]string, 0, len(categories))
	for _, c := range categories {
		if c = strings.TrimSpace(c); c != "" {
			cleaned = append(cleaned, c)
		}
	}

	movies, err := u.repository.ByCategories(ctx, cleaned, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToLoadMovies, err)
	}
	return movies, nil
}

func (u *Usecase) Categories(ctx context.Context) ([]string, error) {
	categories, err := u.repository.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToLoadMovies, err)
	}
	return categories, nil
}
