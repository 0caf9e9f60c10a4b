package infra_postgres_movie

import (
	"github.com/humanbelnik/matchmovie/internal/model"
	"github.com/lib/pq"
)

type MovieDB struct {
	ID          int            `db:"id"`
	Title       string         `db:"title"`
	Overview    string         `db:"overview"`
	PosterPath  string         `db:"poster_path"`
	ReleaseDate string         `db:"release_date"`
	VoteAverage float64        `db:"vote_average"`
	Genres      pq.StringArray `db:"genres"`
}

func (m *MovieDB) ToDomain() model.Movie {
	return model.Movie{
		ID:          m.ID,
		Title:       m.Title,
		Overview:    m.Overview,
		PosterPath:  m.PosterPath,
		ReleaseDate: m.ReleaseDate,
		VoteAverage: m.VoteAverage,
		Genres:      []string(m.Genres),
	}
}
