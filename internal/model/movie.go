package model

type Movie struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview"`
	PosterPath  string   `json:"posterPath"`
	ReleaseDate string   `json:"releaseDate"`
	VoteAverage float64  `json:"voteAverage"`
	Genres      []string `json:"genres"`
}
