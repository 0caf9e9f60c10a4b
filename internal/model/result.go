package model

type CandidateTally struct {
	MovieID int      `json:"movieId"`
	Title   string   `json:"title"`
	Votes   int      `json:"votes"`
	Voters  []string `json:"voters"`
}

type Result struct {
	Tally      []CandidateTally `json:"tally"`
	TopMovieID int              `json:"topMovieId,omitempty"`
	Analysis   *Analysis        `json:"analysis,omitempty"`

	// Set instead of Analysis when no recommendation could be produced.
	AnalysisUnavailable bool   `json:"analysisUnavailable"`
	UnavailableReason   string `json:"unavailableReason,omitempty"`
}

type VoteDistribution struct {
	Movie  string   `json:"movie"`
	Votes  int      `json:"votes"`
	Voters []string `json:"voters"`
}

type VoteStatistics struct {
	TotalVotes        int                `json:"totalVotes"`
	TotalParticipants int                `json:"totalParticipants"`
	Distribution      []VoteDistribution `json:"distribution"`
}

type ParticipantCompatibility struct {
	Participant   string  `json:"participant"`
	Compatibility float64 `json:"compatibility"`
	Reason        string  `json:"reason"`
}

type Recommendation struct {
	Movie         string                     `json:"movie"`
	Rationale     string                     `json:"rationale"`
	Compatibility []ParticipantCompatibility `json:"compatibility"`
}

type Analysis struct {
	Statistics     VoteStatistics `json:"statistics"`
	Recommendation Recommendation `json:"recommendation"`
}

// MovieSummary is a candidate as presented to the analysis collaborator.
type MovieSummary struct {
	Title    string   `json:"title"`
	Overview string   `json:"overview"`
	Genres   []string `json:"genres"`
	Votes    int      `json:"votes"`
	Voters   []string `json:"voters"`
}

type VoterProfile struct {
	Participant     string   `json:"participant"`
	VotedMovies     []string `json:"votedMovies"`
	PreferredGenres []string `json:"preferredGenres"`
}

type AnalysisRequest struct {
	RoomCode          string         `json:"roomCode"`
	TopMovie          MovieSummary   `json:"topMovie"`
	Movies            []MovieSummary `json:"movies"`
	Voters            []VoterProfile `json:"voters"`
	TotalParticipants int            `json:"totalParticipants"`
}
