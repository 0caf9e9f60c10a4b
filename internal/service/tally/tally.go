// Package tally aggregates room votes and shapes them for the analysis collaborator.
package tally

import (
	"cmp"
	"slices"

	"github.com/humanbelnik/matchmovie/internal/model"
)

// Count returns one entry per candidate, in candidate order.
// Voters are display names in join order.
func Count(room *model.Room) []model.CandidateTally {
	tallies := make([]model.CandidateTally, 0, len(room.Candidates))
	for _, m := range room.Candidates {
		t := model.CandidateTally{
			MovieID: m.ID,
			Title:   m.Title,
			Voters:  []string{},
		}
		for _, connID := range voterOrder(room) {
			if slices.Contains(room.Votes[connID], m.ID) {
				t.Votes++
				t.Voters = append(t.Voters, room.DisplayName(connID))
			}
		}
		tallies = append(tallies, t)
	}
	return tallies
}

// Top picks the most voted candidate. Ties go to the earlier candidate.
func Top(tallies []model.CandidateTally) (model.CandidateTally, bool) {
	if len(tallies) == 0 {
		return model.CandidateTally{}, false
	}
	best := tallies[0]
	for _, t := range tallies[1:] {
		if t.Votes > best.Votes {
			best = t
		}
	}
	return best, true
}

// BuildRequest describes the room for the analysis collaborator: the top movie is
// set aside and every voter gets a profile derived from their own votes only.
func BuildRequest(room *model.Room, tallies []model.CandidateTally, top model.CandidateTally) model.AnalysisRequest {
	req := model.AnalysisRequest{
		RoomCode:          room.Code,
		Movies:            []model.MovieSummary{},
		Voters:            []model.VoterProfile{},
		TotalParticipants: len(room.Participants),
	}

	for _, t := range tallies {
		movie, _ := room.Candidate(t.MovieID)
		summary := model.MovieSummary{
			Title:    movie.Title,
			Overview: movie.Overview,
			Genres:   movie.Genres,
			Votes:    t.Votes,
			Voters:   t.Voters,
		}
		if t.MovieID == top.MovieID {
			req.TopMovie = summary
			continue
		}
		req.Movies = append(req.Movies, summary)
	}

	for _, connID := range voterOrder(room) {
		req.Voters = append(req.Voters, profile(room, connID))
	}

	return req
}

func profile(room *model.Room, connID string) model.VoterProfile {
	p := model.VoterProfile{
		Participant:     room.DisplayName(connID),
		VotedMovies:     []string{},
		PreferredGenres: []string{},
	}

	genreCount := map[string]int{}
	var genreOrder []string
	for _, movieID := range room.Votes[connID] {
		movie, ok := room.Candidate(movieID)
		if !ok {
			continue
		}
		p.VotedMovies = append(p.VotedMovies, movie.Title)
		for _, g := range movie.Genres {
			if genreCount[g] == 0 {
				genreOrder = append(genreOrder, g)
			}
			genreCount[g]++
		}
	}

	slices.SortStableFunc(genreOrder, func(a, b string) int {
		return cmp.Compare(genreCount[b], genreCount[a])
	})
	p.PreferredGenres = append(p.PreferredGenres, genreOrder...)
	return p
}

// voterOrder lists connections with votes: participants in join order first,
// then anyone else left in the vote map, sorted for determinism.
func voterOrder(room *model.Room) []string {
	order := make([]string, 0, len(room.Votes))
	seen := make(map[string]bool, len(room.Votes))
	for _, connID := range room.Participants {
		if _, ok := room.Votes[connID]; ok {
			order = append(order, connID)
			seen[connID] = true
		}
	}
	var rest []string
	for connID := range room.Votes {
		if !seen[connID] {
			rest = append(rest, connID)
		}
	}
	slices.Sort(rest)
	return append(order, rest...)
}
