package infra_openai

import "github.com/humanbelnik/matchmovie/internal/model"

type distributionDTO struct {
	Movie  string   `json:"movie"`
	Votes  int      `json:"votes"`
	Voters []string `json:"voters"`
}

type compatibilityDTO struct {
	Participant   string  `json:"participant"`
	Compatibility float64 `json:"compatibility"`
	Reason        string  `json:"reason"`
}

type analysisDTO struct {
	Statistics struct {
		TotalVotes        int               `json:"totalVotes"`
		TotalParticipants int               `json:"totalParticipants"`
		Distribution      []distributionDTO `json:"distribution"`
	} `json:"statistics"`
	Recommendation struct {
		Movie         string             `json:"movie"`
		Rationale     string             `json:"rationale"`
		Compatibility []compatibilityDTO `json:"compatibility"`
	} `json:"recommendation"`
}

func (a analysisDTO) ToDomain() *model.Analysis {
	res := &model.Analysis{
		Statistics: model.VoteStatistics{
			TotalVotes:        a.Statistics.TotalVotes,
			TotalParticipants: a.Statistics.TotalParticipants,
			Distribution:      make([]model.VoteDistribution, 0, len(a.Statistics.Distribution)),
		},
		Recommendation: model.Recommendation{
			Movie:         a.Recommendation.Movie,
			Rationale:     a.Recommendation.Rationale,
			Compatibility: make([]model.ParticipantCompatibility, 0, len(a.Recommendation.Compatibility)),
		},
	}

	for _, d := range a.Statistics.Distribution {
		res.Statistics.Distribution = append(res.Statistics.Distribution, model.VoteDistribution{
			Movie:  d.Movie,
			Votes:  d.Votes,
			Voters: d.Voters,
		})
	}
	for _, c := range a.Recommendation.Compatibility {
		res.Recommendation.Compatibility = append(res.Recommendation.Compatibility, model.ParticipantCompatibility{
			Participant:   c.Participant,
			Compatibility: c.Compatibility,
			Reason:        c.Reason,
		})
	}
	return res
}
