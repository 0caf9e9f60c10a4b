package usecase_room

import "github.com/humanbelnik/matchmovie/internal/model"

type RoomCreatedPayload struct {
	Code     string         `json:"code"`
	IsHost   bool           `json:"isHost"`
	Settings model.Settings `json:"settings"`
}

type RoomJoinedPayload struct {
	Code         string           `json:"code"`
	IsHost       bool             `json:"isHost"`
	Status       model.RoomStatus `json:"status"`
	Settings     model.Settings   `json:"settings"`
	Participants []string         `json:"participants"`
}

type ParticipantJoinedPayload struct {
	ParticipantCount int      `json:"participantCount"`
	ParticipantName  string   `json:"participantName"`
	Participants     []string `json:"participants"`
	IsHost           bool     `json:"isHost"`
}

type ParticipantLeftPayload struct {
	ParticipantCount int      `json:"participantCount"`
	ParticipantName  string   `json:"participantName"`
	Participants     []string `json:"participants"`
}

type RoomConfiguredPayload struct {
	Categories           []string `json:"categories"`
	RoundDurationSeconds int      `json:"roundDurationSeconds"`
	MaxParticipants      int      `json:"maxParticipants"`
}

type MoviesLoadingPayload struct {
	Count int `json:"count"`
}

type MatchingStartedPayload struct {
	RoundDurationSeconds int           `json:"roundDurationSeconds"`
	Movies               []model.Movie `json:"movies"`
}

type MovieVotedPayload struct {
	ParticipantName string `json:"participantName"`
	MovieID         int    `json:"movieId"`
	Votes           int    `json:"votes"`
}

type RoomAnalyzingPayload struct {
	Code string `json:"code"`
}

type RoomFinishedPayload struct {
	Code   string       `json:"code"`
	Result model.Result `json:"result"`
}

type RoomClosedPayload struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func participantNames(room *model.Room) []string {
	names := make([]string, 0, len(room.Participants))
	for _, connID := range room.Participants {
		names = append(names, room.DisplayName(connID))
	}
	return names
}
