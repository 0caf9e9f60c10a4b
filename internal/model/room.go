package model

import "slices"

type RoomStatus string

const (
	StatusWaitingToStart       RoomStatus = "WaitingToStart"
	StatusLoadingMovies        RoomStatus = "LoadingMovies"
	StatusInProgress           RoomStatus = "InProgress"
	StatusLoadingFinalizedData RoomStatus = "LoadingFinalizedData"
	StatusFinished             RoomStatus = "Finished"
)

const (
	MinRoundDurationSeconds = 15
	MaxRoundDurationSeconds = 300

	DefaultRoundDurationSeconds = 180
	DefaultMaxParticipants      = 10
)

type Settings struct {
	Categories           []string `json:"categories"`
	RoundDurationSeconds int      `json:"roundDurationSeconds"`
	// Display only.
	MaxParticipants int `json:"maxParticipants"`
}

func DefaultSettings() Settings {
	return Settings{
		Categories:           []string{},
		RoundDurationSeconds: DefaultRoundDurationSeconds,
		MaxParticipants:      DefaultMaxParticipants,
	}
}

type Room struct {
	Code             string            `json:"code"`
	HostConnectionID string            `json:"hostConnectionId"`
	HostName         string            `json:"hostName"`
	Status           RoomStatus        `json:"status"`
	Settings         Settings          `json:"settings"`
	Participants     []string          `json:"participants"`
	ParticipantNames map[string]string `json:"participantNames"`
	Candidates       []Movie           `json:"candidates"`
	Votes            map[string][]int  `json:"votes"`
	Result           *Result           `json:"result,omitempty"`
}

func NewRoom(code, hostConnID, hostName string) *Room {
	return &Room{
		Code:             code,
		HostConnectionID: hostConnID,
		HostName:         hostName,
		Status:           StatusWaitingToStart,
		Settings:         DefaultSettings(),
		Participants:     []string{},
		ParticipantNames: map[string]string{},
		Candidates:       []Movie{},
		Votes:            map[string][]int{},
	}
}

func (r *Room) IsHost(connID string) bool {
	return r.HostConnectionID == connID
}

func (r *Room) IsParticipant(connID string) bool {
	return slices.Contains(r.Participants, connID)
}

// AddParticipant reports whether the participant was not present before.
func (r *Room) AddParticipant(connID, name string) bool {
	if r.IsParticipant(connID) {
		return false
	}
	r.Participants = append(r.Participants, connID)
	if r.ParticipantNames == nil {
		r.ParticipantNames = map[string]string{}
	}
	r.ParticipantNames[connID] = name
	return true
}

// RemoveParticipant drops the participant together with its name and votes.
func (r *Room) RemoveParticipant(connID string) bool {
	idx := slices.Index(r.Participants, connID)
	if idx < 0 {
		return false
	}
	r.Participants = slices.Delete(r.Participants, idx, idx+1)
	delete(r.ParticipantNames, connID)
	delete(r.Votes, connID)
	return true
}

func (r *Room) Candidate(movieID int) (Movie, bool) {
	for _, m := range r.Candidates {
		if m.ID == movieID {
			return m, true
		}
	}
	return Movie{}, false
}

// AddVote reports whether the vote set changed. Votes are never toggled off.
func (r *Room) AddVote(connID string, movieID int) bool {
	if r.Votes == nil {
		r.Votes = map[string][]int{}
	}
	if slices.Contains(r.Votes[connID], movieID) {
		return false
	}
	r.Votes[connID] = append(r.Votes[connID], movieID)
	return true
}

// ReplaceCandidates swaps the candidate list and drops votes for movies that are gone.
func (r *Room) ReplaceCandidates(movies []Movie) {
	r.Candidates = movies
	for connID, ids := range r.Votes {
		kept := slices.DeleteFunc(slices.Clone(ids), func(id int) bool {
			_, ok := r.Candidate(id)
			return !ok
		})
		if len(kept) == 0 {
			delete(r.Votes, connID)
			continue
		}
		r.Votes[connID] = kept
	}
}

func (r *Room) VoteCount(movieID int) int {
	count := 0
	for _, ids := range r.Votes {
		if slices.Contains(ids, movieID) {
			count++
		}
	}
	return count
}

func (r *Room) DisplayName(connID string) string {
	if name, ok := r.ParticipantNames[connID]; ok {
		return name
	}
	if r.IsHost(connID) {
		return r.HostName
	}
	return connID
}
