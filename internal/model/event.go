package model

type EventType = string

const (
	EventRoomCreated       EventType = "RoomCreated"
	EventRoomJoined        EventType = "RoomJoined"
	EventParticipantJoined EventType = "ParticipantJoined"
	EventParticipantLeft   EventType = "ParticipantLeft"
	EventRoomConfigured    EventType = "RoomConfigured"
	EventMoviesLoading     EventType = "MoviesLoading"
	EventMatchingStarted   EventType = "MatchingStarted"
	EventMovieVoted        EventType = "MovieVoted"
	EventRoomAnalyzing     EventType = "RoomAnalyzing"
	EventRoomFinished      EventType = "RoomFinished"
	EventRoomClosed        EventType = "RoomClosed"
	EventError             EventType = "Error"
)

type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}
