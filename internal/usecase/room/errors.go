package usecase_room

import "errors"

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrMovieNotFound = errors.New("movie not found")
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidState  = errors.New("invalid room state")
	ErrValidation    = errors.New("validation failed")

	ErrCorruptState     = errors.New("corrupt room state")
	ErrStorage          = errors.New("storage failure")
	ErrCollaborator     = errors.New("analysis collaborator failure")
	ErrCodeConflict     = errors.New("code conflict")
	ErrRoomsUnavailable = errors.New("no available room codes")
)

// IsClientError reports whether err was caused by the caller rather than by the system.
func IsClientError(err error) bool {
	return errors.Is(err, ErrRoomNotFound) ||
		errors.Is(err, ErrMovieNotFound) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrValidation)
}
