package http_common

import (
	"errors"
	"net/http"

	usecase_room "github.com/humanbelnik/matchmovie/internal/usecase/room"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

// StatusFor maps coordinator errors onto HTTP statuses.
func StatusFor(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, usecase_room.ErrRoomNotFound), errors.Is(err, usecase_room.ErrMovieNotFound):
		return http.StatusNotFound, ErrorResponse{Message: "not found"}
	case errors.Is(err, usecase_room.ErrForbidden):
		return http.StatusForbidden, ErrorResponse{Message: "forbidden"}
	case errors.Is(err, usecase_room.ErrInvalidState):
		return http.StatusConflict, ErrorResponse{Message: err.Error()}
	case errors.Is(err, usecase_room.ErrValidation):
		return http.StatusBadRequest, ErrorResponse{Message: err.Error()}
	case errors.Is(err, usecase_room.ErrStorage):
		return http.StatusServiceUnavailable, ErrorResponse{Message: "unavailable"}
	}
	return http.StatusInternalServerError, ErrorResponse{Message: "internal error"}
}
