package http_room

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	http_common "github.com/humanbelnik/matchmovie/internal/delivery/http/common"
	"github.com/humanbelnik/matchmovie/internal/model"
)

type Rooms interface {
	Room(ctx context.Context, code string) (*model.Room, error)
	ListRooms(ctx context.Context) ([]string, error)
}

type Controller struct {
	usecase Rooms
	logger  *slog.Logger
}

func New(usecase Rooms) *Controller {
	return &Controller{
		usecase: usecase,
		logger:  slog.Default(),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	rooms := router.Group("/rooms")
	{
		rooms.GET("", c.list)
		rooms.GET("/:code", c.status)
	}
}

type ListResponseDTO struct {
	Codes []string `json:"codes"`
}

type StatusResponseDTO struct {
	Code         string           `json:"code"`
	Status       model.RoomStatus `json:"status"`
	HostName     string           `json:"hostName"`
	Settings     model.Settings   `json:"settings"`
	Participants []string         `json:"participants"`
	Candidates   int              `json:"candidates"`
	Result       *model.Result    `json:"result,omitempty"`
}

func FromDomain(room *model.Room) StatusResponseDTO {
	participants := make([]string, 0, len(room.Participants))
	for _, connID := range room.Participants {
		participants = append(participants, room.DisplayName(connID))
	}
	return StatusResponseDTO{
		Code:         room.Code,
		Status:       room.Status,
		HostName:     room.HostName,
		Settings:     room.Settings,
		Participants: participants,
		Candidates:   len(room.Candidates),
		Result:       room.Result,
	}
}

func (c *Controller) list(ctx *gin.Context) {
	codes, err := c.usecase.ListRooms(ctx.Request.Context())
	if err != nil {
		c.logger.Error("failed to list rooms", slog.String("error", err.Error()))
		ctx.JSON(http_common.StatusFor(err))
		return
	}
	if codes == nil {
		codes = []string{}
	}

	ctx.JSON(http.StatusOK, ListResponseDTO{Codes: codes})
}

func (c *Controller) status(ctx *gin.Context) {
	room, err := c.usecase.Room(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		c.logger.Error("failed to get room", slog.String("error", err.Error()))
		ctx.JSON(http_common.StatusFor(err))
		return
	}

	ctx.JSON(http.StatusOK, FromDomain(room))
}
