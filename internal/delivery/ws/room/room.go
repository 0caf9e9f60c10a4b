package ws_room

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/humanbelnik/matchmovie/internal/config"
	"github.com/humanbelnik/matchmovie/internal/model"
	usecase_room "github.com/humanbelnik/matchmovie/internal/usecase/room"
)

const (
	CommandCreateRoom    = "CreateRoom"
	CommandJoinRoom      = "JoinRoom"
	CommandConfigureRoom = "ConfigureRoom"
	CommandAddCandidates = "AddCandidates"
	CommandStartMatching = "StartMatching"
	CommandVoteMovie     = "VoteMovie"
	CommandFinishRoom    = "FinishRoom"
)

const (
	writeWait    = 10 * time.Second
	commandQueue = 32
)

var ErrUnknownCommand = errors.New("unknown command")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

//go:generate mockery --name=Coordinator --output=./mocks/coordinator --filename=coordinator.go
type Coordinator interface {
	CreateRoom(ctx context.Context, connID, name string) (string, error)
	JoinRoom(ctx context.Context, connID, code, name string) error
	ConfigureRoom(ctx context.Context, connID, code string, settings model.Settings) error
	AddCandidates(ctx context.Context, connID, code string, movies []model.Movie) error
	StartMatching(ctx context.Context, connID, code string) error
	VoteMovie(ctx context.Context, connID, code string, movieID int) error
	FinishRoom(ctx context.Context, connID, code string) error
	Disconnect(ctx context.Context, connID string) error
}

type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type CreateRoomDTO struct {
	Name string `json:"name"`
}

type JoinRoomDTO struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type ConfigureRoomDTO struct {
	Code                 string   `json:"code"`
	Categories           []string `json:"categories"`
	RoundDurationSeconds int      `json:"roundDurationSeconds"`
	MaxParticipants      int      `json:"maxParticipants"`
}

type AddCandidatesDTO struct {
	Code   string        `json:"code"`
	Movies []model.Movie `json:"movies"`
}

type RoomDTO struct {
	Code string `json:"code"`
}

type VoteMovieDTO struct {
	Code    string `json:"code"`
	MovieID int    `json:"movieId"`
}

type Controller struct {
	uc  Coordinator
	hub *Hub
	cfg config.WebSocket

	logger *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func NewController(uc Coordinator,
	hub *Hub,
	cfg config.WebSocket,
	opts ...ControllerOption) *Controller {
	c := &Controller{
		uc:     uc,
		hub:    hub,
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ws", c.roomWS)
}

func (c *Controller) roomWS(ctx *gin.Context) {
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.logger.Error("failed to upgrade to websocket",
			slog.String("error", err.Error()),
		)
		return
	}

	client := NewClient(uuid.NewString(), conn, c.cfg.SendBuffer)
	c.hub.Register(client)

	go c.startClientWriting(client)
	go c.startClientReading(context.WithoutCancel(ctx.Request.Context()), client)
}

func (c *Controller) startClientReading(ctx context.Context, client *Client) {
	// One worker per connection keeps its commands in the order they were read.
	commands := make(chan []byte, commandQueue)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for raw := range commands {
			c.handle(ctx, client.ID, raw)
		}
	}()

	defer func() {
		client.conn.Close()
		// Commands already accepted finish before the connection is torn down.
		close(commands)
		<-done
		if err := c.uc.Disconnect(ctx, client.ID); err != nil {
			c.logger.Error("failed to disconnect client", "conn_id", client.ID, "error", err)
		}
		c.hub.Unregister(client)
	}()

	pongWait := c.cfg.PingPeriod * 10 / 9
	client.conn.SetReadLimit(c.cfg.ReadLimit)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket closed unexpectedly", "conn_id", client.ID, "error", err)
			}
			return
		}
		commands <- raw
	}
}

func (c *Controller) startClientWriting(client *Client) {
	ticker := time.NewTicker(c.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.send:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handle runs one inbound command. A rejected command produces exactly one Error event for the caller.
func (c *Controller) handle(ctx context.Context, connID string, raw []byte) {
	err := c.dispatch(ctx, connID, raw)
	if err == nil {
		return
	}

	message := "internal error"
	switch {
	case usecase_room.IsClientError(err), errors.Is(err, ErrUnknownCommand):
		message = err.Error()
		c.logger.Warn("command rejected", "conn_id", connID, "error", err)
	default:
		c.logger.Error("command failed", "conn_id", connID, "error", err)
	}

	c.hub.Send(connID, model.Event{
		Type:    model.EventError,
		Payload: usecase_room.ErrorPayload{Message: message},
	})
}

func (c *Controller) dispatch(ctx context.Context, connID string, raw []byte) error {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return fmt.Errorf("%w: malformed message", usecase_room.ErrValidation)
	}

	switch msg.Type {
	case CommandCreateRoom:
		var req CreateRoomDTO
		if err := decode(msg.Payload, &req); err != nil {
			return err
		}
		_, err := c.uc.CreateRoom(ctx, connID, req.Name)
		return err

	case CommandJoinRoom:
		var req JoinRoomDTO
		if err := decode(msg.Payload, &req); err != nil {
			return err
		}
		return c.uc.JoinRoom(ctx, connID, req.Code, req.Name)

	case CommandConfigureRoom:
		var req ConfigureRoomDTO
		if err := decode(msg.Payload, &req); err != nil {
			return err
		}
		return c.uc.ConfigureRoom(ctx, connID, req.Code, model.Settings{
			Categories:           req.Categories,
			RoundDurationSeconds: req.RoundDurationSeconds,
			MaxParticipants:      req.MaxParticipants,
		})

	case CommandAddCandidates:
		var req AddCandidatesDTO
		if err := decode(msg.Payload, &req); err != nil {
			return err
		}
		return c.uc.AddCandidates(ctx, connID, req.Code, req.Movies)

	case CommandStartMatching:
		var req RoomDTO
		if err := decode(msg.Payload, &req); err != nil {
			return err
		}
		return c.uc.StartMatching(ctx, connID, req.Code)

	case CommandVoteMovie:
		var req VoteMovieDTO
		if err := decode(msg.Payload, &req); err != nil {
			return err
		}
		return c.uc.VoteMovie(ctx, connID, req.Code, req.MovieID)

	case CommandFinishRoom:
		var req RoomDTO
		if err := decode(msg.Payload, &req); err != nil {
			return err
		}
		return c.uc.FinishRoom(ctx, connID, req.Code)
	}

	return fmt.Errorf("%w: %q", ErrUnknownCommand, msg.Type)
}

func decode(payload json.RawMessage, dst any) error {
	if len(payload) == 0 {
		return fmt.Errorf("%w: payload is required", usecase_room.ErrValidation)
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("%w: malformed payload", usecase_room.ErrValidation)
	}
	return nil
}
