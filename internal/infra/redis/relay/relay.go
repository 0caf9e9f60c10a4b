package infra_redis_relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/go-redis/redis"
	"github.com/humanbelnik/matchmovie/internal/model"
)

const channelPrefix = "room-events:"

// Local delivers events to the connections held by this instance.
type Local interface {
	Send(connID string, event model.Event)
	Broadcast(code string, event model.Event)
	Join(connID, code string)
	Leave(connID, code string)
	Close(code string)
}

type envelope struct {
	Type    string          `json:"type,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Close   bool            `json:"close,omitempty"`
}

// Driver fans group events out through Redis pub/sub, so every instance that
// holds members of a room delivers them. Direct sends stay local.
type Driver struct {
	client *redis.Client
	local  Local
	logger *slog.Logger
}

type Option func(*Driver)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}

func New(client *redis.Client, local Local, opts ...Option) *Driver {
	d := &Driver{
		client: client,
		local:  local,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) Send(connID string, event model.Event) {
	d.local.Send(connID, event)
}

func (d *Driver) Join(connID, code string) {
	d.local.Join(connID, code)
}

func (d *Driver) Leave(connID, code string) {
	d.local.Leave(connID, code)
}

func (d *Driver) Broadcast(code string, event model.Event) {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		d.logger.Error("failed to encode event", "room", code, "type", event.Type, "error", err)
		return
	}
	d.publish(code, envelope{Type: event.Type, Payload: payload})
}

func (d *Driver) Close(code string) {
	d.publish(code, envelope{Close: true})
}

func (d *Driver) publish(code string, env envelope) {
	raw, err := json.Marshal(env)
	if err != nil {
		d.logger.Error("failed to encode envelope", "room", code, "error", err)
		return
	}
	if err := d.client.Publish(channelPrefix+code, raw).Err(); err != nil {
		// Members on this instance still get the event.
		d.logger.Error("failed to publish room event, delivering locally", "room", code, "error", err)
		d.deliver(code, env)
	}
}

// Run relays published events to the local hub until ctx is done.
func (d *Driver) Run(ctx context.Context) error {
	pubsub := d.client.PSubscribe(channelPrefix + "*")
	defer pubsub.Close()

	if _, err := pubsub.Receive(); err != nil {
		return err
	}
	d.logger.Info("room event relay subscribed")

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				d.logger.Warn("dropping malformed room event", "channel", msg.Channel, "error", err)
				continue
			}
			d.deliver(strings.TrimPrefix(msg.Channel, channelPrefix), env)
		}
	}
}

func (d *Driver) deliver(code string, env envelope) {
	if env.Close {
		d.local.Close(code)
		return
	}
	d.local.Broadcast(code, model.Event{Type: env.Type, Payload: env.Payload})
}
