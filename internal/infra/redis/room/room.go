package infra_redis_room

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis"
	"github.com/humanbelnik/matchmovie/internal/model"
	usecase_room "github.com/humanbelnik/matchmovie/internal/usecase/room"
)

const (
	keyPrefix = "room:"
	scanCount = 100
)

// Driver keeps one JSON snapshot per room under room:<code>.
// Every write refreshes the key TTL.
type Driver struct {
	client *redis.Client
	ttl    time.Duration
}

func New(
	client *redis.Client,
	ttl time.Duration,
) *Driver {
	return &Driver{
		client: client,
		ttl:    ttl,
	}
}

func (d *Driver) Create(ctx context.Context, room *model.Room) error {
	raw, err := json.Marshal(room)
	if err != nil {
		return errors.Join(usecase_room.ErrStorage, err)
	}

	ok, err := d.client.WithContext(ctx).SetNX(getFullKey(room.Code), raw, d.ttl).Result()
	if err != nil {
		return errors.Join(usecase_room.ErrStorage, err)
	}
	if !ok {
		return usecase_room.ErrCodeConflict
	}
	return nil
}

func (d *Driver) Get(ctx context.Context, code string) (*model.Room, error) {
	raw, err := d.client.WithContext(ctx).Get(getFullKey(code)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("%w: %s", usecase_room.ErrRoomNotFound, code)
	}
	if err != nil {
		return nil, errors.Join(usecase_room.ErrStorage, err)
	}

	var room model.Room
	if err := json.Unmarshal(raw, &room); err != nil {
		return nil, errors.Join(usecase_room.ErrCorruptState, fmt.Errorf("room %s: %w", code, err))
	}
	return &room, nil
}

// Put replaces an existing snapshot. A room that expired is not resurrected.
func (d *Driver) Put(ctx context.Context, room *model.Room) error {
	raw, err := json.Marshal(room)
	if err != nil {
		return errors.Join(usecase_room.ErrStorage, err)
	}

	ok, err := d.client.WithContext(ctx).SetXX(getFullKey(room.Code), raw, d.ttl).Result()
	if err != nil {
		return errors.Join(usecase_room.ErrStorage, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", usecase_room.ErrRoomNotFound, room.Code)
	}
	return nil
}

func (d *Driver) Delete(ctx context.Context, code string) error {
	if err := d.client.WithContext(ctx).Del(getFullKey(code)).Err(); err != nil {
		return errors.Join(usecase_room.ErrStorage, err)
	}
	return nil
}

func (d *Driver) ListCodes(ctx context.Context) ([]string, error) {
	client := d.client.WithContext(ctx)

	var (
		codes  []string
		cursor uint64
	)
	for {
		keys, next, err := client.Scan(cursor, keyPrefix+"*", scanCount).Result()
		if err != nil {
			return nil, errors.Join(usecase_room.ErrStorage, err)
		}
		for _, key := range keys {
			codes = append(codes, strings.TrimPrefix(key, keyPrefix))
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	return codes, nil
}

func getFullKey(code string) string {
	return keyPrefix + code
}
