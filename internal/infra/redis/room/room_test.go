package infra_redis_room

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis"
	"github.com/humanbelnik/matchmovie/internal/model"
	usecase_room "github.com/humanbelnik/matchmovie/internal/usecase/room"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type RedisRoomSuite struct {
	suite.Suite

	server *miniredis.Miniredis
	client *redis.Client
	driver *Driver
	ctx    context.Context
}

func (s *RedisRoomSuite) BeforeEach(t provider.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)

	s.server = server
	s.client = redis.NewClient(&redis.Options{Addr: server.Addr()})
	s.driver = New(s.client, time.Hour)
	s.ctx = context.Background()
}

func (s *RedisRoomSuite) AfterEach(t provider.T) {
	s.client.Close()
	s.server.Close()
}

func (s *RedisRoomSuite) TestCreateAndGet(t provider.T) {
	room := model.NewRoom("ABC123", "conn-host", "host")
	room.AddParticipant("conn-alice", "alice")
	room.Candidates = []model.Movie{{ID: 1, Title: "Heat", Genres: []string{"Crime"}}}
	room.AddVote("conn-alice", 1)

	require.NoError(t, s.driver.Create(s.ctx, room))

	got, err := s.driver.Get(s.ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, room, got)
	assert.True(t, s.server.Exists("room:ABC123"))
	assert.Equal(t, time.Hour, s.server.TTL("room:ABC123"))
}

func (s *RedisRoomSuite) TestCreateConflict(t provider.T) {
	require.NoError(t, s.driver.Create(s.ctx, model.NewRoom("ABC123", "conn-a", "a")))

	err := s.driver.Create(s.ctx, model.NewRoom("ABC123", "conn-b", "b"))
	assert.ErrorIs(t, err, usecase_room.ErrCodeConflict)

	got, err := s.driver.Get(s.ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, "conn-a", got.HostConnectionID)
}

func (s *RedisRoomSuite) TestGetMissing(t provider.T) {
	_, err := s.driver.Get(s.ctx, "ZZZ999")
	assert.ErrorIs(t, err, usecase_room.ErrRoomNotFound)
}

func (s *RedisRoomSuite) TestGetCorrupt(t provider.T) {
	require.NoError(t, s.server.Set("room:BAD000", "{not json"))

	_, err := s.driver.Get(s.ctx, "BAD000")
	assert.ErrorIs(t, err, usecase_room.ErrCorruptState)
}

func (s *RedisRoomSuite) TestPutRefreshesTTL(t provider.T) {
	room := model.NewRoom("ABC123", "conn-host", "host")
	require.NoError(t, s.driver.Create(s.ctx, room))

	s.server.FastForward(50 * time.Minute)
	room.Status = model.StatusInProgress
	require.NoError(t, s.driver.Put(s.ctx, room))

	assert.Equal(t, time.Hour, s.server.TTL("room:ABC123"))
	got, err := s.driver.Get(s.ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, got.Status)
}

func (s *RedisRoomSuite) TestPutDoesNotResurrect(t provider.T) {
	room := model.NewRoom("ABC123", "conn-host", "host")
	require.NoError(t, s.driver.Create(s.ctx, room))

	s.server.FastForward(2 * time.Hour)

	err := s.driver.Put(s.ctx, room)
	assert.ErrorIs(t, err, usecase_room.ErrRoomNotFound)
	assert.False(t, s.server.Exists("room:ABC123"))
}

func (s *RedisRoomSuite) TestDeleteAndList(t provider.T) {
	for _, code := range []string{"AAA111", "BBB222", "CCC333"} {
		require.NoError(t, s.driver.Create(s.ctx, model.NewRoom(code, "conn-"+code, "host")))
	}
	require.NoError(t, s.server.Set("session:xyz", "ignored"))

	require.NoError(t, s.driver.Delete(s.ctx, "BBB222"))

	codes, err := s.driver.ListCodes(s.ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"AAA111", "CCC333"}, codes)

	_, err = s.driver.Get(s.ctx, "BBB222")
	assert.ErrorIs(t, err, usecase_room.ErrRoomNotFound)
}

func (s *RedisRoomSuite) TestStorageFailure(t provider.T) {
	s.server.Close()

	_, err := s.driver.Get(s.ctx, "ABC123")
	assert.ErrorIs(t, err, usecase_room.ErrStorage)

	err = s.driver.Create(s.ctx, model.NewRoom("ABC123", "conn-host", "host"))
	assert.ErrorIs(t, err, usecase_room.ErrStorage)
}

func TestRedisRoomSuite(t *testing.T) {
	suite.RunSuite(t, new(RedisRoomSuite))
}
