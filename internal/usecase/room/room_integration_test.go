package usecase_room_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis"
	infra_redis_lock "github.com/humanbelnik/matchmovie/internal/infra/redis/lock"
	infra_redis_room "github.com/humanbelnik/matchmovie/internal/infra/redis/room"
	"github.com/humanbelnik/matchmovie/internal/model"
	"github.com/humanbelnik/matchmovie/internal/service/membership"
	"github.com/humanbelnik/matchmovie/internal/service/roomlock"
	usecase_room "github.com/humanbelnik/matchmovie/internal/usecase/room"
	analyzer_mocks "github.com/humanbelnik/matchmovie/internal/usecase/room/mocks/analyzer"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events map[string][]model.Event
}

func (r *recorder) Send(connID string, event model.Event) { r.record(connID, event) }

func (r *recorder) Broadcast(code string, event model.Event) { r.record(code, event) }

func (r *recorder) Join(string, string)  {}
func (r *recorder) Leave(string, string) {}
func (r *recorder) Close(string)         {}

func (r *recorder) record(key string, event model.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.events == nil {
		r.events = map[string][]model.Event{}
	}
	r.events[key] = append(r.events[key], event)
}

func (r *recorder) types(key string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var types []string
	for _, e := range r.events[key] {
		types = append(types, e.Type)
	}
	return types
}

type UsecaseRoomIntegrationSuite struct {
	suite.Suite
}

type env struct {
	uc       *usecase_room.Usecase
	store    *infra_redis_room.Driver
	notifier *recorder
	analyzer *analyzer_mocks.Analyzer
	ctx      context.Context
}

func setup(t provider.T) (*env, func()) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: server.Addr(), PoolSize: 64})

	store := infra_redis_room.New(client, time.Hour)
	locker := roomlock.Chain(roomlock.NewKeyed(), infra_redis_lock.New(client, 10*time.Second, 5*time.Second))
	notifier := &recorder{}
	analyzer := analyzer_mocks.NewAnalyzer(t)

	e := &env{
		uc:       usecase_room.New(store, membership.New(), locker, notifier, analyzer),
		store:    store,
		notifier: notifier,
		analyzer: analyzer,
		ctx:      context.Background(),
	}
	return e, func() {
		client.Close()
		server.Close()
	}
}

// prepare builds the example room: alice and bob joined, two candidates, matching started.
func prepare(t provider.T, e *env) string {
	code, err := e.uc.CreateRoom(e.ctx, "conn-host", "host")
	require.NoError(t, err)
	require.NoError(t, e.uc.JoinRoom(e.ctx, "conn-alice", code, "alice"))
	require.NoError(t, e.uc.JoinRoom(e.ctx, "conn-bob", code, "bob"))
	require.NoError(t, e.uc.ConfigureRoom(e.ctx, "conn-host", code, model.Settings{
		Categories:           []string{"action"},
		RoundDurationSeconds: 60,
		MaxParticipants:      10,
	}))
	require.NoError(t, e.uc.AddCandidates(e.ctx, "conn-host", code, []model.Movie{
		{ID: 1, Title: "Heat", Genres: []string{"Crime", "Action"}},
		{ID: 2, Title: "Ronin", Genres: []string{"Action"}},
	}))
	require.NoError(t, e.uc.StartMatching(e.ctx, "conn-host", code))
	return code
}

func (s *UsecaseRoomIntegrationSuite) TestUniqueCodes(t provider.T) {
	e, teardown := setup(t)
	defer teardown()

	seen := map[string]bool{}
	for i := range 50 {
		code, err := e.uc.CreateRoom(e.ctx, fmt.Sprintf("conn-%d", i), "host")
		require.NoError(t, err)
		assert.True(t, usecase_room.IsValidCode(code))
		assert.False(t, seen[code])
		seen[code] = true
	}

	codes, err := e.uc.ListRooms(e.ctx)
	require.NoError(t, err)
	assert.Len(t, codes, 50)
}

func (s *UsecaseRoomIntegrationSuite) TestFinishExample(t provider.T) {
	e, teardown := setup(t)
	defer teardown()

	code := prepare(t, e)
	require.NoError(t, e.uc.VoteMovie(e.ctx, "conn-alice", code, 1))
	require.NoError(t, e.uc.VoteMovie(e.ctx, "conn-bob", code, 1))
	require.NoError(t, e.uc.VoteMovie(e.ctx, "conn-bob", code, 2))
	require.NoError(t, e.uc.VoteMovie(e.ctx, "conn-bob", code, 2))

	analysis := &model.Analysis{Recommendation: model.Recommendation{Movie: "Ronin"}}
	e.analyzer.On("Analyze", mock.Anything, mock.Anything).Return(analysis, nil).Once()

	require.NoError(t, e.uc.FinishRoom(e.ctx, "conn-host", code))

	room, err := e.uc.Room(e.ctx, code)
	require.NoError(t, err)
	require.NotNil(t, room.Result)
	assert.Equal(t, model.StatusFinished, room.Status)
	assert.Equal(t, 1, room.Result.TopMovieID)
	assert.Equal(t, []model.CandidateTally{
		{MovieID: 1, Title: "Heat", Votes: 2, Voters: []string{"alice", "bob"}},
		{MovieID: 2, Title: "Ronin", Votes: 1, Voters: []string{"bob"}},
	}, room.Result.Tally)
	assert.Equal(t, "Ronin", room.Result.Analysis.Recommendation.Movie)

	assert.Equal(t, []string{
		model.EventParticipantJoined,
		model.EventParticipantJoined,
		model.EventRoomConfigured,
		model.EventMoviesLoading,
		model.EventMatchingStarted,
		model.EventMovieVoted,
		model.EventMovieVoted,
		model.EventMovieVoted,
		model.EventRoomAnalyzing,
		model.EventRoomFinished,
	}, e.notifier.types(code))
	e.analyzer.AssertExpectations(t)
}

func (s *UsecaseRoomIntegrationSuite) TestConcurrentVotes(t provider.T) {
	e, teardown := setup(t)
	defer teardown()

	const n = 24

	code, err := e.uc.CreateRoom(e.ctx, "conn-host", "host")
	require.NoError(t, err)

	movies := make([]model.Movie, 0, n)
	for i := range n {
		require.NoError(t, e.uc.JoinRoom(e.ctx, fmt.Sprintf("conn-%d", i), code, fmt.Sprintf("p%d", i)))
		movies = append(movies, model.Movie{ID: i + 1, Title: fmt.Sprintf("Movie %d", i+1)})
	}
	require.NoError(t, e.uc.AddCandidates(e.ctx, "conn-host", code, movies))
	require.NoError(t, e.uc.StartMatching(e.ctx, "conn-host", code))

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- e.uc.VoteMovie(e.ctx, fmt.Sprintf("conn-%d", i), code, i+1)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	room, err := e.uc.Room(e.ctx, code)
	require.NoError(t, err)

	total := 0
	for _, m := range movies {
		total += room.VoteCount(m.ID)
	}
	assert.Equal(t, n, total)
	assert.Len(t, room.Votes, n)
}

func (s *UsecaseRoomIntegrationSuite) TestHostDisconnectClosesRoom(t provider.T) {
	e, teardown := setup(t)
	defer teardown()

	code := prepare(t, e)

	require.NoError(t, e.uc.Disconnect(e.ctx, "conn-host"))
	assert.Contains(t, e.notifier.types(code), model.EventRoomClosed)

	_, err := e.uc.Room(e.ctx, code)
	assert.ErrorIs(t, err, usecase_room.ErrRoomNotFound)
	assert.ErrorIs(t, e.uc.VoteMovie(e.ctx, "conn-alice", code, 1), usecase_room.ErrRoomNotFound)
	assert.ErrorIs(t, e.uc.JoinRoom(e.ctx, "conn-carol", code, "carol"), usecase_room.ErrRoomNotFound)

	// Participants of the closed room have nothing left to leave.
	assert.NoError(t, e.uc.Disconnect(e.ctx, "conn-alice"))
}

func (s *UsecaseRoomIntegrationSuite) TestRejectedCommandsLeaveRoomUnchanged(t provider.T) {
	e, teardown := setup(t)
	defer teardown()

	code := prepare(t, e)
	before, err := e.uc.Room(e.ctx, code)
	require.NoError(t, err)

	assert.ErrorIs(t, e.uc.ConfigureRoom(e.ctx, "conn-host", code, model.Settings{
		Categories: []string{"action"}, RoundDurationSeconds: 10,
	}), usecase_room.ErrValidation)
	assert.ErrorIs(t, e.uc.ConfigureRoom(e.ctx, "conn-alice", code, before.Settings), usecase_room.ErrForbidden)
	assert.ErrorIs(t, e.uc.StartMatching(e.ctx, "conn-bob", code), usecase_room.ErrForbidden)
	assert.ErrorIs(t, e.uc.AddCandidates(e.ctx, "conn-bob", code, nil), usecase_room.ErrForbidden)
	assert.ErrorIs(t, e.uc.FinishRoom(e.ctx, "conn-alice", code), usecase_room.ErrForbidden)
	assert.ErrorIs(t, e.uc.VoteMovie(e.ctx, "conn-alice", code, 99), usecase_room.ErrMovieNotFound)

	after, err := e.uc.Room(e.ctx, code)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUsecaseRoomIntegrationSuite(t *testing.T) {
	suite.RunSuite(t, new(UsecaseRoomIntegrationSuite))
}
