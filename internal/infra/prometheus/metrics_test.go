package infra_prometheus

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MetricsSuite struct {
	suite.Suite
}

func (s *MetricsSuite) TestCounters(t provider.T) {
	t.Parallel()

	m := New()
	m.RoomCreated()
	m.RoomCreated()
	m.ParticipantJoined()
	m.VoteRegistered()
	m.VoteRegistered()
	m.RoomFinished()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.roomsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.participantsJoined))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.votes))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.roomsFinished))
}

func (s *MetricsSuite) TestHandler(t provider.T) {
	t.Parallel()

	var stored atomic.Int64
	stored.Store(4)
	m := New(WithStoredRooms(func() float64 { return float64(stored.Load()) }))
	m.VoteRegistered()

	server := httptest.NewServer(m.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "matchmovie_votes_total 1")
	assert.Contains(t, string(body), "matchmovie_rooms_stored 4")

	stored.Store(1)
	assert.Contains(t, scrape(t, server.URL), "matchmovie_rooms_stored 1")
}

func (s *MetricsSuite) TestStoredRoomsIsOptional(t provider.T) {
	t.Parallel()

	server := httptest.NewServer(New().Handler())
	defer server.Close()

	assert.NotContains(t, scrape(t, server.URL), "matchmovie_rooms_stored")
}

func scrape(t provider.T, url string) string {
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetricsSuite(t *testing.T) {
	suite.RunSuite(t, new(MetricsSuite))
}
