package infra_redis_lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type RedisLockSuite struct {
	suite.Suite

	server *miniredis.Miniredis
	client *redis.Client
}

func (s *RedisLockSuite) BeforeEach(t provider.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)

	s.server = server
	s.client = redis.NewClient(&redis.Options{Addr: server.Addr()})
}

func (s *RedisLockSuite) AfterEach(t provider.T) {
	s.client.Close()
	s.server.Close()
}

func (s *RedisLockSuite) TestLockAndRelease(t provider.T) {
	driver := New(s.client, 10*time.Second, time.Second)

	unlock, err := driver.Lock(context.Background(), "ABC123")
	require.NoError(t, err)
	assert.True(t, s.server.Exists("room-lock:ABC123"))

	unlock()
	assert.False(t, s.server.Exists("room-lock:ABC123"))
}

func (s *RedisLockSuite) TestSecondOwnerTimesOut(t provider.T) {
	first := New(s.client, 10*time.Second, time.Second)
	second := New(s.client, 10*time.Second, 50*time.Millisecond)

	unlock, err := first.Lock(context.Background(), "ABC123")
	require.NoError(t, err)
	defer unlock()

	_, err = second.Lock(context.Background(), "ABC123")
	assert.ErrorIs(t, err, ErrNotAcquired)
}

func (s *RedisLockSuite) TestReleaseKeepsForeignLease(t provider.T) {
	driver := New(s.client, 10*time.Second, time.Second)

	unlock, err := driver.Lock(context.Background(), "ABC123")
	require.NoError(t, err)

	// Lease expired and somebody else took it over.
	require.NoError(t, s.server.Set("room-lock:ABC123", "someone-else"))
	unlock()

	got, err := s.server.Get("room-lock:ABC123")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func (s *RedisLockSuite) TestSerializesHolders(t provider.T) {
	driver := New(s.client, 10*time.Second, 5*time.Second)

	var (
		wg      sync.WaitGroup
		holders atomic.Int32
		overlap atomic.Bool
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := driver.Lock(context.Background(), "ABC123")
			if err != nil {
				return
			}
			if holders.Add(1) > 1 {
				overlap.Store(true)
			}
			time.Sleep(time.Millisecond)
			holders.Add(-1)
			unlock()
		}()
	}
	wg.Wait()

	assert.False(t, overlap.Load())
}

func (s *RedisLockSuite) TestHonorsContext(t provider.T) {
	driver := New(s.client, 10*time.Second, 5*time.Second)

	unlock, err := driver.Lock(context.Background(), "ABC123")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err = driver.Lock(ctx, "ABC123")
	assert.Error(t, err)
}

func TestRedisLockSuite(t *testing.T) {
	suite.RunSuite(t, new(RedisLockSuite))
}
