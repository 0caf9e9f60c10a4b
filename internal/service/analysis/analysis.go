// Package analysis bounds calls to the recommendation collaborator.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/humanbelnik/matchmovie/internal/model"
	usecase_room "github.com/humanbelnik/matchmovie/internal/usecase/room"
)

// ErrEmptyAnalysis is returned by collaborators that answered without a recommendation.
var ErrEmptyAnalysis = errors.New("analysis has no recommendation")

type Analyzer interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (*model.Analysis, error)
}

// Bounded retries the wrapped analyzer a fixed number of times, each attempt
// limited by timeout. Any final failure is reported as ErrCollaborator.
type Bounded struct {
	next     Analyzer
	timeout  time.Duration
	attempts uint
	interval time.Duration
	logger   *slog.Logger
}

type Option func(*Bounded)

func WithLogger(logger *slog.Logger) Option {
	return func(b *Bounded) {
		b.logger = logger
	}
}

// WithInterval sets the initial pause between attempts.
func WithInterval(d time.Duration) Option {
	return func(b *Bounded) {
		b.interval = d
	}
}

func NewBounded(next Analyzer, timeout time.Duration, attempts int, opts ...Option) *Bounded {
	if attempts < 1 {
		attempts = 1
	}
	b := &Bounded{
		next:     next,
		timeout:  timeout,
		attempts: uint(attempts),
		interval: 500 * time.Millisecond,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bounded) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.Analysis, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = b.interval

	attempt := 0
	result, err := backoff.Retry(ctx, func() (*model.Analysis, error) {
		attempt++
		attemptCtx, cancel := context.WithTimeout(ctx, b.timeout)
		defer cancel()

		res, err := b.next.Analyze(attemptCtx, req)
		if err == nil && res == nil {
			err = ErrEmptyAnalysis
		}
		if err != nil {
			b.logger.Warn("analysis attempt failed", "room", req.RoomCode, "attempt", attempt, "error", err)
			return nil, err
		}
		return res, nil
	}, backoff.WithBackOff(policy), backoff.WithMaxTries(b.attempts))
	if err != nil {
		return nil, errors.Join(usecase_room.ErrCollaborator, fmt.Errorf("after %d attempts: %w", attempt, err))
	}
	return result, nil
}
