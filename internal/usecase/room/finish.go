package usecase_room

import (
	"context"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff/v5"
	"github.com/humanbelnik/matchmovie/internal/model"
	"github.com/humanbelnik/matchmovie/internal/service/tally"
)

const (
	reasonNoCandidates = "no movies received votes"

	commitAttempts = 3
)

// FinishRoom closes voting and publishes the result.
//
// The room is moved to LoadingFinalizedData under the room lock, the analysis
// runs without holding it, and the outcome is committed under the lock again
// only if the room still waits for it.
func (u *Usecase) FinishRoom(ctx context.Context, connID, code string) error {
	var snapshot *model.Room
	err := u.withRoom(ctx, code, func(room *model.Room) error {
		if !room.IsHost(connID) {
			return fmt.Errorf("%w: only the host can finish the room", ErrForbidden)
		}
		if room.Status != model.StatusInProgress {
			return fmt.Errorf("%w: room %s is not in progress", ErrInvalidState, room.Code)
		}

		room.Status = model.StatusLoadingFinalizedData
		if err := u.store.Put(ctx, room); err != nil {
			return err
		}

		u.notifier.Broadcast(room.Code, model.Event{
			Type:    model.EventRoomAnalyzing,
			Payload: RoomAnalyzingPayload{Code: room.Code},
		})
		snapshot = room
		return nil
	})
	if err != nil {
		return err
	}

	// The host leaving must not abort a finish that is already committed.
	ctx = context.WithoutCancel(ctx)

	result := u.evaluate(ctx, snapshot)
	return u.commitResult(ctx, snapshot.Code, result)
}

func (u *Usecase) evaluate(ctx context.Context, room *model.Room) *model.Result {
	tallies := tally.Count(room)
	result := &model.Result{Tally: tallies}

	top, ok := tally.Top(tallies)
	if !ok || top.Votes == 0 {
		result.AnalysisUnavailable = true
		result.UnavailableReason = reasonNoCandidates
		return result
	}
	result.TopMovieID = top.MovieID

	analysis, err := u.analyzer.Analyze(ctx, tally.BuildRequest(room, tallies, top))
	if err != nil {
		u.logger.Error("analysis failed", "room", room.Code, "error", err)
		result.AnalysisUnavailable = true
		result.UnavailableReason = "analysis unavailable"
		return result
	}

	result.Analysis = analysis
	return result
}

// commitResult retries storage failures a few times. If the result still
// cannot be saved the group is told, since the room will not finish.
func (u *Usecase) commitResult(ctx context.Context, code string, result *model.Result) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = u.commitInterval

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := u.tryCommit(ctx, code, result)
		if err != nil && !errors.Is(err, ErrStorage) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}, backoff.WithBackOff(policy), backoff.WithMaxTries(commitAttempts))

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrRoomNotFound):
		u.logger.Warn("dropping analysis result, room is gone", "room", code)
		return nil
	}

	u.logger.Error("failed to save room result", "room", code, "error", err)
	u.notifier.Broadcast(code, model.Event{
		Type:    model.EventError,
		Payload: ErrorPayload{Message: "failed to save the room result"},
	})
	return err
}

func (u *Usecase) tryCommit(ctx context.Context, code string, result *model.Result) error {
	return u.withRoom(ctx, code, func(room *model.Room) error {
		if room.Status != model.StatusLoadingFinalizedData {
			u.logger.Warn("dropping analysis result, room moved on", "room", room.Code, "status", room.Status)
			return nil
		}

		room.Result = result
		room.Status = model.StatusFinished
		if err := u.store.Put(ctx, room); err != nil {
			return err
		}

		u.notifier.Broadcast(room.Code, model.Event{
			Type: model.EventRoomFinished,
			Payload: RoomFinishedPayload{
				Code:   room.Code,
				Result: *result,
			},
		})
		u.metrics.RoomFinished()
		u.logger.Info("room finished", "room", room.Code,
			"top_movie_id", result.TopMovieID, "analysis_unavailable", result.AnalysisUnavailable)
		return nil
	})
}
