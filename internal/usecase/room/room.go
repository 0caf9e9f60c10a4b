package usecase_room

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/humanbelnik/matchmovie/internal/model"
)

//go:generate mockery --name=RoomStore --output=./mocks/store --filename=store.go
type RoomStore interface {
	// Create fails with ErrCodeConflict when the code is already taken.
	Create(ctx context.Context, room *model.Room) error
	Get(ctx context.Context, code string) (*model.Room, error)
	Put(ctx context.Context, room *model.Room) error
	Delete(ctx context.Context, code string) error
	ListCodes(ctx context.Context) ([]string, error)
}

type MembershipIndex interface {
	Attach(connID, code string)
	Detach(connID, code string)
	RoomsFor(connID string) []string
}

type Locker interface {
	Lock(ctx context.Context, code string) (unlock func(), err error)
}

//go:generate mockery --name=Notifier --output=./mocks/notifier --filename=notifier.go
type Notifier interface {
	Send(connID string, event model.Event)
	Broadcast(code string, event model.Event)
	Join(connID, code string)
	Leave(connID, code string)
	Close(code string)
}

//go:generate mockery --name=Analyzer --output=./mocks/analyzer --filename=analyzer.go
type Analyzer interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (*model.Analysis, error)
}

type Metrics interface {
	RoomCreated()
	RoomFinished()
	ParticipantJoined()
	VoteRegistered()
}

type Usecase struct {
	store    RoomStore
	index    MembershipIndex
	locker   Locker
	notifier Notifier
	analyzer Analyzer

	metrics        Metrics
	logger         *slog.Logger
	codeFunc       func() string
	commitInterval time.Duration
}

type Option func(*Usecase)

func WithLogger(logger *slog.Logger) Option {
	return func(u *Usecase) {
		u.logger = logger
	}
}

func WithMetrics(m Metrics) Option {
	return func(u *Usecase) {
		u.metrics = m
	}
}

// WithCodeGenerator replaces the random room code source.
func WithCodeGenerator(f func() string) Option {
	return func(u *Usecase) {
		u.codeFunc = f
	}
}

func New(
	store RoomStore,
	index MembershipIndex,
	locker Locker,
	notifier Notifier,
	analyzer Analyzer,
	opts ...Option,
) *Usecase {
	u := &Usecase{
		store:    store,
		index:    index,
		locker:   locker,
		notifier: notifier,
		analyzer: analyzer,
		metrics:  noopMetrics{},
		logger:   slog.Default(),
		codeFunc: buildRoomCode,

		commitInterval: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

const (
	codeLen      = 6
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

func buildRoomCode() string {
	var builder strings.Builder
	builder.Grow(codeLen)

	for range codeLen {
		builder.WriteByte(codeAlphabet[rand.IntN(len(codeAlphabet))])
	}

	return builder.String()
}

// IsValidCode reports whether code has the room code format.
func IsValidCode(code string) bool {
	if len(code) != codeLen {
		return false
	}
	for i := range len(code) {
		if !strings.ContainsRune(codeAlphabet, rune(code[i])) {
			return false
		}
	}
	return true
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// withRoom runs fn on a freshly read snapshot while holding the room lock.
func (u *Usecase) withRoom(ctx context.Context, code string, fn func(room *model.Room) error) error {
	code = normalizeCode(code)
	if !IsValidCode(code) {
		return fmt.Errorf("%w: %q", ErrRoomNotFound, code)
	}

	unlock, err := u.locker.Lock(ctx, code)
	if err != nil {
		return errors.Join(ErrStorage, fmt.Errorf("lock room %s: %w", code, err))
	}
	defer unlock()

	room, err := u.store.Get(ctx, code)
	if err != nil {
		return err
	}
	return fn(room)
}

// Assuming that codes can conflict.
// Retrying...
func (u *Usecase) CreateRoom(ctx context.Context, connID, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrValidation)
	}

	var (
		room    *model.Room
		retries = 3
	)
	for retries > 0 {
		room = model.NewRoom(u.codeFunc(), connID, name)
		err := u.store.Create(ctx, room)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrCodeConflict) {
			return "", err
		}
		room = nil
		retries--
	}
	if room == nil {
		return "", errors.Join(ErrStorage, ErrRoomsUnavailable)
	}

	u.index.Attach(connID, room.Code)
	u.notifier.Join(connID, room.Code)
	u.notifier.Send(connID, model.Event{
		Type: model.EventRoomCreated,
		Payload: RoomCreatedPayload{
			Code:     room.Code,
			IsHost:   true,
			Settings: room.Settings,
		},
	})

	u.metrics.RoomCreated()
	u.logger.Info("room created", "room", room.Code, "conn_id", connID)
	return room.Code, nil
}

func (u *Usecase) JoinRoom(ctx context.Context, connID, code, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}

	return u.withRoom(ctx, code, func(room *model.Room) error {
		if room.Status != model.StatusWaitingToStart {
			return fmt.Errorf("%w: room %s has already started", ErrInvalidState, room.Code)
		}

		added := room.AddParticipant(connID, name)
		if added {
			if err := u.store.Put(ctx, room); err != nil {
				return err
			}
		}

		u.index.Attach(connID, room.Code)
		u.notifier.Join(connID, room.Code)
		u.notifier.Send(connID, model.Event{
			Type: model.EventRoomJoined,
			Payload: RoomJoinedPayload{
				Code:         room.Code,
				IsHost:       room.IsHost(connID),
				Status:       room.Status,
				Settings:     room.Settings,
				Participants: participantNames(room),
			},
		})
		if !added {
			return nil
		}

		u.notifier.Broadcast(room.Code, model.Event{
			Type: model.EventParticipantJoined,
			Payload: ParticipantJoinedPayload{
				ParticipantCount: len(room.Participants),
				ParticipantName:  name,
				Participants:     participantNames(room),
				IsHost:           room.IsHost(connID),
			},
		})
		u.metrics.ParticipantJoined()
		u.logger.Info("participant joined", "room", room.Code, "conn_id", connID)
		return nil
	})
}

func validateSettings(s model.Settings) (model.Settings, error) {
	if s.RoundDurationSeconds < model.MinRoundDurationSeconds || s.RoundDurationSeconds > model.MaxRoundDurationSeconds {
		return s, fmt.Errorf("%w: round duration must be between %d and %d seconds",
			ErrValidation, model.MinRoundDurationSeconds, model.MaxRoundDurationSeconds)
	}

	categories := make([]string, 0, len(s.Categories))
	for _, c := range s.Categories {
		c = strings.TrimSpace(c)
		if c != "" && !slices.Contains(categories, c) {
			categories = append(categories, c)
		}
	}
	if len(categories) == 0 {
		return s, fmt.Errorf("%w: select at least one category", ErrValidation)
	}
	s.Categories = categories
	return s, nil
}

func (u *Usecase) ConfigureRoom(ctx context.Context, connID, code string, settings model.Settings) error {
	return u.withRoom(ctx, code, func(room *model.Room) error {
		if !room.IsHost(connID) {
			return fmt.Errorf("%w: only the host can configure the room", ErrForbidden)
		}
		valid, err := validateSettings(settings)
		if err != nil {
			return err
		}

		room.Settings = valid
		if err := u.store.Put(ctx, room); err != nil {
			return err
		}

		u.notifier.Broadcast(room.Code, model.Event{
			Type: model.EventRoomConfigured,
			Payload: RoomConfiguredPayload{
				Categories:           valid.Categories,
				RoundDurationSeconds: valid.RoundDurationSeconds,
				MaxParticipants:      valid.MaxParticipants,
			},
		})
		u.logger.Info("room configured", "room", room.Code,
			"categories", len(valid.Categories), "round_duration_seconds", valid.RoundDurationSeconds)
		return nil
	})
}

func (u *Usecase) AddCandidates(ctx context.Context, connID, code string, movies []model.Movie) error {
	return u.withRoom(ctx, code, func(room *model.Room) error {
		if !room.IsHost(connID) {
			return fmt.Errorf("%w: only the host can add movies", ErrForbidden)
		}

		seen := make(map[int]struct{}, len(movies))
		for _, m := range movies {
			if _, dup := seen[m.ID]; dup {
				return fmt.Errorf("%w: duplicate movie id %d", ErrValidation, m.ID)
			}
			seen[m.ID] = struct{}{}
		}

		room.ReplaceCandidates(slices.Clone(movies))
		room.Status = model.StatusLoadingMovies
		if err := u.store.Put(ctx, room); err != nil {
			return err
		}

		u.notifier.Broadcast(room.Code, model.Event{
			Type:    model.EventMoviesLoading,
			Payload: MoviesLoadingPayload{Count: len(room.Candidates)},
		})
		u.logger.Info("movies loaded", "room", room.Code, "count", len(room.Candidates))
		return nil
	})
}

// StartMatching forces InProgress from any status.
func (u *Usecase) StartMatching(ctx context.Context, connID, code string) error {
	return u.withRoom(ctx, code, func(room *model.Room) error {
		if !room.IsHost(connID) {
			return fmt.Errorf("%w: only the host can start matching", ErrForbidden)
		}

		room.Status = model.StatusInProgress
		if err := u.store.Put(ctx, room); err != nil {
			return err
		}

		u.notifier.Broadcast(room.Code, model.Event{
			Type: model.EventMatchingStarted,
			Payload: MatchingStartedPayload{
				RoundDurationSeconds: room.Settings.RoundDurationSeconds,
				Movies:               room.Candidates,
			},
		})
		u.logger.Info("matching started", "room", room.Code)
		return nil
	})
}

func (u *Usecase) VoteMovie(ctx context.Context, connID, code string, movieID int) error {
	return u.withRoom(ctx, code, func(room *model.Room) error {
		if room.Status != model.StatusInProgress {
			return fmt.Errorf("%w: voting is not open in room %s", ErrInvalidState, room.Code)
		}
		if !room.IsParticipant(connID) {
			return fmt.Errorf("%w: join the room before voting", ErrForbidden)
		}
		if _, ok := room.Candidate(movieID); !ok {
			return fmt.Errorf("%w: %d", ErrMovieNotFound, movieID)
		}

		added := room.AddVote(connID, movieID)
		voted := model.Event{
			Type: model.EventMovieVoted,
			Payload: MovieVotedPayload{
				ParticipantName: room.DisplayName(connID),
				MovieID:         movieID,
				Votes:           room.VoteCount(movieID),
			},
		}

		// Repeated vote: acknowledge the caller, nothing to persist.
		if !added {
			u.notifier.Send(connID, voted)
			return nil
		}

		if err := u.store.Put(ctx, room); err != nil {
			return err
		}
		u.notifier.Broadcast(room.Code, voted)
		u.metrics.VoteRegistered()
		return nil
	})
}

// Disconnect removes the connection from every room it is attached to.
// Rooms hosted by the connection are closed.
func (u *Usecase) Disconnect(ctx context.Context, connID string) error {
	ctx = context.WithoutCancel(ctx)

	var errs []error
	for _, code := range u.index.RoomsFor(connID) {
		if err := u.leave(ctx, connID, code); err != nil {
			u.logger.Error("failed to leave room", "room", code, "conn_id", connID, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (u *Usecase) leave(ctx context.Context, connID, code string) error {
	err := u.withRoom(ctx, code, func(room *model.Room) error {
		if room.IsHost(connID) {
			return u.closeRoom(ctx, room)
		}

		name := room.DisplayName(connID)
		if !room.RemoveParticipant(connID) {
			return nil
		}
		if err := u.store.Put(ctx, room); err != nil {
			return err
		}

		u.notifier.Broadcast(room.Code, model.Event{
			Type: model.EventParticipantLeft,
			Payload: ParticipantLeftPayload{
				ParticipantCount: len(room.Participants),
				ParticipantName:  name,
				Participants:     participantNames(room),
			},
		})
		u.logger.Info("participant left", "room", room.Code, "conn_id", connID)
		return nil
	})
	if err != nil && !errors.Is(err, ErrRoomNotFound) {
		return err
	}

	u.notifier.Leave(connID, code)
	u.index.Detach(connID, code)
	return nil
}

func (u *Usecase) closeRoom(ctx context.Context, room *model.Room) error {
	if err := u.store.Delete(ctx, room.Code); err != nil {
		return err
	}

	u.notifier.Broadcast(room.Code, model.Event{
		Type: model.EventRoomClosed,
		Payload: RoomClosedPayload{
			Code:   room.Code,
			Reason: "the host left the room",
		},
	})
	u.notifier.Close(room.Code)
	for _, connID := range room.Participants {
		u.index.Detach(connID, room.Code)
	}

	u.logger.Info("room closed, host disconnected", "room", room.Code)
	return nil
}

// Room returns the current snapshot without locking.
func (u *Usecase) Room(ctx context.Context, code string) (*model.Room, error) {
	code = normalizeCode(code)
	if !IsValidCode(code) {
		return nil, fmt.Errorf("%w: %q", ErrRoomNotFound, code)
	}
	return u.store.Get(ctx, code)
}

func (u *Usecase) ListRooms(ctx context.Context) ([]string, error) {
	codes, err := u.store.ListCodes(ctx)
	if err != nil {
		return nil, err
	}
	slices.Sort(codes)
	return slices.Compact(codes), nil
}

type noopMetrics struct{}

func (noopMetrics) RoomCreated()       {}
func (noopMetrics) RoomFinished()      {}
func (noopMetrics) ParticipantJoined() {}
func (noopMetrics) VoteRegistered()    {}
