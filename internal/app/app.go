package app

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/humanbelnik/matchmovie/internal/config"
	http_init "github.com/humanbelnik/matchmovie/internal/delivery/http/init"
	http_metrics "github.com/humanbelnik/matchmovie/internal/delivery/http/metrics"
	http_movie "github.com/humanbelnik/matchmovie/internal/delivery/http/movie"
	http_room "github.com/humanbelnik/matchmovie/internal/delivery/http/room"
	ws_room "github.com/humanbelnik/matchmovie/internal/delivery/ws/room"
	infra_openai "github.com/humanbelnik/matchmovie/internal/infra/openai"
	infra_pg_init "github.com/humanbelnik/matchmovie/internal/infra/postgres/init"
	infra_postgres_movie "github.com/humanbelnik/matchmovie/internal/infra/postgres/movie"
	infra_prometheus "github.com/humanbelnik/matchmovie/internal/infra/prometheus"
	infra_redis_init "github.com/humanbelnik/matchmovie/internal/infra/redis/init"
	infra_redis_lock "github.com/humanbelnik/matchmovie/internal/infra/redis/lock"
	infra_redis_relay "github.com/humanbelnik/matchmovie/internal/infra/redis/relay"
	infra_redis_room "github.com/humanbelnik/matchmovie/internal/infra/redis/room"
	"github.com/humanbelnik/matchmovie/internal/service/analysis"
	"github.com/humanbelnik/matchmovie/internal/service/membership"
	"github.com/humanbelnik/matchmovie/internal/service/roomlock"
	usecase_movie "github.com/humanbelnik/matchmovie/internal/usecase/movie"
	usecase_room "github.com/humanbelnik/matchmovie/internal/usecase/room"
)

func Go(cfg *config.Config) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.Default()

	redisConn := infra_redis_init.MustEstablishConn(cfg.Redis)
	defer redisConn.Close()

	roomStore := infra_redis_room.New(redisConn, cfg.Redis.RoomTTL)
	metrics := infra_prometheus.New(
		infra_prometheus.WithStoredRooms(storedRooms(ctx, roomStore, logger)),
	)
	hub := ws_room.NewHub(logger)

	var notifier usecase_room.Notifier = hub
	if cfg.Redis.Relay {
		relay := infra_redis_relay.New(redisConn, hub, infra_redis_relay.WithLogger(logger))
		go func() {
			if err := relay.Run(ctx); err != nil {
				log.Fatalf("room event relay stopped: %v", err)
			}
		}()
		notifier = relay
	}

	if cfg.Analysis.APIKey == "" {
		logger.Warn("OPENAI_API_KEY is empty, finished rooms will report analysis as unavailable")
	}
	analyzer := analysis.NewBounded(
		infra_openai.New(cfg.Analysis),
		cfg.Analysis.Timeout,
		cfg.Analysis.Attempts,
		analysis.WithLogger(logger),
	)

	locker := roomlock.Chain(
		roomlock.NewKeyed(),
		infra_redis_lock.New(redisConn, cfg.Redis.LockTTL, cfg.Redis.LockWait),
	)

	roomUC := usecase_room.New(
		roomStore,
		membership.New(),
		locker,
		notifier,
		analyzer,
		usecase_room.WithLogger(logger),
		usecase_room.WithMetrics(metrics),
	)

	controllerPool := http_init.NewControllerPool()
	controllerPool.Add(http_room.New(roomUC))
	controllerPool.Add(ws_room.NewController(roomUC, hub, cfg.WebSocket, ws_room.WithLogger(logger)))
	controllerPool.Add(http_metrics.New(metrics.Handler()))

	if cfg.Postgres.Enabled {
		pgConn := infra_pg_init.MustEstablishConn(cfg.Postgres)
		defer pgConn.Close()

		movieUC := usecase_movie.New(infra_postgres_movie.New(pgConn))
		controllerPool.Add(http_movie.New(movieUC, http_movie.WithLogger(logger)))
	}

	controllerPool.Register()
	if err := controllerPool.RunAll(ctx, cfg.HTTP.Host, cfg.HTTP.Port); err != nil {
		log.Fatalf("failed to run HTTP server: %v", err)
	}
}
