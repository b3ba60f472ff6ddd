package app

import (
	"context"
	"net/http"
	"time"

	authAPI "speen_backend/internal/api/auth"
	boosterAPI "speen_backend/internal/api/booster"
	ledgerAPI "speen_backend/internal/api/ledger"
	progressAPI "speen_backend/internal/api/progress"
	pyramidAPI "speen_backend/internal/api/pyramid"
	spinAPI "speen_backend/internal/api/spin"
	"speen_backend/internal/config"
	"speen_backend/internal/config/env"
	"speen_backend/internal/middleware"
	"speen_backend/internal/model"
	"speen_backend/internal/repository"
	"speen_backend/internal/repository/booster_repo"
	"speen_backend/internal/repository/leaderboard_repo"
	"speen_backend/internal/repository/ledger_repo"
	"speen_backend/internal/repository/memory"
	"speen_backend/internal/repository/player_repo"
	"speen_backend/internal/repository/progress_repo"
	"speen_backend/internal/repository/remote_repo"
	"speen_backend/internal/repository/rtp_stats_repo"
	"speen_backend/internal/repository/session_repo"
	"speen_backend/internal/service"
	"speen_backend/internal/service/booster"
	"speen_backend/internal/service/ledger"
	"speen_backend/internal/service/player"
	"speen_backend/internal/service/progress"
	"speen_backend/internal/service/pyramid"
	"speen_backend/internal/service/spin"
	"speen_backend/internal/service/syncer"
	"speen_backend/pkg/keylock"
	"speen_backend/pkg/logger"
	"speen_backend/pkg/rng"
	"speen_backend/pkg/scheduler"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	gameConfigPath = "config.yaml"
	appName        = "speen"
	poolCapacity   = 256
)

type ServiceProvider struct {
	// Logger
	loggerCfg config.LoggerConfig
	logger    *zap.Logger

	// TXManager
	txManager trm.Manager

	// Database, пустой DSN - хранение в памяти
	pgConfig config.PGConfig
	dbClient *pgxpool.Pool
	memStore *memory.Store

	// Redis, пустой адрес - удаленное хранилище в памяти
	redisCfg    config.RedisConfig
	redisClient redis.UniversalClient

	// Game config and shared bits
	gameCfg  config.GameConfig
	jwtCfg   config.JWTConfig
	locker   *keylock.Locker
	rand     rng.Source
	timers   *scheduler.Timers
	pool     *ants.Pool
	sessions repository.SessionRepository
	rtpStats repository.RTPStatsRepository

	// Repositories
	playerRepo      repository.PlayerRepository
	ledgerRepo      repository.LedgerRepository
	boosterRepo     repository.BoosterRepository
	progressRepo    repository.ProgressRepository
	remoteRepo      repository.RemoteProgressRepository
	leaderboardRepo repository.LeaderboardRepository

	// Services
	syncServ     service.SyncService
	ledgerServ   service.LedgerService
	playerServ   service.PlayerService
	boosterServ  service.BoosterService
	spinServ     service.SpinService
	pyramidServ  service.PyramidService
	progressServ service.ProgressService

	// Handlers
	authHand     *authAPI.Handler
	spinHand     *spinAPI.Handler
	pyramidHand  *pyramidAPI.Handler
	boosterHand  *boosterAPI.Handler
	progressHand *progressAPI.Handler
	ledgerHand   *ledgerAPI.Handler

	// Router and HTTP config
	httpCfg config.HTTPConfig
	router  chi.Router
}

func newServiceProvider() *ServiceProvider {
	return &ServiceProvider{}
}

func (sp *ServiceProvider) LoggerCfg() config.LoggerConfig {
	if sp.loggerCfg == nil {
		cfg, err := env.NewLoggerConfig()
		if err != nil {
			panic("failed to get logger config: " + err.Error())
		}
		sp.loggerCfg = cfg
	}
	return sp.loggerCfg
}

func (sp *ServiceProvider) Logger() *zap.Logger {
	if sp.logger == nil {
		cfg := sp.LoggerCfg()
		sp.logger = logger.New(logger.Config{
			Level: cfg.Level(),
			App:   appName,
			Dir:   cfg.Dir(),
			File:  cfg.File(),
		})
	}
	return sp.logger
}

func (sp *ServiceProvider) PgConfig() config.PGConfig {
	if sp.pgConfig == nil {
		cfg, err := env.NewPGConfig()
		if err != nil {
			panic("failed to get database config: " + err.Error())
		}
		sp.pgConfig = cfg
	}
	return sp.pgConfig
}

func (sp *ServiceProvider) inMemory() bool {
	return sp.PgConfig().DSN() == ""
}

func (sp *ServiceProvider) DBClient(ctx context.Context) *pgxpool.Pool {
	if sp.dbClient == nil {
		poolCfg, err := pgxpool.ParseConfig(sp.PgConfig().DSN())
		if err != nil {
			panic("failed to parse db dsn: " + err.Error())
		}
		if n := sp.PgConfig().MaxConns(); n > 0 {
			poolCfg.MaxConns = n
		}

		dbc, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			panic("failed to create db pool: " + err.Error())
		}
		err = dbc.Ping(ctx)
		if err != nil {
			panic("failed to ping db: " + err.Error())
		}
		sp.dbClient = dbc
	}
	return sp.dbClient
}

func (sp *ServiceProvider) MemStore() *memory.Store {
	if sp.memStore == nil {
		sp.memStore = memory.NewStore()
		sp.Logger().Warn("PG_DSN is empty, players are stored in memory")
	}
	return sp.memStore
}

func (sp *ServiceProvider) TXManager(ctx context.Context) trm.Manager {
	if sp.txManager == nil {
		if sp.inMemory() {
			sp.txManager = memory.TxManager{}
			return sp.txManager
		}

		m, err := manager.New(trmpgx.NewDefaultFactory(sp.DBClient(ctx)))
		if err != nil {
			panic("failed to create tx manager: " + err.Error())
		}
		sp.txManager = m
	}
	return sp.txManager
}

func (sp *ServiceProvider) RedisCfg() config.RedisConfig {
	if sp.redisCfg == nil {
		cfg, err := env.NewRedisConfig()
		if err != nil {
			panic("failed to get redis config: " + err.Error())
		}
		sp.redisCfg = cfg
	}
	return sp.redisCfg
}

// RedisClient nil если REDIS_ADDR не задан
func (sp *ServiceProvider) RedisClient(ctx context.Context) redis.UniversalClient {
	cfg := sp.RedisCfg()
	if sp.redisClient == nil && cfg.Addr() != "" {
		rdb := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:           []string{cfg.Addr()},
			Password:        cfg.Password(),
			DB:              cfg.DB(),
			PoolSize:        50,
			MinIdleConns:    10,
			PoolTimeout:     5 * time.Second,
			ConnMaxIdleTime: 5 * time.Minute,
			MaxRetries:      3,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			panic("failed to ping redis: " + err.Error())
		}
		sp.redisClient = rdb
	}
	return sp.redisClient
}

func (sp *ServiceProvider) GameCfg() config.GameConfig {
	if sp.gameCfg == nil {
		cfg, err := env.NewGameConfigFromYAML(gameConfigPath)
		if err != nil {
			panic("failed to get game config: " + err.Error())
		}
		sp.gameCfg = cfg
	}
	return sp.gameCfg
}

func (sp *ServiceProvider) JWTCfg() config.JWTConfig {
	if sp.jwtCfg == nil {
		cfg, err := env.NewJWTConfig()
		if err != nil {
			panic("failed to get jwt config: " + err.Error())
		}
		sp.jwtCfg = cfg
	}
	return sp.jwtCfg
}

func (sp *ServiceProvider) Locker() *keylock.Locker {
	if sp.locker == nil {
		sp.locker = keylock.New()
	}
	return sp.locker
}

func (sp *ServiceProvider) Rand() rng.Source {
	if sp.rand == nil {
		sp.rand = rng.Default()
	}
	return sp.rand
}

func (sp *ServiceProvider) Timers() *scheduler.Timers {
	if sp.timers == nil {
		sp.timers = scheduler.New()
	}
	return sp.timers
}

// Pool Фоновые задачи: пуши синхронизации и проекции лидерборда
func (sp *ServiceProvider) Pool() *ants.Pool {
	if sp.pool == nil {
		pool, err := ants.NewPool(poolCapacity, ants.WithNonblocking(true))
		if err != nil {
			panic("failed to create ants pool: " + err.Error())
		}
		sp.pool = pool
	}
	return sp.pool
}

// Sessions В режиме Postgres сессии пишутся в одной транзакции со ставкой
func (sp *ServiceProvider) Sessions(ctx context.Context) repository.SessionRepository {
	if sp.sessions == nil {
		if sp.inMemory() {
			sp.sessions = memory.NewSessions()
		} else {
			sp.sessions = session_repo.NewSessionRepository(sp.DBClient(ctx))
		}
	}
	return sp.sessions
}

// RTPStats Теоретический RTP режима: (multiplier+1)/10
func (sp *ServiceProvider) RTPStats() repository.RTPStatsRepository {
	if sp.rtpStats == nil {
		cfg := sp.GameCfg()
		targets := make(map[model.SpinMode]float64, 2)
		for _, mode := range []model.SpinMode{model.ModeDuel, model.ModeAllIn} {
			targets[mode] = float64(cfg.Multiplier(mode)+1) / model.DigitCount * 100
		}
		sp.rtpStats = rtp_stats_repo.NewRTPStatsRepository(targets, sp.Logger())
	}
	return sp.rtpStats
}

func (sp *ServiceProvider) PlayerRepo(ctx context.Context) repository.PlayerRepository {
	if sp.playerRepo == nil {
		if sp.inMemory() {
			sp.playerRepo = sp.MemStore()
		} else {
			sp.playerRepo = player_repo.NewPlayerRepository(sp.DBClient(ctx))
		}
	}
	return sp.playerRepo
}

func (sp *ServiceProvider) LedgerRepo(ctx context.Context) repository.LedgerRepository {
	if sp.ledgerRepo == nil {
		if sp.inMemory() {
			sp.ledgerRepo = sp.MemStore()
		} else {
			sp.ledgerRepo = ledger_repo.NewLedgerRepository(sp.DBClient(ctx))
		}
	}
	return sp.ledgerRepo
}

func (sp *ServiceProvider) BoosterRepo(ctx context.Context) repository.BoosterRepository {
	if sp.boosterRepo == nil {
		if sp.inMemory() {
			sp.boosterRepo = sp.MemStore()
		} else {
			sp.boosterRepo = booster_repo.NewBoosterRepository(sp.DBClient(ctx))
		}
	}
	return sp.boosterRepo
}

func (sp *ServiceProvider) ProgressRepo(ctx context.Context) repository.ProgressRepository {
	if sp.progressRepo == nil {
		if sp.inMemory() {
			sp.progressRepo = sp.MemStore()
		} else {
			sp.progressRepo = progress_repo.NewProgressRepository(sp.DBClient(ctx))
		}
	}
	return sp.progressRepo
}

func (sp *ServiceProvider) RemoteRepo(ctx context.Context) repository.RemoteProgressRepository {
	if sp.remoteRepo == nil {
		if rdb := sp.RedisClient(ctx); rdb != nil {
			sp.remoteRepo = remote_repo.NewRemoteProgressRepository(rdb)
		} else {
			sp.remoteRepo = memory.NewRemote()
		}
	}
	return sp.remoteRepo
}

func (sp *ServiceProvider) LeaderboardRepo(ctx context.Context) repository.LeaderboardRepository {
	if sp.leaderboardRepo == nil {
		if rdb := sp.RedisClient(ctx); rdb != nil {
			sp.leaderboardRepo = leaderboard_repo.NewLeaderboardRepository(rdb)
		} else {
			sp.leaderboardRepo = memory.NewLeaderboard()
		}
	}
	return sp.leaderboardRepo
}

func (sp *ServiceProvider) SyncService(ctx context.Context) service.SyncService {
	if sp.syncServ == nil {
		sp.syncServ = syncer.NewSyncService(syncer.Deps{
			Repo:      sp.ProgressRepo(ctx),
			Remote:    sp.RemoteRepo(ctx),
			TxManager: sp.TXManager(ctx),
			Locker:    sp.Locker(),
			Scheduler: sp.Timers(),
			Runner:    sp.Pool(),
			Debounce:  sp.GameCfg().PushDebounce(),
			Logger:    sp.Logger().Named("sync"),
		})
	}
	return sp.syncServ
}

func (sp *ServiceProvider) LedgerService(ctx context.Context) service.LedgerService {
	if sp.ledgerServ == nil {
		sp.ledgerServ = ledger.NewLedgerService(ledger.Deps{
			Repo:         sp.LedgerRepo(ctx),
			PlayerRepo:   sp.PlayerRepo(ctx),
			ProgressRepo: sp.ProgressRepo(ctx),
			Leaderboard:  sp.LeaderboardRepo(ctx),
			Notifier:     sp.SyncService(ctx),
			TxManager:    sp.TXManager(ctx),
			Runner:       sp.Pool(),
			BToWRate:     sp.GameCfg().BToWRate(),
			Logger:       sp.Logger().Named("ledger"),
		})
	}
	return sp.ledgerServ
}

func (sp *ServiceProvider) PlayerService(ctx context.Context) service.PlayerService {
	if sp.playerServ == nil {
		sp.playerServ = player.NewPlayerService(player.Deps{
			Repo:      sp.PlayerRepo(ctx),
			Ledger:    sp.LedgerService(ctx),
			Sync:      sp.SyncService(ctx),
			Cfg:       sp.GameCfg(),
			TxManager: sp.TXManager(ctx),
			Logger:    sp.Logger().Named("player"),
		})
	}
	return sp.playerServ
}

func (sp *ServiceProvider) BoosterService(ctx context.Context) service.BoosterService {
	if sp.boosterServ == nil {
		sp.boosterServ = booster.NewBoosterService(booster.Deps{
			Repo:         sp.BoosterRepo(ctx),
			ProgressRepo: sp.ProgressRepo(ctx),
			Sessions:     sp.Sessions(ctx),
			Ledger:       sp.LedgerService(ctx),
			Cfg:          sp.GameCfg(),
			TxManager:    sp.TXManager(ctx),
			Locker:       sp.Locker(),
			Logger:       sp.Logger().Named("booster"),
		})
	}
	return sp.boosterServ
}

func (sp *ServiceProvider) SpinService(ctx context.Context) service.SpinService {
	if sp.spinServ == nil {
		sp.spinServ = spin.NewSpinService(spin.Deps{
			BoosterRepo:  sp.BoosterRepo(ctx),
			ProgressRepo: sp.ProgressRepo(ctx),
			Sessions:     sp.Sessions(ctx),
			RTPStats:     sp.RTPStats(),
			Ledger:       sp.LedgerService(ctx),
			Cfg:          sp.GameCfg(),
			TxManager:    sp.TXManager(ctx),
			Locker:       sp.Locker(),
			Rand:         sp.Rand(),
			Logger:       sp.Logger().Named("spin"),
		})
	}
	return sp.spinServ
}

func (sp *ServiceProvider) PyramidService(ctx context.Context) service.PyramidService {
	if sp.pyramidServ == nil {
		sp.pyramidServ = pyramid.NewPyramidService(pyramid.Deps{
			BoosterRepo:  sp.BoosterRepo(ctx),
			ProgressRepo: sp.ProgressRepo(ctx),
			Sessions:     sp.Sessions(ctx),
			Ledger:       sp.LedgerService(ctx),
			Cfg:          sp.GameCfg(),
			TxManager:    sp.TXManager(ctx),
			Locker:       sp.Locker(),
			Rand:         sp.Rand(),
			Scheduler:    sp.Timers(),
			Logger:       sp.Logger().Named("pyramid"),
		})
	}
	return sp.pyramidServ
}

func (sp *ServiceProvider) ProgressService(ctx context.Context) service.ProgressService {
	if sp.progressServ == nil {
		sp.progressServ = progress.NewProgressService(progress.Deps{
			Repo:      sp.ProgressRepo(ctx),
			Ledger:    sp.LedgerService(ctx),
			Notifier:  sp.SyncService(ctx),
			Cfg:       sp.GameCfg(),
			TxManager: sp.TXManager(ctx),
			Locker:    sp.Locker(),
			Logger:    sp.Logger().Named("progress"),
		})
	}
	return sp.progressServ
}

func (sp *ServiceProvider) AuthHandler() *authAPI.Handler {
	if sp.authHand == nil {
		sp.authHand = authAPI.NewHandler(authAPI.HandlerDeps{
			SecretKey: sp.JWTCfg().AccessTokenSecretKey(),
			TTL:       sp.JWTCfg().AccessTokenDuration(),
			Logger:    sp.Logger().Named("auth"),
		})
	}
	return sp.authHand
}

func (sp *ServiceProvider) SpinHandler(ctx context.Context) *spinAPI.Handler {
	if sp.spinHand == nil {
		sp.spinHand = spinAPI.NewHandler(spinAPI.HandlerDeps{
			Serv:    sp.SpinService(ctx),
			Pyramid: sp.PyramidService(ctx),
		})
	}
	return sp.spinHand
}

func (sp *ServiceProvider) PyramidHandler(ctx context.Context) *pyramidAPI.Handler {
	if sp.pyramidHand == nil {
		sp.pyramidHand = pyramidAPI.NewHandler(pyramidAPI.HandlerDeps{Serv: sp.PyramidService(ctx)})
	}
	return sp.pyramidHand
}

func (sp *ServiceProvider) BoosterHandler(ctx context.Context) *boosterAPI.Handler {
	if sp.boosterHand == nil {
		sp.boosterHand = boosterAPI.NewHandler(boosterAPI.HandlerDeps{Serv: sp.BoosterService(ctx)})
	}
	return sp.boosterHand
}

func (sp *ServiceProvider) ProgressHandler(ctx context.Context) *progressAPI.Handler {
	if sp.progressHand == nil {
		sp.progressHand = progressAPI.NewHandler(progressAPI.HandlerDeps{
			Serv: sp.ProgressService(ctx),
			Sync: sp.SyncService(ctx),
		})
	}
	return sp.progressHand
}

func (sp *ServiceProvider) LedgerHandler(ctx context.Context) *ledgerAPI.Handler {
	if sp.ledgerHand == nil {
		sp.ledgerHand = ledgerAPI.NewHandler(ledgerAPI.HandlerDeps{Serv: sp.LedgerService(ctx)})
	}
	return sp.ledgerHand
}

func (sp *ServiceProvider) HTTPCfg() config.HTTPConfig {
	if sp.httpCfg == nil {
		cfg, err := env.NewHTTPConfig()
		if err != nil {
			panic("failed to get http config: " + err.Error())
		}
		sp.httpCfg = cfg
	}
	return sp.httpCfg
}

func (sp *ServiceProvider) Router(ctx context.Context) chi.Router {
	if sp.router == nil {
		r := chi.NewRouter()

		r.Use(chimw.RequestID)
		r.Use(chimw.Recoverer)
		r.Use(middleware.Logger(sp.Logger().Named("http")))

		// CORS middleware
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: false,
			MaxAge:           60 * 15,
		}))

		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		r.Handle("/metrics", promhttp.Handler())

		if sp.JWTCfg().DevIssue() {
			sp.Logger().Warn("AUTH_DEV_ISSUE is on, tokens are issued without identity provider")
			r.Post("/auth/token", sp.AuthHandler().Token)
		}

		// Game endpoints
		spinHandler := sp.SpinHandler(ctx)
		pyramidHandler := sp.PyramidHandler(ctx)
		boosterHandler := sp.BoosterHandler(ctx)
		progressHandler := sp.ProgressHandler(ctx)
		ledgerHandler := sp.LedgerHandler(ctx)

		// Выдача бустеров и запись снимка минуя игру только для доверенных вызовов
		internalKey := sp.HTTPCfg().InternalKey()
		if internalKey == "" {
			sp.Logger().Info("HTTP_INTERNAL_KEY is empty, grant and snapshot routes are disabled")
		}
		internal := middleware.Internal(internalKey)

		r.Group(func(rr chi.Router) {
			rr.Use(middleware.Auth(sp.JWTCfg().AccessTokenSecretKey(), sp.PlayerService(ctx), sp.Logger().Named("auth")))

			rr.Post("/spin", spinHandler.Spin)
			rr.Get("/balance", ledgerHandler.Balance)

			rr.Route("/pyramid", func(pr chi.Router) {
				pr.Get("/", pyramidHandler.Get)
				pr.Post("/arm", pyramidHandler.Arm)
				pr.Post("/advance", pyramidHandler.Advance)
				pr.Post("/cancel", pyramidHandler.Cancel)
			})

			rr.Route("/boosters", func(br chi.Router) {
				br.Get("/", boosterHandler.Inventory)
				if internalKey != "" {
					br.With(internal).Post("/grant", boosterHandler.Grant)
				}
				br.Post("/buy", boosterHandler.Buy)
				br.Post("/select", boosterHandler.Select)
			})

			rr.Route("/progress", func(pr chi.Router) {
				pr.Get("/", progressHandler.Get)
				pr.Post("/claim", progressHandler.Claim)
				pr.Post("/onboarding", progressHandler.Onboarding)
				pr.Post("/invite", progressHandler.Invite)
				pr.Post("/daily", progressHandler.Daily)
				if internalKey != "" {
					pr.With(internal).Post("/snapshot", progressHandler.Snapshot)
				}
				pr.Post("/pull", progressHandler.Pull)
			})
		})

		sp.router = r
	}
	return sp.router
}

// Close Освобождение ресурсов в обратном порядке
func (sp *ServiceProvider) Close() {
	if sp.timers != nil {
		sp.timers.Stop()
	}
	if sp.syncServ != nil {
		sp.syncServ.Close()
	}
	if sp.pool != nil {
		if err := sp.pool.ReleaseTimeout(5 * time.Second); err != nil {
			sp.Logger().Warn("release pool", zap.Error(err))
		}
	}
	if sp.redisClient != nil {
		if err := sp.redisClient.Close(); err != nil {
			sp.Logger().Error("close redis", zap.Error(err))
		}
	}
	if sp.dbClient != nil {
		sp.dbClient.Close()
	}
	if sp.logger != nil {
		_ = sp.logger.Sync()
	}
}
