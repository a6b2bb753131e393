package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mr0kk/hackYeah2025-guidy/internal/config"
	"github.com/mr0kk/hackYeah2025-guidy/internal/jobs/cleanup"
	pgrepo "github.com/mr0kk/hackYeah2025-guidy/internal/repo/postgres"
	redrepo "github.com/mr0kk/hackYeah2025-guidy/internal/repo/redis"
	authsvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/auth"
	bookingsvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/bookings"
	convsvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/conversations"
	ledgersvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/ledger"
	matchessvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/matches"
	profilesvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/profiles"
	ratesvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/rate"
	swipesvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/swipes"
	userssvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/users"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	purgeJob   *cleanup.Job
	purgeStop  context.CancelFunc
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	sessionRepo := redrepo.NewSessionRepo(redisClient)
	rateRepo := redrepo.NewRateRepo(redisClient)
	userRepo := pgrepo.NewUserRepo(pool)
	profileRepo := pgrepo.NewProfileRepo(pool)
	ledgerRepo := pgrepo.NewLedgerRepo(pool)
	swipeRepo := pgrepo.NewSwipeRepo(pool)
	matchRepo := pgrepo.NewMatchRepo(pool)
	messageRepo := pgrepo.NewMessageRepo(pool)
	bookingRepo := pgrepo.NewBookingRepo(pool)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	authService := authsvc.NewService(jwtManager, sessionRepo, cfg.Auth.RefreshTTL)
	userService := userssvc.NewService(userssvc.Dependencies{
		Pool:        pool,
		UserStore:   userRepo,
		LedgerStore: ledgerRepo,
	}, userssvc.Config{
		StartingBalance: cfg.Points.StartingBalance,
	})
	profileService := profilesvc.NewService(profileRepo)
	ledgerService := ledgersvc.NewService(pool, ledgerRepo)
	rateLimiter := ratesvc.NewLimiter(rateRepo, cfg.Limits.SwipesPerMinute, cfg.Limits.SwipesPer10Seconds)
	swipeService := swipesvc.NewService(swipesvc.Dependencies{
		Pool:         pool,
		SwipeStore:   swipeRepo,
		MatchStore:   matchRepo,
		LedgerStore:  ledgerRepo,
		ProfileStore: profileRepo,
		RateLimiter:  rateLimiter,
	}, swipesvc.Config{
		MatchReward: cfg.Points.MatchReward,
	})
	matchesService := matchessvc.NewService(matchRepo)
	conversationService := convsvc.NewService(convsvc.Dependencies{
		Pool:         pool,
		MatchStore:   matchRepo,
		MessageStore: messageRepo,
	})
	bookingService := bookingsvc.NewService(bookingsvc.Dependencies{
		Pool:         pool,
		BookingStore: bookingRepo,
		ProfileStore: profileRepo,
		LedgerStore:  ledgerRepo,
	}, bookingsvc.Config{
		GuideReward: cfg.Points.GuideReward,
	})

	purgeJob := cleanup.NewMatchPurgeJob(pool, matchRepo, cfg.Cleanup.MatchRetention, log)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		AuthService:         authService,
		UserService:         userService,
		ProfileService:      profileService,
		SwipeService:        swipeService,
		MatchService:        matchesService,
		ConversationService: conversationService,
		LedgerService:       ledgerService,
		BookingService:      bookingService,
		Logger:              log,
		Config:              cfg,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		purgeJob:   purgeJob,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	purgeCtx, cancel := context.WithCancel(context.Background())
	a.purgeStop = cancel
	go a.purgeJob.RunLoop(purgeCtx, a.cfg.Cleanup.Interval)

	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if a.purgeStop != nil {
		a.purgeStop()
	}
	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
