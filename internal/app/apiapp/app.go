package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dxvzz/blend/internal/config"
	s3infra "github.com/dxvzz/blend/internal/infra/s3"
	pgrepo "github.com/dxvzz/blend/internal/repo/postgres"
	redrepo "github.com/dxvzz/blend/internal/repo/redis"
	authsvc "github.com/dxvzz/blend/internal/services/auth"
	chatssvc "github.com/dxvzz/blend/internal/services/chats"
	feedsvc "github.com/dxvzz/blend/internal/services/feed"
	matchessvc "github.com/dxvzz/blend/internal/services/matches"
	mediasvc "github.com/dxvzz/blend/internal/services/media"
	profilesvc "github.com/dxvzz/blend/internal/services/profiles"
	ratesvc "github.com/dxvzz/blend/internal/services/rate"
	swipesvc "github.com/dxvzz/blend/internal/services/swipes"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	var redisClient *goredis.Client
	if c, err := redrepo.NewClient(ctx, redrepo.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}); err != nil {
		log.Warn("redis init failed, continuing in degraded mode", zap.Error(err))
	} else {
		redisClient = c
	}

	sessionRepo := redrepo.NewSessionRepo(redisClient)
	rateRepo := redrepo.NewRateRepo(redisClient)
	userRepo := pgrepo.NewUserRepo(pool)
	profileRepo := pgrepo.NewProfileRepo(pool)
	feedRepo := pgrepo.NewFeedRepo(pool)
	swipeRepo := pgrepo.NewSwipeRepo(pool)
	quotaRepo := pgrepo.NewQuotaRepo(pool)
	matchRepo := pgrepo.NewMatchRepo(pool)
	conversationRepo := pgrepo.NewConversationRepo(pool)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	googleOAuth := authsvc.NewGoogleOAuth(authsvc.GoogleConfig{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURI:  cfg.Google.RedirectURI,
	})
	authService := authsvc.NewService(jwtManager, sessionRepo, userAccounts{repo: userRepo}, googleOAuth, cfg.Auth.RefreshTTL)

	rateLimiter := ratesvc.NewLimiter(rateRepo, cfg.Limits.LikeRatePerMin, cfg.Limits.LikeRatePer10Sec)
	swipeService := swipesvc.NewService(swipesvc.Dependencies{
		Pool:          pool,
		SwipeStore:    swipeRepo,
		UserStore:     userRepo,
		QuotaStore:    quotaRepo,
		MatchStore:    matchRepo,
		Conversations: conversationRepo,
		RateLimiter:   rateLimiter,
	}, swipesvc.Config{
		LikesPerWindow: cfg.Limits.LikesPerWindow,
	})

	feedService := feedsvc.NewService(feedRepo, feedsvc.Config{
		DefaultLimit: cfg.Feed.DefaultLimit,
		MaxLimit:     cfg.Feed.MaxLimit,
	})
	profileService := profilesvc.NewService(profileRepo, userRepo)
	matchService := matchessvc.NewService(matchRepo)
	chatService := chatssvc.NewService(pool, conversationRepo, matchRepo)

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}

	mediaStorage := mediasvc.NewS3Storage(s3Client, cfg.S3.Bucket, cfg.S3.PublicURL)
	mediaService := mediasvc.NewService(mediaStorage, userRepo)

	RegisterRoutes(r, Dependencies{
		AuthService:    authService,
		ProfileService: profileService,
		FeedService:    feedService,
		SwipeService:   swipeService,
		MatchService:   matchService,
		ChatService:    chatService,
		MediaService:   mediaService,
		Logger:         log,
		Config:         cfg,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

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

func (a *App) Postgres() *pgxpool.Pool {
	return a.postgres
}

// userAccounts narrows the postgres user repo to what the auth service
// needs and converts its records into auth-level users.
type userAccounts struct {
	repo *pgrepo.UserRepo
}

func (a userAccounts) GetOrCreateByGoogleID(ctx context.Context, googleID, email, displayName, photoURL string) (authsvc.User, error) {
	record, err := a.repo.GetOrCreateByGoogleID(ctx, googleID, email, displayName, photoURL)
	if err != nil {
		return authsvc.User{}, err
	}
	return authsvc.User{
		ID:          record.ID,
		Email:       record.Email,
		DisplayName: record.DisplayName,
		PhotoURL:    record.PhotoURL,
	}, nil
}
