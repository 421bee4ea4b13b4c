package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/easebox-25/easebox-backend/internal/application/auth"
	"github.com/easebox-25/easebox-backend/internal/application/ports"
	"github.com/easebox-25/easebox-backend/internal/application/verification"
	"github.com/easebox-25/easebox-backend/internal/config"
	infraauth "github.com/easebox-25/easebox-backend/internal/infrastructure/auth"
	httprouter "github.com/easebox-25/easebox-backend/internal/infrastructure/http"
	"github.com/easebox-25/easebox-backend/internal/infrastructure/http/handlers"
	"github.com/easebox-25/easebox-backend/internal/infrastructure/http/middleware"
	"github.com/easebox-25/easebox-backend/internal/infrastructure/persistence/postgres"
	"github.com/easebox-25/easebox-backend/internal/infrastructure/queue"
	"github.com/easebox-25/easebox-backend/internal/infrastructure/security"
	"github.com/easebox-25/easebox-backend/internal/infrastructure/verifier"
	"github.com/easebox-25/easebox-backend/internal/infrastructure/webhook"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("ping database")
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("parse REDIS_URL")
		}
		redisClient = redis.NewClient(opt)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed; continuing without redis")
			redisClient = nil
		}
	}

	healthHandler := handlers.NewHealthHandler(pool, redisClient)

	userRepo := postgres.NewUserRepository(pool)
	profileRepo := postgres.NewProfileRepository(pool)
	identityRepo := postgres.NewOAuthIdentityRepository(pool)
	otpRepo := postgres.NewOTPRepository(pool)

	var emitter ports.WebhookEmitter
	if cfg.Webhook.URL != "" {
		emitter = webhook.NewHTTPEmitter(cfg.Webhook.URL, log)
	} else {
		emitter = webhook.NewNoopEmitter()
	}

	var taskEnqueuer ports.TaskEnqueuer
	var asynqWorker *queue.Worker
	if redisClient != nil {
		redisOpt, _ := redis.ParseURL(cfg.Redis.URL)
		asynqOpt := asynq.RedisClientOpt{Addr: redisOpt.Addr, Password: redisOpt.Password, DB: redisOpt.DB}
		asynqEnq, err := queue.NewAsynqEnqueuer(asynqOpt, log)
		if err != nil {
			log.Fatal().Err(err).Msg("create asynq enqueuer")
		}
		defer asynqEnq.Close()
		taskEnqueuer = asynqEnq
		asynqWorker = queue.NewWorker(asynqOpt, emitter, log)
		go func() {
			if err := asynqWorker.Run(); err != nil {
				log.Warn().Err(err).Msg("asynq worker stopped")
			}
		}()
	} else {
		taskEnqueuer = queue.NewNoopEnqueuer()
	}

	hasher := security.NewArgon2Hasher(security.Argon2Params{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
	})

	issuer := infraauth.NewTokenIssuer([]byte(cfg.JWT.Secret), cfg.JWT.Issuer, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)

	var verificationProvider ports.VerificationProvider
	if cfg.Verifier.UseStub {
		log.Warn().Msg("using stub verification provider")
		verificationProvider = verifier.NewStub(0)
	} else {
		verificationProvider = verifier.NewRegistry(verifier.Config{
			BaseURL:     cfg.Verifier.BaseURL,
			APIKey:      cfg.Verifier.APIKey,
			SuccessCode: cfg.Verifier.SuccessCode,
			MaxRetries:  cfg.Verifier.MaxRetries,
		}, log)
	}

	registerIndividualUC := auth.NewRegisterIndividual(userRepo, profileRepo, hasher, issuer, otpRepo, taskEnqueuer, log)
	registerCompanyUC := auth.NewRegisterCompany(userRepo, profileRepo, hasher, issuer, otpRepo, taskEnqueuer, log)
	loginUC := auth.NewLogin(userRepo, profileRepo, hasher, issuer)
	verifyEmailUC := auth.NewVerifyEmail(userRepo, otpRepo)
	refreshUC := auth.NewRefresh(userRepo, issuer)
	oauthUC := auth.NewOAuthAuthenticate(userRepo, profileRepo, identityRepo, issuer)
	unlinkUC := auth.NewUnlinkProvider(userRepo, identityRepo)
	listLinksUC := auth.NewListLinkedProviders(userRepo, identityRepo)
	verifyIDUC := verification.NewVerifyID(userRepo, profileRepo, verificationProvider, cfg.Verifier.RCPattern, log)

	handlers.InitOAuthProviders(cfg.OAuth.CallbackBaseURL, cfg.OAuth.SessionSecret,
		handlers.OAuthProviderCreds(cfg.OAuth.Google),
		handlers.OAuthProviderCreds(cfg.OAuth.Facebook),
		handlers.OAuthProviderCreds(cfg.OAuth.Apple))

	authHandler := handlers.NewAuthHandler(registerIndividualUC, registerCompanyUC, loginUC, verifyEmailUC, refreshUC, taskEnqueuer, log)
	oauthHandler := handlers.NewOAuthHandler(oauthUC, unlinkUC, listLinksUC, taskEnqueuer, cfg.OAuth.RedirectURL, log)
	verificationHandler := handlers.NewVerificationHandler(verifyIDUC, taskEnqueuer, log)
	usersHandler := handlers.NewUsersHandler(userRepo, profileRepo, listLinksUC, log)

	ipLimit, err := middleware.NewIPRateLimiter(cfg.HTTP.IPRateLimit)
	if err != nil {
		log.Fatal().Err(err).Msg("create IP rate limiter")
	}
	secureMiddleware := middleware.NewSecure(middleware.SecureOptions(!cfg.HTTP.Production))
	corsMiddleware := middleware.CORS(cfg.HTTP.AllowedOrigins, nil, nil)
	requireJWT := middleware.NewAuthValidator(issuer).Handler

	router := httprouter.NewRouter(httprouter.RouterConfig{
		AuthHandler:         authHandler,
		OAuthHandler:        oauthHandler,
		VerificationHandler: verificationHandler,
		UsersHandler:        usersHandler,
		HealthHandler:       healthHandler,
		RequireJWT:          requireJWT,
		Log:                 log,
		Secure:              secureMiddleware,
		CORS:                corsMiddleware,
		IPRateLimit:         ipLimit,
		Metrics:             true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if asynqWorker != nil {
		asynqWorker.Shutdown()
	}
	log.Info().Msg("server stopped")
}
