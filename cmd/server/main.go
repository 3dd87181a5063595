package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taskmasterhq/taskmaster-api/internal/api"
	"github.com/taskmasterhq/taskmaster-api/internal/core/service"
	"github.com/taskmasterhq/taskmaster-api/internal/infrastructure/config"
	mongodb "github.com/taskmasterhq/taskmaster-api/internal/infrastructure/db/mongo"
	redisdb "github.com/taskmasterhq/taskmaster-api/internal/infrastructure/db/redis"
	"github.com/taskmasterhq/taskmaster-api/internal/infrastructure/queue"
	"github.com/taskmasterhq/taskmaster-api/internal/realtime"
	"github.com/taskmasterhq/taskmaster-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load(slog.Default())

	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	userRepo := mongodb.NewUserRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)
	teamRepo := mongodb.NewTeamRepository(db)
	notificationRepo := mongodb.NewNotificationRepository(db)
	commentRepo := mongodb.NewCommentRepository(db)
	attachmentRepo := mongodb.NewAttachmentRepository(db)
	activityRepo := mongodb.NewActivityRepository(db)

	if err := mongodb.EnsureIndexes(ctx,
		userRepo, taskRepo, teamRepo, notificationRepo,
		commentRepo, attachmentRepo, activityRepo,
	); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	tokenStore := redisdb.NewTokenStore(rdb)

	dispatcher := queue.NewActivityDispatcher(0, activityRepo, log)
	dispatcher.Start(ctx)

	registry := realtime.NewRegistry(cfg.Websocket.HeartbeatInterval, log)

	// --- Services ---
	access := service.NewAccessPolicy(teamRepo)
	notificationService := service.NewNotificationService(notificationRepo, registry, log)
	authService := service.NewAuthService(userRepo, tokenStore, dispatcher,
		cfg.Auth.JWTSecret, cfg.Auth.RefreshSecret,
		cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL, log)
	userService := service.NewUserService(userRepo, dispatcher, log)
	taskService := service.NewTaskService(taskRepo, teamRepo, access, notificationService, dispatcher, log)
	teamService := service.NewTeamService(teamRepo, userRepo, access, notificationService, dispatcher, log)
	commentService := service.NewCommentService(commentRepo, taskRepo, access, notificationService, dispatcher, log)
	attachmentService := service.NewAttachmentService(attachmentRepo, taskRepo, access, dispatcher, log)
	activityService := service.NewActivityService(activityRepo)

	e := api.NewRouter(api.Dependencies{
		JWTSecret: cfg.Auth.JWTSecret,
		Log:       log,

		DB:  db,
		RDB: rdb,

		Registry: registry,

		AuthService:         authService,
		TokenValidator:      authService,
		UserService:         userService,
		TaskService:         taskService,
		TeamService:         teamService,
		CommentService:      commentService,
		AttachmentService:   attachmentService,
		NotificationService: notificationService,
		ActivityService:     activityService,

		UserRepo: userRepo,
		TaskRepo: taskRepo,
		TeamRepo: teamRepo,
	})

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}
