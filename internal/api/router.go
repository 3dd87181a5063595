package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskmasterhq/taskmaster-api/internal/api/handler"
	"github.com/taskmasterhq/taskmaster-api/internal/api/middleware"
	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
	"github.com/taskmasterhq/taskmaster-api/internal/core/ports"
	"github.com/taskmasterhq/taskmaster-api/internal/realtime"
)

// Dependencies carries everything the router needs to register routes.
type Dependencies struct {
	JWTSecret string
	Log       zerolog.Logger

	DB  *mongo.Database
	RDB *redis.Client

	Registry *realtime.Registry

	AuthService         ports.AuthService
	TokenValidator      ports.CredentialValidator
	UserService         ports.UserService
	TaskService         ports.TaskService
	TeamService         ports.TeamService
	CommentService      ports.CommentService
	AttachmentService   ports.AttachmentService
	NotificationService ports.NotificationService
	ActivityService     ports.ActivityService

	UserRepo ports.UserRepository
	TaskRepo ports.TaskRepository
	TeamRepo ports.TeamRepository
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("taskmaster"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	userHandler := handler.NewUserHandler(deps.UserService)
	taskHandler := handler.NewTaskHandler(deps.TaskService)
	teamHandler := handler.NewTeamHandler(deps.TeamService)
	commentHandler := handler.NewCommentHandler(deps.CommentService)
	attachmentHandler := handler.NewAttachmentHandler(deps.AttachmentService)
	notificationHandler := handler.NewNotificationHandler(deps.NotificationService)
	activityHandler := handler.NewActivityHandler(deps.ActivityService)
	adminHandler := handler.NewAdminHandler(deps.UserRepo, deps.TaskRepo, deps.TeamRepo, deps.Registry)
	healthHandler := handler.NewHealthHandler(deps.DB, deps.RDB)
	wsHandler := handler.NewWSHandler(deps.Registry, deps.TokenValidator, deps.Log)

	auth := middleware.Auth(deps.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Public routes ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	v1 := e.Group("/api/v1")

	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)
	v1.POST("/auth/refresh", authHandler.Refresh)
	v1.POST("/auth/logout", authHandler.Logout)

	// Websocket boundary authenticates via query token, not the header
	// middleware.
	e.GET("/ws/:user_id", wsHandler.Serve)

	// --- Authenticated routes ---
	users := v1.Group("/users", auth)
	users.GET("/me", userHandler.Me)
	users.PUT("/me", userHandler.UpdateMe)
	users.PUT("/me/password", userHandler.ChangePassword)
	users.GET("/:id", userHandler.Get)
	users.GET("", userHandler.List, adminOnly)
	users.PATCH("/:id/active", userHandler.SetActive, adminOnly)
	users.DELETE("/:id", userHandler.Delete, adminOnly)

	tasks := v1.Group("/tasks", auth)
	tasks.POST("", taskHandler.Create)
	tasks.GET("", taskHandler.List)
	tasks.GET("/team/:team_id", taskHandler.ListByTeam)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PUT("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Archive)
	tasks.POST("/:id/assign", taskHandler.Assign)
	tasks.GET("/:id/comments", commentHandler.ListByTask)
	tasks.POST("/:id/comments", commentHandler.Create)
	tasks.GET("/:id/attachments", attachmentHandler.ListByTask)
	tasks.POST("/:id/attachments", attachmentHandler.Register)

	comments := v1.Group("/comments", auth)
	comments.PUT("/:id", commentHandler.Update)
	comments.DELETE("/:id", commentHandler.Delete)

	attachments := v1.Group("/attachments", auth)
	attachments.DELETE("/:id", attachmentHandler.Delete)

	teams := v1.Group("/teams", auth)
	teams.POST("", teamHandler.Create)
	teams.GET("", teamHandler.ListMine)
	teams.GET("/:id", teamHandler.Get)
	teams.PUT("/:id", teamHandler.Update)
	teams.DELETE("/:id", teamHandler.Delete)
	teams.POST("/:id/members", teamHandler.AddMember)
	teams.DELETE("/:id/members/:user_id", teamHandler.RemoveMember)
	teams.PATCH("/:id/members/:user_id", teamHandler.UpdateMemberRole)

	notifications := v1.Group("/notifications", auth)
	notifications.GET("", notificationHandler.List)
	notifications.PUT("/read-all", notificationHandler.MarkAllRead)
	notifications.PUT("/:id/read", notificationHandler.MarkRead)

	activity := v1.Group("/activity", auth)
	activity.GET("/me", activityHandler.Mine)
	activity.GET("", activityHandler.Recent, adminOnly)
	activity.GET("/entity/:type/:id", activityHandler.ByEntity, adminOnly)

	admin := v1.Group("/admin", auth, adminOnly)
	admin.GET("/stats", adminHandler.Stats)

	return e
}
