package server

import (
	"net/http"
	"strings"

	"github.com/greenworld/garden-backend/internal/auth"
	"github.com/greenworld/garden-backend/internal/config"
	"github.com/greenworld/garden-backend/internal/handler"
	appmw "github.com/greenworld/garden-backend/internal/middleware"
	"github.com/greenworld/garden-backend/internal/repository"
	"github.com/greenworld/garden-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	e *echo.Echo
}

func New(db *gorm.DB, cfg *config.Config, log *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			return strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:"), nil
		},
	}))

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	userRepo := repository.NewUserRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	treeRepo := repository.NewTreeRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	store := repository.NewGardenStore(db)

	notificationSvc := service.NewNotificationService(notificationRepo)
	catalogSvc := service.NewCatalogService(catalogRepo)
	gardenSvc := service.NewGardenService(store, catalogRepo, treeRepo, notificationSvc, log)
	rewardSvc := service.NewRewardService(store, log)
	quizSvc := service.NewQuizService(questionRepo)
	userSvc := service.NewUserService(userRepo, log)

	userHandler := handler.NewUserHandler(userSvc, tokens)
	catalogHandler := handler.NewCatalogHandler(catalogSvc, gardenSvc)
	treeHandler := handler.NewTreeHandler(gardenSvc)
	quizHandler := handler.NewQuizHandler(quizSvc, rewardSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)

	authMw := appmw.NewAuthMiddleware(tokens, userRepo)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"ok": "true"})
	})

	e.POST("/auth/token", userHandler.Login)

	e.POST("/users", userHandler.Register)
	e.GET("/users/me", userHandler.Me, authMw.RequireAuth)
	e.PUT("/users/me", userHandler.UpdateMe, authMw.RequireAuth)
	e.GET("/users/:id", userHandler.Get)

	e.GET("/tree-catalog", catalogHandler.List)
	e.POST("/tree-catalog/buy/:catalogId", catalogHandler.Buy, authMw.RequireAuth)

	e.GET("/trees", treeHandler.ListMine, authMw.RequireAuth)
	e.GET("/trees/:id", treeHandler.Get, authMw.RequireAuth)
	e.PATCH("/trees/:id", treeHandler.Update, authMw.RequireAuth)
	e.POST("/trees/:id/upgrade", treeHandler.Upgrade, authMw.RequireAuth)

	e.GET("/quizes/questions", quizHandler.ListQuestions)
	e.POST("/quizes/submit", quizHandler.Submit, authMw.RequireAuth)
	e.POST("/quizes/import/text", quizHandler.ImportText, authMw.RequireAuth)
	e.POST("/quizes/games/result", quizHandler.PostGameResult, authMw.RequireAuth)

	e.GET("/notifications", notificationHandler.List, authMw.RequireAuth)
	e.POST("/notifications/read", notificationHandler.MarkAllRead, authMw.RequireAuth)

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}
