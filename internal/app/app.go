package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/controller"
	"lms_backend/internal/repository"
	"lms_backend/internal/service"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/mailer"
	"lms_backend/pkg/monitoring"
	"lms_backend/pkg/pdf"
	"lms_backend/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	services *services
}

type repositories struct {
	user       *repository.UserRepository
	task       *repository.TaskRepository
	submission *repository.TaskSubmissionRepository
	mindmap    *repository.MindmapRepository
	group      *repository.GroupRepository
	content    *repository.ContentRepository
	survey     *repository.SurveyRepository
}

type services struct {
	storage    *service.StorageService
	auth       *service.AuthService
	user       *service.UserService
	task       *service.TaskService
	submission *service.TaskSubmissionService
	mindmap    *service.MindmapService
	content    *service.ContentService
	survey     *service.SurveyService
	group      *service.GroupService
	portfolio  *service.PortfolioService
	chatHub    *service.ChatHub
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	task       *controller.TaskController
	submission *controller.TaskSubmissionController
	mindmap    *controller.MindmapController
	content    *controller.ContentController
	survey     *controller.SurveyController
	group      *controller.GroupController
	portfolio  *controller.PortfolioController
	upload     *controller.UploadController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		task:       repository.NewTaskRepository(db),
		submission: repository.NewTaskSubmissionRepository(db),
		mindmap:    repository.NewMindmapRepository(db),
		group:      repository.NewGroupRepository(db),
		content:    repository.NewContentRepository(db),
		survey:     repository.NewSurveyRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, mailer.NewMailer(cfg, logger.Log), cfg)
	s.user = service.NewUserService(repos.user, repos.task)
	s.task = service.NewTaskService(repos.task, repos.group, repos.user)
	s.submission = service.NewTaskSubmissionService(repos.submission, repos.task)
	s.mindmap = service.NewMindmapService(repos.mindmap, s.storage)
	s.content = service.NewContentService(repos.content, s.storage)
	s.survey = service.NewSurveyService(repos.survey)
	s.group = service.NewGroupService(repos.group, repos.user)

	s.portfolio = service.NewPortfolioService(
		repos.user,
		repos.submission,
		repos.mindmap,
		s.storage,
		pdf.NewChromeRenderer(cfg.PDF.ChromePath),
		pdf.NewPDFCPUMerger(),
		cfg.Server.BaseURL,
		cfg.PDF.ExportTimeout,
	)

	s.chatHub = service.NewChatHub(s.group)
	go s.chatHub.Run()

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth, s.storage),
		user:       controller.NewUserController(s.user),
		task:       controller.NewTaskController(s.task),
		submission: controller.NewTaskSubmissionController(s.submission, s.storage),
		mindmap:    controller.NewMindmapController(s.mindmap, s.storage),
		content:    controller.NewContentController(s.content, s.storage),
		survey:     controller.NewSurveyController(s.survey),
		group:      controller.NewGroupController(s.group, s.chatHub),
		portfolio:  controller.NewPortfolioController(s.portfolio, s.submission, s.mindmap, s.survey, s.content),
		upload:     controller.NewUploadController(s.storage),
		health:     controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	router.Use(security.RateLimiter(maxRequests, window))

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	migrate := cfg.Server.Mode != "release" || cfg.ForceMigrate
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}
	router.Static("/public", "public")

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.services != nil && a.services.chatHub != nil {
		a.services.chatHub.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
