package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"study_coach_backend/internal/config"
	"study_coach_backend/internal/controller"
	"study_coach_backend/internal/repository"
	"study_coach_backend/internal/service"
	"study_coach_backend/pkg/database"
	"study_coach_backend/pkg/logger"
	"study_coach_backend/pkg/monitoring"
	"study_coach_backend/pkg/security"
	"study_coach_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	settings        *config.CoachingSettings
	configCallbacks []func(*config.Config)
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置文件热更新入口，由 configwatcher 回调
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("configuration reloaded")
}

type repositories struct {
	weakArea        *repository.WeakAreaRepository
	repetition      *repository.RepetitionRepository
	signal          *repository.SignalRepository
	study           *repository.StudyRepository
	analytics       *repository.AnalyticsRepository
	coachingSession *repository.CoachingSessionRepository
	recommendation  *repository.RecommendationRepository
	milestone       *repository.MilestoneRepository
}

type services struct {
	classifier     *service.ClassifierService
	scheduler      *service.SchedulerService
	milestone      *service.MilestoneService
	completion     *service.CompletionService
	analytics      *service.AnalyticsService
	recommendation *service.RecommendationService
	coaching       *service.CoachingService
}

type controllers struct {
	coaching       *controller.CoachingController
	weakArea       *controller.WeakAreaController
	recommendation *controller.RecommendationController
	analytics      *controller.AnalyticsController
	milestone      *controller.MilestoneController
	health         *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		weakArea:        repository.NewWeakAreaRepository(db),
		repetition:      repository.NewRepetitionRepository(db),
		signal:          repository.NewSignalRepository(db),
		study:           repository.NewStudyRepository(db),
		analytics:       repository.NewAnalyticsRepository(db),
		coachingSession: repository.NewCoachingSessionRepository(db),
		recommendation:  repository.NewRecommendationRepository(db),
		milestone:       repository.NewMilestoneRepository(db),
	}
}

func (a *App) initServices(repos *repositories, settings *config.CoachingSettings, rdb *redis.Client) *services {
	s := &services{}

	s.classifier = service.NewClassifierService(repos.signal, repos.signal, repos.weakArea, settings)
	s.scheduler = service.NewSchedulerService(repos.weakArea, repos.repetition, rdb, settings)
	s.milestone = service.NewMilestoneService(repos.milestone)
	s.completion = service.NewCompletionService(repos.repetition, repos.weakArea, s.milestone, settings)
	s.analytics = service.NewAnalyticsService(repos.study, repos.weakArea, repos.analytics, settings)
	s.recommendation = service.NewRecommendationService(repos.recommendation, repos.weakArea, settings)
	s.coaching = service.NewCoachingService(
		s.classifier,
		s.analytics,
		s.recommendation,
		repos.weakArea,
		repos.coachingSession,
		repos.study,
		rdb,
		settings,
	)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		coaching:       controller.NewCoachingController(s.coaching),
		weakArea:       controller.NewWeakAreaController(s.classifier, s.scheduler, s.completion),
		recommendation: controller.NewRecommendationController(s.recommendation),
		analytics:      controller.NewAnalyticsController(s.analytics),
		milestone:      controller.NewMilestoneController(s.milestone),
		health:         controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 定时为活跃学生跑一遍每日教练。
// 单实例部署下 ticker 足够，多实例时由 redis 锁避免重复生成计划。
func (a *App) startBackgroundTasks(s *services) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		for range ticker.C {
			if err := s.coaching.RunDailyCoaching(context.Background()); err != nil {
				logger.Log.Error("daily coaching run error", zap.Error(err))
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	// debug 模式或显式传入 -migrate 时执行自动迁移
	migrate := cfg.ForceMigrate || cfg.Server.Mode != "release"
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	if cfg.MigrateOnly {
		return app
	}

	repos := app.initRepositories(db)
	// 所有服务共享同一份可热更新的教练参数
	settings := config.NewCoachingSettings(cfg.Coaching)
	app.settings = settings
	services := app.initServices(repos, settings, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	// 教练参数支持热更新，参数整体原子替换，下一次运行即生效
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		settings.Replace(newCfg.Coaching)
	})

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("study-coach", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
