package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appControllers "github.com/egresados/seguimiento-api/internal/app/controllers"
	appMigrations "github.com/egresados/seguimiento-api/internal/app/migrations"
	"github.com/egresados/seguimiento-api/internal/app/models/dto"
	appRepos "github.com/egresados/seguimiento-api/internal/app/repositories"
	appRoutes "github.com/egresados/seguimiento-api/internal/app/routes"
	appServices "github.com/egresados/seguimiento-api/internal/app/services"
	"github.com/egresados/seguimiento-api/internal/config"
	"github.com/egresados/seguimiento-api/internal/db"
	appMiddleware "github.com/egresados/seguimiento-api/internal/middleware"
	"github.com/egresados/seguimiento-api/internal/pkg/authprovider"
	"github.com/egresados/seguimiento-api/internal/pkg/email"
	"github.com/egresados/seguimiento-api/internal/pkg/filestorage"
	"github.com/egresados/seguimiento-api/internal/pkg/helpers"
	"github.com/egresados/seguimiento-api/internal/pkg/logger"
	"github.com/egresados/seguimiento-api/internal/pkg/metrics"
	"github.com/egresados/seguimiento-api/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	GraduateService     appServices.GraduateService
	WorkshopService     appServices.WorkshopService
	EnrollmentService   appServices.EnrollmentService
	AttendanceService   appServices.AttendanceService
	AreaService         appServices.AreaService
	DocumentService     appServices.DocumentService
	SurveyService       appServices.SurveyService
	ReportService       appServices.ReportService
	NotificationService appServices.NotificationService
	AuthService         appServices.AuthService
	UserService         appServices.UserService
	Controllers         appRoutes.Controllers
	AuthMiddleware      *appMiddleware.AuthMiddleware
	Repos               *appRepos.Repositories
	AuthProvider        authprovider.Provider
	ObjectStore         filestorage.ObjectStore
	LocalStorage        *filestorage.LocalStorage // nil unless storage.provider is local
	Notifier            *email.Notifier
	Pinger              func(ctx context.Context) error
	Logger              zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	appMiddleware.SetExposeErrors(cfg.Server.ExposeErrors)
	if err := appMiddleware.RegisterValidation(); err != nil {
		logger.Error().Err(err).Msg("Failed to register validation rules")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Get()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	if cfg.Database.MigrateOnStart {
		lgr.Info().Msg("Running database migrations...")
		migrator := appMigrations.NewMigrator(cfg.GetMigrationURL(), logger.Component("migrations"))
		if err := migrator.Up(); err != nil {
			lgr.Error().Err(err).Msg("Database migration error")
			dbPool.Close()
			return nil, fmt.Errorf("database migrations failed: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := seed.CreateDefaultData(ctx, appRepos.NewAreaRepository(dbPool), lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// newObjectStore selects the document storage backend named by storage.provider
func newObjectStore(cfg *config.Config, lgr zerolog.Logger) (filestorage.ObjectStore, *filestorage.LocalStorage, error) {
	switch strings.ToLower(cfg.Storage.Provider) {
	case "supabase":
		return filestorage.NewSupabaseStorage(cfg.Auth.SupabaseURL, cfg.Storage.Bucket, cfg.Auth.ServiceKey, lgr), nil, nil
	default:
		local, err := filestorage.NewLocalStorage(cfg.Storage.LocalPath, cfg.Storage.LocalBaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize file storage: %w", err)
		}
		return local, local, nil
	}
}

// newNotifier builds the email sender, the bulk broadcaster and the background notifier
func newNotifier(cfg *config.Config, lgr zerolog.Logger) (*email.Notifier, error) {
	emailCfg := email.Config{
		Provider:       cfg.Email.Provider,
		Host:           cfg.Email.Host,
		Port:           cfg.Email.Port,
		Username:       cfg.Email.Username,
		Password:       cfg.Email.Password,
		FromName:       cfg.Email.FromName,
		FromEmail:      cfg.Email.FromEmail,
		UseTLS:         cfg.Email.UseTLS,
		SendGridAPIKey: cfg.Email.SendGridAPIKey,
	}
	sender, err := email.NewSender(emailCfg, lgr)
	if err != nil {
		return nil, err
	}

	defaults := email.DefaultBroadcastConfig()
	broadcaster := email.NewBroadcaster(sender, email.BroadcastConfig{
		Concurrency:    cfg.Email.BroadcastConcurrency,
		RatePerSecond:  cfg.Email.BroadcastRatePerSecond,
		RetryMax:       cfg.Email.RetryMax,
		InitialBackoff: helpers.ParseDuration(cfg.Email.RetryInitialBackoff, defaults.InitialBackoff),
		MaxBackoff:     defaults.MaxBackoff,
		SendTimeout:    helpers.ParseDuration(cfg.Email.SendTimeout, defaults.SendTimeout),
	}, lgr)

	return email.NewNotifier(sender, broadcaster, emailCfg.DefaultFrom(), 0, lgr), nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Pinger: dbPool.Ping}

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	deps.ObjectStore, deps.LocalStorage, err = newObjectStore(cfg, logger.Component("storage"))
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, err
	}

	deps.Notifier, err = newNotifier(cfg, logger.Component("email"))
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize email delivery")
		return nil, fmt.Errorf("failed to initialize email delivery: %w", err)
	}

	deps.AuthProvider = authprovider.NewSupabaseProvider(authprovider.SupabaseConfig{
		URL:        cfg.Auth.SupabaseURL,
		AnonKey:    cfg.Auth.AnonKey,
		ServiceKey: cfg.Auth.ServiceKey,
		JWTSecret:  cfg.Auth.JWTSecret,
	}, logger.Component("authprovider"))

	return wireDependencies(cfg, deps)
}

// wireDependencies builds services, controllers and middleware on top of the
// repositories and outbound clients already present in deps.
func wireDependencies(cfg *config.Config, deps *Dependencies) (*Dependencies, error) {
	repos := deps.Repos
	lgr := deps.Logger

	deps.NotificationService = appServices.NewNotificationService(
		repos.GraduateRepository,
		deps.Notifier,
		cfg.Email.FromName,
		cfg.Email.FrontendURL,
		logger.Component("notifications"),
	)
	deps.GraduateService = appServices.NewGraduateService(repos.GraduateRepository, repos.EnrollmentRepository)
	deps.WorkshopService = appServices.NewWorkshopService(
		repos.WorkshopRepository,
		repos.AttendanceRepository,
		deps.NotificationService,
		logger.Component("workshops"),
	)
	deps.EnrollmentService = appServices.NewEnrollmentService(repos.EnrollmentRepository, repos.WorkshopRepository, repos.GraduateRepository)
	deps.AttendanceService = appServices.NewAttendanceService(repos.AttendanceRepository)
	deps.AreaService = appServices.NewAreaService(repos.AreaRepository, repos.PreferenceRepository, repos.GraduateRepository)
	deps.DocumentService = appServices.NewDocumentService(
		repos.DocumentRepository,
		repos.GraduateRepository,
		deps.ObjectStore,
		helpers.ParseDuration(cfg.Storage.SignedURLTTL, 10*time.Minute),
		logger.Component("documents"),
	)
	deps.SurveyService = appServices.NewSurveyService(repos.SurveyRepository, repos.QuestionRepository, repos.ResponseRepository, repos.GraduateRepository)
	deps.ReportService = appServices.NewReportService(repos.ReportRepository)
	deps.AuthService = appServices.NewAuthService(
		deps.AuthProvider,
		repos.ProfileRepository,
		deps.NotificationService,
		cfg.Auth.RecoveryRedirectURL,
		logger.Component("auth"),
	)
	deps.UserService = appServices.NewUserService(deps.AuthProvider, repos.ProfileRepository, repos.GraduateRepository, logger.Component("users"))

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.AuthProvider, repos.ProfileRepository, cfg.Auth.AdminRole, lgr)

	deps.Controllers = appRoutes.Controllers{
		Auth:       appControllers.NewAuthController(deps.AuthService, lgr),
		Graduate:   appControllers.NewGraduateController(deps.GraduateService),
		Workshop:   appControllers.NewWorkshopController(deps.WorkshopService),
		Enrollment: appControllers.NewEnrollmentController(deps.EnrollmentService, deps.AttendanceService),
		Area:       appControllers.NewAreaController(deps.AreaService),
		Document:   appControllers.NewDocumentController(deps.DocumentService, lgr),
		Survey:     appControllers.NewSurveyController(deps.SurveyService),
		User:       appControllers.NewUserController(deps.UserService),
		Report:     appControllers.NewReportController(deps.ReportService),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestID(),
		appMiddleware.RequestLogger(logger.Component("http")),
		metrics.Middleware(),
		appMiddleware.CORS(cfg.CORS.AllowedOrigins),
	)

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	router.GET("/health", healthHandler(deps.Pinger, lgr))

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	if deps.LocalStorage != nil {
		router.Static("/uploads", deps.LocalStorage.BasePath())
		lgr.Info().Str("path", deps.LocalStorage.BasePath()).Msg("Static file serving configured for uploads directory")
	}

	return router
}

// healthHandler reports 200 when the database answers a ping and 503 otherwise
func healthHandler(pinger func(ctx context.Context) error, lgr zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pinger != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := pinger(ctx); err != nil {
				lgr.Warn().Err(err).Msg("Health check: database unreachable")
				c.JSON(http.StatusServiceUnavailable, dto.APIResponse{
					Success:   false,
					Data:      gin.H{"status": "degraded"},
					Error:     dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "database unreachable"),
					Timestamp: time.Now(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}))
	}
}
