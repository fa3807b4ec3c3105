// Package app wires configuration, storage, services and transports into a
// runnable process.
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"mimoapp/internal/api"
	authgrpc "mimoapp/internal/auth/grpc"
	"mimoapp/internal/auth/password"
	authrepo "mimoapp/internal/auth/repository"
	authservice "mimoapp/internal/auth/service"
	"mimoapp/internal/auth/token"
	"mimoapp/internal/config"
	"mimoapp/internal/controller"
	learningrepo "mimoapp/internal/learning/repository"
	learningservice "mimoapp/internal/learning/service"
	"mimoapp/internal/logging"
	"mimoapp/internal/middleware"
)

const healthInterval = 15 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *config.Database
	authService authservice.AuthService
	handler     http.Handler
	grpcServer  *config.GRPCServer
	health      *health.Server
}

// NewApp connects to the database, applies migrations and builds every
// component. The caller must Close the returned App.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	trustedProxies, err := cfg.TrustedProxyPrefixes()
	if err != nil {
		return nil, err
	}

	db := config.NewDatabase(cfg.Database, logger)
	if err := db.InitDB(ctx); err != nil {
		db.CloseDB()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	tokens, err := token.NewJWT([]byte(cfg.SecretKey), cfg.Algorithm, cfg.AccessTokenTTL(), logger)
	if err != nil {
		db.CloseDB()
		return nil, err
	}

	userRepo := authrepo.NewUserRepository(db.Db, db.Dialect)
	authService := authservice.NewAuthService(userRepo, password.NewBcrypt(cfg.BcryptCost), tokens, cfg.AccessTokenTTL(), logger)

	catalog := learningservice.NewCatalogService(
		learningrepo.NewCourseRepository(db.Db, db.Dialect),
		learningrepo.NewLessonRepository(db.Db, db.Dialect),
		logger,
	)
	enrollments := learningservice.NewEnrollmentService(learningrepo.NewEnrollmentRepository(db.Db, db.Dialect), logger)

	router := api.SetupRoutes(api.Controllers{
		Auth:       controller.NewAuthController(authService),
		System:     controller.NewSystemController(db),
		Course:     controller.NewCourseController(catalog),
		Lesson:     controller.NewLessonController(catalog),
		Enrollment: controller.NewEnrollmentController(enrollments),
	}, authService, middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateBurst), trustedProxies, logger)

	grpcServer, err := config.NewGRPCServer(cfg.GRPC, cfg.ShutdownTimeout, logger)
	if err != nil {
		db.CloseDB()
		return nil, err
	}
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer.Server, hs)
	authgrpc.RegisterTokenServiceServer(grpcServer.Server, authgrpc.NewServer(authService))

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		authService: authService,
		handler:     router,
		grpcServer:  grpcServer,
		health:      hs,
	}, nil
}

func (app *App) Handler() http.Handler {
	return app.handler
}

func (app *App) AuthService() authservice.AuthService {
	return app.authService
}

// Run serves HTTP and gRPC until ctx is cancelled, SIGINT/SIGTERM arrives or
// either server fails.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.logger.Info(ctx, "starting app")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return api.NewServer(app.config.HTTPAddr, app.handler, app.config.ShutdownTimeout, app.logger).Run(ctx)
	})
	g.Go(func() error {
		return app.grpcServer.Run(ctx)
	})
	g.Go(func() error {
		authgrpc.WatchDatabase(ctx, app.health, app.db, healthInterval, app.logger)
		return nil
	})

	return g.Wait()
}

func (app *App) Close() {
	app.db.CloseDB()
}
