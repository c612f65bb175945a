package main

import (
	"context"
	crypto_rand "crypto/rand"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medjournal/journal/internal/config"
	"github.com/medjournal/journal/internal/domain/admission"
	"github.com/medjournal/journal/internal/domain/department"
	"github.com/medjournal/journal/internal/domain/healthnote"
	"github.com/medjournal/journal/internal/domain/hospital"
	"github.com/medjournal/journal/internal/domain/patient"
	"github.com/medjournal/journal/internal/domain/staff"
	"github.com/medjournal/journal/internal/platform/auth"
	"github.com/medjournal/journal/internal/platform/db"
	"github.com/medjournal/journal/internal/platform/middleware"
	"github.com/medjournal/journal/internal/platform/mkb10"
)

// hospitalNameAdapter exposes the hospital service to the staff package as a
// name resolver, avoiding a circular import between the two domains.
type hospitalNameAdapter struct {
	svc *hospital.Service
}

func (a hospitalNameAdapter) HospitalName(ctx context.Context, id uuid.UUID) (string, error) {
	h, err := a.svc.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return h.Name, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "journal-server",
		Short: "Hospital records API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	secret, generated, err := resolveJWTSecret(cfg.JWTSecret)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to resolve JWT secret")
	}
	if generated {
		logger.Warn().Msg("JWT_SECRET not set, using a random per-process secret")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = jsonErrorHandler(logger)

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.BodyLimit("1M"))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth plumbing
	issuer := auth.NewTokenIssuer(secret, cfg.ParsedTokenTTL())
	revocations := auth.NewTokenRevocationStore()
	defer revocations.Close()

	// API groups. Public routes need no token, authed routes need a valid
	// token, scoped routes additionally need an approved hospital, and admin
	// routes manage departments and staff records. Hospital management stays
	// on the authed group: the first hospital must be creatable before any
	// employee has been approved into one.
	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	authed := apiV1.Group("", auth.Middleware(issuer, revocations))
	scoped := authed.Group("", auth.RequireHospital())
	admin := authed.Group("", auth.RequireHospital())

	// Health check
	e.GET("/health", db.HealthHandler(pool))

	// Repositories
	hospitalRepo := hospital.NewRepo(pool)
	departmentRepo := department.NewRepo(pool)
	staffRepo := staff.NewRepo(pool)
	patientRepo := patient.NewRepo(pool)
	admissionRepo := admission.NewRepo(pool)
	noteRepo := healthnote.NewRepo(pool)

	// Services
	hospitalSvc := hospital.NewService(hospitalRepo)
	departmentSvc := department.NewService(departmentRepo)
	patientSvc := patient.NewService(patientRepo)
	admissionSvc := admission.NewService(admissionRepo, patientSvc, departmentSvc)
	noteSvc := healthnote.NewService(noteRepo, admissionSvc)

	inTx := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return db.InTx(ctx, pool, fn)
	}
	staffSvc := staff.NewService(staffRepo, inTx)
	staffSvc.SetHospitalDirectory(hospitalNameAdapter{svc: hospitalSvc})
	staffSvc.SetDepartmentChecker(departmentSvc)

	// Handlers
	hospital.NewHandler(hospitalSvc).RegisterRoutes(authed)
	department.NewHandler(departmentSvc).RegisterRoutes(scoped, admin)
	staff.NewHandler(staffSvc, issuer, revocations).RegisterRoutes(apiV1, authed, admin)
	patient.NewHandler(patientSvc).RegisterRoutes(scoped)
	admission.NewHandler(admissionSvc).RegisterRoutes(scoped)
	healthnote.NewHandler(noteSvc).RegisterRoutes(scoped)

	mkbClient := mkb10.NewClient(cfg.MKB10APIURL, cfg.MKB10APIToken)
	mkb10.NewHandler(mkbClient).RegisterRoutes(scoped)

	// Start server
	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

// resolveJWTSecret returns the configured signing secret, or a random 32-byte
// one when none is set. The second return value is true when a random secret
// was generated.
func resolveJWTSecret(configured string) ([]byte, bool, error) {
	if configured != "" {
		return []byte(configured), false, nil
	}
	key := make([]byte, 32)
	if _, err := crypto_rand.Read(key); err != nil {
		return nil, false, fmt.Errorf("failed to generate random JWT secret: %w", err)
	}
	return key, true, nil
}

// jsonErrorHandler renders every unhandled error as a JSON body so clients
// never see echo's default HTML error pages.
func jsonErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "internal server error"
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if msg, ok := he.Message.(string); ok {
				message = msg
			} else {
				message = http.StatusText(code)
			}
		}
		if code >= http.StatusInternalServerError {
			logger.Error().Err(err).Str("path", c.Request().URL.Path).Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, map[string]string{"error": message})
	}
}
