package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ehr/hms/internal/config"
	"github.com/ehr/hms/internal/domain/identity"
	"github.com/ehr/hms/internal/domain/scheduling"
	"github.com/ehr/hms/internal/platform/db"
	"github.com/ehr/hms/internal/platform/logging"
	"github.com/ehr/hms/internal/platform/middleware"
	"github.com/ehr/hms/internal/shell"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "hms",
		Short:        "Hospital management records",
		SilenceUsage: true,
	}

	root.AddCommand(serveCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(patientCmd())
	root.AddCommand(doctorCmd())
	root.AddCommand(appointmentCmd())
	root.AddCommand(summaryCmd())
	return root
}

// app is the wiring shared by every command. Building it dials nothing.
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	provider *db.Provider

	identity   *identity.Service
	scheduling *scheduling.Service

	patients     *identity.PatientDAO
	doctors      *identity.DoctorDAO
	appointments *scheduling.AppointmentDAO
	shell        *shell.Shell
}

func newApp(cfg *config.Config, logOut io.Writer) *app {
	logger := logging.New(cfg.Env, cfg.LogLevel, logOut)
	provider := db.NewProvider(db.Options{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		Schema:   cfg.DBSchema,
	}, logger)

	identitySvc := identity.NewService(identity.NewPatientRepo(provider), identity.NewDoctorRepo(provider))
	schedulingSvc := scheduling.NewService(scheduling.NewAppointmentRepo(provider))

	a := &app{
		cfg:          cfg,
		logger:       logger,
		provider:     provider,
		identity:     identitySvc,
		scheduling:   schedulingSvc,
		patients:     identity.NewPatientDAO(identitySvc, logger),
		doctors:      identity.NewDoctorDAO(identitySvc, logger),
		appointments: scheduling.NewAppointmentDAO(schedulingSvc, logger),
	}
	a.shell = shell.New(a.patients, a.doctors, a.appointments, logger)
	return a
}

func loadApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newApp(cfg, os.Stderr), nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the JSON API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.provider.Close()
			return runServer(a)
		},
	}
}

func newServer(a *app) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(a.logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(a.logger))
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.RequestTimeout(30 * time.Second))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/health/db", db.HealthHandler(a.provider))

	apiV1 := e.Group("/api/v1", db.ConnMiddleware(a.provider))
	identity.NewHandler(a.identity).RegisterRoutes(apiV1)
	scheduling.NewHandler(a.scheduling).RegisterRoutes(apiV1)

	return e
}

func runServer(a *app) error {
	e := newServer(a)

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + a.cfg.Port
		a.logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	a.logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	a.logger.Info().Msg("server stopped")
	return nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	var schema, dir string
	migrator := func(ctx context.Context, a *app) (*db.Migrator, error) {
		if schema == "" {
			schema = a.cfg.DBSchema
		}
		if dir == "" {
			dir = a.cfg.MigrationsDir
		}
		pool, err := a.provider.Pool(ctx)
		if err != nil {
			return nil, err
		}
		return db.NewMigrator(pool, dir), nil
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.provider.Close()

			ctx := cmd.Context()
			m, err := migrator(ctx, a)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Running migrations on schema: %s\n", schema)
			count, err := m.Up(ctx, schema)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.provider.Close()

			ctx := cmd.Context()
			m, err := migrator(ctx, a)
			if err != nil {
				return err
			}
			statuses, err := m.Status(ctx, schema)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}
			printMigrationStatus(cmd.OutOrStdout(), schema, statuses)
			return nil
		},
	}

	for _, c := range []*cobra.Command{upCmd, statusCmd} {
		c.Flags().StringVar(&schema, "schema", "", "Target schema (default DB_SCHEMA)")
		c.Flags().StringVar(&dir, "dir", "", "Path to migrations directory (default MIGRATIONS_DIR)")
		cmd.AddCommand(c)
	}
	return cmd
}

func printMigrationStatus(w io.Writer, schema string, statuses []db.MigrationStatus) {
	fmt.Fprintf(w, "Migration status for schema: %s\n", schema)
	fmt.Fprintf(w, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
	for _, s := range statuses {
		status, appliedAt := "pending", ""
		if s.Applied {
			status = "applied"
			if s.AppliedAt != nil {
				appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
		}
		fmt.Fprintf(w, "%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
	}
}
