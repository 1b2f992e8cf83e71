package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"sharkin/internal/api"
	"sharkin/internal/config"
	"sharkin/internal/fetcher"
	"sharkin/internal/generator"
	"sharkin/internal/harvest"
	"sharkin/internal/llm"
	"sharkin/internal/logger"
	"sharkin/internal/scorer"
	"sharkin/internal/store"
	"sharkin/internal/tasks"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "server",
		Short:         "SharkIN LinkedIn content generation service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "sharkin.yaml", "path to the YAML config file")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(harvestCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the harvest job",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			st, err := store.Open(cfg.Database.DSN, log)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.AutoMigrate(); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Info("Migration completed")
			return nil
		},
	}
}

func harvestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "harvest",
		Short: "Run one inspiration harvest pass and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()
			if err := cfg.Validate(); err != nil {
				return err
			}

			st, err := store.Open(cfg.Database.DSN, log)
			if err != nil {
				return err
			}
			defer st.Close()

			completer, err := llm.New(cfg)
			if err != nil {
				return err
			}
			h := newHarvester(cfg, st, completer, log)
			_, err = h.Run(cmd.Context())
			return err
		},
	}
}

func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Logging.Mode)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func newHarvester(cfg *config.Config, st *store.Store, c llm.Completer, log *logger.Logger) *harvest.Harvester {
	return harvest.New(
		fetcher.FromConfig(cfg.Harvest.Feeds),
		scorer.NewScorer(c, log),
		st,
		cfg.Harvest.Threshold,
		log,
	)
}

func runServe(ctx context.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()
	if err := cfg.Validate(); err != nil {
		return err
	}

	st, err := store.Open(cfg.Database.DSN, log)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.AutoMigrate(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	completer, err := llm.New(cfg)
	if err != nil {
		return err
	}
	log.Info("Completion provider ready", "provider", completer.Name())

	runner := tasks.NewRunner(tasks.DefaultLimit, tasks.DefaultTimeout, log)
	gen := generator.New(st, completer, runner, log)

	stopHarvest := func() {}
	if len(cfg.Harvest.Feeds) > 0 {
		stopHarvest = newHarvester(cfg, st, completer, log).Launch(ctx, cfg.HarvestInterval())
	}

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery(), api.RequestLogger(log), api.CORS(cfg.Server.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "sharkin"})
	})

	api.NewHandler(gen, st, log).RegisterRoutes(r, api.Auth(cfg.Auth.JWTSecret))

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", "port", cfg.Server.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
		log.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown incomplete", "error", err)
	}
	stopHarvest()
	if err := runner.Close(shutdownCtx); err != nil {
		log.Warn("Background tasks abandoned", "error", err)
	}
	return nil
}
