package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/authguard/internal/config"
	"github.com/authguard/internal/db"
	"github.com/authguard/internal/domain"
	"github.com/authguard/internal/http"
	"github.com/authguard/internal/logger"
	"github.com/authguard/internal/service"
	"github.com/authguard/internal/system"
)

var (
	envFile    string
	configFile string
	envName    string
	port       int

	cfg *config.Config
	log *logger.Logger
)

func main() {
	err := rootCmd().Execute()
	if log != nil {
		// stdout may not support fsync; nothing to do about that on exit
		_ = log.Sync()
	}
	if err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "authguard",
		Short:         "Web server that keeps anonymous visitors on the auth page",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Load .env file if it exists (optional, won't error if missing)
			_ = godotenv.Load(envFile)

			// Flags win over the environment, which wins over the config file
			if cmd.Flags().Changed("env") {
				os.Setenv("ENV", envName)
			}
			if cmd.Flags().Changed("port") {
				os.Setenv("PORT", strconv.Itoa(port))
			}
			if configFile == "" {
				configFile = os.Getenv("CONFIG_FILE")
			}

			var err error
			cfg, err = config.LoadFile(configFile)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
				return err
			}

			log, err = logger.Init(logger.Config{Env: cfg.Environment}, cfg.LogBackend)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
				return err
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	root.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file (default $CONFIG_FILE)")
	root.PersistentFlags().StringVar(&envName, "env", "", "environment name; dev enables debug logging")
	root.PersistentFlags().IntVar(&port, "port", 0, "listen port (default $PORT or 80)")

	root.AddCommand(userCmd(), probeCmd())
	return root
}

func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Init(cfg.DatabasePath)
	if err != nil {
		log.Error("failed to initialize database", logger.Err(err), logger.Properties{"path": cfg.DatabasePath})
		return err
	}
	defer database.Close()

	users := service.NewUserService(database, log)

	if n, err := database.CountUsers(ctx); err == nil && n == 0 {
		log.Info("no accounts yet; create one via the sign-up tab", logger.Properties{"path": cfg.Routes.AuthPath + "?mode=signup"})
	}

	log.Info("starting server", logger.Properties{
		"addr":         cfg.ServerAddress(),
		"env":          cfg.Environment,
		"auth_enabled": cfg.Auth.Enabled,
		"auth_path":    cfg.Routes.AuthPath,
		"home_path":    cfg.Routes.HomePath,
	})
	if !cfg.Auth.Enabled {
		log.Warn("authentication disabled; every request is treated as signed in")
	}

	collector := system.NewCollector(filepath.Dir(cfg.DatabasePath), database, log)
	server := http.NewServer(cfg, users, log, http.WithSystemStats(collector))
	if err := server.Run(ctx); err != nil {
		log.Error("server stopped with error", logger.Err(err))
		return err
	}
	log.Info("server stopped")
	return nil
}

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}

	var password string
	add := &cobra.Command{
		Use:   "add <username>",
		Short: "Create an account without going through the sign-up form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("AUTHGUARD_PASSWORD")
			}

			database, err := db.Init(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer database.Close()

			users := service.NewUserService(database, log)
			user, err := users.Register(cmd.Context(), domain.RegisterRequest{Username: args[0], Password: password})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", user.Username, user.ID)
			return nil
		},
	}
	add.Flags().StringVar(&password, "password", "", "account password (default $AUTHGUARD_PASSWORD)")

	cmd.AddCommand(add)
	return cmd
}
