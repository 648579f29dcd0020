package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/staffdir/staffdir/pkg/config"
	"github.com/staffdir/staffdir/pkg/db"
	"github.com/staffdir/staffdir/pkg/directory"
	"github.com/staffdir/staffdir/pkg/scan"
	"github.com/staffdir/staffdir/pkg/server"
	"github.com/staffdir/staffdir/pkg/server/endpoints"
	"github.com/staffdir/staffdir/pkg/server/middleware"
	gormstore "github.com/staffdir/staffdir/pkg/server/store/gorm"
	"github.com/staffdir/staffdir/pkg/vault"
)

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the staff directory application server",
	Long: `Run the staff directory application server

To run the server requires the environment variables STAFFDIR_ENCRYPTION_KEY,
STAFFDIR_JWT_SECRET and DATABASE_URL.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Validate required environment variables first (fail fast)
		if os.Getenv("STAFFDIR_ENCRYPTION_KEY") == "" {
			fmt.Fprintln(os.Stderr, "STAFFDIR_ENCRYPTION_KEY environment variable is required")
			os.Exit(1)
		}

		jwtSecret := os.Getenv("STAFFDIR_JWT_SECRET")
		if jwtSecret == "" {
			fmt.Fprintln(os.Stderr, "STAFFDIR_JWT_SECRET environment variable is required")
			os.Exit(1)
		}

		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		// Run migrations unless --no-migrate is set
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		v, err := vault.NewFromEnv()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Bad STAFFDIR_ENCRYPTION_KEY:", err)
			os.Exit(1)
		}

		conn, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		logger, err := newLogger()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to create logger:", err)
			os.Exit(1)
		}
		defer func() { _ = logger.Sync() }()

		cfg := config.Get()

		settings := gormstore.NewSettingsStore(conn)
		contacts := gormstore.NewContactStore(conn)
		devices := gormstore.NewDeviceStore(conn)
		runs := gormstore.NewSyncRunStore(conn)

		ledger := directory.NewLedger(runs, cfg.SyncFailureDetailLimit)
		engine := directory.NewEngine(
			settings, contacts, devices, ledger, v, logger,
			cfg.SyncRequestTimeout(),
		)

		scans := scan.NewRecorder(gormstore.NewScanEventStore(conn), logger)
		auth := middleware.NewAuthenticator([]byte(jwtSecret), cfg.AdminGroup)

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(conn, v, auth, engine, scans, logger, host, port)

		s.ShareLinks = gormstore.NewShareLinkStore(conn)
		s.Settings = settings
		s.SyncRuns = runs
		s.Contacts = contacts
		s.Devices = devices
		s.Health = gormstore.NewHealthStore(conn)

		endpoints.RegisterAll(s)

		log.Printf("Running server at http://%s:%s...\n", host, port)
		log.Fatal(s.Start())
	},
}

func newLogger() (*zap.Logger, error) {
	if os.Getenv("STAFFDIR_LOG_LEVEL") == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
