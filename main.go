package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/studioaurea/atelier-backend/api"
	"github.com/studioaurea/atelier-backend/config"
	"github.com/studioaurea/atelier-backend/database"
	"github.com/studioaurea/atelier-backend/errs"
	"github.com/studioaurea/atelier-backend/models"
	"github.com/studioaurea/atelier-backend/services"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	conf := config.New()
	config.LoadSecrets(context.Background(), conf)

	if strings.ToLower(config.GetString(conf, "LOG_FORMAT", "")) == "console" {
		zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	dbType := config.GetString(conf, "DB_TYPE", "memory")
	fmt.Printf("DB_TYPE: %s\n", dbType)

	var currentDB *database.Database

	switch dbType {
	case "memory":
		fmt.Println("Using in-memory backend (state is lost on shutdown)")
		currentDB = database.NewInMemory()

	case "postgres", "sqlite":
		db, err := openRelational(dbType, conf)
		if err != nil {
			fmt.Printf("Error connecting to database: %v\n", err)
			os.Exit(1)
		}

		// If generating models, run generation and exit
		if strings.ToLower(config.GetString(conf, "GENERATE_MODELS", "")) == "true" {
			fmt.Println("Generating models and query helpers...")
			models.GenerateModels(db)
			return
		}

		// If generating column mismatch report, run report and exit
		if config.GetString(conf, "GENERATE_COLUMN_REPORT", "") == "true" {
			fmt.Println("Generating column mismatch report...")
			models.GenerateColumnMismatchReportStandalone(db)
			return
		}

		if strings.ToLower(config.GetString(conf, "AUTO_MIGRATE", "true")) == "true" {
			if err := models.Migrate(db); err != nil {
				fmt.Printf("Error during migration: %v\n", err)
				os.Exit(1)
			}
		}

		currentDB = database.New(db)
		ensureAdmin(currentDB, conf)

	default:
		fmt.Println("Unsupported DB_TYPE. Exiting...")
		os.Exit(1)
	}

	// Background report scheduler
	schedulerCtx, cancelScheduler := context.WithCancel(context.Background())
	defer cancelScheduler()
	startReportScheduler(schedulerCtx, currentDB, conf)

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(currentDB)
	if err != nil {
		fmt.Printf("Error initializing server: %v\n", err)
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	fmt.Printf("Closing server: %v\n", fatalErr)

	cancelScheduler()
	server.ShutdownGracefully(30 * time.Second)
}

// openRelational connects to the configured relational backend. Postgres gets
// the pgvector extension and an optional read replica; sqlite is for local
// work and tests.
func openRelational(dbType string, conf map[string]string) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	var db *gorm.DB
	var err error

	switch dbType {
	case "postgres":
		connStr := config.GetString(conf, "DATABASE_DSN", "")
		if connStr == "" {
			connStr = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
				config.GetString(conf, "DB_HOST", "localhost"),
				config.GetString(conf, "DB_USER", "postgres"),
				config.GetString(conf, "DB_PASSWORD", ""),
				config.GetString(conf, "DB_NAME", "atelier"),
				config.GetString(conf, "DB_PORT", "5432"),
				config.GetString(conf, "DB_SSLMODE", "disable"),
			)
		}
		fmt.Println("Connecting to Postgres database...")

		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  connStr,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
			Logger:      newLogger,
		})
		if err != nil {
			return nil, err
		}

		// Embedding similarity needs pgvector
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"vector\"").Error; err != nil {
			return nil, fmt.Errorf("enabling vector extension: %w", err)
		}

		// Route reads to a replica when one is configured
		if replicaDSN := config.GetString(conf, "REPLICA_DSN", ""); replicaDSN != "" {
			fmt.Println("Registering read replica...")
			if err := db.Use(dbresolver.Register(dbresolver.Config{
				Replicas: []gorm.Dialector{postgres.Open(replicaDSN)},
			})); err != nil {
				return nil, fmt.Errorf("registering replica: %w", err)
			}
		}

	case "sqlite":
		path := config.GetString(conf, "DB_PATH", "atelier.db")
		fmt.Printf("Opening sqlite database at %s...\n", path)

		db, err = gorm.Open(sqlite.Open(path), &gorm.Config{Logger: newLogger})
		if err != nil {
			return nil, err
		}
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("testing database connection: %w", err)
	}

	return db, nil
}

// ensureAdmin seeds the first admin account on an empty relational backend.
func ensureAdmin(db *database.Database, conf map[string]string) {
	email := config.GetString(conf, "ADMIN_EMAIL", "")
	password := config.GetString(conf, "ADMIN_PASSWORD", "")
	if email == "" || password == "" {
		return
	}

	if _, err := db.UserRepo().FindByEmail(email); !errs.IsNotFound(err) {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Printf("Warning: failed to hash admin password: %v\n", err)
		return
	}
	admin := models.User{
		Name:         config.GetString(conf, "ADMIN_NAME", "Admin"),
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := db.UserRepo().Add(&admin); err != nil {
		fmt.Printf("Warning: failed to seed admin account: %v\n", err)
		return
	}
	fmt.Printf("Seeded admin account %s\n", email)
}

func startReportScheduler(ctx context.Context, db *database.Database, conf map[string]string) {
	whatsapp, err := services.NewWhatsAppService(conf)
	if err != nil {
		fmt.Println("Report scheduler: WhatsApp channel unavailable")
	}
	email, err := services.NewEmailService(conf)
	if err != nil {
		fmt.Println("Report scheduler: email channel unavailable")
	}

	interval := time.Duration(config.GetInt(conf, "REPORT_CHECK_INTERVAL_MINUTES", 60)) * time.Minute
	services.NewReportScheduler(db.ProjectRepo(), whatsapp, email, interval).Start(ctx)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
