package db

import (
	"command-api/confs"
	"command-api/entities"
	"fmt"
	"log"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the database selected by cfg.Store and migrates the schema.
func Connect(cfg confs.Config) (Database, error) {
	switch cfg.Store {
	case confs.StorePostgres:
		dsn, err := postgresDSN(cfg)
		if err != nil {
			return nil, err
		}
		return open(postgres.Open(dsn), cfg.DBDebug, 100)
	case confs.StoreSQLite:
		log.Printf("Opening sqlite database at %s...", cfg.SQLitePath)
		return OpenSQLite(cfg.SQLitePath, cfg.DBDebug)
	default:
		return nil, fmt.Errorf("store %q has no database", cfg.Store)
	}
}

// OpenSQLite opens (or creates) a sqlite database at path. ":memory:" gives a
// private in-memory database.
func OpenSQLite(path string, debug bool) (Database, error) {
	// sqlite allows a single writer; an in-memory database also only lives
	// as long as its one connection.
	return open(sqlite.Open(path), debug, 1)
}

func postgresDSN(cfg confs.Config) (string, error) {
	// Check if DB_URL is provided (connection string)
	if cfg.DBURL != "" {
		dsn := cfg.DBURL
		if !strings.Contains(dsn, "sslmode=") {
			if strings.Contains(dsn, "?") {
				dsn += "&sslmode=require"
			} else {
				dsn += "?sslmode=require"
			}
		}
		log.Println("Connecting to database using DB_URL...")
		return dsn, nil
	}

	if cfg.DBHost == "" || cfg.DBPort == "" || cfg.DBUser == "" || cfg.DBPassword == "" || cfg.DBName == "" {
		return "", fmt.Errorf("missing required database configuration: DB_URL or (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
	}

	sslMode := "require"
	if cfg.DBHost == "localhost" || cfg.DBHost == "127.0.0.1" {
		sslMode = "disable"
	}

	log.Printf("Connecting to database using individual parameters (sslmode=%s)...", sslMode)
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, sslMode), nil
}

var migrate = func(db *gorm.DB) error {
	return db.AutoMigrate(&entities.Command{})
}

func open(dialector gorm.Dialector, debug bool, maxOpen int) (Database, error) {
	level := logger.Warn
	if debug {
		level = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:      logger.Default.LogMode(level),
		PrepareStmt: maxOpen > 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(min(10, maxOpen))
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(0)

	if err := migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Println("Database connection established successfully!")
	return &GormDatabase{DB: db}, nil
}
