package helper

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// DatabaseConfiguration holds the connection settings for Postgres
type DatabaseConfiguration struct {
	Host     string
	Port     string
	Database string
	Username string
	Password string
	Schema   string
	SSLMode  string
}

// Database wraps a sql.DB connection with a name and a logger
type Database struct {
	Name     string
	Logger   *slog.Logger
	Instance *sql.DB
}

// LoadEnv loads environment variables from the given .env files.
// Missing files are ignored so production environments can rely on real env vars.
func LoadEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return NewError("load env file", err)
		}
	}
	return nil
}

// NewDatabaseConfiguration reads the database configuration from the environment.
// Host, port, database, username and password are required.
func NewDatabaseConfiguration() (*DatabaseConfiguration, error) {
	config := &DatabaseConfiguration{
		Host:     os.Getenv("COREFER_DB_HOST"),
		Port:     os.Getenv("COREFER_DB_PORT"),
		Database: os.Getenv("COREFER_DB_DATABASE"),
		Username: os.Getenv("COREFER_DB_USERNAME"),
		Password: os.Getenv("COREFER_DB_PASSWORD"),
		Schema:   os.Getenv("COREFER_DB_SCHEMA"),
		SSLMode:  os.Getenv("COREFER_DB_SSLMODE"),
	}

	if config.Host == "" || config.Port == "" || config.Database == "" || config.Username == "" || config.Password == "" {
		return nil, NewError("database configuration", fmt.Errorf("COREFER_DB_HOST, COREFER_DB_PORT, COREFER_DB_DATABASE, COREFER_DB_USERNAME and COREFER_DB_PASSWORD must be set"))
	}
	if config.Schema == "" {
		config.Schema = "public"
	}
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}

	return config, nil
}

// DSN returns the lib/pq connection string
func (c *DatabaseConfiguration) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode, c.Schema,
	)
}

// NewDatabase opens and pings a Postgres connection.
// It panics if the database cannot be reached.
func NewDatabase(name string, config *DatabaseConfiguration, logger *slog.Logger) *Database {
	db, err := sql.Open("postgres", config.DSN())
	if err != nil {
		log.Panicf("error opening database %s: %v", name, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Panicf("error connecting to database %s: %v", name, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	logger.Info("Connected to database", slog.String("name", name), slog.String("host", config.Host))

	return &Database{
		Name:     name,
		Logger:   logger,
		Instance: db,
	}
}

// NewTestDatabase opens a database with a discarding logger
func NewTestDatabase(config *DatabaseConfiguration) *Database {
	logger := NewLogger(os.Stdout, slog.LevelWarn)
	return NewDatabase("corefer_test", config, logger)
}

// Close closes the underlying connection pool
func (d *Database) Close() error {
	return d.Instance.Close()
}
