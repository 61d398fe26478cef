package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/bancarata/bankportal/internal/logger"
	"github.com/bancarata/bankportal/internal/service/transfer"
)

const (
	defaultListenAddr   = "localhost:8000"
	defaultLoggingLevel = logger.LevelInfo
	defaultEnvironment  = logger.EnvProduction
	defaultBackend      = transfer.BackendCompensating
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the portal will be run
	ListenAddr string

	// Relational database to connect to (postgres://...)
	DatabaseDSN string

	// Document store for newsletter subscriptions and account requests
	// (mongodb://...). Optional: an in-memory store is used when empty.
	MongoURI string

	// Remote banking API base address. Optional: transfer processing and the
	// admin listing are served locally when empty.
	BankingAPIURL string

	// Secret key used to sign admin auth tokens
	SecretKey string

	// Bcrypt hash of the admin password. Optional: with no hash configured
	// any non-empty credentials are accepted (development stub).
	AdminPasswordHash string

	// Transfer mutation backend: "compensating" or "atomic"
	TransferBackend string

	// Environment
	Environment string
}

func NewConfig() *Config {
	return &Config{
		LogLevel:        defaultLoggingLevel,
		ListenAddr:      defaultListenAddr,
		Environment:     defaultEnvironment,
		TransferBackend: defaultBackend,
	}
}

// Load variables from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		c.LoadEnv(func(key string) string {
			return envMap[key]
		})
		return nil
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) {
		return func(value string) {
			if value != "" {
				*o = value
			}
		}
	}

	envMap := map[string]func(string){
		"RUN_ADDRESS":         setString(&c.ListenAddr),
		"DATABASE_URI":        setString(&c.DatabaseDSN),
		"MONGODB_URI":         setString(&c.MongoURI),
		"BANKING_API_URL":     setString(&c.BankingAPIURL),
		"SECRET_KEY":          setString(&c.SecretKey),
		"ADMIN_PASSWORD_HASH": setString(&c.AdminPasswordHash),
		"TRANSFER_BACKEND":    setString(&c.TransferBackend),
		"LOG_LEVEL":           setString(&c.LogLevel),
		"ENVIRONMENT":         setString(&c.Environment),
	}

	for key, parseFn := range envMap {
		parseFn(getenv(key))
	}
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("bankportal", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.MongoURI, "mongo", "m", c.MongoURI, "Document store connection string")
	fs.StringVarP(&c.BankingAPIURL, "banking-api", "b", c.BankingAPIURL, "Remote banking API address")
	fs.StringVarP(&c.SecretKey, "secret-key", "s", c.SecretKey, "Secret key")
	fs.StringVarP(&c.TransferBackend, "transfer-backend", "t", c.TransferBackend, "Transfer backend (compensating, atomic)")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")

	return fs.Parse(args)
}
