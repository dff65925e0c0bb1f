// Package config provides functionality for managing configuration options
// for the application using command-line flags, environment variables and
// an optional JSON config file.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the server.
type Options struct {
	// Addr defines the server's listening address (ip:port).
	Addr string

	// DatabaseDSN holds the PostgreSQL connection string.
	DatabaseDSN string

	// JWTSecret signs access tokens. Falls back to a development value
	// when unset, matching the original deployment.
	JWTSecret string

	// AdminEmail and AdminPassword seed the administrator account at
	// startup. Seeding is skipped when either is empty.
	AdminEmail    string
	AdminPassword string

	// SMTP settings for the OTP mailer.
	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
	EmailSender string

	// Config is the path to the JSON config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Addr, "a", "localhost:8000", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses command-line flags, the optional config file and
// environment variables, in that order of increasing precedence. A .env
// file in the working directory is loaded first when present.
func Parse() *Options {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	flag.Parse()

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Addr = serverAddress
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if secret := os.Getenv("SECRET_KEY"); secret != "" {
		options.JWTSecret = secret
	}
	if options.JWTSecret == "" {
		options.JWTSecret = "team_eicu_secret_key_2025"
	}

	if v := os.Getenv("ADMIN_EMAIL"); v != "" {
		options.AdminEmail = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		options.AdminPassword = v
	}

	if v := os.Getenv("SMTP_HOST"); v != "" {
		options.SMTPHost = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			options.SMTPPort = port
		}
	}
	if options.SMTPPort == 0 {
		options.SMTPPort = 587
	}
	if v := os.Getenv("EMAIL_ID"); v != "" {
		options.SMTPUser = v
		options.EmailSender = v
	}
	if v := os.Getenv("EMAIL_APP_PASSWORD"); v != "" {
		options.SMTPPass = v
	}

	return options
}
