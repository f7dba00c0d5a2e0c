package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"todoapp/internal/flagx"
)

// parseEnv overlays Config values from the environment. If a .env file path
// was supplied via -c/-config it is loaded first (existing process variables
// win, matching godotenv semantics).
//
// Recognized variables:
//
//	ENV              runtime environment (local/dev/prod)
//	ADDRESS          HTTP bind address
//	DATABASE_DSN     PostgreSQL DSN
//	SECRET_KEY       JWT signing secret
//	TOKEN_TTL        access token lifetime, minutes
//	BCRYPT_COST      bcrypt work factor
//	CORS_ORIGINS     comma-separated allowed origins
//	STATIC_DIR       frontend build directory
func parseEnv(config *Config) {
	if envFile := flagx.EnvFileFlags(); envFile != "" {
		_ = godotenv.Load(envFile)
	}

	if v, ok := os.LookupEnv("ENV"); ok {
		config.Env = v
	}
	if v, ok := os.LookupEnv("ADDRESS"); ok {
		config.EndpointAddr = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("SECRET_KEY"); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("TOKEN_TTL"); ok {
		if minutes, err := strconv.Atoi(v); err == nil {
			config.AccessTokenTTL = time.Duration(minutes) * time.Minute
		}
	}
	if v, ok := os.LookupEnv("BCRYPT_COST"); ok {
		if cost, err := strconv.Atoi(v); err == nil {
			config.BcryptCost = cost
		}
	}
	if v, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		config.CORSAllowedOrigins = v
	}
	if v, ok := os.LookupEnv("STATIC_DIR"); ok {
		config.StaticDir = v
	}
}
