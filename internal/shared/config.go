package shared

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries everything the binaries need from the environment.
// A .env file in the working directory is loaded first when present,
// real environment variables win.
type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	MySQLDSN string

	RedisAddr string
	RedisPass string
	RedisDB   int

	MailerBase string
	MailerKey  string
	MailerFrom string
	MailerRPS  int

	JWTSecret   string
	TokenTTLMin int

	CacheTTLSec int

	SeedFile    string
	SeedWorkers int
}

func Load() Config {
	_ = godotenv.Load()
	return Config{
		AppEnv:      env("APP_ENV", "dev"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9090"),

		MySQLDSN: env("MYSQL_DSN", "root:root@tcp(127.0.0.1:3306)/azurea?parseTime=true"),

		RedisAddr: env("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPass: env("REDIS_PASS", ""),
		RedisDB:   atoi(env("REDIS_DB", "0"), 0),

		MailerBase: env("MAILER_BASE_URL", ""),
		MailerKey:  env("MAILER_API_KEY", ""),
		MailerFrom: env("MAILER_FROM", "no-reply@azurea.example"),
		MailerRPS:  atoi(env("MAILER_RPS", "5"), 5),

		JWTSecret:   env("JWT_SECRET", "dev-secret-change-me"),
		TokenTTLMin: atoi(env("TOKEN_TTL_MIN", "720"), 720),

		CacheTTLSec: atoi(env("CACHE_TTL_SEC", "60"), 60),

		SeedFile:    env("SEED_FILE", "seed/properties.json"),
		SeedWorkers: atoi(env("SEED_WORKERS", "4"), 4),
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
