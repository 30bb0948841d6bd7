package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvProduction     = "production"
	defaultJWTSecret  = "dev-secret-change-me"
	DefaultMinAmount  = 10000
	defaultSQLitePath = "data/loan_app.db"
)

type Config struct {
	AppEnv  string
	AppPort string

	DBDriver   string
	SQLitePath string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	JWTSecret string
	JWTTTL    time.Duration

	CORSOrigins []string

	AdminSeedEmail    string
	AdminSeedPassword string

	MinLoanAmount int64
	LogLevel      string

	RecentApplications int
	RecentEvents       int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

// Load reads the environment, seeding it from .env when one exists.
func Load() *Config {
	_ = godotenv.Load()

	c := &Config{
		AppEnv:     getenv("APP_ENV", "development"),
		AppPort:    getenv("APP_PORT", "4000"),
		DBDriver:   strings.ToLower(getenv("DB_DRIVER", "sqlite")),
		SQLitePath: getenv("SQLITE_PATH", defaultSQLitePath),
		MySQLHost:  getenv("MYSQL_HOST", "mysql"),
		MySQLPort:  getenv("MYSQL_PORT", "3306"),
		MySQLDB:    getenv("MYSQL_DB", "loans"),
		MySQLUser:  getenv("MYSQL_USER", "loans"),
		MySQLPass:  getenv("MYSQL_PASS", "loans"),

		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisDB:      getint("REDIS_DB", 0),
		IdempTTLSecs: getint("IDEMPOTENCY_TTL_SECONDS", 300),

		JWTSecret: getenv("JWT_SECRET", defaultJWTSecret),
		JWTTTL:    2 * time.Hour,

		AdminSeedEmail:    os.Getenv("ADMIN_SEED_EMAIL"),
		AdminSeedPassword: os.Getenv("ADMIN_SEED_PASSWORD"),

		MinLoanAmount: DefaultMinAmount,
		LogLevel:      getenv("LOG_LEVEL", "info"),

		RecentApplications: getint("OVERVIEW_RECENT_APPLICATIONS", 5),
		RecentEvents:       getint("OVERVIEW_RECENT_EVENTS", 10),
	}
	if v := os.Getenv("JWT_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.JWTTTL = d
		}
	}
	if v := os.Getenv("MIN_LOAN_AMOUNT"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.MinLoanAmount = n
		}
	}
	c.CORSOrigins = parseOrigins(os.Getenv("CORS_ORIGINS"), c.IsProduction())
	return c
}

func parseOrigins(raw string, production bool) []string {
	if strings.TrimSpace(raw) == "" {
		out := []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
		if !production {
			out = append(out, "null")
		}
		return out
	}
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (c *Config) IsProduction() bool { return c.AppEnv == EnvProduction }

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (sqlite|mysql)", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	if c.IsProduction() && c.JWTSecret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.MinLoanAmount <= 0 {
		return errors.New("MIN_LOAN_AMOUNT must be positive")
	}
	if c.RecentApplications <= 0 || c.RecentEvents <= 0 {
		return errors.New("overview limits must be positive")
	}
	if (c.AdminSeedEmail == "") != (c.AdminSeedPassword == "") {
		return errors.New("ADMIN_SEED_EMAIL and ADMIN_SEED_PASSWORD must be set together")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempTTLSecs) * time.Second
}
