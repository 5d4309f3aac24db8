package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	RateLimit    RateLimitConfig
	Trending     TrendingConfig
	Sendgrid     SendgridConfig
	FeatureFlags FeatureFlagsConfig
	Client       ClientConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ClientSettings is the slice of configuration the gallery CLI reads.
// It deliberately skips the server-side required fields.
type ClientSettings struct {
	LogLevel string `envconfig:"ARTVIA_LOG_LEVEL" default:"info"`
	Client   ClientConfig
}

func LoadClient() (*ClientSettings, error) {
	var cfg ClientSettings
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing client config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ARTVIA_APP_ENV" required:"true"`
	Port         string `envconfig:"ARTVIA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ARTVIA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ARTVIA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ARTVIA_DB_DSN"`
	Driver string `envconfig:"ARTVIA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ARTVIA_DB_HOST"`
	LegacyPort     int    `envconfig:"ARTVIA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ARTVIA_DB_USER"`
	LegacyPassword string `envconfig:"ARTVIA_DB_PASSWORD"`
	LegacyName     string `envconfig:"ARTVIA_DB_NAME"`
	LegacySSLMode  string `envconfig:"ARTVIA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ARTVIA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ARTVIA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ARTVIA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ARTVIA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ARTVIA_REDIS_URL"`
	Address      string        `envconfig:"ARTVIA_REDIS_ADDR"`
	Password     string        `envconfig:"ARTVIA_REDIS_PASSWORD"`
	DB           int           `envconfig:"ARTVIA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ARTVIA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ARTVIA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ARTVIA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ARTVIA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ARTVIA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type RateLimitConfig struct {
	LikeWindow time.Duration `envconfig:"ARTVIA_RATE_LIMIT_LIKE_WINDOW" default:"1m"`
	LikeLimit  int           `envconfig:"ARTVIA_RATE_LIMIT_LIKE_LIMIT" default:"30"`
	ViewWindow time.Duration `envconfig:"ARTVIA_RATE_LIMIT_VIEW_WINDOW" default:"1m"`
	ViewLimit  int           `envconfig:"ARTVIA_RATE_LIMIT_VIEW_LIMIT" default:"120"`
}

type TrendingConfig struct {
	DefaultLimit int           `envconfig:"ARTVIA_TRENDING_DEFAULT_LIMIT" default:"10"`
	MaxLimit     int           `envconfig:"ARTVIA_TRENDING_MAX_LIMIT" default:"50"`
	CacheTTL     time.Duration `envconfig:"ARTVIA_TRENDING_CACHE_TTL" default:"30s"`
}

type SendgridConfig struct {
	APIKey      string `envconfig:"ARTVIA_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"ARTVIA_SENDGRID_FROM_EMAIL"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ARTVIA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ARTVIA_AUTO_MIGRATE" default:"false"`
}

// ClientConfig feeds the gallery CLI: where the API lives and where local
// cart/favorites state is persisted.
type ClientConfig struct {
	APIBaseURL string        `envconfig:"ARTVIA_CLIENT_API_BASE_URL" default:"http://localhost:8080"`
	StateDir   string        `envconfig:"ARTVIA_CLIENT_STATE_DIR"`
	Timeout    time.Duration `envconfig:"ARTVIA_CLIENT_TIMEOUT" default:"10s"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if strings.EqualFold(db.Driver, DBDriverSQLite) {
		// sqlite callers pass a file path (or :memory:) through DSN; nothing
		// to assemble from the legacy parts.
		return fmt.Errorf("%s is required when driver is sqlite", EnvDBDSN)
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
