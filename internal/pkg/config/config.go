package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
	StoreMemory = "memory"

	JournalSQLite = "sqlite"
	JournalMongo  = "mongo"
	JournalNone   = "none"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET, required"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// TeacherPasswordHash is a bcrypt hash. Teacher login is disabled when empty.
	TeacherPasswordHash string `env:"TEACHER_PASSWORD_HASH"`

	Store   string `env:"STORE,   default=memory"`
	Journal string `env:"JOURNAL, default=sqlite"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Game    GameConfig
	Janitor JanitorConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=compound_school"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type GameConfig struct {
	SessionTTL  time.Duration `env:"SESSION_TTL,  default=720h"`
	Workers     int           `env:"GAME_WORKERS, default=8"`
	RollLead    time.Duration `env:"ROLL_LEAD,    default=1s"`
	StepDelay   time.Duration `env:"STEP_DELAY,   default=300ms"`
	GoalDelay   time.Duration `env:"GOAL_DELAY,   default=500ms"`
	RevealDelay time.Duration `env:"REVEAL_DELAY, default=5s"`
	ContentFile string        `env:"CONTENT_FILE"`
	JournalPath string        `env:"JOURNAL_SQLITE_PATH, default=journal.db"`

	// CertificateFont is a TTF/OTF with Hangul glyphs for certificate names.
	CertificateFont string `env:"CERTIFICATE_FONT"`
}

type JanitorConfig struct {
	Schedule string        `env:"JANITOR_SCHEDULE, default=@every 1m"`
	IdleTTL  time.Duration `env:"SESSION_IDLE_TTL, default=30m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads and validates configuration from l.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction reports whether logs should be emitted as JSON.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	switch c.Store {
	case StoreRedis, StoreMongo, StoreMemory:
	default:
		return fmt.Errorf("unknown STORE %q", c.Store)
	}
	switch c.Journal {
	case JournalSQLite, JournalMongo, JournalNone:
	default:
		return fmt.Errorf("unknown JOURNAL %q", c.Journal)
	}
	if c.Game.Workers <= 0 {
		return errors.New("GAME_WORKERS must be positive")
	}
	for name, d := range map[string]time.Duration{
		"ROLL_LEAD":    c.Game.RollLead,
		"STEP_DELAY":   c.Game.StepDelay,
		"GOAL_DELAY":   c.Game.GoalDelay,
		"REVEAL_DELAY": c.Game.RevealDelay,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	return nil
}
