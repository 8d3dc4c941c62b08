package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Store selection: "mongo", "postgres" or "sqlite".
	StoreDriver  string        `mapstructure:"STORE_DRIVER"`
	DatabaseURL  string        `mapstructure:"DATABASE_URL"`
	DatabaseName string        `mapstructure:"DATABASE_NAME"`
	SQLitePath   string        `mapstructure:"SQLITE_PATH"`
	StoreTimeout time.Duration `mapstructure:"STORE_TIMEOUT"`

	// Redis read cache. An empty address disables it.
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int           `mapstructure:"REDIS_CACHE_DB"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`

	// Calendar.
	Timezone      string `mapstructure:"TIMEZONE"`
	Roster        string `mapstructure:"ROSTER"`
	WeekStart     string `mapstructure:"WEEK_START"`
	GridFirstHour int    `mapstructure:"GRID_FIRST_HOUR"`
	GridLastHour  int    `mapstructure:"GRID_LAST_HOUR"`

	// Rollover.
	RolloverCron          string `mapstructure:"ROLLOVER_CRON"`
	RolloverTransactional bool   `mapstructure:"ROLLOVER_TRANSACTIONAL"`
}

var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	v.SetDefault("STORE_DRIVER", "mongo")
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "keys-calendar")
	v.SetDefault("SQLITE_PATH", "keyscal.db")
	v.SetDefault("STORE_TIMEOUT", "5s")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("CACHE_TTL", "2m")
	v.SetDefault("TIMEZONE", "Europe/Oslo")
	v.SetDefault("ROSTER", "Reen,Kris,Neeko,Zela,Zuju")
	v.SetDefault("WEEK_START", "wednesday")
	v.SetDefault("GRID_FIRST_HOUR", 12)
	v.SetDefault("GRID_LAST_HOUR", 24)
	v.SetDefault("ROLLOVER_CRON", "")
	v.SetDefault("ROLLOVER_TRANSACTIONAL", false)
}

// Load reads config.yaml from "." or "./config" when present, lets environment
// variables override it and falls back to the defaults above.
func Load(v *viper.Viper) (Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig populates AppConfig from the global viper instance.
func LoadConfig() {
	cfg, err := Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

// Validate rejects settings the service cannot start with.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case "mongo", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	if _, err := ParseWeekday(c.WeekStart); err != nil {
		return err
	}
	if c.GridFirstHour < 0 || c.GridLastHour > 24 || c.GridFirstHour > c.GridLastHour {
		return fmt.Errorf("invalid grid hours %d..%d", c.GridFirstHour, c.GridLastHour)
	}
	if len(c.RosterList()) == 0 {
		return fmt.Errorf("ROSTER must name at least one user")
	}
	return nil
}

// RosterList splits the comma separated roster, dropping blanks.
func (c Config) RosterList() []string {
	var out []string
	for _, name := range strings.Split(c.Roster, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// Location resolves the reference timezone. Validate has already checked it.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ParseWeekday maps an English weekday name to time.Weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), strings.TrimSpace(name)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid WEEK_START %q", name)
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
