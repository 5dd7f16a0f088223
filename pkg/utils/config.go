package utils

import (
	"errors"
	"io/fs"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Booking  BookingConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host           string
	Port           string
	Name           string
	User           string
	Password       string
	MaxConns       int32
	MigrateOnStart bool
}

// RedisConfig is optional; an empty Addr means booking locks stay in-process.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type BookingConfig struct {
	SeatsPerRow        int
	DefaultTicketPrice decimal.Decimal
	LockTTL            time.Duration // Redis key expiry; a live holder extends it every LockTTL/3
	LockWait           time.Duration
	MaxRetries         int
	LatestMovies       int
}

func LoadConfig() (*Config, error) {
	return LoadConfigFrom(".env")
}

// LoadConfigFrom reads the given .env file, letting real environment
// variables override it. A missing file is not an error.
func LoadConfigFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "movie-booking")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("MIGRATE_ON_START", true)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SEATS_PER_ROW", 8)
	v.SetDefault("DEFAULT_TICKET_PRICE", "200")
	v.SetDefault("BOOKING_LOCK_TTL", "10s")
	v.SetDefault("BOOKING_LOCK_WAIT", "5s")
	v.SetDefault("BOOKING_MAX_RETRIES", 3)
	v.SetDefault("LATEST_MOVIES", 6)

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, err
		}
	}

	price, err := decimal.NewFromString(v.GetString("DEFAULT_TICKET_PRICE"))
	if err != nil {
		return nil, err
	}

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:           v.GetString("DB_HOST"),
			Port:           v.GetString("DB_PORT"),
			Name:           v.GetString("DB_NAME"),
			User:           v.GetString("DB_USER"),
			Password:       v.GetString("DB_PASS"),
			MaxConns:       v.GetInt32("DB_MAX_CONNS"),
			MigrateOnStart: v.GetBool("MIGRATE_ON_START"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Booking: BookingConfig{
			SeatsPerRow:        v.GetInt("SEATS_PER_ROW"),
			DefaultTicketPrice: price,
			LockTTL:            v.GetDuration("BOOKING_LOCK_TTL"),
			LockWait:           v.GetDuration("BOOKING_LOCK_WAIT"),
			MaxRetries:         v.GetInt("BOOKING_MAX_RETRIES"),
			LatestMovies:       v.GetInt("LATEST_MOVIES"),
		},
	}

	return config, nil
}
