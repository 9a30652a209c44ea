package utils

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Detector DetectorConfig
	Location LocationConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Rate limit window for lifecycle endpoints.
	RateLimit       int
	RateLimitWindow time.Duration
}

type SessionConfig struct {
	ExpiryHours int
}

type DetectorConfig struct {
	Interval  time.Duration
	AutoStart bool
}

type LocationConfig struct {
	// Semicolon separated zones: "name,lat,lng,radius_m;name,lat,lng,radius_m"
	Zones string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("RATE_LIMIT", 30)
	viper.SetDefault("RATE_LIMIT_WINDOW", "1m")
	viper.SetDefault("DETECTOR_INTERVAL", "60s")
	viper.SetDefault("DETECTOR_AUTO_START", true)
	viper.SetDefault("LOCATION_ZONES", "main-library,39.9042,116.4074,100;branch-library,39.9142,116.4174,50")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:            viper.GetString("REDIS_ADDR"),
			Password:        viper.GetString("REDIS_PASSWORD"),
			DB:              viper.GetInt("REDIS_DB"),
			RateLimit:       viper.GetInt("RATE_LIMIT"),
			RateLimitWindow: viper.GetDuration("RATE_LIMIT_WINDOW"),
		},
		Session: SessionConfig{
			ExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
		},
		Detector: DetectorConfig{
			Interval:  viper.GetDuration("DETECTOR_INTERVAL"),
			AutoStart: viper.GetBool("DETECTOR_AUTO_START"),
		},
		Location: LocationConfig{
			Zones: viper.GetString("LOCATION_ZONES"),
		},
	}

	return config, nil
}
