package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	DB       DBConfig
	TGtoken  string
	Storage  string
	Weather  LookupConfig
	Food     LookupConfig
	Redis    RedisConfig
	Schedule ScheduleConfig
	Goals    Goals
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type LookupConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type ScheduleConfig struct {
	ResetSpec string
	Location  *time.Location
}

// Goals — константы формул расчёта норм.
type Goals struct {
	BaseActivityFactor    float64 // без активности
	ActivityFactorPerHour float64 // прибавка за каждый час активности, без потолка
	LoseMultiplier        float64
	GainMultiplier        float64

	WaterPerKg           float64
	WaterPer30Min        float64
	HotWeatherWater      float64
	HotTemperature       float64
	FallbackTemperature  float64
	WorkoutWaterPer30Min float64
	DefaultMET           float64
}

func DefaultGoals() Goals {
	return Goals{
		BaseActivityFactor:    1.2,
		ActivityFactorPerHour: 0.2,
		LoseMultiplier:        0.85,
		GainMultiplier:        1.15,

		WaterPerKg:           30,
		WaterPer30Min:        500,
		HotWeatherWater:      750,
		HotTemperature:       25,
		FallbackTemperature:  20,
		WorkoutWaterPer30Min: 200,
		DefaultMET:           5.0,
	}
}

func Load(log *zap.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system env")
	}

	cfg := &Config{
		TGtoken: getEnv("TG_TOKEN", log),
		Storage: getEnvDefault("STORAGE", StoragePostgres),
		Weather: LookupConfig{
			URL:     getEnvDefault("WEATHER_URL", "http://api.openweathermap.org/data/2.5/weather"),
			APIKey:  getEnvDefault("WEATHER_API_KEY", ""),
			Timeout: parseDuration(getEnvDefault("LOOKUP_TIMEOUT", "10s"), 10*time.Second, log),
		},
		Food: LookupConfig{
			URL:     getEnvDefault("FOOD_URL", "https://world.openfoodfacts.org/cgi/search.pl"),
			Timeout: parseDuration(getEnvDefault("LOOKUP_TIMEOUT", "10s"), 10*time.Second, log),
		},
		Redis: RedisConfig{
			Addr:     getEnvDefault("REDIS_ADDR", ""),
			Password: getEnvDefault("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnvDefault("REDIS_DB", "0"), log),
			TTL:      parseDuration(getEnvDefault("LOOKUP_CACHE_TTL", "1h"), time.Hour, log),
		},
		Schedule: ScheduleConfig{
			ResetSpec: getEnvDefault("RESET_SPEC", "@midnight"),
			Location:  loadLocation(getEnvDefault("TZ_NAME", "Local"), log),
		},
		Goals: DefaultGoals(),
	}

	if cfg.Storage == StoragePostgres {
		cfg.DB = DBConfig{
			Host:     getEnv("DB_HOST", log),
			Port:     getEnv("DB_PORT", log),
			User:     getEnv("DB_USER", log),
			Password: getEnv("DB_PASSWORD", log),
			Name:     getEnv("DB_NAME", log),
			SSLMode:  getEnvDefault("DB_SSLMODE", "disable"),
		}
	}

	if cfg.Weather.APIKey == "" {
		log.Warn("WEATHER_API_KEY не задан, температура будет приниматься за 20°C")
	}

	return cfg
}

func getEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	log.Error("Обязательная переменная окружения не установлена", zap.String("key", key))
	panic("missing required environment variable: " + key)
}

func getEnvDefault(key, fallback string) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration, log *zap.Logger) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		log.Warn("Ошибка парсинга длительности", zap.String("value", s), zap.Error(err))
		return fallback
	}
	return d
}

func parseInt(s string, log *zap.Logger) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Warn("Ошибка парсинга числа", zap.String("value", s), zap.Error(err))
		return 0
	}
	return n
}

func loadLocation(name string, log *zap.Logger) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn("Неизвестная временная зона, используется локальная", zap.String("tz", name), zap.Error(err))
		return time.Local
	}
	return loc
}
