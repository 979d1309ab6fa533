package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env             string
	Port            int
	APIPrefix       string
	ShutdownTimeout time.Duration

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Analytics AnalyticsConfig
	Dashboard DashboardConfig
	Reports   ReportsConfig
	Settings  SettingsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AnalyticsConfig tunes aggregation and forecasting thresholds.
type AnalyticsConfig struct {
	TopIndicators        int
	ImprovementThreshold float64
	ForecastWindow       int
	DefaultPeriods       int
}

// DashboardConfig governs dashboard composition.
type DashboardConfig struct {
	TopPerformers     int
	TopPerEntityType  int
	DefaultTimePeriod string
}

// ReportsConfig configures report assembly and export framing.
type ReportsConfig struct {
	DefaultLocale    string
	OrganizationName string
	PDFFontPath      string
}

// SettingsConfig configures the key/value settings store.
type SettingsConfig struct {
	KeyPrefix string
	TTL       time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.ShutdownTimeout = parseDuration(v.GetString("SHUTDOWN_TIMEOUT"), 10*time.Second)

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("ENABLE_REDIS"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{Secret: v.GetString("JWT_SECRET")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Analytics = AnalyticsConfig{
		TopIndicators:        v.GetInt("ANALYTICS_TOP_INDICATORS"),
		ImprovementThreshold: v.GetFloat64("ANALYTICS_IMPROVEMENT_THRESHOLD"),
		ForecastWindow:       v.GetInt("ANALYTICS_FORECAST_WINDOW"),
		DefaultPeriods:       v.GetInt("ANALYTICS_DEFAULT_PERIODS"),
	}

	cfg.Dashboard = DashboardConfig{
		TopPerformers:     v.GetInt("DASHBOARD_TOP_PERFORMERS"),
		TopPerEntityType:  v.GetInt("DASHBOARD_TOP_PER_ENTITY_TYPE"),
		DefaultTimePeriod: v.GetString("DASHBOARD_DEFAULT_TIME_PERIOD"),
	}

	cfg.Reports = ReportsConfig{
		DefaultLocale:    v.GetString("REPORTS_DEFAULT_LOCALE"),
		OrganizationName: v.GetString("REPORTS_ORGANIZATION_NAME"),
		PDFFontPath:      v.GetString("REPORTS_PDF_FONT_PATH"),
	}

	cfg.Settings = SettingsConfig{
		KeyPrefix: v.GetString("SETTINGS_KEY_PREFIX"),
		TTL:       parseDuration(v.GetString("SETTINGS_TTL"), 0),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "classroom_observation")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("ENABLE_REDIS", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ANALYTICS_TOP_INDICATORS", 5)
	v.SetDefault("ANALYTICS_IMPROVEMENT_THRESHOLD", 2.0)
	v.SetDefault("ANALYTICS_FORECAST_WINDOW", 6)
	v.SetDefault("ANALYTICS_DEFAULT_PERIODS", 12)

	v.SetDefault("DASHBOARD_TOP_PERFORMERS", 10)
	v.SetDefault("DASHBOARD_TOP_PER_ENTITY_TYPE", 3)
	v.SetDefault("DASHBOARD_DEFAULT_TIME_PERIOD", "last_30_days")

	v.SetDefault("REPORTS_DEFAULT_LOCALE", "en")
	v.SetDefault("REPORTS_ORGANIZATION_NAME", "Classroom Observation Programme")
	v.SetDefault("REPORTS_PDF_FONT_PATH", "")

	v.SetDefault("SETTINGS_KEY_PREFIX", "settings")
	v.SetDefault("SETTINGS_TTL", "0s")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
