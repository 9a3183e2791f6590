package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Store driver names accepted by STORE_DRIVER.
const (
	StoreDriverFile   = "file"
	StoreDriverRedis  = "redis"
	StoreDriverSQLite = "sqlite"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Store  StoreConfig
	Redis  RedisConfig
	Card   CardConfig
	Export ExportConfig
	CORS   CORSConfig
	Log    LogConfig
}

// StoreConfig selects and tunes the card store backend.
type StoreConfig struct {
	Driver     string
	DataDir    string
	Namespace  string
	SQLitePath string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CardConfig carries the static institution text printed on every card and
// the validity window applied to the "valid until" date.
type CardConfig struct {
	InstitutionName    string
	InstitutionTagline string
	InstitutionAddress string
	InstitutionPhone   string
	FilePrefix         string
	Validity           time.Duration
}

// ExportConfig controls where rendered exports are archived.
type ExportConfig struct {
	StorageDir string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
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
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Store = StoreConfig{
		Driver:     v.GetString("STORE_DRIVER"),
		DataDir:    v.GetString("STORE_DATA_DIR"),
		Namespace:  v.GetString("STORE_NAMESPACE"),
		SQLitePath: v.GetString("SQLITE_PATH"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	validityDays := v.GetInt("CARD_VALIDITY_DAYS")
	if validityDays <= 0 {
		validityDays = 365
	}
	cfg.Card = CardConfig{
		InstitutionName:    v.GetString("CARD_INSTITUTION_NAME"),
		InstitutionTagline: v.GetString("CARD_INSTITUTION_TAGLINE"),
		InstitutionAddress: v.GetString("CARD_INSTITUTION_ADDRESS"),
		InstitutionPhone:   v.GetString("CARD_INSTITUTION_PHONE"),
		FilePrefix:         v.GetString("CARD_FILE_PREFIX"),
		Validity:           time.Duration(validityDays) * 24 * time.Hour,
	}

	cfg.Export = ExportConfig{
		StorageDir: v.GetString("EXPORT_STORAGE_DIR"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("STORE_DRIVER", StoreDriverFile)
	v.SetDefault("STORE_DATA_DIR", "./data")
	v.SetDefault("STORE_NAMESPACE", "student_id_cards")
	v.SetDefault("SQLITE_PATH", "./data/idcards.db")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("CARD_INSTITUTION_NAME", "UNITY SCHOOL")
	v.SetDefault("CARD_INSTITUTION_TAGLINE", "ST. XAVIER'S COLLEGE")
	v.SetDefault("CARD_INSTITUTION_ADDRESS", "123 Education Lane, Knowledge City")
	v.SetDefault("CARD_INSTITUTION_PHONE", "(123) 456-7890")
	v.SetDefault("CARD_FILE_PREFIX", "unity-school")
	v.SetDefault("CARD_VALIDITY_DAYS", 365)

	v.SetDefault("EXPORT_STORAGE_DIR", "./exports")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
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
