package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv  string `mapstructure:"APP_ENV"`
	AppPort string `mapstructure:"APP_PORT"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     int    `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBScheme   string `mapstructure:"DB_SCHEME"`

	// --- S3 ---
	S3Endpoint  string `mapstructure:"S3_ENDPOINT"`
	S3Region    string `mapstructure:"S3_REGION"`
	S3Bucket    string `mapstructure:"S3_BUCKET"`
	S3AccessKey string `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey string `mapstructure:"S3_SECRET_KEY"`
	S3UseSSL    bool   `mapstructure:"S3_USE_SSL"`
	S3PathStyle bool   `mapstructure:"S3_PATH_STYLE"`

	// --- Redis ---
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	// --- Admin gate ---
	// AdminMode выбирает ровно одну стратегию: "token" (cookie) или "ip" (allowlist).
	AdminMode     string `mapstructure:"ADMIN_MODE"`
	AdminToken    string `mapstructure:"ADMIN_TOKEN"`
	AdminAllowIPs string `mapstructure:"ADMIN_ALLOW_IPS"`

	// TTL кеша списков, секунд
	CacheListTTL int `mapstructure:"CACHE_LIST_TTL"`
}

// String реализует интерфейс Stringer
func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  AppEnv: %s\n", c.AppEnv))
	sb.WriteString(fmt.Sprintf("  AppPort: %s\n", c.AppPort))
	sb.WriteString(fmt.Sprintf("  DBHost: %s\n", c.DBHost))
	sb.WriteString(fmt.Sprintf("  DBPort: %d\n", c.DBPort))
	sb.WriteString(fmt.Sprintf("  DBUser: %s\n", c.DBUser))
	sb.WriteString(fmt.Sprintf("  DBName: %s\n", c.DBName))
	sb.WriteString(fmt.Sprintf("  DBScheme: %s\n", c.DBScheme))

	// пароли и секреты маскируем
	if c.DBPassword != "" {
		sb.WriteString("  DBPassword: ********\n")
	} else {
		sb.WriteString("  DBPassword: (empty)\n")
	}

	sb.WriteString(fmt.Sprintf("  S3Endpoint: %s\n", c.S3Endpoint))
	sb.WriteString(fmt.Sprintf("  S3Region: %s\n", c.S3Region))
	sb.WriteString(fmt.Sprintf("  S3Bucket: %s\n", c.S3Bucket))
	if c.S3AccessKey != "" {
		sb.WriteString("  S3AccessKey: ********\n")
	} else {
		sb.WriteString("  S3AccessKey: (empty)\n")
	}
	if c.S3SecretKey != "" {
		sb.WriteString("  S3SecretKey: ********\n")
	} else {
		sb.WriteString("  S3SecretKey: (empty)\n")
	}
	sb.WriteString(fmt.Sprintf("  S3UseSSL: %v\n", c.S3UseSSL))
	sb.WriteString(fmt.Sprintf("  S3PathStyle: %v\n", c.S3PathStyle))

	sb.WriteString(fmt.Sprintf("  RedisAddr: %s\n", c.RedisAddr))
	sb.WriteString(fmt.Sprintf("  RedisDB: %d\n", c.RedisDB))

	sb.WriteString(fmt.Sprintf("  AdminMode: %s\n", c.AdminMode))
	if c.AdminToken != "" {
		sb.WriteString("  AdminToken: ********\n")
	} else {
		sb.WriteString("  AdminToken: (empty)\n")
	}
	sb.WriteString(fmt.Sprintf("  AdminAllowIPs: %s\n", c.AdminAllowIPs))
	sb.WriteString(fmt.Sprintf("  CacheListTTL: %d\n", c.CacheListTTL))

	return sb.String()
}

// LoadFromEnv загружает конфигурацию из переменных окружения
func LoadFromEnv() (*Config, error) {
	// Загружаем .env только для локальной разработки
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, errors.New("failed to load .env")
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	// Регистрируем интересующие ключи окружения
	keys := []string{
		"APP_ENV", "APP_PORT",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SCHEME",
		"S3_ENDPOINT", "S3_REGION", "S3_BUCKET", "S3_ACCESS_KEY", "S3_SECRET_KEY",
		"S3_USE_SSL", "S3_PATH_STYLE",
		"REDIS_ADDR", "REDIS_DB", "REDIS_PASSWORD",
		"ADMIN_MODE", "ADMIN_TOKEN", "ADMIN_ALLOW_IPS",
		"CACHE_LIST_TTL",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Схема зашита в миграции, другое значение сломает каждый запрос
	if cfg.DBScheme == "" {
		cfg.DBScheme = "ndms"
	}
	if cfg.DBScheme != "ndms" {
		return nil, fmt.Errorf("unsupported DB_SCHEME %q (migrations create schema ndms)", cfg.DBScheme)
	}
	if cfg.AdminMode == "" {
		cfg.AdminMode = "token"
	}
	if cfg.AdminMode != "token" && cfg.AdminMode != "ip" {
		return nil, fmt.Errorf("unknown ADMIN_MODE %q (want token or ip)", cfg.AdminMode)
	}
	if cfg.CacheListTTL <= 0 {
		cfg.CacheListTTL = 60
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
