package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppPort string `mapstructure:"APP_PORT"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     int    `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBScheme   string `mapstructure:"DB_SCHEME"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	// --- JWT ---
	// Алгоритм фиксируется на деплой: RS256 (пара ключей base64-PEM)
	// или HS256 (общий секрет).
	JWTAlgorithm  string `mapstructure:"JWT_ALGORITHM"`
	JWTPrivateKey string `mapstructure:"JWT_PRIVATE_KEY"`
	JWTPublicKey  string `mapstructure:"JWT_PUBLIC_KEY"`
	JWTSecret     string `mapstructure:"JWT_SECRET"`
	AuthIssuer    string `mapstructure:"AUTH_ISSUER"`

	AccessTokenExpiresIn  int `mapstructure:"ACCESS_TOKEN_EXPIRES_IN"`  // минуты
	RefreshTokenExpiresIn int `mapstructure:"REFRESH_TOKEN_EXPIRES_IN"` // дни

	ClientOrigin string `mapstructure:"CLIENT_ORIGIN"`
}

// String реализует интерфейс Stringer
func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  AppPort: %s\n", c.AppPort))
	sb.WriteString(fmt.Sprintf("  DBHost: %s\n", c.DBHost))
	sb.WriteString(fmt.Sprintf("  DBPort: %d\n", c.DBPort))
	sb.WriteString(fmt.Sprintf("  DBUser: %s\n", c.DBUser))
	sb.WriteString(fmt.Sprintf("  DBName: %s\n", c.DBName))
	sb.WriteString(fmt.Sprintf("  DBScheme: %s\n", c.DBScheme))

	// пароли и ключи маскируем
	if c.DBPassword != "" {
		sb.WriteString("  DBPassword: ********\n")
	} else {
		sb.WriteString("  DBPassword: (empty)\n")
	}

	sb.WriteString(fmt.Sprintf("  RedisAddr: %s\n", c.RedisAddr))
	sb.WriteString(fmt.Sprintf("  RedisDB: %d\n", c.RedisDB))
	if c.RedisPassword != "" {
		sb.WriteString("  RedisPassword: ********\n")
	} else {
		sb.WriteString("  RedisPassword: (empty)\n")
	}

	sb.WriteString(fmt.Sprintf("  JWTAlgorithm: %s\n", c.JWTAlgorithm))
	sb.WriteString(fmt.Sprintf("  AuthIssuer: %s\n", c.AuthIssuer))
	if c.JWTPrivateKey != "" {
		sb.WriteString("  JWTPrivateKey: ********\n")
	}
	if c.JWTSecret != "" {
		sb.WriteString("  JWTSecret: ********\n")
	}
	sb.WriteString(fmt.Sprintf("  AccessTokenExpiresIn: %dm\n", c.AccessTokenExpiresIn))
	sb.WriteString(fmt.Sprintf("  RefreshTokenExpiresIn: %dd\n", c.RefreshTokenExpiresIn))
	sb.WriteString(fmt.Sprintf("  ClientOrigin: %s\n", c.ClientOrigin))

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
		"REDIS_ADDR", "REDIS_DB", "REDIS_PASSWORD",
		"JWT_ALGORITHM", "JWT_PRIVATE_KEY", "JWT_PUBLIC_KEY", "JWT_SECRET", "AUTH_ISSUER",
		"ACCESS_TOKEN_EXPIRES_IN", "REFRESH_TOKEN_EXPIRES_IN",
		"CLIENT_ORIGIN",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	v.SetDefault("DB_SCHEME", "myauth")
	v.SetDefault("JWT_ALGORITHM", "RS256")
	v.SetDefault("ACCESS_TOKEN_EXPIRES_IN", 15)
	v.SetDefault("REFRESH_TOKEN_EXPIRES_IN", 7)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

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

// TTL токенов: access — минуты, refresh — дни (как в окружении)
func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.AccessTokenExpiresIn) * time.Minute
}

func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTokenExpiresIn) * 24 * time.Hour
}
