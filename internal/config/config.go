package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server    ServerConfig    // Настройки HTTP сервера
	Database  DatabaseConfig  // Настройки подключения к БД
	JWT       JWTConfig       // Настройки JWT авторизации
	Roster    RosterConfig    // Настройки реестра сотрудников
	Kafka     KafkaConfig     // Настройки публикации событий
	RateLimit RateLimitConfig // Ограничение частоты запросов
	Log       LogConfig       // Настройки логирования
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port string `envconfig:"SERVER_PORT" default:"8080"`
	Host string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"wfm_roster"`
	Password string `envconfig:"DB_PASSWORD" default:"wfm_roster_pass"`
	Name     string `envconfig:"DB_NAME" default:"wfm_roster"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`
	// AutoMigrate применяет встроенные миграции при старте
	AutoMigrate bool `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

// JWTConfig содержит настройки JWT авторизации
type JWTConfig struct {
	Secret          string `envconfig:"JWT_SECRET" required:"true"`
	ExpirationHours int    `envconfig:"JWT_EXPIRATION_HOURS" default:"24"`
}

// RosterConfig содержит настройки реестра и мастера добавления
type RosterConfig struct {
	// FixturesFile YAML файл с командами и сотрудниками для первичного заполнения
	FixturesFile string `envconfig:"ROSTER_FIXTURES_FILE" default:""`
	// WizardSubmitDelay имитация задержки создания сотрудника
	WizardSubmitDelay time.Duration `envconfig:"ROSTER_WIZARD_SUBMIT_DELAY" default:"1500ms"`
	// Location часовой пояс для дат по умолчанию и имени файла экспорта
	Location string `envconfig:"ROSTER_LOCATION" default:"Europe/Moscow"`
}

// KafkaConfig содержит настройки публикации событий реестра
type KafkaConfig struct {
	Enabled bool     `envconfig:"KAFKA_ENABLED" default:"false"`
	Brokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	Topic   string   `envconfig:"KAFKA_TOPIC" default:"roster.employees"`
	Source  string   `envconfig:"KAFKA_SOURCE" default:"wfm-roster"`
}

// RateLimitConfig содержит настройки ограничения частоты запросов
type RateLimitConfig struct {
	Enabled bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	// Rate формат ulule/limiter, например "100-M"
	Rate string `envconfig:"RATE_LIMIT" default:"300-M"`
}

// LogConfig содержит настройки логирования
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Pretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// GetExpiration возвращает срок действия токена как time.Duration
func (j JWTConfig) GetExpiration() time.Duration {
	return time.Duration(j.ExpirationHours) * time.Hour
}

// DSN возвращает строку подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoadLocation возвращает часовой пояс реестра, при ошибке UTC
func (r RosterConfig) LoadLocation() *time.Location {
	loc, err := time.LoadLocation(strings.TrimSpace(r.Location))
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load читает конфигурацию из .env (если есть) и переменных окружения
func Load() (*Config, error) {
	// .env необязателен, переменные окружения имеют приоритет
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadSection заполняет отдельную секцию конфигурации, например для CLI,
// которому не нужны JWT и HTTP настройки
func LoadSection(section any) error {
	_ = godotenv.Load()

	if err := envconfig.Process("", section); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}
