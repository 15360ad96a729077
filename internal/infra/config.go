package infra

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config — корневая структура конфигурации консоли.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Agents    AgentsConfig    `mapstructure:"agents"`
	Knowledge KnowledgeConfig `mapstructure:"knowledge"`
	Console   ConsoleConfig   `mapstructure:"console"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Logger    LoggerConfig    `mapstructure:"logger"`
}

// ServerConfig описывает настройки HTTP-сервера.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig описывает подключение к PostgreSQL для экспорта аудита.
// Пустой URL выключает экспорт: журнал живет только в памяти процесса.
type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	MaxConns int    `mapstructure:"max_conns"`
	MinConns int    `mapstructure:"min_conns"`
}

// RedisConfig описывает подключение к Redis (Pub/Sub фид аудита).
// Пустой Addr выключает фид.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AgentsConfig — доступ к агентской платформе и маршрутные ключи агентов.
type AgentsConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Mock     bool          `mapstructure:"mock"` // демо-режим без внешней платформы

	ChatbotID       string `mapstructure:"chatbot_id"`
	RiskID          string `mapstructure:"risk_id"`
	PolicyDraftID   string `mapstructure:"policy_draft_id"`
	ClaimFraudID    string `mapstructure:"claim_fraud_id"`
	ClaimDecisionID string `mapstructure:"claim_decision_id"`
}

// KnowledgeConfig — ингестия документов в базу знаний чат-бота.
type KnowledgeConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	BaseID   string        `mapstructure:"base_id"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Attempts uint          `mapstructure:"attempts"`
	Delay    time.Duration `mapstructure:"delay"`
}

// ConsoleConfig — поведение операторской консоли.
type ConsoleConfig struct {
	Operator  string        `mapstructure:"operator"`
	NotifyTTL time.Duration `mapstructure:"notify_ttl"`
	SeedDemo  bool          `mapstructure:"seed_demo"` // стартовое наполнение журнала аудита
}

// EngineConfig — настройки асинхронного экспорта аудита.
type EngineConfig struct {
	AuditBufferSize    int           `mapstructure:"audit_buffer_size"`
	AuditBatchSize     int           `mapstructure:"audit_batch_size"`
	AuditFlushInterval time.Duration `mapstructure:"audit_flush_interval"`
}

// LoggerConfig настраивает поведение zap логгера.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// LoadConfig инициализирует конфигурацию, объединяя значения из файла и ENV.
func LoadConfig() (*Config, error) {
	v := viper.New()

	// 1. Настройка поиска файла
	v.SetConfigName("config")    // имя файла без расширения
	v.SetConfigType("yaml")      // формат
	v.AddConfigPath(".")         // ищем в корне
	v.AddConfigPath("./configs") // и в папке с конфигами

	// 2. Настройка переменных окружения (ENV)
	// Позволяет перекрывать конфиг: SERVER_PORT=9000 перекроет server.port
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 3. Установка дефолтных значений
	setDefaults(v)

	// 4. Чтение файла
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Если файла нет — работаем на ENV и дефолтах
	}

	// 5. Маппинг в структуру
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second) // вызовы агентов долгие

	v.SetDefault("database.max_conns", 15)
	v.SetDefault("database.min_conns", 5)

	v.SetDefault("agents.endpoint", "http://localhost:9090/v1/agents/invoke")
	v.SetDefault("agents.timeout", 90*time.Second)
	v.SetDefault("agents.mock", false)
	v.SetDefault("agents.chatbot_id", "6996e9c70de62bcad95a8abc")
	v.SetDefault("agents.risk_id", "6996e9adf908c28cb54245a1")
	v.SetDefault("agents.policy_draft_id", "6996e9ad229adca5a90509a0")
	v.SetDefault("agents.claim_fraud_id", "6996e9ae12d3d03d3b00b756")
	v.SetDefault("agents.claim_decision_id", "6996e9ae744b96afe6ba6ac8")

	v.SetDefault("knowledge.endpoint", "http://localhost:9090/v1/knowledge/train")
	v.SetDefault("knowledge.base_id", "6996e9543dc9e9e52824051f")
	v.SetDefault("knowledge.timeout", 60*time.Second)
	v.SetDefault("knowledge.attempts", 3)
	v.SetDefault("knowledge.delay", 1*time.Second)

	v.SetDefault("console.operator", "Admin")
	v.SetDefault("console.notify_ttl", 4*time.Second)
	v.SetDefault("console.seed_demo", true)

	v.SetDefault("engine.audit_buffer_size", 1000)
	v.SetDefault("engine.audit_batch_size", 100)
	v.SetDefault("engine.audit_flush_interval", 500*time.Millisecond)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
}
