package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port          string `yaml:"port"`
	SessionSecret string `yaml:"session_secret"`
	// Seconds allowed for in-flight requests on shutdown and for each
	// post-commit notification or event publish.
	ShutdownTimeout int                 `yaml:"shutdown_timeout_seconds"`
	NotifyTimeout   int                 `yaml:"notify_timeout_seconds"`
	DB              DBConfig            `yaml:"db"`
	Log             LogConfig           `yaml:"log"`
	AfricaTalking   AfricaTalkingConfig `yaml:"africastalking"`
	Email           EmailConfig         `yaml:"email"`
	RabbitMQ        RabbitMQConfig      `yaml:"rabbitmq"`
}

type DBConfig struct {
	Driver     string `yaml:"driver"` // postgres or sqlite
	Host       string `yaml:"host"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Name       string `yaml:"name"`
	Port       string `yaml:"port"`
	TimeZone   string `yaml:"timezone"`
	SQLitePath string `yaml:"sqlite_path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
	File   string `yaml:"file"`
}

type AfricaTalkingConfig struct {
	Username string `yaml:"username"`
	APIKey   string `yaml:"api_key"`
	SMSURL   string `yaml:"sms_url"`
	SenderID string `yaml:"sender_id"`
}

type EmailConfig struct {
	AWSAccessKeyID     string `yaml:"aws_access_key_id"`
	AWSSecretAccessKey string `yaml:"aws_secret_access_key"`
	AWSRegion          string `yaml:"aws_region"`
	SenderEmail        string `yaml:"sender_email"`
	ShopInbox          string `yaml:"shop_inbox"`
}

type RabbitMQConfig struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

// DSN builds the connection string for the configured driver.
func (c DBConfig) DSN() string {
	if c.Driver == "sqlite" {
		return fmt.Sprintf("file:%s?_foreign_keys=1", c.SQLitePath)
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.TimeZone,
	)
}

func (c AfricaTalkingConfig) Enabled() bool { return c.Username != "" && c.APIKey != "" }

func (c EmailConfig) Enabled() bool { return c.SenderEmail != "" && c.ShopInbox != "" }

func (c RabbitMQConfig) Enabled() bool { return c.URL != "" }

// Load reads .env (if any), then the YAML file named by CONFIG_FILE (if any),
// then lets environment variables override individual values.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func defaults() Config {
	return Config{
		Port:            "8080",
		SessionSecret:   "change-me",
		ShutdownTimeout: 10,
		NotifyTimeout:   5,
		DB: DBConfig{
			Driver:     "postgres",
			Host:       "localhost",
			User:       "test",
			Password:   "test",
			Name:       "test",
			Port:       "5432",
			TimeZone:   "UTC",
			SQLitePath: "comics.db",
		},
		Log: LogConfig{Level: "info", Format: "console"},
		AfricaTalking: AfricaTalkingConfig{
			SMSURL:   "https://api.sandbox.africastalking.com/version1/messaging", // Sandbox URL
			SenderID: "AFRICASTKNG",
		},
		Email:    EmailConfig{AWSRegion: "us-east-1"},
		RabbitMQ: RabbitMQConfig{Exchange: "comic_rentals"},
	}
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnvOrDefault("PORT", cfg.Port)
	cfg.SessionSecret = getEnvOrDefault("SESSION_SECRET", cfg.SessionSecret)
	cfg.ShutdownTimeout = getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", cfg.ShutdownTimeout)
	cfg.NotifyTimeout = getEnvAsInt("NOTIFY_TIMEOUT_SECONDS", cfg.NotifyTimeout)

	cfg.DB.Driver = getEnvOrDefault("DB_DRIVER", cfg.DB.Driver)
	cfg.DB.Host = getEnvOrDefault("POSTGRES_HOST", cfg.DB.Host)
	cfg.DB.User = getEnvOrDefault("POSTGRES_USER", cfg.DB.User)
	cfg.DB.Password = getEnvOrDefault("POSTGRES_PASSWORD", cfg.DB.Password)
	cfg.DB.Name = getEnvOrDefault("POSTGRES_DB", cfg.DB.Name)
	cfg.DB.Port = getEnvOrDefault("DB_PORT", cfg.DB.Port)
	cfg.DB.TimeZone = getEnvOrDefault("DB_TIMEZONE", cfg.DB.TimeZone)
	cfg.DB.SQLitePath = getEnvOrDefault("SQLITE_PATH", cfg.DB.SQLitePath)

	cfg.Log.Level = getEnvOrDefault("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnvOrDefault("LOG_FORMAT", cfg.Log.Format)
	cfg.Log.File = getEnvOrDefault("LOG_FILE", cfg.Log.File)

	cfg.AfricaTalking.Username = getEnvOrDefault("AT_USERNAME", cfg.AfricaTalking.Username)
	cfg.AfricaTalking.APIKey = getEnvOrDefault("AT_API_KEY", cfg.AfricaTalking.APIKey)
	cfg.AfricaTalking.SMSURL = getEnvOrDefault("AT_SMS_URL", cfg.AfricaTalking.SMSURL)
	cfg.AfricaTalking.SenderID = getEnvOrDefault("AT_SENDER_ID", cfg.AfricaTalking.SenderID)

	cfg.Email.AWSAccessKeyID = getEnvOrDefault("AWS_ACCESS_KEY_ID", cfg.Email.AWSAccessKeyID)
	cfg.Email.AWSSecretAccessKey = getEnvOrDefault("AWS_SECRET_ACCESS_KEY", cfg.Email.AWSSecretAccessKey)
	cfg.Email.AWSRegion = getEnvOrDefault("AWS_REGION", cfg.Email.AWSRegion)
	cfg.Email.SenderEmail = getEnvOrDefault("AWS_SENDER_ADDRESS", cfg.Email.SenderEmail)
	cfg.Email.ShopInbox = getEnvOrDefault("SHOP_INBOX_ADDRESS", cfg.Email.ShopInbox)

	cfg.RabbitMQ.URL = getEnvOrDefault("RABBITMQ_URL", cfg.RabbitMQ.URL)
	cfg.RabbitMQ.Exchange = getEnvOrDefault("RABBITMQ_EXCHANGE", cfg.RabbitMQ.Exchange)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnvOrDefault(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
