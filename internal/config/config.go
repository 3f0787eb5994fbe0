package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/text/currency"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Payment  PaymentConfig  `yaml:"payment"`
	Currency string         `yaml:"currency"`
	LogLevel string         `yaml:"log_level"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	SubmitTimeout   time.Duration `yaml:"submit_timeout"`
}

// DatabaseConfig with an empty URL keeps orders in memory.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// RabbitMQConfig with an empty URL disables order event publishing.
type RabbitMQConfig struct {
	URL   string `yaml:"url"`
	Queue string `yaml:"queue"`
}

type PaymentConfig struct {
	ProcessingDelay time.Duration `yaml:"processing_delay"`
	SettleDelay     time.Duration `yaml:"settle_delay"`
	SuccessRate     float64       `yaml:"success_rate"`
}

func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			SubmitTimeout:   15 * time.Second,
		},
		RabbitMQ: RabbitMQConfig{
			Queue: "warehouse_orders",
		},
		Payment: PaymentConfig{
			ProcessingDelay: 3 * time.Second,
			SettleDelay:     1500 * time.Millisecond,
			SuccessRate:     0.8,
		},
		Currency: "KES",
		LogLevel: "info",
	}
}

// Load reads the YAML file at path over the defaults, when path is not
// empty, and then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("os.ReadFile: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("yaml.Unmarshal: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, fmt.Errorf("applyEnv: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("cfg.Validate: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.HTTP.Addr = getEnv("HTTP_ADDR", c.HTTP.Addr)
	c.Database.URL = getEnv("DATABASE_URL", c.Database.URL)
	c.RabbitMQ.URL = getEnv("RABBITMQ_URL", c.RabbitMQ.URL)
	c.RabbitMQ.Queue = getEnv("RABBITMQ_QUEUE", c.RabbitMQ.Queue)
	c.Currency = getEnv("CURRENCY", c.Currency)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	var err error
	if c.HTTP.RequestTimeout, err = getEnvAsDuration("HTTP_REQUEST_TIMEOUT", c.HTTP.RequestTimeout); err != nil {
		return err
	}
	if c.HTTP.ShutdownTimeout, err = getEnvAsDuration("HTTP_SHUTDOWN_TIMEOUT", c.HTTP.ShutdownTimeout); err != nil {
		return err
	}
	if c.HTTP.SubmitTimeout, err = getEnvAsDuration("HTTP_SUBMIT_TIMEOUT", c.HTTP.SubmitTimeout); err != nil {
		return err
	}
	if c.Payment.ProcessingDelay, err = getEnvAsDuration("PAYMENT_PROCESSING_DELAY", c.Payment.ProcessingDelay); err != nil {
		return err
	}
	if c.Payment.SettleDelay, err = getEnvAsDuration("PAYMENT_SETTLE_DELAY", c.Payment.SettleDelay); err != nil {
		return err
	}
	if c.Payment.SuccessRate, err = getEnvAsFloat("PAYMENT_SUCCESS_RATE", c.Payment.SuccessRate); err != nil {
		return err
	}

	return nil
}

func (c Config) Validate() error {
	var errs []error

	if c.HTTP.Addr == "" {
		errs = append(errs, fmt.Errorf("http.addr is empty"))
	}
	if c.HTTP.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("http.request_timeout[%s] must be positive", c.HTTP.RequestTimeout))
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("http.shutdown_timeout[%s] must be positive", c.HTTP.ShutdownTimeout))
	}
	if c.HTTP.SubmitTimeout < 0 {
		errs = append(errs, fmt.Errorf("http.submit_timeout[%s] must not be negative", c.HTTP.SubmitTimeout))
	}
	if c.RabbitMQ.URL != "" && c.RabbitMQ.Queue == "" {
		errs = append(errs, fmt.Errorf("rabbitmq.queue is empty"))
	}
	if c.Payment.ProcessingDelay < 0 || c.Payment.SettleDelay < 0 {
		errs = append(errs, fmt.Errorf("payment delays must not be negative"))
	}
	if c.Payment.SuccessRate < 0 || c.Payment.SuccessRate > 1 {
		errs = append(errs, fmt.Errorf("payment.success_rate[%v] must be within [0, 1]", c.Payment.SuccessRate))
	}
	if _, err := currency.ParseISO(c.Currency); err != nil {
		errs = append(errs, fmt.Errorf("currency[%s] is not valid: %w", c.Currency, err))
	}

	return errors.Join(errs...)
}

// CurrencyUnit must only be called on a validated Config.
func (c Config) CurrencyUnit() currency.Unit {
	return currency.MustParseISO(c.Currency)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return 0, fmt.Errorf("%s[%s] is not a duration: %w", key, valueStr, err)
	}
	return value, nil
}

func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("%s[%s] is not a number: %w", key, valueStr, err)
	}
	return value, nil
}
