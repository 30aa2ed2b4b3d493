package kafka_config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"ciaohost/pkg/logger"
)

// Config carries broker addresses plus producer and consumer tuning.
// Topics and group IDs live in the service configuration; this package
// only cares about how to talk to the cluster.
type Config struct {
	Brokers []string

	ProducerMaxAttempts  int
	ProducerBatchTimeout time.Duration
	ProducerRequireAcks  int
	ProducerCompression  string
	ProducerAsync        bool

	ConsumerStartOffset       string
	ConsumerMinBytes          int
	ConsumerMaxBytes          int
	ConsumerMaxWait           time.Duration
	ConsumerCommitInterval    time.Duration
	ConsumerHeartbeatInterval time.Duration
	ConsumerSessionTimeout    time.Duration
	ConsumerRebalanceTimeout  time.Duration
	ConsumerMaxRetries        int

	EnableMiddleware bool
}

func Load() *Config {
	return &Config{
		Brokers: strings.Split(getEnvStr(EnvKafkaBrokers, DefaultBrokers), ","),

		ProducerMaxAttempts:  getEnvInt(EnvKafkaProducerMaxAttempts, DefaultProducerMaxAttempts),
		ProducerBatchTimeout: getEnvDuration(EnvKafkaProducerBatchTimeout, DefaultProducerBatchTimeout),
		ProducerRequireAcks:  getEnvInt(EnvKafkaProducerRequireAcks, DefaultProducerRequireAcks),
		ProducerCompression:  getEnvStr(EnvKafkaProducerCompression, DefaultProducerCompression),
		ProducerAsync:        getEnvBool(EnvKafkaProducerAsync, DefaultProducerAsync),

		ConsumerStartOffset:       getEnvStr(EnvKafkaConsumerStartOffset, DefaultConsumerStartOffset),
		ConsumerMinBytes:          getEnvInt(EnvKafkaConsumerMinBytes, DefaultConsumerMinBytes),
		ConsumerMaxBytes:          getEnvInt(EnvKafkaConsumerMaxBytes, DefaultConsumerMaxBytes),
		ConsumerMaxWait:           getEnvDuration(EnvKafkaConsumerMaxWait, DefaultConsumerMaxWait),
		ConsumerCommitInterval:    getEnvDuration(EnvKafkaConsumerCommitInterval, DefaultConsumerCommitInterval),
		ConsumerHeartbeatInterval: getEnvDuration(EnvKafkaConsumerHeartbeatInterval, DefaultConsumerHeartbeatInterval),
		ConsumerSessionTimeout:    getEnvDuration(EnvKafkaConsumerSessionTimeout, DefaultConsumerSessionTimeout),
		ConsumerRebalanceTimeout:  getEnvDuration(EnvKafkaConsumerRebalanceTimeout, DefaultConsumerRebalanceTimeout),
		ConsumerMaxRetries:        getEnvInt(EnvKafkaConsumerMaxRetries, DefaultConsumerMaxRetries),

		EnableMiddleware: getEnvBool(EnvKafkaEnableMiddleware, DefaultEnableMiddleware),
	}
}

func (c *Config) Validate() error {
	if len(c.Brokers) == 0 {
		return fmt.Errorf("at least one kafka broker is required")
	}
	for _, b := range c.Brokers {
		if strings.TrimSpace(b) == "" {
			return fmt.Errorf("kafka broker address cannot be empty")
		}
	}
	if c.ProducerMaxAttempts < 1 {
		return fmt.Errorf("producer max attempts must be at least 1, got %d", c.ProducerMaxAttempts)
	}
	if c.ConsumerStartOffset != "earliest" && c.ConsumerStartOffset != "latest" {
		return fmt.Errorf("consumer start offset must be earliest or latest, got %q", c.ConsumerStartOffset)
	}
	if c.ConsumerMinBytes <= 0 || c.ConsumerMaxBytes <= 0 {
		return fmt.Errorf("consumer min/max bytes must be positive")
	}
	if c.ConsumerMinBytes > c.ConsumerMaxBytes {
		return fmt.Errorf("consumer min bytes (%d) cannot exceed max bytes (%d)", c.ConsumerMinBytes, c.ConsumerMaxBytes)
	}
	if c.ConsumerMaxRetries < 0 {
		return fmt.Errorf("consumer max retries cannot be negative, got %d", c.ConsumerMaxRetries)
	}
	return nil
}

func (c *Config) LogConfiguration(log *logger.Logger) {
	log.Info("kafka configuration",
		"brokers", strings.Join(c.Brokers, ","),
		"producer_max_attempts", c.ProducerMaxAttempts,
		"producer_compression", c.ProducerCompression,
		"producer_async", c.ProducerAsync,
		"consumer_start_offset", c.ConsumerStartOffset,
		"consumer_max_retries", c.ConsumerMaxRetries,
		"middleware_enabled", c.EnableMiddleware,
	)
}

func getEnvStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
