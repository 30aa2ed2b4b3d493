package config

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strconv"
	"time"

	"ciaohost/pkg/client"
	"ciaohost/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	PropertyServiceURL string

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// EnforceMaxGuests turns the guests-over-capacity advisory into a hard
	// validation failure. The dashboard historically warned without blocking.
	EnforceMaxGuests bool

	// PropertyLockTTL bounds how long a per-property advisory lock can
	// outlive a crashed writer.
	PropertyLockTTL time.Duration

	OccupancyWindowDays int

	DefaultCheckinTime  string
	DefaultCheckoutTime string
	DefaultLanguage     string

	BookingEventsTopic    string
	BookingEventsDLQTopic string
	GuestCommsGroupID     string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		PropertyServiceURL: getEnvStr(EnvPropertyServiceURL, DefaultPropertyServiceURL),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		EnforceMaxGuests: getEnvBool(EnvEnforceMaxGuests, DefaultEnforceMaxGuests),
		PropertyLockTTL:  getEnvDuration(EnvPropertyLockTTL, DefaultPropertyLockTTL),

		OccupancyWindowDays: getEnvNum(EnvOccupancyWindowDays, DefaultOccupancyWindowDays),

		DefaultCheckinTime:  getEnvStr(EnvDefaultCheckinTime, DefaultDefaultCheckinTime),
		DefaultCheckoutTime: getEnvStr(EnvDefaultCheckoutTime, DefaultDefaultCheckoutTime),
		DefaultLanguage:     getEnvStr(EnvDefaultLanguage, DefaultDefaultLanguage),

		BookingEventsTopic:    getEnvStr(EnvBookingEventsTopic, DefaultBookingEventsTopic),
		BookingEventsDLQTopic: getEnvStr(EnvBookingEventsDLQTopic, DefaultBookingEventsDLQTopic),
		GuestCommsGroupID:     getEnvStr(EnvGuestCommsGroupID, DefaultGuestCommsGroupID),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	err := cfg.Validate()
	if err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}

	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.PropertyLockTTL <= 0 {
		errors = append(errors, fmt.Sprintf("PropertyLockTTL must be positive, got: %s", cfg.PropertyLockTTL))
	}
	if cfg.OccupancyWindowDays <= 0 {
		errors = append(errors, fmt.Sprintf("OccupancyWindowDays must be positive, got: %d", cfg.OccupancyWindowDays))
	}

	timeRegex := regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	if !timeRegex.MatchString(cfg.DefaultCheckinTime) {
		errors = append(errors, fmt.Sprintf("DefaultCheckinTime must be in HH:MM format (00:00-23:59), got: %s", cfg.DefaultCheckinTime))
	}
	if !timeRegex.MatchString(cfg.DefaultCheckoutTime) {
		errors = append(errors, fmt.Sprintf("DefaultCheckoutTime must be in HH:MM format (00:00-23:59), got: %s", cfg.DefaultCheckoutTime))
	}

	if !slices.Contains(SupportedLanguages, cfg.DefaultLanguage) {
		errors = append(errors, fmt.Sprintf("DefaultLanguage must be one of %v, got: %s", SupportedLanguages, cfg.DefaultLanguage))
	}

	if cfg.BookingEventsTopic == "" {
		errors = append(errors, "BookingEventsTopic cannot be empty")
	}
	if cfg.GuestCommsGroupID == "" {
		errors = append(errors, "GuestCommsGroupID cannot be empty")
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"property_service_url", cfg.PropertyServiceURL,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"enforce_max_guests", cfg.EnforceMaxGuests,
		"property_lock_ttl", cfg.PropertyLockTTL,
		"occupancy_window_days", cfg.OccupancyWindowDays,
		"default_checkin_time", cfg.DefaultCheckinTime,
		"default_checkout_time", cfg.DefaultCheckoutTime,
		"default_language", cfg.DefaultLanguage,
		"booking_events_topic", cfg.BookingEventsTopic,
		"booking_events_dlq_topic", cfg.BookingEventsDLQTopic,
		"guestcomms_group_id", cfg.GuestCommsGroupID,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
