package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "ciaohost"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultPropertyServiceURL = "http://localhost:8081"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Capacity overruns warn by default; strict hosts opt in to hard rejection.
	DefaultEnforceMaxGuests = false

	DefaultPropertyLockTTL = 10 * time.Second

	DefaultOccupancyWindowDays = 30

	DefaultDefaultCheckinTime  = "15:00"
	DefaultDefaultCheckoutTime = "11:00"
	DefaultDefaultLanguage     = "english"

	DefaultBookingEventsTopic    = "booking-events"
	DefaultBookingEventsDLQTopic = "booking-events-dlq"
	DefaultGuestCommsGroupID     = "guestcomms"

	DefaultPaginationLimit = 100
)

var SupportedLanguages = []string{"english", "italian"}
