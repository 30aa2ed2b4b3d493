package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvPropertyServiceURL = "PROPERTY_SERVICE_URL"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvEnforceMaxGuests = "ENFORCE_MAX_GUESTS"
	EnvPropertyLockTTL  = "PROPERTY_LOCK_TTL"

	EnvOccupancyWindowDays = "OCCUPANCY_WINDOW_DAYS"

	EnvDefaultCheckinTime  = "DEFAULT_CHECKIN_TIME"
	EnvDefaultCheckoutTime = "DEFAULT_CHECKOUT_TIME"
	EnvDefaultLanguage     = "DEFAULT_LANGUAGE"

	EnvBookingEventsTopic    = "BOOKING_EVENTS_TOPIC"
	EnvBookingEventsDLQTopic = "BOOKING_EVENTS_DLQ_TOPIC"
	EnvGuestCommsGroupID     = "GUESTCOMMS_GROUP_ID"
)
