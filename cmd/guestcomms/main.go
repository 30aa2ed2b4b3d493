package main

import (
	"context"

	"ciaohost/internal/guestcomms/consumer"
	"ciaohost/internal/guestcomms/handler"
	"ciaohost/internal/guestcomms/repository"
	"ciaohost/internal/guestcomms/service"
	"ciaohost/internal/guestcomms/validator"
	"ciaohost/internal/health"
	"ciaohost/pkg/app"
	"ciaohost/pkg/client"
	"ciaohost/pkg/config"
	"ciaohost/pkg/kafka"
	kafka_config "ciaohost/pkg/kafka/config"
	kafka_middleware "ciaohost/pkg/kafka/middleware"
)

const ServiceName = "guestcomms"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.Client.GracefulShutdown()

	cfg.Log.Info("Starting Guest Communications service")
	messageService := initServices(cfg)

	eventConsumer := initConsumer(cfg, messageService)
	defer func() {
		if err := eventConsumer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka consumer", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := eventConsumer.Start(ctx); err != nil {
			cfg.Log.Error("Booking events consumer stopped", "error", err)
		}
	}()

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewMessageHandler(messageService, cfg.Log),
		health.NewHandler(cfg.Client.Mongo, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) service.MessageService {
	messageValidator := validator.NewMessageValidator(cfg.Log)
	messageRepo := repository.NewMongoMessageRepository(cfg)
	properties := client.NewPropertyClient(cfg.PropertyServiceURL)

	messageService := service.NewMessageService(
		messageRepo,
		messageValidator,
		properties,
		cfg,
	)

	cfg.Log.Info("Message service initialized", "database", cfg.MongoDatabaseName)
	return messageService
}

func initConsumer(cfg *config.Config, messages service.MessageService) *kafka.Consumer {
	kafkaCfg := kafka_config.Load()
	if err := kafkaCfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	eventConsumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.BookingEventsTopic,
		cfg.GuestCommsGroupID,
		cfg.BookingEventsDLQTopic,
		consumer.NewBookingEventHandler(messages, cfg.Log),
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		eventConsumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
	}
	return eventConsumer
}
