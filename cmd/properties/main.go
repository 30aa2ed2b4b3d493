package main

import (
	"ciaohost/internal/health"
	"ciaohost/internal/properties/handler"
	"ciaohost/internal/properties/repository"
	"ciaohost/internal/properties/service"
	"ciaohost/internal/properties/validator"
	"ciaohost/pkg/app"
	"ciaohost/pkg/config"
)

const ServiceName = "properties"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.Client.GracefulShutdown()

	cfg.Log.Info("Starting Properties service")
	propertyService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewPropertyHandler(propertyService, cfg.Log),
		health.NewHandler(cfg.Client.Mongo, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) service.PropertyService {
	propertyValidator := validator.NewPropertyValidator(cfg.Log)
	propertyRepo := repository.NewMongoPropertyRepository(cfg)
	propertyService := service.NewPropertyService(
		propertyRepo,
		propertyValidator,
		cfg,
	)

	cfg.Log.Info("Property service initialized", "database", cfg.MongoDatabaseName)
	return propertyService
}
