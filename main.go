package main

import (
	"log"
	"youthhub/config"
	courseControllers "youthhub/controllers/course"
	"youthhub/database"
	"youthhub/events"
	authRoutes "youthhub/routers/authRoutes"
	businessPlanRoutes "youthhub/routers/businessPlanRoutes"
	courseRoutes "youthhub/routers/courseRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	// Domain events go out over Redis when configured; without it they are
	// only logged, which is fine for local development.
	if config.AppConfig.RedisAddr != "" {
		bus, err := events.NewRedisPublisher(config.AppConfig.RedisAddr, config.AppConfig.RedisPassword)
		if err != nil {
			log.Printf("Redis not reachable, events will be logged only: %v", err)
		} else {
			events.Bus = bus
		}
	}

	// Hourly retry for certificates lost to renderer outages
	sweep := courseControllers.StartCertificateSweep()
	defer sweep.Stop()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",  // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	businessPlanRoutes.SetupBusinessPlanRoutes(app)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
