package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/HardcoreSInd/ReazComu/internal/config"
	"github.com/HardcoreSInd/ReazComu/internal/handlers"
	"github.com/HardcoreSInd/ReazComu/internal/routes"
	"github.com/HardcoreSInd/ReazComu/internal/utils"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	utils.InitJWT(cfg.SessionSecret)
	handlers.Init(cfg)

	app := fiber.New(fiber.Config{
		AppName: "ReazComu v1.0",
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowCredentials: true,
	}))

	routes.SetupRoutes(app)

	log.Printf("Server running on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
