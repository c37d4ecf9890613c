package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/sangphomma/Siriwong-Inventory-App/cmd"
	"github.com/sangphomma/Siriwong-Inventory-App/internal/container"
	"github.com/sangphomma/Siriwong-Inventory-App/internal/core/logger"
	"github.com/sangphomma/Siriwong-Inventory-App/internal/database"
	"github.com/sangphomma/Siriwong-Inventory-App/internal/middleware"
	"github.com/sangphomma/Siriwong-Inventory-App/internal/rate_limiter"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	// Subcommands (migrate, reap) run standalone and exit
	if cmd.Execute() {
		return
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	if err := database.RunMigrations("./migrations"); err != nil {
		log.Fatalf("Error running migrations: %v", err)
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer db.Close()

	log.Println("Connected to the database successfully!")

	zapLogger := logger.NewLogger()
	defer zapLogger.Sync()

	c := container.NewAppContainer(db, zapLogger)

	limiter := rate_limiter.NewRateLimiter(60, time.Minute)

	router := gin.Default()
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.TimeoutMiddleware(30 * time.Second))
	router.Use(limiter.Middleware())

	c.ProductHandler.RegisterRoutes(router)
	c.LocationHandler.RegisterRoutes(router)
	c.SiteHandler.RegisterRoutes(router)
	c.LedgerHandler.RegisterRoutes(router)
	c.RequestHandler.RegisterRoutes(router)
	c.ReaperHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if err := router.Run(os.Getenv("APP_HOST")); err != nil {
		panic(err)
	}
}
