package main

import (
	"log"
	"os"
	"strconv"
	"time"

	_ "rpl-backend/api/swagger" // swagger docs
	"rpl-backend/internal/client/unitcatalog"
	"rpl-backend/internal/database"
	"rpl-backend/internal/handler"
	"rpl-backend/internal/middleware"
	"rpl-backend/internal/notify"
	"rpl-backend/internal/repository"
	"rpl-backend/internal/service"
	"rpl-backend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// @title           RPL Unit Equivalence API
// @version         1.0
// @description     API for submitting and reviewing Recognition of Prior Learning unit equivalence requests.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	dbUser := envOr("DB_USER", "postgres")
	dbPassword := envOr("DB_PASSWORD", "postgres")
	dbName := envOr("DB_NAME", "rpl")
	dbSslMode := envOr("DB_SSLMODE", "disable")

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// External collaborators
	catalog := unitcatalog.NewClient(envOr("WEBSCRAPER_URI", "http://localhost:5001"), unitcatalog.DefaultTimeout, nil)

	smtpPort, err := strconv.Atoi(envOr("SMTP_PORT", "25"))
	if err != nil {
		log.Fatalf("Invalid SMTP_PORT: %v", err)
	}
	notifier := notify.NewSMTPNotifier(
		envOr("SMTP_HOST", "localhost"),
		smtpPort,
		envOr("SMTP_SENDER", "rpl-noreply@uwa.edu.au"),
		10*time.Second,
	)

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	appRepo := repository.NewApplicationRepository(db)
	unitRepo := repository.NewIncomingUnitRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	revisionRepo := repository.NewRevisionRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	fileRepo := repository.NewFileRepository(db)

	matcher := service.NewEquivalenceMatcher(appRepo)
	statusEngine := service.NewStatusEngine(appRepo, commentRepo)
	revisionGraph := service.NewRevisionGraph(revisionRepo)
	applicationService := service.NewApplicationService(
		appRepo, unitRepo, commentRepo, fileRepo, txManager,
		matcher, statusEngine, revisionGraph, catalog, notifier, wsHub,
	)
	authService := service.NewAuthService(accountRepo, catalog, middleware.GetJWTSecret())
	fileService := service.NewFileService(fileRepo)

	// Initialize Handlers
	applicationHandler := handler.NewApplicationHandler(applicationService)
	authHandler := handler.NewAuthHandler(authService)
	fileHandler := handler.NewFileHandler(fileService)
	catalogHandler := handler.NewCatalogHandler(catalog)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:3000"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	applicationHandler.RegisterRoutes(router.Group(""))
	authHandler.RegisterRoutes(router.Group(""))
	fileHandler.RegisterRoutes(router.Group(""))
	catalogHandler.RegisterRoutes(router.Group(""))

	port := envOr("PORT", "8080")

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
