package main

import (
	"log"
	"os"
	"time"

	"go-storefront-orders/controllers"
	"go-storefront-orders/database"
	"go-storefront-orders/middleware"
	"go-storefront-orders/routes"
	"go-storefront-orders/services"
	"go-storefront-orders/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("no .env file found, relying on environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	// Per-tenant write lock: redis when configured, in-process otherwise.
	var mutex services.NamedMutex
	if rdb := database.RedisInstance(); rdb != nil {
		mutex = services.NewRedisMutex(rdb)
	} else {
		log.Println("REDIS_ADDR not set, using in-process ledger lock")
		mutex = services.NewLocalMutex()
	}

	mailer := &services.SMTPMailer{
		Addr:     os.Getenv("SMTP_ADDR"),
		Host:     os.Getenv("SMTP_HOST"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
	var notifier services.Notifier
	if mailer.Addr != "" {
		notifier = services.NewNotificationService(mailer, os.Getenv("BUSINESS_NAME"), os.Getenv("BUSINESS_EMAIL"))
	} else {
		log.Println("SMTP_ADDR not set, email notifications disabled")
	}

	feed := ws.NewOrderFeedHub()
	go feed.Run()

	store := database.NewMongoLedgerStore()
	ledgerService := services.NewLedgerService(store, mutex, notifier, feed)
	statusService := services.NewStatusService(store, notifier, feed)
	controllers.Init(ledgerService, statusService)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"POST", "GET", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Public: storefront order submission and plain ledger reads.
	routes.OrderRoutes(router)

	// Operator-facing: dashboard, status edits, live feed.
	router.Use(middleware.Authentication())
	routes.DashboardRoutes(router, feed)

	router.Run(":" + port)
}
