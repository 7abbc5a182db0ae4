package main

import (
	"context"
	"embed"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rountana/page1/cache"
	"github.com/rountana/page1/clients/amadeus"
	"github.com/rountana/page1/clients/gemini"
	"github.com/rountana/page1/clients/googleplaces"
	"github.com/rountana/page1/config"
	"github.com/rountana/page1/config/db"
	redisdb "github.com/rountana/page1/config/redis"
	"github.com/rountana/page1/controllers/booking_controller"
	"github.com/rountana/page1/controllers/chat_controller"
	"github.com/rountana/page1/controllers/hotel_controller"
	"github.com/rountana/page1/logger"
	"github.com/rountana/page1/middlewares/cors"
	"github.com/rountana/page1/models/booking_models"
	"github.com/rountana/page1/models/chat_models"
	"github.com/rountana/page1/routes"
	"github.com/rountana/page1/utils/mail"
)

//go:embed templates/email/*
var embeddedEmailTemplates embed.FS

func init() {
	logger.InitLoggers()
	config.LoadEnv()
}

func main() {
	cfg := config.New()

	db.Connect()
	defer db.Close()

	rdb, err := redisdb.GetRedisClient(context.Background())
	if err != nil {
		logger.WarnLogger.Warnf("Running without redis: %v", err)
	}
	defer redisdb.CloseRedis()

	mail.InitTemplates(embeddedEmailTemplates)
	logger.InfoLogger.Info("Email templates initialized")

	responseCache := cache.New(rdb)
	if !cfg.CacheEnabled {
		responseCache = cache.New(nil)
		logger.InfoLogger.Info("Response caching disabled by configuration")
	}

	amadeusClient := amadeus.NewClient(cfg, responseCache)
	placesClient := googleplaces.NewClient(cfg, responseCache)
	geminiClient := gemini.NewClient(cfg)

	bookingStore := booking_models.NewPGStore(db.DB)
	sessionStore := chat_models.NewRedisSessionStore(rdb)

	hotelController := hotel_controller.NewHotelController(amadeusClient, placesClient)
	bookingController := booking_controller.NewBookingController(bookingStore, amadeusClient, cfg, rdb)
	chatController := chat_controller.NewChatController(geminiClient, sessionStore)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.CorsMiddleware())

	routes.RegisterHotelRoutes(r, hotelController)
	routes.RegisterBookingRoutes(r, bookingController, cfg)
	routes.RegisterChatRoutes(r, chatController)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Demo front end.
	r.Static("/static", "./static")
	r.StaticFile("/", "./static/index.html")
	r.StaticFile("/hotel-details.html", "./static/hotel_details.html")
	r.StaticFile("/booking-confirmation.html", "./static/booking_confirmation.html")

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		fmt.Printf("Server listening on :%s\n", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("Server failed to listen: %v\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	fmt.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		fmt.Printf("Server forced to shutdown: %v\n", err)
	}

	fmt.Println("Server exited gracefully.")
}
