package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cardhaus/deck-checker/internal/api/handlers"
	"github.com/cardhaus/deck-checker/internal/database"
	"github.com/cardhaus/deck-checker/internal/services"
)

func SetupRouter(parser *services.DeckParser, matcher *services.MatchService, syncer *services.SyncService, corsOrigins []string) *gin.Engine {
	router := gin.Default()
	router.Use(RequestID())
	router.Use(Metrics())

	// CORS configuration - allow origins from environment or use defaults
	config := cors.DefaultConfig()
	if len(corsOrigins) > 0 {
		config.AllowOrigins = corsOrigins
	} else {
		config.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}
	router.Use(cors.New(config))

	// Initialize handlers
	deckHandler := handlers.NewDeckHandler(parser, matcher)
	searchHandler := handlers.NewSearchHandler(matcher)
	syncHandler := handlers.NewSyncHandler(syncer)

	// API routes
	api := router.Group("/api")
	{
		deck := api.Group("/deck")
		{
			deck.POST("/parse", deckHandler.Parse)
			deck.POST("/match", deckHandler.Match)
			deck.POST("/import", deckHandler.Import)
			deck.POST("/auto-select", deckHandler.AutoSelect)
		}

		api.GET("/search", searchHandler.Search)

		sync := api.Group("/sync")
		{
			sync.GET("/status", syncHandler.Status)
			sync.POST("/trigger", syncHandler.Trigger)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		db := database.GetDB()
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
