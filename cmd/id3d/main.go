package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"honnef.co/go/id3"
)

func main() {
	origins := flag.String("origins", "http://localhost:3000", "comma separated list of allowed CORS origins")
	maxBody := flag.Int64("max-body", 64<<20, "maximum request body size in bytes")
	flag.BoolVar((*bool)(&id3.Logging), "v", false, "log structural edits")
	flag.Parse()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	router := newRouter(NewHandler(*maxBody), strings.Split(*origins, ","))

	log.Printf("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func newRouter(h *Handler, origins []string) *gin.Engine {
	router := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = origins
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	config.ExposeHeaders = []string{"Content-Disposition", "X-Tag-Size"}
	router.Use(cors.New(config))

	api := router.Group("/api/v1")
	{
		api.GET("/health", h.HealthCheck)

		tags := api.Group("/tags")
		{
			tags.POST("", h.Inspect)
			tags.PUT("/frames/:id", h.UpsertFrame)
			tags.DELETE("/frames/:id", h.RemoveFrames)
		}
	}

	return router
}
