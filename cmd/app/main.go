package main

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"

	"eduadmin/internal/cache"
	"eduadmin/internal/client"
	"eduadmin/internal/config"
	"eduadmin/internal/middleware"
	"eduadmin/internal/session"
	handlers "eduadmin/internal/transport/http"
	"eduadmin/internal/wizard"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.UpstreamAPIURL == "" {
		log.Fatal("UPSTREAM_API_URL is required")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Connected to Redis at", cfg.RedisAddr)

	api := client.New(cfg.UpstreamAPIURL, cfg.Timeout())
	log.Println("Upstream platform API at", cfg.UpstreamAPIURL)

	sessions := session.NewStore(rdb, cfg.SessionTTL())
	prefs := cache.NewPrefs(rdb)
	dashboard := cache.NewDashboard(rdb)
	wizards := wizard.NewManager(rdb, api)
	limiter := middleware.NewRateLimiter(rdb)

	h := handlers.Handlers{
		Auth:      handlers.NewAuthHandler(api, sessions),
		Courses:   handlers.NewCourseHandler(api, prefs),
		Wizard:    handlers.NewWizardHandler(wizards),
		Jobs:      handlers.NewJobHandler(api),
		Dashboard: handlers.NewDashboardHandler(api, dashboard),
		Uploads:   handlers.NewUploadsHandler(cfg),
	}

	router := handlers.NewRouter(cfg, h, limiter, sessions)

	log.Printf("Admin gateway running on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
