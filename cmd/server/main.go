package main

import (
	"log"
	"quill/internal/config"
	"quill/internal/db"
	"quill/internal/router"
	"quill/internal/services"
	"quill/internal/utils"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}
	cfg := config.Load()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	cache, err := utils.NewPageCache(cfg.Cache)
	if err != nil {
		log.Fatalf("Failed to create page cache: %v", err)
	}
	log.Printf("Page cache backend: %s, ttl %s", cfg.Cache.Backend, cfg.Cache.TTL)

	r, err := router.New(router.Deps{
		DB:     conn,
		Cache:  cache,
		Media:  services.NewFileStore(cfg.MediaRoot),
		Config: cfg,
	})
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	log.Printf("Quill server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
