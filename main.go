package main

import (
	"command-api/confs"
	"command-api/db"
	"command-api/repositories"
	"command-api/server"
	"command-api/ws"
	"log"

	"github.com/gin-gonic/gin"
)

func main() {
	// load config
	cfg, err := confs.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	var repo repositories.CommandRepository
	if cfg.Store == confs.StoreMemory {
		log.Println("Using in-memory command store; data is lost on exit")
		repo = repositories.NewCommandMemRepository()
	} else {
		database, err := db.Connect(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		defer database.Close()
		repo = repositories.NewCommandGormRepository(database)
	}

	// run server
	srv := server.NewServer(cfg, repo, ws.NewManager())
	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
