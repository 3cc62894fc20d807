package server

import (
	"command-api/confs"
	"command-api/handlers"
	httpHandler "command-api/handlers/http"
	"command-api/repositories"
	"command-api/usecases"
	"command-api/ws"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Server struct {
	app  *gin.Engine
	cfg  confs.Config
	repo repositories.CommandRepository
	mgr  *ws.Manager
}

// NewServer wires the routes around repo. mgr receives change events and may
// be nil to disable the feed.
func NewServer(cfg confs.Config, repo repositories.CommandRepository, mgr *ws.Manager) *Server {
	s := &Server{
		app:  gin.New(),
		cfg:  cfg,
		repo: repo,
		mgr:  mgr,
	}
	s.routes()
	return s
}

// Router exposes the engine, mainly for httptest.
func (s *Server) Router() *gin.Engine { return s.app }

func (s *Server) Start() error {
	log.Printf("Listening on %s (store=%s)", s.cfg.Addr(), s.cfg.Store)
	return s.app.Run(s.cfg.Addr())
}

func (s *Server) routes() {
	s.app.Use(gin.Logger(), gin.Recovery(), requestID())

	// Setup CORS middleware
	config := cors.DefaultConfig()
	if len(s.cfg.AllowedOrigins) > 0 {
		config.AllowOrigins = s.cfg.AllowedOrigins
	} else {
		config.AllowAllOrigins = true
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", requestIDHeader}
	config.ExposeHeaders = []string{"Location", requestIDHeader}
	s.app.Use(cors.New(config))

	// Setup healthcheck route
	s.app.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "OK",
		})
	})

	commandsUseCase := usecases.NewCommandsUseCase(s.repo)

	var events httpHandler.Broadcaster
	if s.mgr != nil {
		events = s.mgr
		wsHandler := handlers.NewWSHandler(s.mgr, s.cfg.AllowedOrigins)
		s.app.GET("/ws/commands", wsHandler.Subscribe)
		s.app.GET("/api/subscribers", wsHandler.GetSubscribers)
	}

	httpHandler.NewCommandHandler(commandsUseCase, events).Register(s.app)
}
