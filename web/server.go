package web

import (
	"context"
	"net/http"

	"datachat/apiclient"
	"datachat/config"
	"datachat/engine"
	"datachat/web/format"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	router *gin.Engine
	logger *zap.Logger
	config *config.Config
}

func NewServer(eng *engine.Engine, client *apiclient.Client, renderer *format.Renderer, logger *zap.Logger, cfg *config.Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	server := &Server{
		router: router,
		logger: logger,
		config: cfg,
	}

	handler := NewHandler(eng, client, renderer, logger, cfg)
	server.setupRoutes(handler)
	return server
}

func (s *Server) setupRoutes(h *Handler) {
	api := s.router.Group("/api")
	api.POST("/upload-csv", h.UploadCSV)
	api.POST("/chat", h.Chat)
	api.POST("/restart", h.Restart)
	api.GET("/state", h.State)
	api.GET("/transcript", h.Transcript)
	api.GET("/suggestions", h.Suggestions)
	api.GET("/sample-files", h.SampleFiles)
	api.POST("/load-sample/:filename", h.LoadSample)
	api.GET("/events", h.Events)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context, addr string) error {
	s.logger.Info("Starting web server", zap.String("address", addr))

	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Web server failed to start", zap.Error(err))
		}
	}()

	// Wait for context cancellation
	<-ctx.Done()

	s.logger.Info("Shutting down web server")
	return srv.Shutdown(context.Background())
}
