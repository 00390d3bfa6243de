package api

import (
	"net/http"

	"datalens/internal"
	"datalens/internal/analysis"
	"datalens/internal/config"
	"datalens/ports"

	"github.com/gin-gonic/gin"
)

// Server is the HTTP surface of the application. Routes split into a public
// auth group and a bearer-token protected group for files and reports.
type Server struct {
	router   *gin.Engine
	auth     *AuthHandler
	files    *FileHandler
	insights *InsightHandler
	sessions ports.SessionRepository
	logger   *internal.Logger
}

// Deps bundles everything the server needs wired in
type Deps struct {
	Users    ports.UserRepository
	Sessions ports.SessionRepository
	Files    ports.FileRepository
	Reports  ports.ReportRepository
	Parser   ports.FileParser
	Analyzer *analysis.Analyzer
}

// NewServer builds the router with all handlers attached
func NewServer(cfg *config.Config, deps Deps) *Server {
	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}

	s := &Server{
		router:   gin.Default(),
		auth:     NewAuthHandler(deps.Users, deps.Sessions),
		files:    NewFileHandler(deps.Files, deps.Reports, deps.Parser, deps.Analyzer, cfg.Storage.UploadDir),
		insights: NewInsightHandler(deps.Files, deps.Reports),
		sessions: deps.Sessions,
		logger:   internal.DefaultLogger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := s.router.Group("/auth")
	{
		auth.POST("/register", s.auth.HandleRegister)
		auth.POST("/login", s.auth.HandleLogin)
		auth.POST("/logout", s.auth.HandleLogout)
	}

	protected := s.router.Group("/")
	protected.Use(RequireAuth(s.sessions, s.logger))
	{
		protected.GET("/profile", s.auth.HandleGetProfile)
		protected.PUT("/profile", s.auth.HandleUpdateProfile)

		protected.POST("/files", s.files.HandleUpload)
		protected.GET("/files", s.files.HandleListFiles)
		protected.GET("/files/:id", s.files.HandleGetFile)
		protected.DELETE("/files/:id", s.files.HandleDeleteFile)
		protected.POST("/files/:id/reanalyse", s.files.HandleReanalyse)

		protected.GET("/files/analyse/:userID/:fileID", s.files.HandleAnalyse)
		protected.GET("/files/insights/:userID/:fileID", s.insights.HandleNarrative)
	}
}

// Router exposes the underlying engine, mainly for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start runs the HTTP server on the given address
func (s *Server) Start(addr string) error {
	s.logger.Info("[Server] Listening on http://%s", addr)
	return s.router.Run(addr)
}
