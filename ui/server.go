package ui

import (
	"context"
	"embed"
	stderrors "errors"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"launchdash/internal"
	"launchdash/internal/container"
	"launchdash/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"golang.org/x/sync/semaphore"
)

//go:embed templates/* static/*
var embeddedFiles embed.FS

// ShutdownTimeout bounds graceful shutdown of the HTTP listeners
const ShutdownTimeout = 5 * time.Second

// MaxConcurrentRenders bounds PNG exports running at once
const MaxConcurrentRenders = 4

// Server represents the web server for the launch dashboard
type Server struct {
	router    *gin.Engine
	app       *container.Container
	templates *template.Template
	about     template.HTML
	renders   *semaphore.Weighted
	log       *internal.Logger
}

// NewServer creates the dashboard server around the application context
func NewServer(app *container.Container) (*Server, error) {
	if app == nil {
		return nil, errors.InternalError("application container cannot be nil")
	}
	gin.SetMode(app.Config.Server.GinMode)

	s := &Server{
		router:  gin.New(),
		app:     app,
		renders: semaphore.NewWeighted(MaxConcurrentRenders),
		log:     app.Logger.With("Server"),
	}

	if err := s.loadTemplates(); err != nil {
		return nil, err
	}
	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// loadTemplates parses the page templates and renders the dataset notes
func (s *Server) loadTemplates() error {
	funcMap := template.FuncMap{
		"kg": formatKg,
	}

	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return errors.Wrap(err, "failed to parse templates")
	}
	s.templates = templates

	notes, err := fs.ReadFile(embeddedFiles, "templates/about.md")
	if err != nil {
		return errors.Wrap(err, "failed to read dataset notes")
	}
	s.about = template.HTML(markdown.ToHTML(notes, nil, nil))

	s.log.Debug("templates loaded: %s", templates.DefinedTemplates())
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	api.GET("/layout", s.handleLayout)
	api.GET("/figures", s.handleFigures)
	api.POST("/callback", s.handleCallback)
	api.GET("/summary", s.handleSummary)
	api.GET("/charts/:output", s.handleChartPNG)
}

// Handler exposes the router, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the dispatch loop and serves HTTP on addr until ctx is done
func (s *Server) Start(ctx context.Context, addr string) error {
	go func() {
		if err := s.app.Loop.Run(ctx); err != nil && !stderrors.Is(err, context.Canceled) {
			s.log.Error("dispatch loop exited: %v", err)
		}
	}()

	return serve(ctx, &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}, s.log)
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully
func serve(ctx context.Context, srv *http.Server, logger *internal.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening on http://%s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrapf(err, "shutdown of %s failed", srv.Addr)
	}
	logger.Info("stopped %s", srv.Addr)
	return nil
}
