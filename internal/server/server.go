package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ironsheep/partnum-ocr/internal/logging"
	"github.com/ironsheep/partnum-ocr/internal/partnum"
)

// Options configures the HTTP surface.
type Options struct {
	// MaxUploadBytes caps request bodies. Zero means 20 MiB.
	MaxUploadBytes int64

	// CORSOrigins lists allowed browser origins; "*" allows any.
	CORSOrigins []string

	// ShutdownTimeout bounds how long Run waits for in-flight requests.
	// Zero means 10 seconds.
	ShutdownTimeout time.Duration
}

const (
	defaultMaxUploadBytes  = 20 << 20
	defaultShutdownTimeout = 10 * time.Second
)

// Server serves the recognition endpoints over HTTP.
type Server struct {
	pipeline *partnum.Pipeline
	opts     Options
	log      *logging.Logger
	router   *gin.Engine
}

// New creates a server around pipeline. The pipeline may have no engine, in
// which case recognition requests fail and /health reports ocr_loaded=false.
func New(pipeline *partnum.Pipeline, opts Options, logger *logging.Logger) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	if logger == nil {
		logger = logging.NewLogger("http")
	}

	s := &Server{
		pipeline: pipeline,
		opts:     opts,
		log:      logger,
	}
	s.router = s.setupRouter()
	return s
}

// setupRouter registers middleware and routes.
func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = s.opts.MaxUploadBytes

	r.Use(s.requestID())
	r.Use(s.accessLog())
	r.Use(gin.CustomRecovery(s.recoverPanic))
	r.Use(cors(s.opts.CORSOrigins))
	r.Use(limitBody(s.opts.MaxUploadBytes))

	r.GET("/", s.handleRoot)
	r.GET("/health", s.handleHealth)

	ocr := r.Group("/ocr")
	{
		ocr.POST("/recognize", s.handleRecognizeUpload)
		ocr.POST("/recognize-base64", s.handleRecognizeBase64)
	}

	return r
}

// Handler returns the server's http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down", "timeout", s.opts.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}
