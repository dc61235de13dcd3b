// Package httpapi serves the RAMS validation, auto-fix, AI and export
// endpoints over JSON.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Hannlytics/rams-generator/internal/application"
	"go.uber.org/zap"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
)

// Server wires the application services to HTTP routes.
type Server struct {
	svc     *application.Services
	logger  *zap.Logger
	handler http.Handler
}

// New builds the server and its route table.
func New(svc *application.Services, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{svc: svc, logger: logger}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	// outermost first: request ID, then logging, then recovery, then body limit
	s.handler = requestID(
		accessLog(logger,
			recoverPanics(logger,
				limitBody(svc.Config.Server.MaxBodyBytes, mux))))
	return s
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/validate-step", s.handleValidateStep)
	mux.HandleFunc("POST /api/auto-fix", s.handleAutoFix)
	mux.HandleFunc("POST /api/gpt-validate", s.handleGPTValidate)
	mux.HandleFunc("POST /api/copilot-generate", s.handleCopilotGenerate)
	mux.HandleFunc("POST /api/generate-rams-word", s.handleExport(wordExport))
	mux.HandleFunc("POST /api/generate-rams-pdf", s.handleExport(pdfExport))
	mux.HandleFunc("GET /api/competency", s.handleCompetencyQuestions)
	mux.HandleFunc("POST /api/competency", s.handleCompetency)
	mux.HandleFunc("GET /api/rules", s.handleRules)
	mux.HandleFunc("GET /healthz", s.handleHealth)
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe listens on the configured address until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := s.svc.Config.Server.Addr
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then drains
// in-flight requests for up to shutdownTimeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	cfg := s.svc.Config.Server
	srv := &http.Server{
		Handler:           s.handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		ErrorLog:          zap.NewStdLog(s.logger.Named("http")),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("http server listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	<-errCh
	return nil
}
