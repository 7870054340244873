// Package server exposes the line planning pipeline and the line record
// store over HTTP.
//
// Routes:
//
//	GET    /healthz
//	POST   /v1/operations                  multipart "file" -> operations
//	POST   /v1/layout                      {operations, target_output, working_hours}
//	POST   /v1/lines                       multipart file, line_no, style_no, cone_no
//	GET    /v1/lines
//	GET    /v1/lines/{id}
//	DELETE /v1/lines/{id}
//	PUT    /v1/lines/{id}/parameters       {target_output, working_hours}
//	GET    /v1/lines/{id}/render/{format}  ?section=Collar&detailed=true&compact=true&labels=false
//
// Errors are returned as {"code", "message"}.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineplanner/pkg/line"
	"github.com/matzehuels/lineplanner/pkg/pipeline"
	"github.com/matzehuels/lineplanner/pkg/store"
)

const (
	// maxUploadSize bounds multipart bulletin uploads.
	maxUploadSize = 32 << 20

	// maxJSONSize bounds JSON request bodies.
	maxJSONSize = 8 << 20

	gracefulShutdownTimeout = 10 * time.Second
)

// Deps are the server's collaborators.
type Deps struct {
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger

	// Defaults supplies planning parameters for new lines and layout
	// options such as templates.
	Defaults pipeline.Options
}

// Server is the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	logger   *log.Logger
	defaults pipeline.Options
	handler  http.Handler
}

// New creates a server. Runner and Store are required.
func New(deps Deps) (*Server, error) {
	if deps.Runner == nil {
		return nil, fmt.Errorf("runner is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	if deps.Defaults.TargetOutput == 0 && deps.Defaults.WorkingHours == 0 {
		deps.Defaults.TargetOutput = line.DefaultTargetOutput
		deps.Defaults.WorkingHours = line.DefaultWorkingHours
	}

	s := &Server{
		runner:   deps.Runner,
		store:    deps.Store,
		logger:   deps.Logger.WithPrefix("http"),
		defaults: deps.Defaults,
	}
	s.handler = s.buildRouter()
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
