// Package web serves the research form, results pages and exports.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/freeresearch/internal/report"
)

const shutdownTimeout = 10 * time.Second

// Researcher runs one research query.
type Researcher interface {
	Research(ctx context.Context, query string) (report.Report, error)
}

// Info is reported by /health and /debug. It never carries secrets.
type Info struct {
	Version        string
	Provider       string
	Strategy       string
	GoogleKeySet   bool
	LLMKeySet      bool
	RespectsRobots bool
}

// Server is the HTTP front end.
type Server struct {
	researcher Researcher
	info       Info
	render     *renderer
	e          *echo.Echo
}

// New builds the echo instance with routes and middleware.
func New(r Researcher, info Info) (*Server, error) {
	rend, err := newRenderer()
	if err != nil {
		return nil, err
	}
	s := &Server{researcher: r, info: info, render: rend, e: echo.New()}
	e := s.e
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = rend

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	}))
	e.Use(middleware.BodyLimit("64K"))

	e.GET("/", s.handleIndex)
	e.POST("/research", s.handleResearch)
	e.GET("/research", s.handleResearch)
	e.POST("/search", s.handleResearch)
	e.GET("/health", s.handleHealth)
	e.GET("/debug", s.handleDebug)
	e.StaticFS("/static", echo.MustSubFS(staticFS, "static"))
	return s, nil
}

// ServeHTTP lets the server be used with httptest or another listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("version", s.info.Version).Msg("listening")
		errc <- s.e.Start(addr)
	}()
	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.e.Shutdown(sctx)
}
