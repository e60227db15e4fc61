// Package server exposes the dice pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"image"
	"time"

	"dice-reader/internal/dice"
	"dice-reader/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ProcessImagePath is the route the device client posts photos to.
const ProcessImagePath = "/rest/yahtzee/v1/process_image"

// Extractor reads dice from a decoded photo.
type Extractor interface {
	Extract(ctx context.Context, photo image.Image) (*dice.Result, error)
}

// Option configures a Server.
type Option func(*Server) error

// Server routes HTTP requests to the extractor.
type Server struct {
	engine    *fiber.App
	log       *logrus.Logger
	validator *validator.Validate
	extractor Extractor
	cache     storage.ResultCache
	timeout   time.Duration
	templates int
}

// New creates a server. A logger and an extractor are required; the fiber
// app defaults to NewFiber.
func New(options ...Option) (*Server, error) {
	s := &Server{}
	for _, option := range options {
		if err := option(s); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if s.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if s.extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}
	if s.engine == nil {
		s.engine = NewFiber(s.log, 0)
	}
	if s.validator == nil {
		s.validator = validator.New()
	}

	s.routes()
	return s, nil
}

// WithFiber uses app instead of a default fiber app.
func WithFiber(app *fiber.App) Option {
	return func(s *Server) error {
		s.engine = app
		return nil
	}
}

// WithLogger sets the request and error logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

// WithValidator sets the request validator.
func WithValidator(v *validator.Validate) Option {
	return func(s *Server) error {
		s.validator = v
		return nil
	}
}

// WithExtractor sets the pipeline requests are served by.
func WithExtractor(e Extractor) Option {
	return func(s *Server) error {
		s.extractor = e
		return nil
	}
}

// WithCache enables the result cache.
func WithCache(c storage.ResultCache) Option {
	return func(s *Server) error {
		s.cache = c
		return nil
	}
}

// WithTimeout bounds the time spent on one photo. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) error {
		if d < 0 {
			return fmt.Errorf("negative timeout %v", d)
		}
		s.timeout = d
		return nil
	}
}

// WithTemplates reports the loaded template set on the health check.
func WithTemplates(ts *dice.TemplateSet) Option {
	return func(s *Server) error {
		if ts == nil {
			return fmt.Errorf("nil template set")
		}
		s.templates = ts.Len()
		return nil
	}
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.engine
}

func (s *Server) routes() {
	s.engine.Use(NewRequestIDMiddleware())
	s.engine.Use(NewLoggingMiddleware(s.log))

	s.engine.Get("/healthz", s.health)
	s.engine.Post(ProcessImagePath, s.processImage)
}

// Run listens on addr until Shutdown is called.
func (s *Server) Run(addr string) error {
	s.log.Infof("Listening on %s", addr)
	return s.engine.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.engine.ShutdownWithContext(ctx)
}
