// Package stub is an in-memory stand-in for the coaching service. It honors
// the same REST contract as the real service so the client can run offline.
package stub

import (
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/tgienger/hbt/internal/logging"
)

// Server is the stub service Fiber application.
type Server struct {
	app    *fiber.App
	logger zerolog.Logger
	now    func() time.Time
	pick   func(n int) int

	mu       sync.Mutex
	goals    map[string]*goalBody
	order    []string
	failures map[string]int
}

// NewServer creates the stub with an empty goal store.
func NewServer(logger zerolog.Logger) *Server {
	s := &Server{
		logger:   logging.Component(logger, "stub"),
		now:      time.Now,
		pick:     rand.Intn,
		goals:    make(map[string]*goalBody),
		failures: make(map[string]int),
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		UnescapePath:          true,
		ErrorHandler:          s.errorHandler,
	})
	s.app.Use(recover.New())
	s.app.Use(s.audit)
	s.app.Use(s.injectFailures)
	s.routes()

	return s
}

// App returns the Fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.logger.Info().Str("addr", addr).Msg("stub service listening")
	return s.app.Listen(addr)
}

// Shutdown stops the listener.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// Fail makes every request matching method and path answer with status.
// A zero status removes the failure.
func (s *Server) Fail(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	if status == 0 {
		delete(s.failures, key)
		return
	}
	s.failures[key] = status
}

// Doer adapts the app to an HTTP client without a network listener.
func (s *Server) Doer() Doer {
	return Doer{app: s.app}
}

// Doer sends requests straight into a Fiber app.
type Doer struct {
	app *fiber.App
}

// Do implements the remote client's HTTPClient.
func (d Doer) Do(req *http.Request) (*http.Response, error) {
	return d.app.Test(req, -1)
}

func (s *Server) routes() {
	s.app.Get("/", s.root)
	s.app.Get("/goals", s.listGoals)
	s.app.Post("/goals", s.createGoal)
	s.app.Get("/goals/stats", s.stats)
	s.app.Get("/goals/categories", s.categories)
	s.app.Put("/goals/:id", s.setCompleted)
	s.app.Put("/goals/:id/progress", s.setProgress)
	s.app.Delete("/goals/:id", s.deleteGoal)
	s.app.Get("/motivation", s.motivation)
	s.app.Post("/coach", s.coach)
}

func (s *Server) audit(c *fiber.Ctx) error {
	err := c.Next()
	s.logger.Debug().
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", c.Response().StatusCode()).
		Msg("stub request")
	return err
}

func (s *Server) injectFailures(c *fiber.Ctx) error {
	s.mu.Lock()
	status, ok := s.failures[c.Method()+" "+c.Path()]
	s.mu.Unlock()
	if ok {
		return c.Status(status).JSON(fiber.Map{"success": false, "error": "injected failure"})
	}
	return c.Next()
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	if code >= 500 {
		s.logger.Error().Err(err).Str("path", c.Path()).Msg("stub handler error")
	}
	return c.Status(code).JSON(fiber.Map{"success": false, "error": err.Error()})
}
