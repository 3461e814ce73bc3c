// Package devapi is an in-memory implementation of the remote topic/session
// service. It backs local demos (cmd/devapi) and transport tests.
package devapi

import (
	"net"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/contrib/fiberzerolog"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
)

const TokenTTL = time.Hour

type Config struct {
	// Secret signs the issued tokens.
	Secret []byte
	// Now replaces the wall clock, for tests.
	Now func() time.Time
	// Logger receives access logs. Nil disables them.
	Logger *zerolog.Logger
}

type Server struct {
	app    *fiber.App
	state  *state
	secret []byte
	now    func() time.Time
}

func New(cfg Config) *Server {
	s := &Server{
		state:  newState(),
		secret: cfg.Secret,
		now:    cfg.Now,
	}
	if len(s.secret) == 0 {
		s.secret = []byte("devapi-secret")
	}
	if s.now == nil {
		s.now = time.Now
	}

	app := fiber.New(fiber.Config{
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Header: "X-Request-Id"}))
	if cfg.Logger != nil {
		app.Use(fiberzerolog.New(fiberzerolog.Config{
			Logger: cfg.Logger,
		}))
	}

	s.app = app
	s.routes(app.Group("/api"))
	return s
}

// NewConsoleLogger returns a zerolog logger writing human readable lines to
// stderr.
func NewConsoleLogger(level zerolog.Level) *zerolog.Logger {
	l := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}).
		With().
		Timestamp().
		Logger().
		Level(level)
	return &l
}

func (s *Server) routes(api fiber.Router) {
	api.Post("/auth/register", s.register)
	api.Post("/auth/login", s.login)

	api.Get("/topics", s.listTopics)
	api.Post("/topics", s.authorize, s.createTopic)

	api.Get("/topics/:topic_id/session", s.getSession)
	api.Post("/topics/:topic_id/session", s.authorize, s.openSession)

	api.Post("/topics/:topic_id/vote", s.authorize, s.vote)
	api.Get("/topics/:topic_id/result", s.result)
}

// App exposes the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Serve accepts connections from ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	return s.app.Listener(ln)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
