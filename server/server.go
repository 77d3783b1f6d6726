// Package server exposes the chat gateway over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"github.com/miguagnxin/web-Joeyllmcahtinterface/gateway"
	"github.com/miguagnxin/web-Joeyllmcahtinterface/pkg/llm"
)

// ChatRoute is the only route the browser client talks to.
const ChatRoute = "/api/chat"

// ChatHandler turns a raw chat request body into the response for the client.
type ChatHandler interface {
	Handle(ctx context.Context, raw []byte) llm.Response
}

// Server serves the chat route. Every response on the chat route is HTTP 200 with a
// {content} body, including panics and requests fiber rejects on its own.
type Server struct {
	config Config
	chat   ChatHandler
	logger *zap.Logger
	app    *fiber.App
}

// New creates a new Server.
func New(config Config, chat ChatHandler, logger *zap.Logger) *Server {
	if config.BodyLimit <= 0 {
		config.BodyLimit = DefaultBodyLimit
	}

	s := &Server{
		config: config,
		chat:   chat,
		logger: logger,
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             config.BodyLimit,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(recover.New())

	s.app.Post(ChatRoute, s.handleChat)
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})

	return s
}

// Run starts the server on the configured listening address.
func (s *Server) Run() error {
	s.logger.Info("starting chat gateway", zap.String("listen", s.config.ListenAddr))
	return s.app.Listen(s.config.ListenAddr)
}

// RunWithListener serves on an existing listener.
func (s *Server) RunWithListener(ln net.Listener) error {
	s.logger.Info("starting chat gateway", zap.String("listen", ln.Addr().String()))
	return s.app.Listener(ln)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// Handler returns the server as a net/http handler.
func (s *Server) Handler() http.Handler {
	return adaptor.FiberApp(s.app)
}

func (s *Server) handleChat(c *fiber.Ctx) error {
	resp := s.chat.Handle(c.UserContext(), c.Body())
	return c.JSON(resp)
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := utils.StatusMessage(code)
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	if c.Method() == fiber.MethodPost && c.Path() == ChatRoute {
		s.logger.Error("chat request failed", zap.Int("status", code), zap.Error(err))
		text := gateway.MsgInternal
		if code == fiber.StatusRequestEntityTooLarge {
			text = gateway.MsgBodyTooLarge
		}
		return c.Status(fiber.StatusOK).JSON(gateway.Warning(text))
	}

	s.logger.Debug("request failed", zap.String("path", c.Path()), zap.Int("status", code), zap.Error(err))
	return c.Status(code).JSON(llm.ErrorResponse{Error: message})
}
