// Package health serves the liveness endpoint used by the hosting platform.
package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/gofiber/fiber/v2"
)

const Body = "Bot is running."

type Server struct {
	app  *fiber.App
	port int
}

func New(port int) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "birthday-bot",
	})
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(Body)
	})
	return &Server{app: app, port: port}
}

// Run serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	errs := make(chan error, 1)
	go func() {
		errs <- s.app.Listen(addr)
	}()
	slog.Info("health: listening", slog.String("http.addr", addr))

	select {
	case err := <-errs:
		if errors.Is(err, net.ErrClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		return s.app.ShutdownWithContext(context.Background())
	}
}

func (s *Server) App() *fiber.App {
	return s.app
}
