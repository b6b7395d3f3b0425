package server

import (
	"context"
	"log/slog"
	"pluginsummary/internal/credential"
	"pluginsummary/internal/popup"

	"github.com/PuerkitoBio/goquery"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (*goquery.Document, error)
}

type Clicker interface {
	Click(ctx context.Context, pageURL string) *popup.Popup
}

type CredentialSupplier interface {
	Supply(ctx context.Context, input string) (credential.Credential, error)
}

// Server re-serves plugin pages with the summary UI and answers its clicks.
type Server struct {
	listenAddr  string
	pages       PageFetcher
	controller  Clicker
	credentials CredentialSupplier
	log         *slog.Logger
	app         *fiber.App
}

func New(
	listenAddr string,
	pages PageFetcher,
	controller Clicker,
	credentials CredentialSupplier,
	log *slog.Logger,
) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		listenAddr:  listenAddr,
		pages:       pages,
		controller:  controller,
		credentials: credentials,
		log:         log,
		app:         app,
	}

	app.Use(recover.New())

	app.Get("/healthz", s.handleHealth)
	app.Get("/plugins/:slug", s.handlePluginPage)

	api := app.Group("/api", requireJSON)
	api.Post("/summary", s.handleSummary)
	api.Post("/credential", s.handleCredential)

	return s
}

func (s *Server) Run() error {
	s.log.Info("Server is listening",
		"listenAddr", s.listenAddr)

	return s.app.Listen(s.listenAddr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
