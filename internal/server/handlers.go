package server

import (
	"errors"
	"pluginsummary/internal/credential"
	"pluginsummary/internal/plugin"
	"pluginsummary/internal/popup"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type summaryRequest struct {
	URL string `json:"url"`
}

type credentialRequest struct {
	Value string `json:"value"`
}

type popupResponse struct {
	State         string `json:"state"`
	Visible       bool   `json:"visible"`
	Content       string `json:"content"`
	Notice        string `json:"notice,omitempty"`
	InputRequired bool   `json:"inputRequired"`
}

type noticeResponse struct {
	Notice string `json:"notice"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// requireJSON rejects non-JSON bodies so that cross-origin pages cannot
// reach the API with simple form posts.
func requireJSON(c *fiber.Ctx) error {
	if !c.Is("json") {
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(errorResponse{Error: "expected application/json body"})
	}

	return c.Next()
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handlePluginPage(c *fiber.Ctx) error {
	ctx := c.UserContext()
	pageURL := plugin.PageURL(c.Params("slug"))

	if ok, _ := plugin.IsPageURL(pageURL); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid plugin slug"})
	}

	doc, err := s.pages.Fetch(ctx, pageURL)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to fetch plugin page",
			"error", err,
			"pageURL", pageURL)

		return c.Status(fiber.StatusBadGateway).JSON(errorResponse{Error: "failed to fetch plugin page"})
	}

	Inject(doc, pageURL)

	html, err := doc.Html()
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to render plugin page",
			"error", err,
			"pageURL", pageURL)

		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "failed to render plugin page"})
	}

	c.Type("html", "utf-8")

	return c.SendString(html)
}

func (s *Server) handleSummary(c *fiber.Ctx) error {
	var req summaryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid request body"})
	}

	pageURL := strings.TrimSpace(req.URL)
	if ok, _ := plugin.IsPageURL(pageURL); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "not a plugin page URL"})
	}

	p := s.controller.Click(c.UserContext(), pageURL)

	return c.JSON(toPopupResponse(p))
}

func (s *Server) handleCredential(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req credentialRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid request body"})
	}

	_, err := s.credentials.Supply(ctx, req.Value)
	switch {
	case errors.Is(err, credential.ErrAbsentCredential):
		return c.Status(fiber.StatusBadRequest).JSON(noticeResponse{Notice: credential.NoticeMissing.String()})
	case err != nil:
		s.log.ErrorContext(ctx, "Failed to store API key",
			"error", err)

		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "failed to store API key"})
	}

	return c.JSON(noticeResponse{Notice: credential.NoticeSaved.String()})
}

func toPopupResponse(p *popup.Popup) popupResponse {
	return popupResponse{
		State:         p.State.String(),
		Visible:       p.Visible,
		Content:       p.Content,
		Notice:        p.Notice,
		InputRequired: p.InputRequired,
	}
}
