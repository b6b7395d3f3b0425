package markdown

import (
	"bytes"
	"fmt"
	"html"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const DefaultWordWrap = 80

var htmlRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// ToHTML renders completion text for the popup. Raw HTML in the input is
// dropped by the renderer.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := htmlRenderer.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}

	return buf.String(), nil
}

// ToTerminal renders completion text for a terminal. On failure the source
// is returned along with the error.
func ToTerminal(source string, wordWrap int) (string, error) {
	if wordWrap <= 0 {
		wordWrap = DefaultWordWrap
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return source, fmt.Errorf("create renderer: %w", err)
	}

	rendered, err := r.Render(source)
	if err != nil {
		return source, fmt.Errorf("render: %w", err)
	}

	return rendered, nil
}

func ErrorHTML(message string) string {
	return `<p style="color: red;">Error: ` + html.EscapeString(message) + `</p>`
}
