package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"pluginsummary/internal/credential"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// terminalPrompter reads the API key from the controlling terminal without
// echo. Without a terminal the prompt counts as cancelled.
type terminalPrompter struct {
	in  *os.File
	out io.Writer
}

func (p terminalPrompter) PromptCredential(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fd := int(p.in.Fd())
	if !term.IsTerminal(fd) {
		return "", credential.ErrPromptCancelled
	}

	_, _ = fmt.Fprint(p.out, "Please enter your OpenAI API key: ")

	raw, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	return strings.TrimSpace(string(raw)), nil
}

type terminalNotifier struct {
	out io.Writer
}

func (n terminalNotifier) Notify(_ context.Context, notice credential.Notice) {
	style := noticeStyle
	if notice == credential.NoticeMissing {
		style = errorStyle
	}

	_, _ = fmt.Fprintln(n.out, style.Render(notice.String()))
}

func printError(out io.Writer, message string) {
	_, _ = fmt.Fprintln(out, errorStyle.Render("Error: "+message))
}
