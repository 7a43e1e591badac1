// Package display renders terminal output: the progress indicator, the
// accepted command echo, errors and the status report.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Output streams, replaceable in tests
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

var (
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	commandStyle = lipgloss.NewStyle().Bold(true)
	hintStyle    = lipgloss.NewStyle().Faint(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Example is the query shown in usage
const Example = "x list s3 buckets"

// ShowUsage prints how to invoke the tool
func ShowUsage() {
	fmt.Fprintln(Stdout, "Use like:")
	fmt.Fprintln(Stdout, promptLine(Example))
}

// ShowCommand echoes an accepted command before it runs
func ShowCommand(command string) {
	fmt.Fprintln(Stdout, promptLine(command))
}

func promptLine(command string) string {
	return promptStyle.Render("$ ") + commandStyle.Render(command)
}

// SuggestionLabel renders a suggestion with key hints on one line.
// A non-empty warning is shown before the hints.
func SuggestionLabel(command, warning string) string {
	var sb strings.Builder
	sb.WriteString(commandStyle.Render(command))
	if warning != "" {
		sb.WriteString("  ")
		sb.WriteString(warningStyle.Render("⚠ " + warning))
	}
	sb.WriteString("  ")
	sb.WriteString(hintStyle.Render("(enter → run command, space → new suggestion)"))
	return sb.String()
}

// ShowError prints a single failure line
func ShowError(msg string) {
	fmt.Fprintln(Stderr, errorStyle.Render("✖")+" "+msg)
}

// ShowSuccess prints a single success line
func ShowSuccess(msg string) {
	fmt.Fprintln(Stdout, successStyle.Render("✔")+" "+msg)
}

// StatusInfo is what --status reports
type StatusInfo struct {
	CredentialSource string // empty when no token is available
	TokenFile        string
	ConfigPath       string
	BaseURL          string
	Model            string
	Shell            string
}

// Markdown renders the status as a markdown document
func (s StatusInfo) Markdown() string {
	orNone := func(v string) string {
		if v == "" {
			return "_none_"
		}
		return "`" + v + "`"
	}

	var sb strings.Builder
	sb.WriteString("# x status\n\n")
	if s.CredentialSource == "" {
		sb.WriteString("**Credential:** missing, run `x init`\n\n")
	} else {
		sb.WriteString("**Credential:** " + s.CredentialSource + "\n\n")
	}
	sb.WriteString("| Setting | Value |\n|---|---|\n")
	sb.WriteString("| Token file | " + orNone(s.TokenFile) + " |\n")
	sb.WriteString("| Config file | " + orNone(s.ConfigPath) + " |\n")
	sb.WriteString("| API base URL | " + orNone(s.BaseURL) + " |\n")
	sb.WriteString("| Model | " + orNone(s.Model) + " |\n")
	sb.WriteString("| Shell | " + orNone(s.Shell) + " |\n")
	return sb.String()
}

// ShowStatus prints the status through glamour, or as plain markdown if
// rendering fails
func ShowStatus(info StatusInfo) {
	md := info.Markdown()
	fmt.Fprint(Stdout, RenderMarkdown(md))
}

// RenderMarkdown renders md for the terminal, returning md unchanged on error
func RenderMarkdown(md string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}
