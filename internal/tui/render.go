package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/starford/sikabut/internal/checklist"
	"github.com/starford/sikabut/internal/portal"
)

// Render draws the result area of a view: the status message or the
// record card with its checklist. Idle and Searching render nothing.
func Render(v portal.View, b portal.Branding, s Styles) string {
	switch v.State {
	case portal.Warning, portal.NotFound:
		return s.Warn.Render(v.Message)
	case portal.Errored:
		return s.Error.Render(v.Message)
	case portal.Found:
		if v.Record == nil {
			return ""
		}
		return s.Card.Render(card(v, b, s))
	default:
		return ""
	}
}

func card(v portal.View, b portal.Branding, s Styles) string {
	var sb strings.Builder
	for _, row := range portal.CardRows(*v.Record, b) {
		fmt.Fprintf(&sb, "%s %s\n", s.Label.Render(row.Label+":"), row.Value)
	}
	sb.WriteString("\n")
	sb.WriteString(s.Label.Render(b.Labels.Checklist))
	sb.WriteString("\n")
	sb.WriteString(Checklist(v.Completeness, b, s))
	return sb.String()
}

// Checklist renders completeness with the layout its item count selects.
func Checklist(c checklist.Completeness, b portal.Branding, s Styles) string {
	switch c.Layout() {
	case checklist.LayoutSingle:
		return s.Warn.Render(b.Copy.SingleMissing + " " + c.Items[0])
	case checklist.LayoutNumbered:
		lines := make([]string, 0, len(c.Items)+1)
		lines = append(lines, s.Warn.Render(b.Copy.MissingHeader))
		for i, item := range c.Items {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, item))
		}
		return strings.Join(lines, "\n")
	default:
		return s.OK.Render(b.Copy.Complete)
	}
}

// RenderMarkdown renders FAQ markdown for the terminal.
func RenderMarkdown(md string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
