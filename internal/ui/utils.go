package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Panel is a bordered box with an optional bold title line.
type Panel struct {
	Title       string
	Content     string
	BorderColor lipgloss.Color
	Width       int
}

// NewPanel creates a new panel with default styling.
func NewPanel(title, content string) *Panel {
	return &Panel{
		Title:       title,
		Content:     content,
		BorderColor: ColorSecondary,
	}
}

// WithBorderColor sets the border color and returns the panel.
func (p *Panel) WithBorderColor(color lipgloss.Color) *Panel {
	p.BorderColor = color
	return p
}

// WithWidth sets the panel width and returns the panel.
func (p *Panel) WithWidth(width int) *Panel {
	p.Width = width
	return p
}

// Render returns the styled panel as a string.
func (p *Panel) Render() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.BorderColor).
		Padding(0, 1)

	if p.Width > 0 {
		style = style.Width(p.Width)
	}

	content := p.Content
	if p.Title != "" {
		content = StyleTitle.Render(p.Title) + "\n" + p.Content
	}

	return style.Render(content)
}

// RenderInfoPanel renders a panel with a cyan border. A width of 0 fits
// the content.
func RenderInfoPanel(title, content string, width int) string {
	return NewPanel(title, content).WithBorderColor(ColorPrimary).WithWidth(width).Render()
}
