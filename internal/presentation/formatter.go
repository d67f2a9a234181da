package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
	json   bool

	heading lipgloss.Style
	label   lipgloss.Style
	muted   lipgloss.Style
}

// NewFormatter creates a new formatter. When asJSON is set every Format
// method writes indented JSON instead of text.
func NewFormatter(writer io.Writer, asJSON bool) *Formatter {
	r := lipgloss.NewRenderer(writer)
	return &Formatter{
		writer:  writer,
		json:    asJSON,
		heading: r.NewStyle().Bold(true),
		label:   r.NewStyle().Width(15),
		muted:   r.NewStyle().Faint(true),
	}
}

// FormatTemplates writes the list of templates
func (f *Formatter) FormatTemplates(dtos []TemplateDTO) error {
	if f.json {
		return f.encode(dtos)
	}

	if len(dtos) == 0 {
		_, err := fmt.Fprintln(f.writer, "No templates found")
		return err
	}

	var b strings.Builder
	b.WriteString(f.heading.Render("Templates:"))
	b.WriteString("\n")
	for _, t := range dtos {
		fmt.Fprintf(&b, "  %s %s\n", t.Name, f.muted.Render("("+t.Kind+")"))
	}
	_, err := io.WriteString(f.writer, b.String())
	return err
}

// FormatConfig writes the registry record
func (f *Formatter) FormatConfig(dto ConfigDTO) error {
	if f.json {
		return f.encode(dto)
	}

	var b strings.Builder
	b.WriteString(f.heading.Render("Configuration:"))
	b.WriteString("\n")
	f.row(&b, "Config file", dto.RecordPath)
	f.row(&b, "Version", dto.Version)
	f.row(&b, "Template root", dto.TemplateRoot)
	f.row(&b, "Templates", fmt.Sprintf("%d", len(dto.Templates)))
	if _, err := io.WriteString(f.writer, b.String()); err != nil {
		return err
	}
	if len(dto.Templates) == 0 {
		return nil
	}

	_, err := fmt.Fprintln(f.writer)
	if err != nil {
		return err
	}
	return f.FormatTemplates(dto.Templates)
}

func (f *Formatter) row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "  %s%s\n", f.label.Render(label+":"), value)
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
