// Package renderer turns vault state and audit journals into markdown
// reports for the CLI.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templates embed.FS

// RenderStatus renders the Status struct to a markdown string.
func RenderStatus(s *Status) string {
	partials := map[string]string{
		"status_title":    "status_title.md",
		"status_global":   "status_global.md",
		"status_assets":   "status_assets.md",
		"status_balances": "status_balances.md",
	}
	return renderTemplate("status", "status.md", partials, s)
}

// RenderJournal renders a list of journal rows to a markdown string.
func RenderJournal(rows []JournalRow) string {
	return renderTemplate("journal", "journal.md", nil, rows)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, readErr := fs.ReadFile(templates, "templates/"+file)
		if readErr != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
