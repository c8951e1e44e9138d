// Package renderer turns project reports into markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/folio/project"
)

//go:embed *.md
var templates embed.FS

// ReportRenderOptions holds configuration for rendering a report.
type ReportRenderOptions struct {
	SkipHistory      bool // Do not render the daily balances.
	SkipTransactions bool // Do not render the transactions section.
	// MaxTransactions limits the number of transactions rendered, 0 renders
	// them all.
	MaxTransactions int
}

// ReportMarkdown renders a project report to a markdown string.
func ReportMarkdown(r *project.Report, opts ReportRenderOptions) string {
	return RenderReport(NewReport(r, opts.MaxTransactions), opts)
}

// RenderReport renders the Report struct to a markdown string.
func RenderReport(r *Report, opts ReportRenderOptions) string {
	partials := map[string]string{
		"report_title":      "report_title.md",
		"report_summary":    "report_summary.md",
		"report_attributes": "report_attributes.md",
	}

	// An empty file name results in an empty template.
	partials["report_history"] = ""
	if !opts.SkipHistory {
		partials["report_history"] = "report_history.md"
	}
	partials["report_transactions"] = ""
	if !opts.SkipTransactions {
		partials["report_transactions"] = "report_transactions.md"
	}

	return renderTemplate("report", "report.md", partials, r)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		if file != "" {
			content, err = fs.ReadFile(templates, file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
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
