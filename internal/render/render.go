// Package render turns portal state into HTML. Views are a pure projection: the same
// state always renders the same markup.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the embedded page templates
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates
func New() (*Renderer, error) {
	tmpl, err := template.New("portal").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Index renders the search page
func (r *Renderer) Index(w io.Writer, p PageData) error {
	return r.tmpl.ExecuteTemplate(w, "index", p)
}

// Bookings renders the booking history page
func (r *Renderer) Bookings(w io.Writer, p BookingsPage) error {
	return r.tmpl.ExecuteTemplate(w, "bookings", p)
}

// Results renders the result list fragment
func (r *Renderer) Results(w io.Writer, v ResultsView) error {
	return r.tmpl.ExecuteTemplate(w, "results", v)
}

// Wizard renders the booking dialog fragment
func (r *Renderer) Wizard(w io.Writer, v WizardView) error {
	return r.tmpl.ExecuteTemplate(w, "wizard", v)
}

// ResultsHTML renders the result list fragment to a string
func (r *Renderer) ResultsHTML(v ResultsView) (string, error) {
	var buf bytes.Buffer
	if err := r.Results(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WizardHTML renders the booking dialog fragment to a string
func (r *Renderer) WizardHTML(v WizardView) (string, error) {
	var buf bytes.Buffer
	if err := r.Wizard(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}
