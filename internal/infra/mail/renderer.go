// Package mail delivers verification and reset codes by email.
package mail

import (
	"bytes"
	"embed"
	"html/template"

	"gramosi/internal/domain/service"
	"gramosi/internal/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

type htmlTemplateRenderer struct {
	templates *template.Template
}

// NewTemplateRenderer parses the embedded templates once.
func NewTemplateRenderer() (service.TemplateRenderer, error) {
	templates, err := template.New("mail").Option("missingkey=error").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse mail templates")
	}

	return &htmlTemplateRenderer{templates: templates}, nil
}

// Render executes the template registered under name, e.g. "otp" for templates/otp.html.
func (r *htmlTemplateRenderer) Render(name string, vars map[string]string) (string, error) {
	tmpl := r.templates.Lookup(name + ".html")
	if tmpl == nil {
		return "", errors.Errorf("unknown mail template %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", errors.Wrapf(err, "failed to render mail template %q", name)
	}

	return buf.String(), nil
}
