package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"io"
	"strings"
	texttemplate "text/template"

	"campusbooking/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// Each named email is three files: <name>_subject.txt, <name>.html and <name>.txt.
var (
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt"))
)

type templateRenderer struct{}

// NewTemplateRenderer returns a renderer over the embedded templates.
func NewTemplateRenderer() domain.EmailTemplateRenderer {
	return templateRenderer{}
}

func (templateRenderer) Render(templateName string, data any) (subject, htmlBody, textBody string, err error) {
	if subject, err = execute(textTemplates, templateName+"_subject.txt", data); err != nil {
		return "", "", "", fmt.Errorf("render subject: %w", err)
	}
	if htmlBody, err = execute(htmlTemplates, templateName+".html", data); err != nil {
		return "", "", "", fmt.Errorf("render html: %w", err)
	}
	if textBody, err = execute(textTemplates, templateName+".txt", data); err != nil {
		return "", "", "", fmt.Errorf("render text: %w", err)
	}
	return strings.TrimSpace(subject), htmlBody, textBody, nil
}

// executor is satisfied by both *htmltemplate.Template and *texttemplate.Template.
type executor interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

func execute(set executor, name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
