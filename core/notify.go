package core

import (
	"bytes"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

// notification bodies, keyed by template name
var templates = texttmpl.Must(texttmpl.New("notifications").Option("missingkey=error").Parse(`
{{- define "lesson_requested" -}}
New lesson request for {{.InstructorName}} ({{.Subject}} at {{.Time}})
{{- end -}}
{{- define "lesson_status" -}}
Lesson {{.Status}} for user {{.UserID}}
{{- end -}}
`))

type (
	Recipient struct {
		ID    string
		Name  string
		Email string
	}

	Notification struct {
		To      []Recipient
		Subject string
		BodyStr string // simple non-templated content

		// templated content
		TemplateName string
		TemplateData interface{}
		TextContent  string
	}

	// Notifier is any service that can deliver notifications to accounts.
	Notifier interface {
		// Notify delivers notifications concurrently
		Notify(notes ...*Notification)
	}
)

func (n *Notification) Render() error {
	if n.BodyStr != "" {
		n.TextContent = n.BodyStr
		return nil
	} else if n.TemplateName == "" {
		return nil
	}

	var buff bytes.Buffer
	if err := templates.ExecuteTemplate(&buff, n.TemplateName, n.TemplateData); err != nil {
		return errors.Wrapf(err, "rendering %q", n.TemplateName)
	}
	n.TextContent = buff.String()
	return nil
}

func (n *Notification) HasRecipients() bool { return len(n.To) > 0 }
func (n *Notification) HasContent() bool    { return n.TextContent != "" }
