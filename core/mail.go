package core

import (
	"bytes"
	"fmt"
	htmltmpl "html/template"
	"net/mail"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

type (
	Attachment struct {
		Content     *bytes.Buffer
		ContentType string
		Filename    string
	}

	EmailMessage struct {
		To          []mail.Address
		Cc          []mail.Address
		Bcc         []mail.Address
		Subject     string
		BodyStr     string // simple text/plain, non-templated content
		Attachments []Attachment

		// templated contents
		TemplateName string
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	ContextData struct {
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

// mail templates are compiled in; this app has no on-disk asset tree.
var (
	textTemplates = map[string]*texttmpl.Template{
		"password-reset": texttmpl.Must(texttmpl.New("password-reset").Parse(
			"You're receiving this email because you requested a password reset for your account.\n\n" +
				"Please go to the following page and choose a new password:\n\n" +
				"{{ .FrontendBaseURL }}/auth/password-reset/{{ .Data.UID }}/{{ .Data.Token }}\n\n" +
				"If you did not request this, you can safely ignore this email.\n",
		)),
	}
	htmlTemplates = map[string]*htmltmpl.Template{
		"password-reset": htmltmpl.Must(htmltmpl.New("password-reset").Parse(
			"<p>You're receiving this email because you requested a password reset for your account.</p>" +
				"<p>Please follow this link and choose a new password:</p>" +
				`<p><a href="{{ .FrontendBaseURL }}/auth/password-reset/{{ .Data.UID }}/{{ .Data.Token }}">Reset password</a></p>` +
				"<p>If you did not request this, you can safely ignore this email.</p>",
		)),
	}
)

func (m *EmailMessage) getContextData() ContextData {
	return ContextData{
		FrontendBaseURL: Conf.FrontendBaseURL,
		Data:            m.TemplateData,
	}
}

// Render resolves the message's text and HTML contents.
func (m *EmailMessage) Render() error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
		return nil
	}
	if m.TemplateName == "" {
		return nil
	}

	tt, ok := textTemplates[m.TemplateName]
	if !ok {
		return errors.New(fmt.Sprintf("unknown mail template %q", m.TemplateName))
	}
	var txt bytes.Buffer
	if err := tt.Execute(&txt, m.getContextData()); err != nil {
		return errors.Wrap(err, "rendering text template")
	}
	m.TextContent = txt.String()

	if ht, ok := htmlTemplates[m.TemplateName]; ok {
		var html bytes.Buffer
		if err := ht.Execute(&html, m.getContextData()); err != nil {
			return errors.Wrap(err, "rendering html template")
		}
		m.HTMLContent = html.String()
	}
	return nil
}

func (m *EmailMessage) HasRecipients() bool {
	return len(m.To) > 0 || len(m.Cc) > 0 || len(m.Bcc) > 0
}

func (m *EmailMessage) HasContent() bool {
	return m.TextContent != "" || m.HTMLContent != ""
}

func (m *EmailMessage) HasAttachments() bool {
	return len(m.Attachments) > 0
}
