package email

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	htmltemplate "html/template"
	"net/url"
	"regexp"
	"strings"
	texttemplate "text/template"
)

//go:embed templates
var templatesFS embed.FS

const (
	TemplateBulk                = "bulk"
	TemplateJoinerConfirmation  = "joiner_confirmation"
	TemplateJoinerAlert         = "joiner_alert"
	TemplateSubscriptionWelcome = "subscription_welcome"
	TemplateStatementReceived   = "statement_received"
	TemplateStatementFeedback   = "statement_feedback"
)

type EmailTemplate struct {
	HTML *htmltemplate.Template
	Text *texttemplate.Template
}

func parseEmailTemplate(name string) EmailTemplate {
	funcs := map[string]any{
		"query_escape": url.QueryEscape,
		"join":         strings.Join,
	}
	htmlFuncs := htmltemplate.FuncMap(funcs)
	textFuncs := texttemplate.FuncMap(funcs)
	h := htmltemplate.Must(htmltemplate.New("email").Funcs(htmlFuncs).ParseFS(templatesFS, "templates/email_base.html", fmt.Sprintf("templates/%s.html", name)))
	t := texttemplate.Must(texttemplate.New("email").Funcs(textFuncs).ParseFS(templatesFS, "templates/email_base.txt", fmt.Sprintf("templates/%s.txt", name)))
	return EmailTemplate{HTML: h, Text: t}
}

// Composer renders messages into the shared email layout.
type Composer struct {
	siteURL   string
	templates map[string]EmailTemplate
}

func NewComposer(siteURL string) *Composer {
	names := []string{
		TemplateBulk,
		TemplateJoinerConfirmation,
		TemplateJoinerAlert,
		TemplateSubscriptionWelcome,
		TemplateStatementReceived,
		TemplateStatementFeedback,
	}
	templates := make(map[string]EmailTemplate, len(names))
	for _, n := range names {
		templates[n] = parseEmailTemplate(n)
	}
	return &Composer{siteURL: strings.TrimRight(siteURL, "/"), templates: templates}
}

func (c *Composer) Render(name, subject string, data map[string]interface{}) (Message, error) {
	t, ok := c.templates[name]
	if !ok {
		return Message{}, fmt.Errorf("unknown email template: %s", name)
	}
	data = cloneData(data)
	data["Subject"] = subject
	data["SiteURL"] = c.siteURL
	if _, ok := data["UnsubscribeLink"]; !ok {
		data["UnsubscribeLink"] = ""
	}
	var htmlMsg, textMsg bytes.Buffer
	if err := t.HTML.ExecuteTemplate(&htmlMsg, "email", data); err != nil {
		return Message{}, fmt.Errorf("building html template %s: %w", name, err)
	}
	if err := t.Text.ExecuteTemplate(&textMsg, "email", data); err != nil {
		return Message{}, fmt.Errorf("building text template %s: %w", name, err)
	}
	return Message{Subject: subject, HTML: htmlMsg.String(), Text: textMsg.String()}, nil
}

// cloneData copies data so the caller's map is left untouched.
func cloneData(data map[string]interface{}) map[string]interface{} {
	res := make(map[string]interface{}, len(data)+3)
	for k, v := range data {
		res[k] = v
	}
	return res
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// PlainText strips markup from admin supplied html content.
func PlainText(content string) string {
	text := tagPattern.ReplaceAllString(content, "")
	return strings.TrimSpace(html.UnescapeString(text))
}

// Bulk wraps admin supplied html content. The content is trusted as is.
func (c *Composer) Bulk(subject, content, unsubscribeLink string) (Message, error) {
	return c.Render(TemplateBulk, subject, map[string]interface{}{
		"Content":         htmltemplate.HTML(content),
		"TextContent":     PlainText(content),
		"UnsubscribeLink": unsubscribeLink,
	})
}
