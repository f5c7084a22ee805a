package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/resend/resend-go/v3"

	"edulegal/internal/config"
	"edulegal/internal/pkg/i18n"
)

//go:embed templates/*.html
var templateFS embed.FS

type Service interface {
	SendCaseAssignedEmail(ctx context.Context, to Recipient, caseTitle, caseID string) error
	SendCaseStatusEmail(ctx context.Context, to Recipient, caseTitle, caseID, status string) error
}

// Recipient carries what is needed to address and localize one email.
type Recipient struct {
	Email    string
	Name     string
	Language string
}

type service struct {
	client *resend.Client
	config *config.Config
}

func NewService(cfg *config.Config) Service {
	var client *resend.Client
	if cfg.ResendAPIKey != "" {
		client = resend.NewClient(cfg.ResendAPIKey)
	}
	return &service{
		client: client,
		config: cfg,
	}
}

// message is a rendered email, ready to hand to the delivery client.
type message struct {
	Subject string
	HTML    string
}

func render(templateName string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		return "", goerr.Wrap(err, "failed to parse email templates", goerr.V("template", templateName))
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", goerr.Wrap(err, "failed to execute email template", goerr.V("template", templateName))
	}
	return body.String(), nil
}

func (s *service) send(toEmail string, msg message) error {
	if s.client == nil {
		slog.Debug("email delivery disabled, skipping", "subject", msg.Subject)
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("EduLegal <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    msg.HTML,
		Subject: msg.Subject,
	}

	if _, err := s.client.Emails.Send(params); err != nil {
		return goerr.Wrap(err, "failed to send email", goerr.V("subject", msg.Subject))
	}
	return nil
}

func (s *service) caseLink(caseID string) string {
	return fmt.Sprintf("%s/cases/%s", s.config.FrontendURL, caseID)
}

func (s *service) caseAssignedMessage(to Recipient, caseTitle, caseID string) (message, error) {
	data := struct {
		Title     string
		Name      string
		CaseTitle string
		Link      string
	}{
		Title:     i18n.Translate(to.Language, "case_assigned_title"),
		Name:      to.Name,
		CaseTitle: caseTitle,
		Link:      s.caseLink(caseID),
	}

	html, err := render("case_assigned.html", data)
	if err != nil {
		return message{}, err
	}
	return message{
		Subject: fmt.Sprintf("%s: %s", i18n.Translate(to.Language, "case_assigned_subject"), caseTitle),
		HTML:    html,
	}, nil
}

func (s *service) caseStatusMessage(to Recipient, caseTitle, caseID, status string) (message, error) {
	color := "#2563eb"
	if status == "closed" {
		color = "#10b981"
	}
	label := i18n.Translate(to.Language, "status_"+status)

	data := struct {
		Title     string
		Name      string
		CaseTitle string
		Status    string
		Color     string
		Link      string
	}{
		Title:     i18n.Translate(to.Language, "case_status_title"),
		Name:      to.Name,
		CaseTitle: caseTitle,
		Status:    label,
		Color:     color,
		Link:      s.caseLink(caseID),
	}

	html, err := render("case_status.html", data)
	if err != nil {
		return message{}, err
	}
	return message{
		Subject: fmt.Sprintf("%s: %s (%s)", i18n.Translate(to.Language, "case_status_subject"), caseTitle, label),
		HTML:    html,
	}, nil
}

func (s *service) SendCaseAssignedEmail(ctx context.Context, to Recipient, caseTitle, caseID string) error {
	msg, err := s.caseAssignedMessage(to, caseTitle, caseID)
	if err != nil {
		return err
	}
	return s.send(to.Email, msg)
}

func (s *service) SendCaseStatusEmail(ctx context.Context, to Recipient, caseTitle, caseID, status string) error {
	msg, err := s.caseStatusMessage(to, caseTitle, caseID, status)
	if err != nil {
		return err
	}
	return s.send(to.Email, msg)
}
