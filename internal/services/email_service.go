package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/ahmetcoskunkizilkaya/tasklist/internal/config"
)

type resetMail struct {
	Name string
	Link string
	Code string
}

// resetHTML escapes the user-chosen name.
var resetHTML = template.Must(template.New("reset").Parse(`<p>Hi {{.Name}},</p>
<p>We received a request to reset your password.</p>
{{if .Link}}<p><a href="{{.Link}}">Reset your password</a></p>
<p>This link expires in 1 hour. If you did not ask for it, ignore this email.</p>
{{else}}<p>Your password reset code is <code>{{.Code}}</code>.</p>
<p>It expires in 1 hour. If you did not ask for it, ignore this email.</p>
{{end}}`))

type sesSender interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailService sends password reset mail through Amazon SES. Without a
// sender address it is disabled and only logs the skipped send.
type EmailService struct {
	client     sesSender
	fromEmail  string
	fromName   string
	appBaseURL string
}

func NewEmailService(ctx context.Context, cfg *config.Config) (*EmailService, error) {
	if cfg.SESFromEmail == "" {
		slog.Info("email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{appBaseURL: cfg.AppBaseURL}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	slog.Info("email service enabled", "from", cfg.SESFromEmail, "region", cfg.AWSRegion)
	return &EmailService{
		client:     sesv2.NewFromConfig(awsCfg),
		fromEmail:  cfg.SESFromEmail,
		fromName:   cfg.SESFromName,
		appBaseURL: cfg.AppBaseURL,
	}, nil
}

func (s *EmailService) IsEnabled() bool {
	return s.client != nil
}

func (s *EmailService) SendPasswordReset(ctx context.Context, toEmail, toName, rawToken string) error {
	if !s.IsEnabled() {
		slog.Info("skipping password reset email (service disabled)", "to", toEmail)
		return nil
	}

	data := resetMail{Name: toName, Code: rawToken}
	if s.appBaseURL != "" {
		data.Link = s.appBaseURL + "/reset-password?token=" + url.QueryEscape(rawToken)
	}

	var html bytes.Buffer
	if err := resetHTML.Execute(&html, data); err != nil {
		return fmt.Errorf("render reset email: %w", err)
	}

	var text string
	if data.Link != "" {
		text = fmt.Sprintf("Hi %s,\n\nReset your password here:\n%s\n\nThis link expires in 1 hour.\n", toName, data.Link)
	} else {
		text = fmt.Sprintf("Hi %s,\n\nYour password reset code is %s\n\nIt expires in 1 hour.\n", toName, rawToken)
	}

	return s.send(ctx, toEmail, "Reset your password", html.String(), text)
}

func (s *EmailService) send(ctx context.Context, to, subject, html, text string) error {
	from := s.fromEmail
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(html), Charset: aws.String("UTF-8")},
					Text: &types.Content{Data: aws.String(text), Charset: aws.String("UTF-8")},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send failed: %w", err)
	}
	return nil
}
