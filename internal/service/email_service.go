package service

import (
	"context"
	"fmt"
	"html"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/sirupsen/logrus"
)

// SESAPI is the part of the SES client the email service calls
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     SESAPI
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

// NewEmailService creates a new email service. An empty fromEmail yields a
// disabled service that logs and skips every send.
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*EmailService, error) {
	if fromEmail == "" {
		logrus.Info("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{
			enabled:    false,
			appBaseURL: appBaseURL,
			debug:      debug,
		}, nil
	}

	logrus.WithFields(logrus.Fields{
		"region":   awsRegion,
		"from":     fromEmail,
		"base_url": appBaseURL,
	}).Debug("Initializing email service with AWS SES")

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	logrus.WithFields(logrus.Fields{"from": fromEmail, "region": awsRegion}).Info("Email service enabled")
	return NewEmailServiceWithClient(sesv2.NewFromConfig(cfg), fromEmail, fromName, appBaseURL, debug), nil
}

// NewEmailServiceWithClient creates an enabled service around client
func NewEmailServiceWithClient(client SESAPI, fromEmail, fromName, appBaseURL string, debug bool) *EmailService {
	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
	}
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendFamilyInvite emails a family's join code
func (s *EmailService) SendFamilyInvite(ctx context.Context, toEmail, inviterName, familyName, joinCode string) error {
	log := logrus.WithFields(logrus.Fields{"to": toEmail, "family_id": joinCode})

	if !s.enabled {
		log.Info("Skipping email send (service disabled): family invite")
		return nil
	}

	joinLink := fmt.Sprintf("%s/join?code=%s", s.appBaseURL, joinCode)
	subject := fmt.Sprintf("%s invited you to %s", inviterName, familyName)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #e2794a; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.code { font-size: 28px; letter-spacing: 6px; font-weight: bold; text-align: center; }
		.button { display: inline-block; padding: 12px 30px; background-color: #e2794a; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>You're invited!</h1>
		</div>
		<div class="content">
			<p>%s would like you to join <strong>%s</strong> on FamilyHub.</p>
			<p>Your join code is:</p>
			<p class="code">%s</p>
			<p style="text-align: center;">
				<a href="%s" class="button">Join the family</a>
			</p>
		</div>
		<div class="footer">
			<p>This is an automated email from FamilyHub. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, html.EscapeString(inviterName), html.EscapeString(familyName), joinCode, joinLink)

	textBody := fmt.Sprintf(`%s would like you to join %s on FamilyHub.

Your join code is: %s

Join here: %s

---
This is an automated email from FamilyHub. Please do not reply.
`, inviterName, familyName, joinCode, joinLink)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	if s.debug {
		logrus.WithFields(logrus.Fields{
			"from":      fromAddress,
			"to":        toEmail,
			"subject":   subject,
			"html_size": len(htmlBody),
			"text_size": len(textBody),
		}).Debug("Calling SES SendEmail")
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	entry := logrus.WithFields(logrus.Fields{"to": toEmail, "subject": subject})
	if result != nil && result.MessageId != nil {
		entry = entry.WithField("message_id", *result.MessageId)
	}
	entry.Info("Email sent successfully")
	return nil
}
