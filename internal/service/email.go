package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
	appName   string
}

func NewEmailService(apiKey, fromEmail, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
		appName:   appName,
	}
}

func (s *EmailService) SendWelcomeEmail(ctx context.Context, email, username string) error {
	subject, body := welcomeEmailTemplate(username, s.appName)
	return s.send(ctx, "welcome", email, subject, body)
}

func (s *EmailService) SendFriendRequestEmail(ctx context.Context, email, username, fromUsername string) error {
	subject, body := friendRequestEmailTemplate(username, fromUsername, s.appName)
	return s.send(ctx, "friend_request", email, subject, body)
}

func (s *EmailService) SendFriendAcceptedEmail(ctx context.Context, email, username, friendUsername string) error {
	subject, body := friendAcceptedEmailTemplate(username, friendUsername, s.appName)
	return s.send(ctx, "friend_accepted", email, subject, body)
}

func (s *EmailService) SendStreakReminderEmail(ctx context.Context, email, username, goalTitle string, hoursLeft int) error {
	subject, body := streakReminderEmailTemplate(username, goalTitle, hoursLeft, s.appName)
	return s.send(ctx, "streak_reminder", email, subject, body)
}

func (s *EmailService) SendAccountDeletedEmail(ctx context.Context, email, username string) error {
	subject, body := accountDeletedEmailTemplate(username, s.appName)
	return s.send(ctx, "account_deleted", email, subject, body)
}

func (s *EmailService) send(ctx context.Context, kind, to, subject, body string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", kind, "to", to, "subject", subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		slog.Info("email sent", "type", kind, "to", to)
	}
	return err
}
