package email

import "context"

// EmailService defines the interface for sending emails
type EmailService interface {
	SendVerificationCode(ctx context.Context, to, name, code string) error
}

// EmailConfig holds provider settings
type EmailConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}
