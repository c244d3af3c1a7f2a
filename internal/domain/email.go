package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// ReviewOutcomeEmailData holds data for the email sent to a requester once their request is reviewed.
type ReviewOutcomeEmailData struct {
	Email      string
	Name       string
	Title      string
	Approved   bool
	AdminNotes string
	EventID    int64
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendReviewOutcome(ctx context.Context, data *ReviewOutcomeEmailData) error
}
