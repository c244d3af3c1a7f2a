package services

import (
	"context"
	"fmt"
	"log/slog"

	"campusbooking/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendReviewOutcome tells a requester whether their event request was approved,
// using the "review_outcome" template.
func (s *emailService) SendReviewOutcome(ctx context.Context, data *domain.ReviewOutcomeEmailData) error {
	if data == nil {
		return fmt.Errorf("review outcome data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("review_outcome", data)
	if err != nil {
		return fmt.Errorf("failed to render review_outcome template: %w", err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send review outcome email: %w", err)
	}
	s.logger.Info("review outcome email sent", "to", data.Email, "approved", data.Approved)
	return nil
}
