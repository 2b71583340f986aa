package email

import (
	"context"
	"log/slog"

	"github.com/lorrc/aegis-helpdesk/internal/core/ports"
)

// MockSMTPNotifier is a secondary adapter that mocks sending emails.
// It implements the ports.Notifier interface.
type MockSMTPNotifier struct {
	profileRepo ports.ProfileRepository
	logger      *slog.Logger
}

var _ ports.Notifier = (*MockSMTPNotifier)(nil)

// NewMockSMTPNotifier creates a new mock notifier. Recipient details are
// resolved through the profile repository.
func NewMockSMTPNotifier(profileRepo ports.ProfileRepository, logger *slog.Logger) ports.Notifier {
	return &MockSMTPNotifier{
		profileRepo: profileRepo,
		logger:      logger.With("component", "email_notifier"),
	}
}

// Notify logs the notification instead of sending an email.
// Callers run it in a separate goroutine, so it handles its own errors.
func (n *MockSMTPNotifier) Notify(ctx context.Context, params ports.NotificationParams) {
	// Detach from the request so a finished request does not cancel the lookup.
	notifyCtx := context.WithoutCancel(ctx)

	profile, err := n.profileRepo.GetByID(notifyCtx, params.RecipientUserID)
	if err != nil {
		n.logger.ErrorContext(notifyCtx, "failed to get profile for notification",
			"user_id", params.RecipientUserID,
			"error", err,
		)
		return
	}

	n.logger.InfoContext(notifyCtx, "mock email sent",
		"to_name", profile.FullName,
		"to_email", profile.Email,
		"subject", params.Subject,
		"message", params.Message,
		"ticket_id", params.TicketID,
	)
}
