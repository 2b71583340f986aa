package email

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	"github.com/lorrc/aegis-helpdesk/internal/core/mocks"
	"github.com/lorrc/aegis-helpdesk/internal/core/ports"
)

func TestMockSMTPNotifier_Notify(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	profileID := uuid.New()
	repo := mocks.NewMockProfileRepository()
	repo.On("GetByID", mock.Anything, profileID).Return(&domain.Profile{ID: profileID, FullName: "Ana", Email: "ana@example.com"}, nil)

	notifier := NewMockSMTPNotifier(repo, logger)
	notifier.Notify(context.Background(), ports.NotificationParams{
		RecipientUserID: profileID,
		Subject:         "Ticket status updated",
		TicketID:        uuid.New(),
	})

	out := buf.String()
	assert.Contains(t, out, "mock email sent")
	assert.Contains(t, out, "ana@example.com")
	assert.Contains(t, out, "Ticket status updated")
	repo.AssertExpectations(t)
}

func TestMockSMTPNotifier_UnknownRecipient(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	repo := mocks.NewMockProfileRepository()
	repo.On("GetByID", mock.Anything, uuid.Nil).Return(nil, errors.New("not found"))

	NewMockSMTPNotifier(repo, logger).Notify(context.Background(), ports.NotificationParams{})

	assert.Contains(t, buf.String(), "failed to get profile for notification")
	assert.NotContains(t, buf.String(), "mock email sent")
}
