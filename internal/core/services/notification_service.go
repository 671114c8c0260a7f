package services

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"cardhub/internal/adapters/persistence/models"
	"cardhub/internal/adapters/persistence/repositories"
	"cardhub/internal/core/domain"
)

// NotificationService writes in-app notification rows and optionally pushes
// a copy to an external webhook. Delivery failures are logged, never
// propagated: notifications must not block the workflow.
type NotificationService struct {
	notificationRepo *repositories.NotificationRepository
	userRepo         *repositories.UserRepository
	webhookURL       string
	client           *http.Client
}

// NewNotificationService creates a new notification service. webhookURL may
// be empty, which disables the push channel.
func NewNotificationService(
	notificationRepo *repositories.NotificationRepository,
	userRepo *repositories.UserRepository,
	webhookURL string,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		webhookURL:       webhookURL,
		client:           &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify writes one notification row for a user
func (s *NotificationService) Notify(ctx context.Context, userID uint, cardRequestID *uint, title, message string) {
	n := &models.Notification{
		UserID:        userID,
		CardRequestID: cardRequestID,
		Title:         title,
		Message:       message,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		log.Printf("⚠️ Failed to create notification for user %d: %v", userID, err)
		return
	}
	s.pushWebhook(title, message)
}

// NotifyApprovers fans a notification out to everyone who can approve
// (SMEs and managers)
func (s *NotificationService) NotifyApprovers(ctx context.Context, cardRequestID *uint, title, message string) {
	for _, role := range []int{int(domain.RoleSME), int(domain.RoleManager)} {
		users, err := s.userRepo.ListByRole(ctx, role)
		if err != nil {
			log.Printf("⚠️ Failed to list role %d users for notification: %v", role, err)
			continue
		}
		for _, u := range users {
			s.Notify(ctx, u.ID, cardRequestID, title, message)
		}
	}
}

// pushWebhook forwards the notification to the configured webhook.
// Fire-and-forget.
func (s *NotificationService) pushWebhook(title, message string) {
	if s.webhookURL == "" {
		return
	}

	go func() {
		body, _ := json.Marshal(map[string]string{
			"title":   title,
			"message": message,
		})

		resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(body))
		if err != nil {
			log.Printf("⚠️ Webhook push failed: %v", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			log.Printf("⚠️ Webhook push returned status %d", resp.StatusCode)
		}
	}()
}
