package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"cardhub/internal/adapters/persistence/repositories"
	"cardhub/internal/core/workflow"

	"github.com/robfig/cron/v3"
)

// staleAfter is how long a request may sit in an actionable status before a
// reminder goes out
const staleAfter = 3 * 24 * time.Hour

// ReminderService runs the scheduled housekeeping jobs: nudges for requests
// stuck waiting on someone and cleanup of expired refresh tokens.
type ReminderService struct {
	cardRequestRepo *repositories.CardRequestRepository
	tokenRepo       *repositories.RefreshTokenRepository
	notification    *NotificationService
	cron            *cron.Cron
}

// NewReminderService creates a new reminder service
func NewReminderService(
	cardRequestRepo *repositories.CardRequestRepository,
	tokenRepo *repositories.RefreshTokenRepository,
	notification *NotificationService,
) *ReminderService {
	return &ReminderService{
		cardRequestRepo: cardRequestRepo,
		tokenRepo:       tokenRepo,
		notification:    notification,
		cron:            cron.New(),
	}
}

// Start registers and starts the cron schedule
func (s *ReminderService) Start() error {
	if _, err := s.cron.AddFunc("0 9 * * *", s.runReminders); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("30 3 * * *", s.runTokenCleanup); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("✅ Reminder scheduler started")
	return nil
}

// Stop halts the scheduler and waits for running jobs
func (s *ReminderService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *ReminderService) runReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-staleAfter)

	// Submitted requests waiting on an approver
	stale, err := s.cardRequestRepo.ListStaleByStatus(ctx, string(workflow.StatusSubmitted), cutoff)
	if err != nil {
		log.Printf("⚠️ Reminder scan for submitted requests failed: %v", err)
	} else {
		for _, req := range stale {
			s.notification.NotifyApprovers(ctx, &req.ID, "Card request awaiting approval",
				fmt.Sprintf("Request %s has been waiting for approval since %s",
					req.RequestNumberID, req.UpdatedAt.Format("2006-01-02")))
		}
	}

	// Approved requests waiting on fulfillment
	stale, err = s.cardRequestRepo.ListStaleByStatus(ctx, string(workflow.StatusApproved), cutoff)
	if err != nil {
		log.Printf("⚠️ Reminder scan for approved requests failed: %v", err)
		return
	}
	for _, req := range stale {
		s.notification.Notify(ctx, req.CreatedBy, &req.ID, "Card request pending fulfillment",
			fmt.Sprintf("Request %s is approved and waiting for a card assignment", req.RequestNumberID))
	}
}

func (s *ReminderService) runTokenCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.tokenRepo.DeleteExpired(ctx); err != nil {
		log.Printf("⚠️ Expired token cleanup failed: %v", err)
	}
}
