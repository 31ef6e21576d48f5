package services

import (
	"context"
	"fmt"
	"log"

	"advancehub/internal/adapters/persistence/models"
	"advancehub/internal/adapters/persistence/repositories"
	"advancehub/internal/core/domain"
)

// NotificationService writes in-app notifications for lifecycle events.
// Delivery is best effort: a failed notification is logged and never fails
// the transition that triggered it.
type NotificationService struct {
	notificationRepo *repositories.NotificationRepository
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo *repositories.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

func (s *NotificationService) notify(ctx context.Context, userID uint, notifType domain.NotificationType, title, message string, advanceID uint) {
	n := &models.Notification{
		UserID:    userID,
		Type:      string(notifType),
		Title:     title,
		Message:   message,
		AdvanceID: &advanceID,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		log.Printf("⚠️ Failed to write %s notification for user %d: %v", notifType, userID, err)
	}
}

// List returns the caller's notifications, newest first
func (s *NotificationService) List(ctx context.Context, userID uint, unreadOnly bool, offset, limit int) ([]*models.Notification, int64, error) {
	return s.notificationRepo.ListByUser(ctx, userID, unreadOnly, offset, limit)
}

// MarkRead marks one of the caller's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, id, userID uint) error {
	return s.notificationRepo.MarkRead(ctx, id, userID)
}

// MarkAllRead marks all of the caller's notifications as read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

// NotifySubmitted informs the owner's manager that a request awaits review
func (s *NotificationService) NotifySubmitted(ctx context.Context, advance *models.Advance, owner *models.User, managerID uint) {
	s.notify(ctx, managerID, domain.NotifyRequestSubmitted,
		"New cash advance request",
		fmt.Sprintf("%s requested %.2f (%s) and is awaiting your review", owner.FullName(), advance.Amount, advance.Purpose),
		advance.ID)
}

// NotifyApproved informs the owner their request was approved
func (s *NotificationService) NotifyApproved(ctx context.Context, advance *models.Advance) {
	s.notify(ctx, advance.UserID, domain.NotifyRequestApproved,
		"Request approved",
		fmt.Sprintf("Your cash advance request for %.2f (%s) was approved", advance.Amount, advance.Purpose),
		advance.ID)
}

// NotifyRejected informs the owner their request was rejected
func (s *NotificationService) NotifyRejected(ctx context.Context, advance *models.Advance, reason string) {
	s.notify(ctx, advance.UserID, domain.NotifyRequestRejected,
		"Request rejected",
		fmt.Sprintf("Your cash advance request for %.2f was rejected: %s", advance.Amount, reason),
		advance.ID)
}

// NotifyDisbursed informs the owner the funds were disbursed
func (s *NotificationService) NotifyDisbursed(ctx context.Context, advance *models.Advance) {
	s.notify(ctx, advance.UserID, domain.NotifyDisbursementReady,
		"Funds disbursed",
		fmt.Sprintf("Your cash advance of %.2f (%s) has been disbursed", advance.Amount, advance.Purpose),
		advance.ID)
}

// NotifyRetirementDue reminds the owner to retire an outstanding advance
func (s *NotificationService) NotifyRetirementDue(ctx context.Context, advance *models.Advance) {
	s.notify(ctx, advance.UserID, domain.NotifyRetirementDue,
		"Retirement due",
		fmt.Sprintf("Your advance for %.2f (%s) is still awaiting retirement", advance.Amount, advance.Purpose),
		advance.ID)
}
