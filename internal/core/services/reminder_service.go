package services

import (
	"context"
	"log"
	"time"

	"advancehub/internal/adapters/persistence/repositories"
	"advancehub/internal/config"
	"advancehub/internal/core/domain"

	"github.com/robfig/cron/v3"
)

// ReminderService runs the scheduled retirement reminder sweep
type ReminderService struct {
	advanceRepo   *repositories.AdvanceRepository
	notifyRepo    *repositories.NotificationRepository
	tokenRepo     repositories.RefreshTokenRepository
	notifyService *NotificationService
	cfg           *config.Config
	cron          *cron.Cron
}

// NewReminderService creates a new reminder service
func NewReminderService(
	advanceRepo *repositories.AdvanceRepository,
	notifyRepo *repositories.NotificationRepository,
	tokenRepo repositories.RefreshTokenRepository,
	notifyService *NotificationService,
	cfg *config.Config,
) *ReminderService {
	return &ReminderService{
		advanceRepo:   advanceRepo,
		notifyRepo:    notifyRepo,
		tokenRepo:     tokenRepo,
		notifyService: notifyService,
		cfg:           cfg,
		cron:          cron.New(),
	}
}

// Start schedules the sweep and begins the cron loop
func (s *ReminderService) Start() error {
	_, err := s.cron.AddFunc(s.cfg.Retirement.Schedule, func() {
		if err := s.RunOnce(context.Background()); err != nil {
			log.Printf("⚠️ Retirement reminder sweep failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("✅ Retirement reminders scheduled (%s, due after %d days)",
		s.cfg.Retirement.Schedule, s.cfg.Retirement.DueDays)
	return nil
}

// Stop halts the cron loop and waits for a running sweep to finish
func (s *ReminderService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RunOnce scans for advances approved longer ago than the due window that
// still have no retirement, and notifies each owner. A given advance is
// reminded at most once per calendar day. Expired refresh tokens are
// purged on the same schedule.
func (s *ReminderService) RunOnce(ctx context.Context) error {
	if err := s.tokenRepo.DeleteExpired(ctx); err != nil {
		log.Printf("⚠️ Expired token cleanup failed: %v", err)
	}

	cutoff := time.Now().AddDate(0, 0, -s.cfg.Retirement.DueDays)
	advances, err := s.advanceRepo.ListRetirementDue(ctx, cutoff)
	if err != nil {
		return err
	}

	startOfDay := today()
	reminded := 0
	for _, advance := range advances {
		sent, err := s.notifyRepo.ExistsSince(ctx, advance.ID, string(domain.NotifyRetirementDue), startOfDay)
		if err != nil {
			log.Printf("⚠️ Reminder dedupe check failed for advance #%d: %v", advance.ID, err)
			continue
		}
		if sent {
			continue
		}
		s.notifyService.NotifyRetirementDue(ctx, advance)
		reminded++
	}

	if reminded > 0 {
		log.Printf("✅ Sent %d retirement reminders (%d advances overdue)", reminded, len(advances))
	}
	return nil
}
