package services

import (
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/estatecrm/backend/internal/constants"
	"github.com/estatecrm/backend/internal/logger"
	"github.com/estatecrm/backend/internal/metrics"
	"github.com/estatecrm/backend/internal/models"
	"github.com/estatecrm/backend/internal/repository"
)

var ErrTaskNotFound = errors.New("task not found")

// ReminderService runs the periodic task-reminder sweep: two offsets per
// task (day before, hour before), each fired at most once.
type ReminderService struct {
	taskRepo repository.TaskRepository
	notifier *NotificationService

	// now is the sweep clock, replaceable in tests.
	now func() time.Time

	cron *cron.Cron
}

// NewReminderService creates a new ReminderService.
func NewReminderService(taskRepo repository.TaskRepository, notifier *NotificationService) *ReminderService {
	return &ReminderService{
		taskRepo: taskRepo,
		notifier: notifier,
		now:      time.Now,
	}
}

// Start schedules the sweep at the given interval. Stop with Stop.
func (s *ReminderService) Start(interval time.Duration) error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc("@every "+interval.String(), s.Sweep)
	if err != nil {
		return err
	}
	s.cron.Start()
	logger.Get().Info("reminder sweep scheduled", zap.Duration("interval", interval))
	return nil
}

// Stop halts the schedule.
func (s *ReminderService) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Sweep scans every task once, sequentially, and fires any offset whose
// trigger falls inside the match window and is still PENDING. A failed
// task is logged and skipped; the sweep continues.
func (s *ReminderService) Sweep() {
	metrics.SweepRunsCounter.Inc()

	tasks, err := s.taskRepo.List()
	if err != nil {
		logger.Get().Error("reminder sweep failed to load tasks", zap.Error(err))
		return
	}

	for i := range tasks {
		if err := s.checkTask(&tasks[i], true); err != nil {
			logger.Get().Error("reminder sweep failed for task",
				zap.Uint64("task_id", tasks[i].ID),
				zap.Error(err))
		}
	}
}

// RemindTask fires a single task's pending offsets immediately, without
// the time-window check. SENT offsets stay sent, and an offset whose
// trigger has already passed is a missed window, not a pending send.
func (s *ReminderService) RemindTask(taskID uint64) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	return s.checkTask(task, false)
}

func (s *ReminderService) checkTask(task *models.Task, windowed bool) error {
	offsets := []struct {
		field   string
		trigger time.Time
		status  models.ReminderStatus
	}{
		{"day_before_status", task.DueDate.Add(-constants.DayBeforeOffset), task.DayBeforeStatus},
		{"hour_before_status", task.DueDate.Add(-constants.HourBeforeOffset), task.HourBeforeStatus},
	}

	// The sweep clock runs shifted forward by the fixed display offset,
	// mirroring how due timestamps are rendered shifted back.
	now := s.now().Add(constants.DisplayOffset)

	for _, offset := range offsets {
		if offset.status == models.ReminderSent {
			continue
		}
		if windowed {
			if !inWindow(now, offset.trigger) {
				continue
			}
		} else if offset.trigger.Before(now) {
			// Missed windows do not re-fire on a manual trigger.
			continue
		}

		delivered, err := s.notifier.NotifyEmployee(task.SalesID, task.Name, task.DueDate)
		if err != nil {
			return err
		}
		if !delivered {
			continue
		}

		if err := s.taskRepo.SetReminderStatus(task.ID, offset.field, models.ReminderSent); err != nil {
			return err
		}
	}
	return nil
}

// inWindow reports whether the trigger lies within the match window
// ahead of now. The window is wider than the tick interval, so this is
// at-least-once near the edges, not exactly-once.
func inWindow(now, trigger time.Time) bool {
	diff := trigger.Sub(now)
	return diff >= 0 && diff < constants.MatchWindow
}
