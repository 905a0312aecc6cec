package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/estatecrm/backend/internal/constants"
	"github.com/estatecrm/backend/internal/models"
	"github.com/estatecrm/backend/internal/repository"
)

// fakeTransport records deliveries instead of talking to a push service.
type fakeTransport struct {
	status int
	err    error
	sent   []models.Subscription
}

func (f *fakeTransport) Send(sub models.Subscription, payload []byte) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.sent = append(f.sent, sub)
	return f.status, nil
}

type reminderTestEnv struct {
	db        *gorm.DB
	taskRepo  repository.TaskRepository
	transport *fakeTransport
	reminder  *ReminderService
}

func setupReminderTest(t *testing.T) reminderTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Employee{},
		&models.Lead{},
		&models.Task{},
		&models.Subscription{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	transport := &fakeTransport{status: http.StatusCreated}
	subRepo := repository.NewSubscriptionRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	notifier := NewNotificationService(transport, subRepo)
	reminder := NewReminderService(taskRepo, notifier)

	return reminderTestEnv{
		db:        db,
		taskRepo:  taskRepo,
		transport: transport,
		reminder:  reminder,
	}
}

func (env reminderTestEnv) createTask(t *testing.T, name string, due time.Time) *models.Task {
	t.Helper()
	task := &models.Task{
		Name:             name,
		CustomerID:       1,
		SalesID:          1,
		DueDate:          due,
		DayBeforeStatus:  models.ReminderPending,
		HourBeforeStatus: models.ReminderPending,
	}
	require.NoError(t, env.db.Create(task).Error)
	return task
}

func (env reminderTestEnv) subscribe(t *testing.T, employeeID uint64, endpoint string) {
	t.Helper()
	require.NoError(t, env.db.Create(&models.Subscription{
		EmployeeID: employeeID,
		Endpoint:   endpoint,
		P256dh:     "p256dh",
		Auth:       "auth",
	}).Error)
}

func TestReminderService_FiresHourBeforeOnce(t *testing.T) {
	env := setupReminderTest(t)
	env.subscribe(t, 1, "https://push.example.com/send/device-1")

	// Due exactly one hour after the shifted sweep clock, so the
	// hour-before trigger lands at the start of the match window.
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	env.reminder.now = func() time.Time { return base }
	due := base.Add(constants.DisplayOffset).Add(constants.HourBeforeOffset)
	task := env.createTask(t, "Follow up with Ali", due)

	env.reminder.Sweep()
	require.Len(t, env.transport.sent, 1)

	got, err := env.taskRepo.FindByID(task.ID)
	require.NoError(t, err)
	require.Equal(t, models.ReminderSent, got.HourBeforeStatus)
	require.Equal(t, models.ReminderPending, got.DayBeforeStatus)

	// The next tick must not re-send the hour-before reminder.
	env.reminder.now = func() time.Time { return base.Add(5 * time.Minute) }
	env.reminder.Sweep()
	require.Len(t, env.transport.sent, 1)

	// Neither does a manual re-trigger inside the same window.
	require.NoError(t, env.reminder.RemindTask(task.ID))
	require.Len(t, env.transport.sent, 1)
}

func TestReminderService_ManualTriggerSkipsMissedOffsets(t *testing.T) {
	env := setupReminderTest(t)
	env.subscribe(t, 1, "https://push.example.com/send/device-1")

	// Due ten hours out on the shifted clock: the day-before trigger is
	// already fourteen hours gone, the hour-before is nine hours ahead.
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	env.reminder.now = func() time.Time { return base }
	due := base.Add(constants.DisplayOffset).Add(10 * time.Hour)
	task := env.createTask(t, "Handover keys", due)

	require.NoError(t, env.reminder.RemindTask(task.ID))

	// Only the upcoming offset fires; the missed one stays PENDING
	// without a send.
	require.Len(t, env.transport.sent, 1)
	got, err := env.taskRepo.FindByID(task.ID)
	require.NoError(t, err)
	require.Equal(t, models.ReminderSent, got.HourBeforeStatus)
	require.Equal(t, models.ReminderPending, got.DayBeforeStatus)
}

func TestReminderService_OffsetsFireIndependently(t *testing.T) {
	env := setupReminderTest(t)
	env.subscribe(t, 1, "https://push.example.com/send/device-1")

	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	env.reminder.now = func() time.Time { return base }
	due := base.Add(constants.DisplayOffset).Add(constants.DayBeforeOffset)
	task := env.createTask(t, "Site visit", due)

	env.reminder.Sweep()

	got, err := env.taskRepo.FindByID(task.ID)
	require.NoError(t, err)
	require.Equal(t, models.ReminderSent, got.DayBeforeStatus)
	require.Equal(t, models.ReminderPending, got.HourBeforeStatus)

	// 23 hours later the hour-before trigger comes into the window.
	env.reminder.now = func() time.Time { return base.Add(23 * time.Hour) }
	env.reminder.Sweep()

	got, err = env.taskRepo.FindByID(task.ID)
	require.NoError(t, err)
	require.Equal(t, models.ReminderSent, got.HourBeforeStatus)
	require.Len(t, env.transport.sent, 2)
}

func TestReminderService_OutsideWindowDoesNothing(t *testing.T) {
	env := setupReminderTest(t)
	env.subscribe(t, 1, "https://push.example.com/send/device-1")

	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	env.reminder.now = func() time.Time { return base }
	// Hour-before trigger is a full day out.
	due := base.Add(constants.DisplayOffset).Add(25 * time.Hour)
	task := env.createTask(t, "Too early", due)

	env.reminder.Sweep()
	require.Empty(t, env.transport.sent)

	got, err := env.taskRepo.FindByID(task.ID)
	require.NoError(t, err)
	require.Equal(t, models.ReminderPending, got.HourBeforeStatus)
}

func TestReminderService_DeliveryFailureKeepsPending(t *testing.T) {
	env := setupReminderTest(t)
	env.subscribe(t, 1, "https://push.example.com/send/device-1")
	env.transport.status = http.StatusBadRequest

	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	env.reminder.now = func() time.Time { return base }
	due := base.Add(constants.DisplayOffset).Add(constants.HourBeforeOffset)
	task := env.createTask(t, "Flaky push", due)

	env.reminder.Sweep()

	// No device accepted the reminder, so the offset stays PENDING and
	// the next tick retries.
	got, err := env.taskRepo.FindByID(task.ID)
	require.NoError(t, err)
	require.Equal(t, models.ReminderPending, got.HourBeforeStatus)

	env.transport.status = http.StatusCreated
	env.reminder.Sweep()

	got, err = env.taskRepo.FindByID(task.ID)
	require.NoError(t, err)
	require.Equal(t, models.ReminderSent, got.HourBeforeStatus)
}

func TestNotificationService_GoneEndpointIsRemoved(t *testing.T) {
	env := setupReminderTest(t)
	env.subscribe(t, 1, "https://push.example.com/send/device-1")
	env.transport.status = http.StatusGone

	subRepo := repository.NewSubscriptionRepository(env.db)
	notifier := NewNotificationService(env.transport, subRepo)

	subs, err := subRepo.ListByEmployee(1)
	require.NoError(t, err)
	require.Len(t, subs, 1)

	delivered := notifier.SendTaskReminder(subs[0], "t", time.Now())
	require.False(t, delivered)

	subs, err = subRepo.ListByEmployee(1)
	require.NoError(t, err)
	require.Empty(t, subs)
}
