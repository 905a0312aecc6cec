package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"github.com/estatecrm/backend/internal/config"
	"github.com/estatecrm/backend/internal/constants"
	"github.com/estatecrm/backend/internal/logger"
	"github.com/estatecrm/backend/internal/metrics"
	"github.com/estatecrm/backend/internal/models"
	"github.com/estatecrm/backend/internal/repository"
)

// PushTransport delivers a serialized payload to one device endpoint and
// reports the upstream HTTP status.
type PushTransport interface {
	Send(sub models.Subscription, payload []byte) (int, error)
}

// WebPushTransport is the Web Push (VAPID) implementation of PushTransport.
type WebPushTransport struct {
	subscriber string
	publicKey  string
	privateKey string
}

// NewWebPushTransport creates a WebPushTransport from config.
func NewWebPushTransport(cfg *config.Config) *WebPushTransport {
	return &WebPushTransport{
		subscriber: cfg.VAPIDSubject,
		publicKey:  cfg.VAPIDPublicKey,
		privateKey: cfg.VAPIDPrivateKey,
	}
}

func (t *WebPushTransport) Send(sub models.Subscription, payload []byte) (int, error) {
	resp, err := webpush.SendNotification(payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      t.subscriber,
		VAPIDPublicKey:  t.publicKey,
		VAPIDPrivateKey: t.privateKey,
		TTL:             60,
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

// pushPayload is the JSON body shown by the service worker.
type pushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// NotificationService formats and delivers push notifications, cleaning
// up subscriptions the push service reports gone.
type NotificationService struct {
	transport PushTransport
	subRepo   repository.SubscriptionRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(transport PushTransport, subRepo repository.SubscriptionRepository) *NotificationService {
	return &NotificationService{
		transport: transport,
		subRepo:   subRepo,
	}
}

// Send delivers a payload to one device. A gone endpoint deletes the
// matching subscription rows. Failures are logged, never retried, and
// reported as false.
func (s *NotificationService) Send(sub models.Subscription, payload pushPayload) bool {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Get().Error("failed to serialize push payload", zap.Error(err))
		return false
	}

	status, err := s.transport.Send(sub, body)
	if err != nil {
		logger.Get().Error("push delivery failed",
			zap.Uint64("subscription_id", sub.ID),
			zap.Error(err))
		metrics.NotificationsSentCounter.WithLabelValues(payload.Title, "error").Inc()
		return false
	}

	if status == http.StatusGone || status == http.StatusNotFound {
		s.dropStaleSubscription(sub)
		metrics.NotificationsSentCounter.WithLabelValues(payload.Title, "gone").Inc()
		return false
	}

	if status >= 400 {
		logger.Get().Warn("push service rejected notification",
			zap.Uint64("subscription_id", sub.ID),
			zap.Int("status", status))
		metrics.NotificationsSentCounter.WithLabelValues(payload.Title, "rejected").Inc()
		return false
	}

	metrics.NotificationsSentCounter.WithLabelValues(payload.Title, "ok").Inc()
	return true
}

// SendWelcome sends the fixed welcome notification to one device.
func (s *NotificationService) SendWelcome(sub models.Subscription) bool {
	return s.Send(sub, pushPayload{
		Title: "أهلاً بك",
		Body:  "تم تفعيل الإشعارات بنجاح",
	})
}

// SendTaskReminder sends a due-date reminder to one device. The shown
// time is shifted back two hours, the fixed display offset used across
// the reminder pipeline.
func (s *NotificationService) SendTaskReminder(sub models.Subscription, taskName string, due time.Time) bool {
	return s.Send(sub, pushPayload{
		Title: "تذكير بمهمة",
		Body:  fmt.Sprintf("موعد %s يوم %s", taskName, formatDue(due)),
	})
}

// NotifyEmployee fans a reminder out to every device of one employee.
// Delivery counts as successful when at least one device accepted it.
func (s *NotificationService) NotifyEmployee(employeeID uint64, taskName string, due time.Time) (bool, error) {
	subs, err := s.subRepo.ListByEmployee(employeeID)
	if err != nil {
		return false, err
	}

	delivered := false
	for _, sub := range subs {
		if s.SendTaskReminder(sub, taskName, due) {
			delivered = true
		}
	}
	return delivered, nil
}

func (s *NotificationService) dropStaleSubscription(sub models.Subscription) {
	// Match by the trailing path segment of the endpoint, the per-device
	// token fragment.
	parts := strings.Split(strings.TrimRight(sub.Endpoint, "/"), "/")
	fragment := parts[len(parts)-1]
	if fragment == "" {
		return
	}
	if err := s.subRepo.DeleteByEndpointFragment(fragment); err != nil {
		logger.Get().Error("failed to remove stale subscription",
			zap.Uint64("subscription_id", sub.ID),
			zap.Error(err))
	}
}

// formatDue renders a due timestamp for the notification body: shifted
// back by the display offset, dd/mm/yyyy with a 12-hour clock and an
// Arabic am/pm marker.
func formatDue(due time.Time) string {
	shifted := due.Add(-constants.DisplayOffset)
	marker := "ص"
	if shifted.Hour() >= 12 {
		marker = "م"
	}
	return shifted.Format("02/01/2006 03:04 ") + marker
}
