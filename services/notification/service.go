package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	notificationRepo "carhive/database/repository/notification"
	userRepo "carhive/database/repository/user"
	"carhive/models"
	"carhive/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypePushRetry is the asynq task type for retrying a failed push delivery.
const TypePushRetry = "push:retry"

// PushRetryPayload is the queued payload for a push retry.
type PushRetryPayload struct {
	Token string            `json:"token"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
}

const unreadCountTTL = 5 * time.Minute

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Repo   notificationRepo.NotificationRepository
	Users  userRepo.UserRepository
	Mailer utils.Mailer
	Push   PushSender

	// Cache holds hot unread counts; optional.
	Cache *redis.Client
	// Queue re-enqueues failed pushes for a later best-effort retry; optional.
	Queue *asynq.Client
}

func unreadCountKey(userID string) string {
	return "unread:" + userID
}

// Notify is the dispatcher entry point. The notification record and the
// counter increment are the durable, authoritative result; email and push
// delivery are advisory and never affect the outcome.
func (s *DefaultNotificationService) Notify(ctx context.Context, userID, message, bookingID string) error {
	logger := utils.GetLogger()

	n := models.Notification{
		UserID:    userID,
		Message:   message,
		BookingID: bookingID,
		IsRead:    false,
	}
	id, err := s.Repo.Create(ctx, n)
	if err != nil {
		return utils.PersistenceError{Op: "notification create", Err: err}
	}

	count, err := s.Repo.IncrementCounter(ctx, userID, 1)
	if err != nil {
		return utils.PersistenceError{Op: "counter increment", Err: err}
	}
	s.invalidateUnreadCount(ctx, userID)

	logger.Debug("notification dispatched",
		zap.String("notificationId", id),
		zap.String("userId", userID),
		zap.Int64("unreadCount", count))

	s.deliver(ctx, userID, message, bookingID)
	return nil
}

// deliver attempts email and push delivery. Failures are logged and swallowed.
func (s *DefaultNotificationService) deliver(ctx context.Context, userID, message, bookingID string) {
	logger := utils.GetLogger()

	user, err := s.Users.GetByID(ctx, userID)
	if err != nil || user == nil {
		logger.Warn("delivery skipped: recipient lookup failed",
			zap.String("userId", userID), zap.Error(err))
		return
	}

	if user.EnableEmail && s.Mailer != nil {
		html := fmt.Sprintf("<p>%s</p>", message)
		if err := s.Mailer.Send(user.Email, "Carhive notification", html); err != nil {
			logger.Warn("email delivery failed", zap.String("userId", userID),
				zap.Error(utils.DeliveryError{Channel: "email", Err: err}))
		}
	}

	if user.FCMToken != "" && s.Push != nil {
		data := map[string]string{}
		if bookingID != "" {
			data["bookingId"] = bookingID
		}
		ticket, err := s.Push.Send(ctx, user.FCMToken, "Carhive", message, data)
		if err != nil {
			logger.Warn("push delivery failed", zap.String("userId", userID),
				zap.Error(utils.DeliveryError{Channel: "push", Err: err}))
			s.enqueuePushRetry(user.FCMToken, "Carhive", message, data)
			return
		}
		logger.Debug("push delivered", zap.String("ticket", ticket))
	}
}

// enqueuePushRetry hands a failed push to the background worker. The retry
// queue is itself best-effort.
func (s *DefaultNotificationService) enqueuePushRetry(token, title, body string, data map[string]string) {
	if s.Queue == nil {
		return
	}
	payload, err := json.Marshal(PushRetryPayload{Token: token, Title: title, Body: body, Data: data})
	if err != nil {
		return
	}
	task := asynq.NewTask(TypePushRetry, payload)
	if _, err := s.Queue.Enqueue(task, asynq.MaxRetry(3), asynq.ProcessIn(30*time.Second)); err != nil {
		utils.GetLogger().Warn("failed to enqueue push retry", zap.Error(err))
	}
}

func (s *DefaultNotificationService) GetNotifications(ctx context.Context, userID string, page int64) ([]models.Notification, error) {
	const pageSize = 30
	notifications, err := s.Repo.GetByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, utils.PersistenceError{Op: "notification list", Err: err}
	}
	return notifications, nil
}

// UnreadCount serves the counter, via the cache when warm.
func (s *DefaultNotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	if s.Cache != nil {
		cached, err := s.Cache.Get(ctx, unreadCountKey(userID)).Result()
		if err == nil {
			if count, perr := strconv.ParseInt(cached, 10, 64); perr == nil {
				return count, nil
			}
		} else if err != redis.Nil {
			utils.GetLogger().Warn("unread count cache read failed", zap.Error(err))
		}
	}

	counter, err := s.Repo.GetCounter(ctx, userID)
	if err != nil {
		return 0, utils.PersistenceError{Op: "counter read", Err: err}
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, unreadCountKey(userID), counter.Count, unreadCountTTL).Err(); err != nil {
			utils.GetLogger().Warn("unread count cache write failed", zap.Error(err))
		}
	}
	return counter.Count, nil
}

func (s *DefaultNotificationService) invalidateUnreadCount(ctx context.Context, userID string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, unreadCountKey(userID)).Err(); err != nil {
		utils.GetLogger().Warn("unread count cache invalidation failed", zap.Error(err))
	}
}

// MarkAsRead flips the listed notifications to read. Only records that were
// unread move the counter; ids already read are ignored.
func (s *DefaultNotificationService) MarkAsRead(ctx context.Context, userID string, ids []string) (int64, error) {
	return s.setRead(ctx, userID, ids, true)
}

// MarkAsUnread is the inverse of MarkAsRead.
func (s *DefaultNotificationService) MarkAsUnread(ctx context.Context, userID string, ids []string) (int64, error) {
	return s.setRead(ctx, userID, ids, false)
}

func (s *DefaultNotificationService) setRead(ctx context.Context, userID string, ids []string, read bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	changed, err := s.Repo.SetRead(ctx, userID, ids, read)
	if err != nil {
		return 0, utils.PersistenceError{Op: "notification read-state update", Err: err}
	}
	if changed > 0 {
		delta := -changed
		if !read {
			delta = changed
		}
		if _, err := s.Repo.IncrementCounter(ctx, userID, delta); err != nil {
			return 0, utils.PersistenceError{Op: "counter adjust", Err: err}
		}
		s.invalidateUnreadCount(ctx, userID)
	}
	return changed, nil
}

// Delete removes the listed notifications. The unread ones among them are
// counted before the delete so the counter decrement matches exactly.
func (s *DefaultNotificationService) Delete(ctx context.Context, userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	unread, err := s.Repo.CountUnread(ctx, userID, ids)
	if err != nil {
		return 0, utils.PersistenceError{Op: "unread count", Err: err}
	}

	deleted, err := s.Repo.DeleteMany(ctx, userID, ids)
	if err != nil {
		return 0, utils.PersistenceError{Op: "notification delete", Err: err}
	}

	if unread > 0 {
		if _, err := s.Repo.IncrementCounter(ctx, userID, -unread); err != nil {
			return 0, utils.PersistenceError{Op: "counter adjust", Err: err}
		}
		s.invalidateUnreadCount(ctx, userID)
	}
	return deleted, nil
}
