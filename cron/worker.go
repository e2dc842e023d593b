package cron

import (
	"context"
	"encoding/json"
	"time"

	"carhive/config"
	"carhive/services/notification"
	"carhive/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitPushRetryWorker runs the async worker in background. It drains the
// push retry queue filled by the notification dispatcher; asynq handles
// per-task retry scheduling.
func InitPushRetryWorker(push notification.PushSender) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TypePushRetry, handlePushRetryTask(push))

	go func() {
		logger := utils.GetLogger()
		logger.Info("starting push retry worker")

		const maxAttempts = 5
		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("push retry worker failed to start",
				zap.Int("attempt", attempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("push retry worker exhausted start attempts")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
}

func handlePushRetryTask(push notification.PushSender) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p notification.PushRetryPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("push retry: invalid payload", zap.Error(err))
			return err
		}

		ticket, err := push.Send(ctx, p.Token, p.Title, p.Body, p.Data)
		if err != nil {
			// Returning the error lets asynq reschedule within its retry budget.
			logger.Warn("push retry failed", zap.Error(err))
			return err
		}

		logger.Debug("push retry delivered", zap.String("ticket", ticket))
		return nil
	}
}
