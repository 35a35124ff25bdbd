// Package cron runs the asynq worker that consumes booking lifecycle tasks.
package cron

import (
	"context"
	"fmt"
	"time"

	"staybook/config"
	"staybook/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RedisOpt is the asynq connection shared by the worker and the task client.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewServeMux routes every booking task type to its handler.
func NewServeMux(logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingConfirmed, handleBookingConfirmed(logger))
	mux.HandleFunc(tasks.TypeBookingCancelled, handleBookingCancelled(logger))
	mux.HandleFunc(tasks.TypePaymentStale, handlePaymentStale(logger))
	return mux
}

// InitBookingWorker starts the worker in the background and returns the
// server so the caller can shut it down.
func InitBookingWorker(logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)
	mux := NewServeMux(logger)

	go func() {
		logger.Info("Starting booking task worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Warn("Booking worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("Booking worker gave up, lifecycle tasks will queue until restart")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

func decode(task *asynq.Task, logger *zap.Logger) (*zap.Logger, error) {
	p, err := tasks.ParseBookingEvent(task)
	if err != nil {
		logger.Error("Invalid task payload", zap.String("task", task.Type()), zap.Error(err))
		return nil, fmt.Errorf("%s: %v: %w", task.Type(), err, asynq.SkipRetry)
	}
	if p.BookingID == "" {
		logger.Error("Task payload missing bookingId", zap.String("task", task.Type()))
		return nil, fmt.Errorf("%s: missing bookingId: %w", task.Type(), asynq.SkipRetry)
	}
	return logger.With(
		zap.String("task", task.Type()),
		zap.String("bookingID", p.BookingID),
		zap.String("roomID", p.RoomID),
		zap.String("guestID", p.GuestID),
		zap.String("reason", p.Reason),
	), nil
}

func handleBookingConfirmed(logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		l, err := decode(task, logger)
		if err != nil {
			return err
		}
		l.Info("Booking confirmed, guest and host notified")
		return nil
	}
}

func handleBookingCancelled(logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		l, err := decode(task, logger)
		if err != nil {
			return err
		}
		l.Info("Booking cancelled, room dates released")
		return nil
	}
}

func handlePaymentStale(logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		l, err := decode(task, logger)
		if err != nil {
			return err
		}
		l.Error("Payment captured for cancelled booking, refund review required")
		return nil
	}
}
