package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"go-slms/internal/events"
	"go-slms/internal/notification"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func ConsumeLeaveEnded(
	ctx context.Context,
	reader *kafkago.Reader,
	notificationService notification.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_ended")
	log.Info("leave ended consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave ended consumer stopped")
				return
			}
			log.Error("fetch leave ended message failed", zap.Error(err))
			continue
		}

		var event events.LeaveEndedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave ended event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		employeeID, err := uuid.Parse(event.EmployeeID)
		if err != nil {
			log.Error("leave ended event has invalid employee id",
				zap.String("employee_id", event.EmployeeID),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		message := fmt.Sprintf("Your approved leave ended on %s. Welcome back.", event.ToDate)
		if err := notificationService.Notify(ctx, employeeID, "Leave ended", message, notification.TypeLeaveEnded); err != nil {
			log.Error("create leave ended notification failed",
				zap.String("leave_request_id", event.LeaveRequestID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave ended message failed", zap.Error(err))
			continue
		}

		log.Info("leave ended notification created",
			zap.String("leave_request_id", event.LeaveRequestID),
		)
	}
}
