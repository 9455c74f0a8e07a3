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

func ConsumeLeaveStatusChanged(
	ctx context.Context,
	reader *kafkago.Reader,
	notificationService notification.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_status")
	log.Info("leave status consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave status consumer stopped")
				return
			}
			log.Error("fetch leave status message failed", zap.Error(err))
			continue
		}

		var event events.LeaveStatusChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave status event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		employeeID, err := uuid.Parse(event.EmployeeID)
		if err != nil {
			log.Error("leave status event has invalid employee id",
				zap.String("employee_id", event.EmployeeID),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		title, message := statusNotification(event)
		if err := notificationService.Notify(ctx, employeeID, title, message, notification.TypeLeaveStatus); err != nil {
			log.Error("create leave status notification failed",
				zap.String("leave_request_id", event.LeaveRequestID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave status message failed", zap.Error(err))
			continue
		}

		log.Info("leave status notification created",
			zap.String("leave_request_id", event.LeaveRequestID),
			zap.String("status", event.Status),
		)
	}
}

func statusNotification(event events.LeaveStatusChangedEvent) (string, string) {
	switch event.Status {
	case "APPROVED":
		return "Leave approved",
			fmt.Sprintf("Your leave from %s to %s has been approved.", event.FromDate, event.ToDate)
	case "REJECTED":
		msg := fmt.Sprintf("Your leave from %s to %s has been rejected.", event.FromDate, event.ToDate)
		if event.Reason != "" {
			msg += " Reason: " + event.Reason
		}
		return "Leave rejected", msg
	default:
		return "Leave updated",
			fmt.Sprintf("Your leave from %s to %s is now %s.", event.FromDate, event.ToDate, event.Status)
	}
}
