package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/YelzhanWeb/tables/internal/adapter/logger"
	"github.com/YelzhanWeb/tables/internal/interfaces"
)

type NotificationHandler struct {
	logger logger.Logger
}

func NewNotificationHandler(logger logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		logger: logger,
	}
}

func (h *NotificationHandler) HandleNotification(ctx context.Context, body []byte) error {
	var msg interfaces.StatusUpdateMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse notification", "", nil, err)
		return err
	}

	h.logger.Debug("notification_received", fmt.Sprintf("Received status update for reservation %s", msg.ReservationID),
		msg.ReservationID, map[string]interface{}{
			"reservation_id": msg.ReservationID,
			"new_status":     msg.NewStatus,
		})

	// Print to console
	fmt.Printf("Reservation %s: status changed from '%s' to '%s' (table %s)\n",
		msg.ReservationID, msg.OldStatus, msg.NewStatus, msg.TableID)

	return nil
}
