package interfaces

import (
	"context"
	"time"

	"github.com/YelzhanWeb/tables/internal/domain"
)

// Сообщения RabbitMQ

type StatusUpdateMessage struct {
	ReservationID string                   `json:"reservation_id"`
	TableID       string                   `json:"table_id,omitempty"`
	OldStatus     domain.ReservationStatus `json:"old_status,omitempty"`
	NewStatus     domain.ReservationStatus `json:"new_status"`
	PartySize     int                      `json:"party_size"`
	IsWalkIn      bool                     `json:"is_walk_in"`
	Timestamp     time.Time                `json:"timestamp"`
}

// Интерфейсы Messaging (Adapter/RabbitMQ)

type MessagePublisher interface {
	PublishStatusUpdate(ctx context.Context, msg StatusUpdateMessage) error
}

type MessageConsumer interface {
	ConsumeNotifications(ctx context.Context, handler NotificationHandler) error
}

type NotificationHandler func(ctx context.Context, body []byte) error
