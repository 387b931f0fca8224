package services

import (
	"context"
	"time"

	"sneakerhead/internal/models"

	"go.uber.org/zap"
)

// Routing keys for order events.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// EventPublisher delivers domain events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// OrderEvent is the body of every order event.
type OrderEvent struct {
	OrderID     string             `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	UserID      string             `json:"user_id"`
	Status      models.OrderStatus `json:"status"`
	Previous    models.OrderStatus `json:"previous_status,omitempty"`
	Total       float64            `json:"total"`
	Reason      string             `json:"reason,omitempty"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

func newOrderEvent(order *models.Order, previous models.OrderStatus, reason string, at time.Time) OrderEvent {
	return OrderEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Status:      order.Status,
		Previous:    previous,
		Total:       order.Total,
		Reason:      reason,
		OccurredAt:  at,
	}
}

// publishEvent never fails the caller: the order is already committed.
func publishEvent(ctx context.Context, pub EventPublisher, log *zap.Logger, key string, ev OrderEvent) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, key, ev); err != nil {
		log.Warn("failed to publish order event",
			zap.String("routing_key", key),
			zap.String("order_id", ev.OrderID),
			zap.Error(err),
		)
	}
}
