package app

import (
	"context"
	"encoding/json"
	"fmt"

	"sneakerhead/internal/services"
	"sneakerhead/pkg/rabbitmq"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

// OrderEventHandler logs every order event read back from the queue.
func OrderEventHandler(log *zap.Logger) rabbitmq.HandlerFunc {
	return func(_ context.Context, d amqp.Delivery) error {
		var ev services.OrderEvent
		if err := json.Unmarshal(d.Body, &ev); err != nil {
			return fmt.Errorf("failed to decode order event: %w", err)
		}
		if ev.OrderID == "" {
			return fmt.Errorf("order event %s has no order id", d.RoutingKey)
		}
		log.Info("order event received",
			zap.String("routing_key", d.RoutingKey),
			zap.String("order_id", ev.OrderID),
			zap.String("order_number", ev.OrderNumber),
			zap.String("status", string(ev.Status)),
			zap.String("previous_status", string(ev.Previous)),
			zap.Float64("total", ev.Total),
		)
		return nil
	}
}
