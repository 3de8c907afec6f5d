package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"returns-service/internal/models"
	"returns-service/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishReturnProcessed publishes a ReturnProcessed event
func (ep *EventPublisher) PublishReturnProcessed(ctx context.Context, event *models.ReturnProcessedEvent) error {
	key := fmt.Sprintf("return-%s", event.RecordID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishReturnShipped publishes a ReturnShipped event
func (ep *EventPublisher) PublishReturnShipped(ctx context.Context, event *models.ReturnShippedEvent) error {
	key := fmt.Sprintf("return-%s", event.RecordID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishDailySummary publishes a DailySummary event
func (ep *EventPublisher) PublishDailySummary(ctx context.Context, event *models.DailySummaryEvent) error {
	key := fmt.Sprintf("summary-%s", event.Day)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes incoming events to registered handlers
type EventHandler struct {
	onReturnProcessed func(context.Context, *models.ReturnProcessedEvent) error
	onReturnShipped   func(context.Context, *models.ReturnShippedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnReturnProcessed registers a handler for ReturnProcessed events
func (eh *EventHandler) OnReturnProcessed(handler func(context.Context, *models.ReturnProcessedEvent) error) {
	eh.onReturnProcessed = handler
}

// OnReturnShipped registers a handler for ReturnShipped events
func (eh *EventHandler) OnReturnShipped(handler func(context.Context, *models.ReturnShippedEvent) error) {
	eh.onReturnShipped = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	util.GetLogger().Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeReturnProcessed:
		if eh.onReturnProcessed != nil {
			var event models.ReturnProcessedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ReturnProcessed event: %w", err)
			}
			return eh.onReturnProcessed(ctx, &event)
		}

	case models.EventTypeReturnShipped:
		if eh.onReturnShipped != nil {
			var event models.ReturnShippedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ReturnShipped event: %w", err)
			}
			return eh.onReturnShipped(ctx, &event)
		}
	}

	return nil
}
