package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/edukit/assignflow/pkg/events"
	"github.com/edukit/assignflow/pkg/otelhelper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type WatermillEventBus struct {
	publisher     message.Publisher
	subscriber    message.Subscriber
	subscriptions map[events.EventType]EventHandler
	tracer        trace.Tracer
}

func NewWatermillEventBus(pub message.Publisher, sub message.Subscriber) EventBus {
	return &WatermillEventBus{
		publisher:     pub,
		subscriber:    sub,
		subscriptions: make(map[events.EventType]EventHandler),
		tracer:        otel.Tracer("assignflow-eventbus"),
	}
}

func (eb *WatermillEventBus) GenerateID() string {
	return watermill.NewULID()
}

func (eb *WatermillEventBus) Publish(ctx context.Context, key string, event Event) error {
	_, span := otelhelper.StartSpan(ctx, eb.tracer, "eventbus publish",
		attribute.String(otelhelper.OperationKey, string(event.GetType())),
		attribute.String(otelhelper.AssignmentIDKey, key),
	)
	defer span.End()

	payload, err := json.Marshal(event)
	if err != nil {
		otelhelper.SetError(span, err)

		return err
	}

	msg := message.NewMessage("msg-"+eb.GenerateID(), payload)
	msg.Metadata.Set(events.EventMetadataKey, key)
	msg.Metadata.Set(events.EventTypeMetadataKey, string(event.GetType()))

	err = eb.publisher.Publish(events.Topic, msg)
	if err != nil {
		otelhelper.SetError(span, err)

		return err
	}

	span.AddEvent("event_published", trace.WithAttributes(attribute.String(otelhelper.EventIDKey, msg.UUID)))

	return nil
}

func (eb *WatermillEventBus) Subscribe(ctx context.Context) error {
	messages, err := eb.subscriber.Subscribe(ctx, events.Topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			eb.dispatch(ctx, msg)
		}
	}()

	return nil
}

func (eb *WatermillEventBus) dispatch(ctx context.Context, msg *message.Message) {
	eventType := events.EventType(msg.Metadata.Get(events.EventTypeMetadataKey))

	msgCtx, span := otelhelper.StartSpan(ctx, eb.tracer, "eventbus dispatch",
		attribute.String(otelhelper.OperationKey, string(eventType)),
		attribute.String(otelhelper.AssignmentIDKey, msg.Metadata.Get(events.EventMetadataKey)),
		attribute.String(otelhelper.EventIDKey, msg.UUID),
	)
	defer span.End()

	handler, exists := eb.subscriptions[eventType]
	if !exists {
		span.SetStatus(codes.Ok, "no handler subscribed")
		msg.Ack()

		return
	}

	event := newEvent(eventType)
	if event == nil {
		otelhelper.SetError(span, fmt.Errorf("unknown event type: %s", eventType))
		msg.Nack()

		return
	}

	err := json.Unmarshal(msg.Payload, event)
	if err != nil {
		otelhelper.SetError(span, err)
		msg.Nack()

		return
	}

	err = handler(msgCtx, event)
	if err != nil {
		otelhelper.SetError(span, err)
		msg.Nack()

		return
	}

	span.AddEvent("event_handled")
	msg.Ack()
}

func newEvent(eventType events.EventType) any {
	switch eventType {
	case events.AssignmentCreatedEvent:
		return &events.AssignmentCreated{}
	case events.DraftSavedEvent:
		return &events.DraftSaved{}
	case events.AssignmentPublishedEvent:
		return &events.AssignmentPublished{}
	case events.AssignmentDeletedEvent:
		return &events.AssignmentDeleted{}
	default:
		return nil
	}
}

func (eb *WatermillEventBus) Handle(eventType events.EventType, handler EventHandler) error {
	eb.subscriptions[eventType] = handler

	return nil
}

func (eb *WatermillEventBus) Close() error {
	err := eb.publisher.Close()
	if err != nil {
		return err
	}

	return eb.subscriber.Close()
}
