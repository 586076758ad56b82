package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"busline/internal/utils"

	"github.com/segmentio/kafka-go"
)

const EventBookingConfirmed = "booking.confirmed"

// BookingEvent is published after a simulated payment succeeds.
type BookingEvent struct {
	Type        string    `json:"type"`
	Reference   string    `json:"booking_reference"`
	UserID      string    `json:"user_id"`
	TripID      string    `json:"trip_id"`
	Seats       []string  `json:"seats"`
	FinalAmount int64     `json:"final_amount"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, ev BookingEvent) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes booking events keyed by booking reference.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("at least one broker is required")
	}
	if topic == "" {
		return nil, errors.New("topic cannot be empty")
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
		BatchTimeout: 50 * time.Millisecond,
		Logger:       kafka.LoggerFunc(func(msg string, args ...any) {}),
		ErrorLogger:  kafka.LoggerFunc(log.Printf),
	}
	return &KafkaPublisher{writer: w}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev BookingEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.Reference),
		Value: value,
		Time:  ev.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.Type)},
		},
	})
}

func (p *KafkaPublisher) Close() error { return p.writer.Close() }

// LogPublisher is used when no broker is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, ev BookingEvent) error {
	utils.LogEvent("", "events", ev.Type, "ref="+ev.Reference+" user_id="+ev.UserID)
	return nil
}

func (LogPublisher) Close() error { return nil }
