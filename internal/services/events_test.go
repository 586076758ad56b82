package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisherWritesKeyedMessage(t *testing.T) {
	fw := &fakeWriter{}
	p := &KafkaPublisher{writer: fw}
	ev := BookingEvent{
		Type:        EventBookingConfirmed,
		Reference:   "BT0000000001",
		UserID:      "u-1",
		Seats:       []string{"B1"},
		FinalAmount: 50,
		OccurredAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := p.Publish(context.Background(), ev); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if len(fw.msgs) != 1 {
		t.Fatalf("messages = %d", len(fw.msgs))
	}
	msg := fw.msgs[0]
	if string(msg.Key) != "BT0000000001" {
		t.Fatalf("key = %q", msg.Key)
	}
	var got BookingEvent
	if err := json.Unmarshal(msg.Value, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Reference != ev.Reference || got.FinalAmount != 50 {
		t.Fatalf("payload = %+v", got)
	}
	if err := p.Close(); err != nil || !fw.closed {
		t.Fatal("Close should close the writer")
	}
}

func TestNewKafkaPublisherNeedsBrokersAndTopic(t *testing.T) {
	if _, err := NewKafkaPublisher(nil, "t"); err == nil {
		t.Fatal("expected error without brokers")
	}
	if _, err := NewKafkaPublisher([]string{"localhost:9092"}, ""); err == nil {
		t.Fatal("expected error without topic")
	}
	p, err := NewKafkaPublisher([]string{"localhost:9092"}, "booking-events")
	if err != nil || p == nil {
		t.Fatalf("NewKafkaPublisher = %v, %v", p, err)
	}
	_ = p.Close()
}
