package events

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

func TestWatermillPublisher_InMemory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher, pubSub := NewInMemoryEventPublisher(logger)
	defer publisher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := pubSub.Subscribe(ctx, publisher.Topic(SubmissionGraded))
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	event := NewEvent(SubmissionGraded, SubmissionGradedData{SubmissionID: 4, StudentID: 2, Status: "done"})
	if err := publisher.Publish(ctx, event); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case msg := <-messages:
		msg.Ack()
		if msg.UUID != event.ID {
			t.Errorf("expected message UUID %s, got %s", event.ID, msg.UUID)
		}
		if got := msg.Metadata.Get("event_type"); got != string(SubmissionGraded) {
			t.Errorf("unexpected event_type metadata %q", got)
		}
		decoded, err := DecodeEvent(msg)
		if err != nil {
			t.Fatalf("DecodeEvent failed: %v", err)
		}
		if decoded.Type != SubmissionGraded || decoded.Source != EventSource || decoded.Version != EventVersion {
			t.Errorf("unexpected envelope: %+v", decoded)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}
}

func TestNewEvent(t *testing.T) {
	a := NewEvent(StudentCreated, StudentCreatedData{StudentID: 1})
	b := NewEvent(StudentCreated, StudentCreatedData{StudentID: 1})

	if a.ID == "" || a.ID == b.ID {
		t.Error("event IDs should be unique and non-empty")
	}
	if a.Timestamp.IsZero() {
		t.Error("event timestamp should not be zero")
	}
}

func TestMockEventPublisher(t *testing.T) {
	mock := NewMockEventPublisher(nil)
	ctx := context.Background()

	_ = mock.Publish(ctx, NewEvent(StudentCreated, nil))
	_ = mock.Publish(ctx, NewEvent(StudentDeleted, nil))

	if len(mock.GetPublishedEvents()) != 2 {
		t.Fatalf("expected 2 events, got %d", len(mock.GetPublishedEvents()))
	}
	if len(mock.EventsOfType(StudentDeleted)) != 1 {
		t.Error("expected one student.deleted event")
	}

	mock.ClearEvents()
	if len(mock.GetPublishedEvents()) != 0 {
		t.Error("expected no events after ClearEvents")
	}
}
