package server

import (
	"fmt"
	"testing"
)

func TestWebLogger_BasicLogging(t *testing.T) {
	console := NewConsole(10)
	logger := NewWebLogger("test-render-123", console)

	logger.Printf("%s\n", "Test log message")

	messages := console.Recent()
	if len(messages) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(messages))
	}
	if messages[0].Message != "Test log message" {
		t.Errorf("Expected trailing newline to be trimmed, got %q", messages[0].Message)
	}
	if messages[0].RenderID != "test-render-123" {
		t.Errorf("Expected render ID 'test-render-123', got %q", messages[0].RenderID)
	}
	if messages[0].Timestamp.IsZero() {
		t.Error("Expected timestamp to be set")
	}
}

func TestConsole_DropsOldest(t *testing.T) {
	console := NewConsole(3)
	logger := NewWebLogger("r", console)
	for i := 1; i <= 5; i++ {
		logger.Printf("Message %d\n", i)
	}

	messages := console.Recent()
	if len(messages) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(messages))
	}
	for i, msg := range messages {
		want := fmt.Sprintf("Message %d", i+3)
		if msg.Message != want {
			t.Errorf("Message %d: expected %q, got %q", i, want, msg.Message)
		}
	}
}

func TestWebLogger_NilConsole(t *testing.T) {
	logger := NewWebLogger("r", nil)
	// Must not panic
	logger.Printf("Scanlines remaining: %d\n", 3)
}
