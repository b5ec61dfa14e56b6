package generator

import (
	"context"
	"strings"
	"testing"
	"time"

	"chatbot/internal/config"
)

func fastConfig() *config.GeneratorConfig {
	return &config.GeneratorConfig{
		MinDelay: time.Millisecond,
		MaxDelay: 2 * time.Millisecond,
	}
}

// Test GenerateResponse - fragment ordering and channel closure
func TestDummyGenerator_FragmentOrdering(t *testing.T) {
	gen := NewDummyGenerator(fastConfig())

	chunks, err := gen.GenerateResponse(context.Background(), "Hello", "conv-123")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	var received []StreamChunk
	for chunk := range chunks {
		received = append(received, chunk)
	}

	if len(received) < 3 {
		t.Fatalf("Expected at least start, one word and complete, got %d fragments", len(received))
	}

	if received[0].Type != ChunkStart {
		t.Errorf("Expected first fragment 'start', got '%s'", received[0].Type)
	}

	if received[len(received)-1].Type != ChunkComplete {
		t.Errorf("Expected last fragment 'complete', got '%s'", received[len(received)-1].Type)
	}

	for i, chunk := range received[1 : len(received)-1] {
		if chunk.Type != ChunkContent {
			t.Errorf("Fragment %d: expected 'chunk', got '%s'", i+1, chunk.Type)
		}
		if chunk.Content == "" {
			t.Errorf("Fragment %d: expected non-empty content", i+1)
		}
	}
}

// Test GenerateResponse - joined words reproduce one of the canned texts
func TestDummyGenerator_JoinedContentMatchesCannedText(t *testing.T) {
	gen := NewDummyGenerator(fastConfig())

	chunks, err := gen.GenerateResponse(context.Background(), "Hello", "conv-123")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	var words []string
	for chunk := range chunks {
		if chunk.Type == ChunkContent {
			words = append(words, chunk.Content)
		}
	}

	joined := strings.Join(words, " ")
	for _, canned := range dummyResponses {
		if joined == canned {
			return
		}
	}
	t.Errorf("Joined content does not match any canned response: '%s'", joined)
}

// Test GenerateResponse - cancellation closes the channel without a terminal fragment
func TestDummyGenerator_CancellationStopsStream(t *testing.T) {
	gen := NewDummyGenerator(&config.GeneratorConfig{
		MinDelay: 10 * time.Millisecond,
		MaxDelay: 20 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())

	chunks, err := gen.GenerateResponse(ctx, "Hello", "conv-123")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// Read the start fragment and the first word, then cancel and give the
	// generator time to observe it before draining
	<-chunks
	<-chunks
	cancel()
	time.Sleep(50 * time.Millisecond)

	var sawTerminal bool
	for chunk := range chunks {
		if chunk.Type == ChunkComplete || chunk.Type == ChunkError {
			sawTerminal = true
		}
	}

	if sawTerminal {
		t.Error("Expected no terminal fragment after cancellation")
	}
}

// Test GenerateResponse - timestamps are set and non-decreasing
func TestDummyGenerator_Timestamps(t *testing.T) {
	gen := NewDummyGenerator(fastConfig())

	chunks, err := gen.GenerateResponse(context.Background(), "Hello", "conv-123")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	var prev time.Time
	for chunk := range chunks {
		if chunk.Timestamp.IsZero() {
			t.Fatal("Expected every fragment to carry a timestamp")
		}
		if chunk.Timestamp.Before(prev) {
			t.Fatal("Expected timestamps to be non-decreasing")
		}
		prev = chunk.Timestamp
	}
}
