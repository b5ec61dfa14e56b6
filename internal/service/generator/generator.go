package generator

import (
	"context"
	"time"
)

// ChunkType labels a fragment of a streamed response.
type ChunkType string

const (
	ChunkStart    ChunkType = "start"
	ChunkContent  ChunkType = "chunk"
	ChunkComplete ChunkType = "complete"
	ChunkError    ChunkType = "error"
)

// StreamChunk is one transient fragment of generator output. Chunks are never
// persisted; only the concatenated ChunkContent payloads become message
// content.
type StreamChunk struct {
	Type      ChunkType
	Content   string
	Timestamp time.Time
}

// Generator produces a lazy, finite sequence of response fragments for a
// prompt. Implementations must emit exactly one ChunkStart, then zero or more
// ChunkContent fragments, then exactly one terminal fragment (ChunkComplete on
// success, ChunkError on failure) before closing the channel. They must check
// ctx between fragments and, once it is cancelled, stop emitting and close the
// channel without a terminal fragment and without treating the cancellation as
// an error.
type Generator interface {
	GenerateResponse(ctx context.Context, message, conversationID string) (<-chan StreamChunk, error)
}
