package generator

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"chatbot/internal/config"
	"chatbot/internal/logger"

	"github.com/sirupsen/logrus"
)

// dummyResponses are the canned texts the placeholder generator picks from.
var dummyResponses = []string{
	"Lorem ipsum dolor sit amet.",
	"Lorem ipsum dolor sit amet, consectetur adipiscing elit. Vivamus lacinia odio vitae vestibulum.",
	"Lorem ipsum dolor sit amet, consectetur adipiscing elit. Vivamus lacinia odio vitae vestibulum vestibulum. Cras venenatis euismod malesuada. Pellentesque habitant morbi tristique senectus et netus et malesuada fames ac turpis egestas.",
}

// DummyGenerator is a placeholder Generator that streams one of a few canned
// texts word by word with a randomized delay between words, simulating
// incremental production.
type DummyGenerator struct {
	config *config.GeneratorConfig
}

var _ Generator = (*DummyGenerator)(nil)

// NewDummyGenerator creates a new DummyGenerator
func NewDummyGenerator(generatorConfig *config.GeneratorConfig) *DummyGenerator {
	return &DummyGenerator{
		config: generatorConfig,
	}
}

// GenerateResponse streams a canned response as per-word chunks
func (g *DummyGenerator) GenerateResponse(ctx context.Context, message, conversationID string) (<-chan StreamChunk, error) {
	response := dummyResponses[rand.Intn(len(dummyResponses))]
	words := strings.Fields(response)

	logger.Log.WithFields(logrus.Fields{
		"conversation_id": conversationID,
		"word_count":      len(words),
	}).Debug("Starting dummy generation")

	out := make(chan StreamChunk)

	go func() {
		defer close(out)

		if !g.emit(ctx, out, StreamChunk{Type: ChunkStart, Timestamp: time.Now().UTC()}) {
			return
		}

		for _, word := range words {
			if !g.emit(ctx, out, StreamChunk{Type: ChunkContent, Content: word, Timestamp: time.Now().UTC()}) {
				return
			}
			if !g.sleep(ctx) {
				return
			}
		}

		g.emit(ctx, out, StreamChunk{Type: ChunkComplete, Timestamp: time.Now().UTC()})
	}()

	return out, nil
}

// emit sends a chunk unless the context is cancelled first.
func (g *DummyGenerator) emit(ctx context.Context, out chan<- StreamChunk, chunk StreamChunk) bool {
	select {
	case out <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}

// sleep waits a random interval within the configured delay bounds.
func (g *DummyGenerator) sleep(ctx context.Context) bool {
	delay := g.config.MinDelay
	if spread := g.config.MaxDelay - g.config.MinDelay; spread > 0 {
		delay += time.Duration(rand.Int63n(int64(spread)))
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
