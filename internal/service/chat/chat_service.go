package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chatbot/internal/apperr"
	"chatbot/internal/logger"
	"chatbot/internal/repository/db"
	"chatbot/internal/service/generator"

	"github.com/sirupsen/logrus"
)

// maxTitleRunes bounds the conversation title derived from the first message.
const maxTitleRunes = 32

// StreamRequest contains the parameters for one chat turn
type StreamRequest struct {
	Message        string
	ConversationID string
}

// StreamChunk is an outbound fragment annotated with the placeholder assistant
// message id and the conversation id, so the transport layer needs no further
// context to frame it.
type StreamChunk struct {
	Type           generator.ChunkType
	Content        string
	MessageID      string
	ConversationID string
	Timestamp      time.Time
}

// ChatService owns the lifecycle of one chat turn: it persists the user
// message and an empty assistant placeholder, drives the generator, relays
// fragments to the caller and schedules finalization of the accumulated
// response once the stream ends, however it ends.
type ChatService struct {
	db        db.Database
	generator generator.Generator
	finalizer *Finalizer
}

// NewChatService creates a new ChatService
func NewChatService(database db.Database, gen generator.Generator, finalizer *Finalizer) *ChatService {
	return &ChatService{
		db:        database,
		generator: gen,
		finalizer: finalizer,
	}
}

// StreamMessage starts a chat turn and returns the stream of outbound
// fragments. Validation and the two message inserts happen synchronously,
// before the first fragment is produced; ctx cancellation stops the stream but
// never the deferred finalization.
func (s *ChatService) StreamMessage(ctx context.Context, req StreamRequest) (<-chan StreamChunk, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, apperr.New(apperr.CodeBadRequest, "message is required")
	}

	conversation, err := s.getOrCreateConversation(message, req.ConversationID)
	if err != nil {
		return nil, err
	}

	// Persist the user message. Its insert counts as conversation activity
	// immediately.
	userMsg, err := s.db.AddMessage(conversation.ID, message, true)
	if err != nil {
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}
	if err := s.db.TouchConversation(conversation.ID, message); err != nil {
		return nil, fmt.Errorf("failed to update conversation: %w", err)
	}

	// Persist the empty assistant placeholder. Its contribution to the
	// conversation's denormalized fields is deferred to finalization.
	assistantMsg, err := s.db.AddMessage(conversation.ID, "", false)
	if err != nil {
		return nil, fmt.Errorf("failed to save assistant placeholder: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"conversation_id": conversation.ID,
		"user_message_id": userMsg.ID,
		"message_id":      assistantMsg.ID,
	}).Debug("Starting chat turn")

	chunks, err := s.generator.GenerateResponse(ctx, message, conversation.ID)
	if err != nil {
		// The turn already landed two messages; finalize the placeholder
		// with empty content so the count invariant holds.
		s.finalizer.Schedule(FinalizeTask{
			MessageID:      assistantMsg.ID,
			ConversationID: conversation.ID,
		})
		return nil, apperr.Wrap(apperr.CodeStreamError, "failed to start generation", err)
	}

	out := make(chan StreamChunk)

	go func() {
		defer close(out)

		var parts []string
		defer func() {
			// Scheduled unconditionally: a cancelled or failed turn still
			// finalizes with whatever was accumulated.
			s.finalizer.Schedule(FinalizeTask{
				MessageID:      assistantMsg.ID,
				ConversationID: conversation.ID,
				Content:        strings.Join(parts, " "),
			})
		}()

		for chunk := range chunks {
			if chunk.Type == generator.ChunkContent && chunk.Content != "" {
				parts = append(parts, chunk.Content)
			}

			select {
			case out <- StreamChunk{
				Type:           chunk.Type,
				Content:        chunk.Content,
				MessageID:      assistantMsg.ID,
				ConversationID: conversation.ID,
				Timestamp:      chunk.Timestamp,
			}:
			case <-ctx.Done():
				// Client is gone; the generator observes the same ctx and
				// stops on its own.
				return
			}
		}
	}()

	return out, nil
}

// RateMessage stores a rating on a message. Rating the same message twice with
// the same value is a no-op that still succeeds.
func (s *ChatService) RateMessage(messageID string, rating db.Rating) (*db.Message, error) {
	if !rating.Valid() {
		return nil, apperr.New(apperr.CodeBadRequest, "rating must be 0 (none), 1 (like) or 2 (dislike)")
	}

	msg, err := s.db.SetMessageRating(messageID, rating)
	if err != nil {
		return nil, err
	}

	return msg, nil
}

// getOrCreateConversation loads the referenced conversation or creates a new
// one titled with the first words of the message.
func (s *ChatService) getOrCreateConversation(message, conversationID string) (*db.Conversation, error) {
	if conversationID != "" {
		return s.db.GetConversation(conversationID)
	}

	// Use rune slicing to avoid cutting multi-byte UTF-8 characters
	title := message
	if runes := []rune(title); len(runes) > maxTitleRunes {
		title = string(runes[:maxTitleRunes])
	}
	return s.db.CreateConversation(title)
}
