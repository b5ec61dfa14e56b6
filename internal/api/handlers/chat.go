package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"chatbot/internal/app"
	"chatbot/internal/apperr"
	"chatbot/internal/logger"
	"chatbot/internal/repository/db"
	chatService "chatbot/internal/service/chat"
	"chatbot/internal/service/generator"
	"chatbot/pkg/validation"

	"github.com/sirupsen/logrus"
)

// Request/Response types

type SendMessageRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId,omitempty"`
}

// StreamEvent is the JSON payload of one SSE frame
type StreamEvent struct {
	Type           string `json:"type"`
	Content        string `json:"content"`
	MessageID      string `json:"messageId,omitempty"`
	ConversationID string `json:"conversationId,omitempty"`
	Timestamp      string `json:"timestamp,omitempty"`
}

type RateMessageRequest struct {
	MessageID string `json:"messageId"`
	Rating    int    `json:"rating"`
}

type RateMessageResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId"`
	Rating    int    `json:"rating"`
}

// ChatHandlers serves the streaming chat endpoints via the service layer
type ChatHandlers struct {
	validator   *validation.ChatRequestValidator
	chatService *chatService.ChatService
}

// NewChatHandlers creates a new ChatHandlers with service layer
func NewChatHandlers(config *app.Config, gen generator.Generator, finalizer *chatService.Finalizer) *ChatHandlers {
	return &ChatHandlers{
		validator:   validation.NewChatRequestValidator(),
		chatService: chatService.NewChatService(config.DB, gen, finalizer),
	}
}

// SendHandler is the SSE endpoint for streaming chat responses
func (ch *ChatHandlers) SendHandler(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, apperr.CodeBadRequest, "Invalid request body", err)
		return
	}

	// Validate before the transport is committed to streaming mode
	if err := ch.validator.ValidateMessage(req.Message); err != nil {
		sendError(w, http.StatusBadRequest, apperr.CodeBadRequest, "Validation failed", err)
		return
	}

	// Check if response writer supports flushing
	flusher, ok := w.(http.Flusher)
	if !ok {
		sendError(w, http.StatusInternalServerError, apperr.CodeInternal, "Streaming not supported", nil)
		return
	}

	logger.Log.WithField("message_chars", len(req.Message)).Info("Chat stream request received")

	chunks, err := ch.chatService.StreamMessage(r.Context(), chatService.StreamRequest{
		Message:        req.Message,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		// Headers are not committed yet; an ordinary error response works.
		logger.Log.WithError(err).Error("Error starting chat stream")
		sendAppError(w, "Error processing message", err)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	ctx := r.Context()
	for chunk := range chunks {
		select {
		case <-ctx.Done():
			// Client disconnected: stop writing; finalization continues
			// in the background.
			logger.Log.WithField("conversation_id", chunk.ConversationID).Debug("Client disconnected mid-stream")
			return
		default:
		}

		if err := writeEvent(w, flusher, streamEvent(chunk)); err != nil {
			logger.Log.WithError(err).Warn("Error writing SSE frame")
			return
		}

		if chunk.Type == generator.ChunkComplete || chunk.Type == generator.ChunkError {
			break
		}
	}
}

// RateHandler stores a rating on a message
func (ch *ChatHandlers) RateHandler(w http.ResponseWriter, r *http.Request) {
	var req RateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, apperr.CodeBadRequest, "Invalid request body", err)
		return
	}

	if err := ch.validator.ValidateRateRequest(req.MessageID, req.Rating); err != nil {
		sendError(w, http.StatusBadRequest, apperr.CodeBadRequest, "Validation failed", err)
		return
	}

	msg, err := ch.chatService.RateMessage(req.MessageID, db.Rating(req.Rating))
	if err != nil {
		logger.Log.WithError(err).WithField("message_id", req.MessageID).Error("Error rating message")
		sendAppError(w, "Error rating message", err)
		return
	}

	logger.Log.WithFields(logrus.Fields{"message_id": msg.ID, "rating": msg.Rating}).Debug("Message rated")

	writeJSON(w, http.StatusOK, RateMessageResponse{
		Success:   true,
		MessageID: msg.ID,
		Rating:    int(msg.Rating),
	})
}

// streamEvent converts an outbound service chunk into its wire representation
func streamEvent(chunk chatService.StreamChunk) StreamEvent {
	ev := StreamEvent{
		Type:           string(chunk.Type),
		Content:        chunk.Content,
		MessageID:      chunk.MessageID,
		ConversationID: chunk.ConversationID,
	}
	if !chunk.Timestamp.IsZero() {
		ev.Timestamp = chunk.Timestamp.Format(time.RFC3339Nano)
	}
	return ev
}

// writeEvent writes one SSE frame and flushes it immediately, so perceived
// latency matches the generator's production pace.
func writeEvent(w http.ResponseWriter, flusher http.Flusher, event StreamEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error marshaling stream event: %w", err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data); err != nil {
		return fmt.Errorf("error writing stream event: %w", err)
	}
	flusher.Flush()
	return nil
}
