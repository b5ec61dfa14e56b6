package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"chatbot/internal/app"
	"chatbot/internal/apperr"
	"chatbot/internal/logger"
	"chatbot/internal/repository/db"
	conversationService "chatbot/internal/service/conversation"
)

// Request/Response types

type ConversationInfo struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	MessageCount int       `json:"messageCount"`
	LastMessage  string    `json:"lastMessage,omitempty"`
}

type ConversationListResponse struct {
	Conversations []ConversationInfo `json:"conversations"`
	Total         int                `json:"total"`
}

type CreateConversationRequest struct {
	Title string `json:"title,omitempty"`
}

type UpdateConversationTitleRequest struct {
	Title string `json:"title"`
}

type MessageInfo struct {
	ID             string    `json:"id"`
	Content        string    `json:"content"`
	IsUser         bool      `json:"isUser"`
	Timestamp      time.Time `json:"timestamp"`
	Rating         int       `json:"rating"`
	ConversationID string    `json:"conversationId"`
}

type ConversationMessagesResponse struct {
	Messages          []MessageInfo `json:"messages"`
	ConversationID    string        `json:"conversationId"`
	ConversationTitle string        `json:"conversationTitle"`
}

type DeleteResponse struct {
	Success bool `json:"success"`
}

// ConversationHandlers serves conversation management endpoints
type ConversationHandlers struct {
	conversationService *conversationService.ConversationService
}

// NewConversationHandlers creates a new ConversationHandlers
func NewConversationHandlers(config *app.Config) *ConversationHandlers {
	return &ConversationHandlers{
		conversationService: conversationService.NewConversationService(config.DB),
	}
}

// ListHandler returns a page of conversations with the total count
func (h *ConversationHandlers) ListHandler(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "pageSize", 20)

	conversations, total, err := h.conversationService.List(page, pageSize)
	if err != nil {
		logger.Log.WithError(err).Error("Error listing conversations")
		sendAppError(w, "Error retrieving conversations", err)
		return
	}

	infos := make([]ConversationInfo, 0, len(conversations))
	for _, conv := range conversations {
		infos = append(infos, conversationInfo(&conv))
	}

	writeJSON(w, http.StatusOK, ConversationListResponse{
		Conversations: infos,
		Total:         total,
	})
}

// CreateHandler creates an empty conversation
func (h *ConversationHandlers) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Empty body is acceptable, use defaults
		req.Title = ""
	}

	conversation, err := h.conversationService.Create(req.Title)
	if err != nil {
		logger.Log.WithError(err).Error("Error creating conversation")
		sendAppError(w, "Error creating conversation", err)
		return
	}

	writeJSON(w, http.StatusOK, conversationInfo(conversation))
}

// MessagesHandler returns all messages from a specific conversation
func (h *ConversationHandlers) MessagesHandler(w http.ResponseWriter, r *http.Request) {
	convID := r.PathValue("id")

	conversation, messages, err := h.conversationService.Messages(convID)
	if err != nil {
		logger.Log.WithError(err).WithField("conversation_id", convID).Error("Error retrieving messages")
		sendAppError(w, "Error retrieving messages", err)
		return
	}

	infos := make([]MessageInfo, 0, len(messages))
	for _, msg := range messages {
		infos = append(infos, messageInfo(&msg))
	}

	writeJSON(w, http.StatusOK, ConversationMessagesResponse{
		Messages:          infos,
		ConversationID:    conversation.ID,
		ConversationTitle: conversation.Title,
	})
}

// RenameHandler updates a conversation's title
func (h *ConversationHandlers) RenameHandler(w http.ResponseWriter, r *http.Request) {
	convID := r.PathValue("id")

	var req UpdateConversationTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, apperr.CodeBadRequest, "Invalid request body", err)
		return
	}

	conversation, err := h.conversationService.Rename(convID, req.Title)
	if err != nil {
		logger.Log.WithError(err).WithField("conversation_id", convID).Error("Error renaming conversation")
		sendAppError(w, "Error renaming conversation", err)
		return
	}

	writeJSON(w, http.StatusOK, conversationInfo(conversation))
}

// DeleteHandler deletes a conversation and its messages
func (h *ConversationHandlers) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	convID := r.PathValue("id")

	if err := h.conversationService.Delete(convID); err != nil {
		logger.Log.WithError(err).WithField("conversation_id", convID).Error("Error deleting conversation")
		sendAppError(w, "Error deleting conversation", err)
		return
	}

	writeJSON(w, http.StatusOK, DeleteResponse{Success: true})
}

func conversationInfo(conv *db.Conversation) ConversationInfo {
	return ConversationInfo{
		ID:           conv.ID,
		Title:        conv.Title,
		CreatedAt:    conv.CreatedAt,
		UpdatedAt:    conv.UpdatedAt,
		MessageCount: conv.MessageCount,
		LastMessage:  conv.LastMessage,
	}
}

func messageInfo(msg *db.Message) MessageInfo {
	return MessageInfo{
		ID:             msg.ID,
		Content:        msg.Content,
		IsUser:         msg.IsUser,
		Timestamp:      msg.CreatedAt,
		Rating:         int(msg.Rating),
		ConversationID: msg.ConversationID,
	}
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	valueStr := r.URL.Query().Get(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
