package conversation

import (
	"fmt"
	"strings"

	"chatbot/internal/apperr"
	"chatbot/internal/repository/db"
)

const (
	defaultTitle    = "New conversation"
	defaultPageSize = 20
	maxPageSize     = 100
)

// ConversationService handles the business logic for conversation management
type ConversationService struct {
	db db.Database
}

// NewConversationService creates a new ConversationService
func NewConversationService(database db.Database) *ConversationService {
	return &ConversationService{
		db: database,
	}
}

// List retrieves a page of conversations ordered by most recent activity,
// along with the total count.
func (s *ConversationService) List(page, pageSize int) ([]db.Conversation, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	conversations, total, err := s.db.ListConversations(pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve conversations: %w", err)
	}

	return conversations, total, nil
}

// Create creates a conversation with the given title, or a default one.
func (s *ConversationService) Create(title string) (*db.Conversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultTitle
	}

	conversation, err := s.db.CreateConversation(title)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	return conversation, nil
}

// Messages retrieves a conversation and all its messages in chronological
// order.
func (s *ConversationService) Messages(conversationID string) (*db.Conversation, []db.Message, error) {
	conversation, err := s.db.GetConversation(conversationID)
	if err != nil {
		return nil, nil, err
	}

	messages, err := s.db.GetConversationMessages(conversationID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve messages: %w", err)
	}

	return conversation, messages, nil
}

// Rename updates a conversation's title
func (s *ConversationService) Rename(conversationID, title string) (*db.Conversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperr.New(apperr.CodeBadRequest, "title is required")
	}

	conversation, err := s.db.UpdateConversationTitle(conversationID, title)
	if err != nil {
		return nil, err
	}

	return conversation, nil
}

// Delete removes a conversation and, by cascade, its messages
func (s *ConversationService) Delete(conversationID string) error {
	return s.db.DeleteConversation(conversationID)
}
