package testutil

import (
	"context"
	"errors"

	"chatbot/internal/repository/db"
	"chatbot/internal/service/generator"
)

// MockDatabase is a mock implementation of db.Database for testing
type MockDatabase struct {
	// Conversation mocks
	GetConversationFunc         func(id string) (*db.Conversation, error)
	CreateConversationFunc      func(title string) (*db.Conversation, error)
	ListConversationsFunc       func(limit, offset int) ([]db.Conversation, int, error)
	UpdateConversationTitleFunc func(id, title string) (*db.Conversation, error)
	TouchConversationFunc       func(id, lastMessage string) error
	DeleteConversationFunc      func(id string) error

	// Message mocks
	AddMessageFunc              func(conversationID, content string, isUser bool) (*db.Message, error)
	GetMessageFunc              func(id string) (*db.Message, error)
	GetConversationMessagesFunc func(conversationID string) ([]db.Message, error)
	UpdateMessageContentFunc    func(id, content string) error
	SetMessageRatingFunc        func(id string, rating db.Rating) (*db.Message, error)
}

var _ db.Database = (*MockDatabase)(nil)

// Conversation methods

func (m *MockDatabase) GetConversation(id string) (*db.Conversation, error) {
	if m.GetConversationFunc != nil {
		return m.GetConversationFunc(id)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) CreateConversation(title string) (*db.Conversation, error) {
	if m.CreateConversationFunc != nil {
		return m.CreateConversationFunc(title)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) ListConversations(limit, offset int) ([]db.Conversation, int, error) {
	if m.ListConversationsFunc != nil {
		return m.ListConversationsFunc(limit, offset)
	}
	return nil, 0, errors.New("not implemented")
}

func (m *MockDatabase) UpdateConversationTitle(id, title string) (*db.Conversation, error) {
	if m.UpdateConversationTitleFunc != nil {
		return m.UpdateConversationTitleFunc(id, title)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) TouchConversation(id, lastMessage string) error {
	if m.TouchConversationFunc != nil {
		return m.TouchConversationFunc(id, lastMessage)
	}
	return errors.New("not implemented")
}

func (m *MockDatabase) DeleteConversation(id string) error {
	if m.DeleteConversationFunc != nil {
		return m.DeleteConversationFunc(id)
	}
	return errors.New("not implemented")
}

// Message methods

func (m *MockDatabase) AddMessage(conversationID, content string, isUser bool) (*db.Message, error) {
	if m.AddMessageFunc != nil {
		return m.AddMessageFunc(conversationID, content, isUser)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) GetMessage(id string) (*db.Message, error) {
	if m.GetMessageFunc != nil {
		return m.GetMessageFunc(id)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) GetConversationMessages(conversationID string) ([]db.Message, error) {
	if m.GetConversationMessagesFunc != nil {
		return m.GetConversationMessagesFunc(conversationID)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) UpdateMessageContent(id, content string) error {
	if m.UpdateMessageContentFunc != nil {
		return m.UpdateMessageContentFunc(id, content)
	}
	return errors.New("not implemented")
}

func (m *MockDatabase) SetMessageRating(id string, rating db.Rating) (*db.Message, error) {
	if m.SetMessageRatingFunc != nil {
		return m.SetMessageRatingFunc(id, rating)
	}
	return nil, errors.New("not implemented")
}

// MockGenerator is a mock implementation of generator.Generator for testing
type MockGenerator struct {
	GenerateResponseFunc func(ctx context.Context, message, conversationID string) (<-chan generator.StreamChunk, error)
}

var _ generator.Generator = (*MockGenerator)(nil)

func (m *MockGenerator) GenerateResponse(ctx context.Context, message, conversationID string) (<-chan generator.StreamChunk, error) {
	if m.GenerateResponseFunc != nil {
		return m.GenerateResponseFunc(ctx, message, conversationID)
	}
	return nil, errors.New("not implemented")
}

// ChunkGenerator returns a MockGenerator that streams a start fragment, the
// given words and a complete fragment, honoring ctx between fragments.
func ChunkGenerator(words ...string) *MockGenerator {
	return &MockGenerator{
		GenerateResponseFunc: func(ctx context.Context, message, conversationID string) (<-chan generator.StreamChunk, error) {
			out := make(chan generator.StreamChunk)
			go func() {
				defer close(out)
				emit := func(chunk generator.StreamChunk) bool {
					select {
					case out <- chunk:
						return true
					case <-ctx.Done():
						return false
					}
				}

				if !emit(generator.StreamChunk{Type: generator.ChunkStart}) {
					return
				}
				for _, word := range words {
					if !emit(generator.StreamChunk{Type: generator.ChunkContent, Content: word}) {
						return
					}
				}
				emit(generator.StreamChunk{Type: generator.ChunkComplete})
			}()
			return out, nil
		},
	}
}
