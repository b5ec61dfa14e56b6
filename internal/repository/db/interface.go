package db

// Database defines the interface for all database operations
// This allows for easier testing through mocking and decouples the services
// from the specific database implementation
type Database interface {
	// Conversations
	GetConversation(id string) (*Conversation, error)
	CreateConversation(title string) (*Conversation, error)
	ListConversations(limit, offset int) ([]Conversation, int, error)
	UpdateConversationTitle(id, title string) (*Conversation, error)
	// TouchConversation increments the conversation's message count, caches
	// lastMessage and bumps updated_at. Called once per message insert whose
	// content is final (user messages immediately, assistant messages at
	// finalization).
	TouchConversation(id, lastMessage string) error
	DeleteConversation(id string) error

	// Messages
	AddMessage(conversationID, content string, isUser bool) (*Message, error)
	GetMessage(id string) (*Message, error)
	GetConversationMessages(conversationID string) ([]Message, error)
	UpdateMessageContent(id, content string) error
	SetMessageRating(id string, rating Rating) (*Message, error)
}
