package conversation

import (
	"errors"
	"testing"
	"time"

	"chatbot/internal/apperr"
	"chatbot/internal/repository/db"
	"chatbot/internal/testutil"
)

// Test NewConversationService
func TestNewConversationService(t *testing.T) {
	mockDB := &testutil.MockDatabase{}

	service := NewConversationService(mockDB)

	if service == nil {
		t.Fatal("Expected service to be created, got nil")
	}

	if service.db == nil {
		t.Error("Expected db to be set")
	}
}

// Test List - Success with explicit paging
func TestList_Success(t *testing.T) {
	mockDB := &testutil.MockDatabase{}

	var gotLimit, gotOffset int
	mockDB.ListConversationsFunc = func(limit, offset int) ([]db.Conversation, int, error) {
		gotLimit = limit
		gotOffset = offset
		return []db.Conversation{
			{ID: "conv-1", Title: "First"},
			{ID: "conv-2", Title: "Second"},
		}, 42, nil
	}

	service := NewConversationService(mockDB)

	conversations, total, err := service.List(3, 10)

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(conversations) != 2 {
		t.Errorf("Expected 2 conversations, got %d", len(conversations))
	}

	if total != 42 {
		t.Errorf("Expected total 42, got %d", total)
	}

	if gotLimit != 10 {
		t.Errorf("Expected limit 10, got %d", gotLimit)
	}

	if gotOffset != 20 {
		t.Errorf("Expected offset 20 for page 3, got %d", gotOffset)
	}
}

// Test List - Out-of-range paging falls back to defaults
func TestList_ClampsPaging(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		pageSize   int
		wantLimit  int
		wantOffset int
	}{
		{"zero page", 0, 10, 10, 0},
		{"negative page", -5, 10, 10, 0},
		{"zero page size", 1, 0, 20, 0},
		{"oversized page size", 2, 500, 20, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := &testutil.MockDatabase{}

			var gotLimit, gotOffset int
			mockDB.ListConversationsFunc = func(limit, offset int) ([]db.Conversation, int, error) {
				gotLimit = limit
				gotOffset = offset
				return nil, 0, nil
			}

			service := NewConversationService(mockDB)

			_, _, err := service.List(tt.page, tt.pageSize)
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}

			if gotLimit != tt.wantLimit {
				t.Errorf("Expected limit %d, got %d", tt.wantLimit, gotLimit)
			}

			if gotOffset != tt.wantOffset {
				t.Errorf("Expected offset %d, got %d", tt.wantOffset, gotOffset)
			}
		})
	}
}

// Test Create - Explicit title
func TestCreate_WithTitle(t *testing.T) {
	mockDB := &testutil.MockDatabase{}

	mockDB.CreateConversationFunc = func(title string) (*db.Conversation, error) {
		return &db.Conversation{ID: "conv-123", Title: title}, nil
	}

	service := NewConversationService(mockDB)

	conversation, err := service.Create("  Project notes  ")

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if conversation.Title != "Project notes" {
		t.Errorf("Expected trimmed title 'Project notes', got '%s'", conversation.Title)
	}
}

// Test Create - Empty title falls back to the default
func TestCreate_DefaultTitle(t *testing.T) {
	mockDB := &testutil.MockDatabase{}

	var createdTitle string
	mockDB.CreateConversationFunc = func(title string) (*db.Conversation, error) {
		createdTitle = title
		return &db.Conversation{ID: "conv-123", Title: title}, nil
	}

	service := NewConversationService(mockDB)

	_, err := service.Create("   ")

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if createdTitle != "New conversation" {
		t.Errorf("Expected default title 'New conversation', got '%s'", createdTitle)
	}
}

// Test Messages - Success
func TestMessages_Success(t *testing.T) {
	mockDB := &testutil.MockDatabase{}

	now := time.Now()
	mockDB.GetConversationFunc = func(id string) (*db.Conversation, error) {
		return &db.Conversation{ID: id, Title: "Test", MessageCount: 2}, nil
	}

	mockDB.GetConversationMessagesFunc = func(conversationID string) ([]db.Message, error) {
		return []db.Message{
			{ID: "msg-1", ConversationID: conversationID, Content: "Hello", IsUser: true, CreatedAt: now},
			{ID: "msg-2", ConversationID: conversationID, Content: "Hi there", IsUser: false, CreatedAt: now.Add(time.Second)},
		}, nil
	}

	service := NewConversationService(mockDB)

	conversation, messages, err := service.Messages("conv-123")

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if conversation.ID != "conv-123" {
		t.Errorf("Expected conversation 'conv-123', got '%s'", conversation.ID)
	}

	if len(messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(messages))
	}

	if !messages[0].IsUser || messages[1].IsUser {
		t.Error("Expected user message first, assistant message second")
	}
}

// Test Messages - Conversation not found
func TestMessages_NotFound(t *testing.T) {
	mockDB := &testutil.MockDatabase{}

	mockDB.GetConversationFunc = func(id string) (*db.Conversation, error) {
		return nil, apperr.New(apperr.CodeNotFound, "conversation not found")
	}

	service := NewConversationService(mockDB)

	_, _, err := service.Messages("missing-conv")

	if err == nil {
		t.Fatal("Expected not found error, got nil")
	}

	if !apperr.IsNotFound(err) {
		t.Errorf("Expected NOT_FOUND, got: %v", err)
	}
}

// Test Rename - Success
func TestRename_Success(t *testing.T) {
	mockDB := &testutil.MockDatabase{}

	mockDB.UpdateConversationTitleFunc = func(id, title string) (*db.Conversation, error) {
		return &db.Conversation{ID: id, Title: title}, nil
	}

	service := NewConversationService(mockDB)

	conversation, err := service.Rename("conv-123", "Renamed")

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if conversation.Title != "Renamed" {
		t.Errorf("Expected title 'Renamed', got '%s'", conversation.Title)
	}
}

// Test Rename - Empty title rejected
func TestRename_EmptyTitle(t *testing.T) {
	mockDB := &testutil.MockDatabase{}

	mockDB.UpdateConversationTitleFunc = func(id, title string) (*db.Conversation, error) {
		t.Error("Expected no database call for an empty title")
		return nil, errors.New("unexpected")
	}

	service := NewConversationService(mockDB)

	_, err := service.Rename("conv-123", "   ")

	if err == nil {
		t.Fatal("Expected validation error, got nil")
	}

	if apperr.CodeOf(err) != apperr.CodeBadRequest {
		t.Errorf("Expected BAD_REQUEST, got '%s'", apperr.CodeOf(err))
	}
}

// Test Rename - Conversation not found
func TestRename_NotFound(t *testing.T) {
	mockDB := &testutil.MockDatabase{}

	mockDB.UpdateConversationTitleFunc = func(id, title string) (*db.Conversation, error) {
		return nil, apperr.New(apperr.CodeNotFound, "conversation not found")
	}

	service := NewConversationService(mockDB)

	_, err := service.Rename("missing-conv", "Renamed")

	if !apperr.IsNotFound(err) {
		t.Errorf("Expected NOT_FOUND, got: %v", err)
	}
}

// Test Delete
func TestDelete(t *testing.T) {
	mockDB := &testutil.MockDatabase{}

	var deletedID string
	mockDB.DeleteConversationFunc = func(id string) error {
		deletedID = id
		return nil
	}

	service := NewConversationService(mockDB)

	if err := service.Delete("conv-123"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if deletedID != "conv-123" {
		t.Errorf("Expected conversation 'conv-123' to be deleted, got '%s'", deletedID)
	}
}
