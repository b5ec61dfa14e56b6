package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"chatbot/internal/apperr"
	"chatbot/internal/logger"
	"chatbot/internal/repository/db"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CreateConversation creates a new conversation
func (p *PostgresDB) CreateConversation(title string) (*db.Conversation, error) {
	conn := p.conn

	convID := uuid.New().String()
	conv := db.Conversation{ID: convID, Title: title}

	query := `
	INSERT INTO conversations (id, title)
	VALUES ($1, $2)
	RETURNING message_count, COALESCE(last_message, ''), created_at, updated_at
	`

	err := conn.QueryRow(query, convID, title).Scan(&conv.MessageCount, &conv.LastMessage, &conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("error creating conversation: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{"conversation_id": convID, "title": title}).Info("Created new conversation")

	return &conv, nil
}

// GetConversation retrieves a specific conversation
func (p *PostgresDB) GetConversation(convID string) (*db.Conversation, error) {
	conn := p.conn

	var conv db.Conversation
	query := `
	SELECT id, title, message_count, COALESCE(last_message, ''), created_at, updated_at
	FROM conversations
	WHERE id = $1
	`

	err := conn.QueryRow(query, convID).Scan(&conv.ID, &conv.Title, &conv.MessageCount, &conv.LastMessage, &conv.CreatedAt, &conv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.CodeNotFound, "conversation not found")
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving conversation: %w", err)
	}

	return &conv, nil
}

// ListConversations retrieves a page of conversations ordered by most recent
// activity, along with the total conversation count.
func (p *PostgresDB) ListConversations(limit, offset int) ([]db.Conversation, int, error) {
	conn := p.conn

	query := `
	SELECT id, title, message_count, COALESCE(last_message, ''), created_at, updated_at
	FROM conversations
	ORDER BY updated_at DESC
	LIMIT $1 OFFSET $2
	`

	rows, err := conn.Query(query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying conversations: %w", err)
	}
	defer rows.Close()

	var conversations []db.Conversation
	for rows.Next() {
		var conv db.Conversation
		if err := rows.Scan(&conv.ID, &conv.Title, &conv.MessageCount, &conv.LastMessage, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("error scanning conversation: %w", err)
		}
		conversations = append(conversations, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating conversations: %w", err)
	}

	var total int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM conversations`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting conversations: %w", err)
	}

	return conversations, total, nil
}

// UpdateConversationTitle renames a conversation
func (p *PostgresDB) UpdateConversationTitle(convID, title string) (*db.Conversation, error) {
	conn := p.conn

	conv := db.Conversation{ID: convID, Title: title}
	query := `
	UPDATE conversations
	SET title = $1, updated_at = CURRENT_TIMESTAMP
	WHERE id = $2
	RETURNING message_count, COALESCE(last_message, ''), created_at, updated_at
	`

	err := conn.QueryRow(query, title, convID).Scan(&conv.MessageCount, &conv.LastMessage, &conv.CreatedAt, &conv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.CodeNotFound, "conversation not found")
	}
	if err != nil {
		return nil, fmt.Errorf("error updating conversation title: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{"conversation_id": convID, "title": title}).Info("Renamed conversation")
	return &conv, nil
}

// TouchConversation records message activity on a conversation: increments the
// message count, caches the latest content and bumps updated_at.
func (p *PostgresDB) TouchConversation(convID, lastMessage string) error {
	conn := p.conn

	query := `
	UPDATE conversations
	SET message_count = message_count + 1, last_message = $1, updated_at = CURRENT_TIMESTAMP
	WHERE id = $2
	`

	result, err := conn.Exec(query, lastMessage, convID)
	if err != nil {
		return fmt.Errorf("error touching conversation: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return apperr.New(apperr.CodeNotFound, "conversation not found")
	}

	return nil
}

// DeleteConversation deletes a conversation and all its messages
func (p *PostgresDB) DeleteConversation(convID string) error {
	conn := p.conn

	query := `DELETE FROM conversations WHERE id = $1`
	result, err := conn.Exec(query, convID)
	if err != nil {
		return fmt.Errorf("error deleting conversation: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return apperr.New(apperr.CodeNotFound, "conversation not found")
	}

	logger.Log.WithField("conversation_id", convID).Info("Deleted conversation")
	return nil
}
