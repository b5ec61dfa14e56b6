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

// AddMessage inserts a message into a conversation. The conversation's
// denormalized fields are not touched here; callers decide when the insert
// counts as activity (see Database.TouchConversation).
func (p *PostgresDB) AddMessage(conversationID, content string, isUser bool) (*db.Message, error) {
	conn := p.conn

	msg := db.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Content:        content,
		IsUser:         isUser,
	}

	query := `
	INSERT INTO messages (id, conversation_id, content, is_user)
	VALUES ($1, $2, $3, $4)
	RETURNING rating, created_at
	`

	err := conn.QueryRow(query, msg.ID, conversationID, content, isUser).Scan(&msg.Rating, &msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error adding message: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"message_id":      msg.ID,
		"conversation_id": conversationID,
		"is_user":         isUser,
		"content_chars":   len(content),
	}).Debug("Added message to conversation")

	return &msg, nil
}

// GetMessage retrieves a single message by id
func (p *PostgresDB) GetMessage(msgID string) (*db.Message, error) {
	conn := p.conn

	var msg db.Message
	query := `
	SELECT id, conversation_id, content, is_user, rating, created_at
	FROM messages
	WHERE id = $1
	`

	err := conn.QueryRow(query, msgID).Scan(&msg.ID, &msg.ConversationID, &msg.Content, &msg.IsUser, &msg.Rating, &msg.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.CodeNotFound, "message not found")
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving message: %w", err)
	}

	return &msg, nil
}

// GetConversationMessages retrieves all messages from a conversation in
// chronological order
func (p *PostgresDB) GetConversationMessages(conversationID string) ([]db.Message, error) {
	conn := p.conn

	query := `
	SELECT id, conversation_id, content, is_user, rating, created_at
	FROM messages
	WHERE conversation_id = $1
	ORDER BY created_at ASC
	`

	rows, err := conn.Query(query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("error querying messages: %w", err)
	}
	defer rows.Close()

	var messages []db.Message
	for rows.Next() {
		var msg db.Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Content, &msg.IsUser, &msg.Rating, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}

// UpdateMessageContent rewrites a message's content
func (p *PostgresDB) UpdateMessageContent(msgID, content string) error {
	conn := p.conn

	query := `UPDATE messages SET content = $1 WHERE id = $2`
	result, err := conn.Exec(query, content, msgID)
	if err != nil {
		return fmt.Errorf("error updating message content: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return apperr.New(apperr.CodeNotFound, "message not found")
	}

	logger.Log.WithFields(logrus.Fields{"message_id": msgID, "content_chars": len(content)}).Debug("Updated message content")
	return nil
}

// SetMessageRating stores a rating on a message and returns the updated row
func (p *PostgresDB) SetMessageRating(msgID string, rating db.Rating) (*db.Message, error) {
	conn := p.conn

	var msg db.Message
	query := `
	UPDATE messages
	SET rating = $1
	WHERE id = $2
	RETURNING id, conversation_id, content, is_user, rating, created_at
	`

	err := conn.QueryRow(query, rating, msgID).Scan(&msg.ID, &msg.ConversationID, &msg.Content, &msg.IsUser, &msg.Rating, &msg.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.CodeNotFound, "message not found")
	}
	if err != nil {
		return nil, fmt.Errorf("error rating message: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{"message_id": msgID, "rating": rating}).Info("Rated message")
	return &msg, nil
}
