package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ChatRequestValidator validates chat-related requests
type ChatRequestValidator struct{}

// NewChatRequestValidator creates a new ChatRequestValidator
func NewChatRequestValidator() *ChatRequestValidator {
	return &ChatRequestValidator{}
}

// ValidateMessage validates a chat message
func (v *ChatRequestValidator) ValidateMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return errors.New("message cannot be empty")
	}
	return nil
}

// ValidateRating validates a message rating value
func (v *ChatRequestValidator) ValidateRating(rating int) error {
	if rating < 0 || rating > 2 {
		return fmt.Errorf("rating must be 0 (none), 1 (like) or 2 (dislike); got %d", rating)
	}
	return nil
}

// ValidateMessageID validates that a message id was provided
func (v *ChatRequestValidator) ValidateMessageID(messageID string) error {
	if strings.TrimSpace(messageID) == "" {
		return errors.New("messageId is required")
	}
	return nil
}

// ValidateRateRequest validates a complete rate-message request
func (v *ChatRequestValidator) ValidateRateRequest(messageID string, rating int) error {
	if err := v.ValidateMessageID(messageID); err != nil {
		return err
	}
	return v.ValidateRating(rating)
}
