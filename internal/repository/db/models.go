package db

import "time"

// Rating is the tri-state feedback a message can carry.
type Rating int

const (
	RatingNone Rating = iota
	RatingLike
	RatingDislike
)

// Valid reports whether r is one of the known rating values.
func (r Rating) Valid() bool {
	return r == RatingNone || r == RatingLike || r == RatingDislike
}

// Conversation represents a conversation in the database.
// MessageCount and LastMessage are denormalized: the count tracks message
// inserts (it is never decremented) and LastMessage caches the most recent
// content written to the conversation.
type Conversation struct {
	ID           string
	Title        string
	MessageCount int
	LastMessage  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Message represents a message in a conversation. IsUser is immutable after
// creation; only assistant message content may be rewritten.
type Message struct {
	ID             string
	ConversationID string
	Content        string
	IsUser         bool
	Rating         Rating
	CreatedAt      time.Time
}
