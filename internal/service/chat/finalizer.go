package chat

import (
	"sync"

	"chatbot/internal/apperr"
	"chatbot/internal/logger"
	"chatbot/internal/repository/db"

	"github.com/sirupsen/logrus"
)

// FinalizeTask carries the value data needed to finalize one turn. It holds
// ids and text only, never request-scoped resources, so finalization survives
// the originating connection.
type FinalizeTask struct {
	MessageID      string
	ConversationID string
	Content        string
}

// Finalizer persists accumulated assistant responses after their streams end.
// It consumes tasks on its own worker goroutine with its own database handle,
// decoupled from the request lifetime: a turn whose client disconnected still
// finalizes. Tasks run exactly once and are never retried; failures go to the
// log only.
type Finalizer struct {
	db    db.Database
	tasks chan FinalizeTask
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewFinalizer creates a Finalizer and starts its worker
func NewFinalizer(database db.Database) *Finalizer {
	f := &Finalizer{
		db:    database,
		tasks: make(chan FinalizeTask, 64),
	}

	f.wg.Add(1)
	go f.run()

	return f
}

// Schedule enqueues a finalization task. Blocks only if the queue is full.
// A task scheduled after Shutdown is dropped with a log entry rather than
// accepted; the stream that produced it is already being torn down.
func (f *Finalizer) Schedule(task FinalizeTask) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		logger.Log.WithFields(logrus.Fields{
			"message_id":      task.MessageID,
			"conversation_id": task.ConversationID,
		}).Warn("Finalizer is shut down, dropping task")
		return
	}
	f.tasks <- task
}

// Shutdown stops accepting tasks and waits for queued ones to finish. Safe to
// call more than once.
func (f *Finalizer) Shutdown() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	close(f.tasks)
	f.mu.Unlock()

	f.wg.Wait()
}

func (f *Finalizer) run() {
	defer f.wg.Done()

	for task := range f.tasks {
		f.finalize(task)
	}
}

// finalize writes the accumulated content as the assistant message's final
// text and records the insert on the conversation's denormalized fields (the
// second message_count increment of the turn). A conversation or message
// deleted mid-stream is not a recoverable race here: it is logged and dropped.
func (f *Finalizer) finalize(task FinalizeTask) {
	log := logger.Log.WithFields(logrus.Fields{
		"message_id":      task.MessageID,
		"conversation_id": task.ConversationID,
	})

	conversation, err := f.db.GetConversation(task.ConversationID)
	if err != nil {
		log.WithError(err).Error("Finalization failed: conversation no longer exists")
		return
	}

	msg, err := f.db.GetMessage(task.MessageID)
	if err != nil {
		log.WithError(err).Error("Finalization failed: message no longer exists")
		return
	}

	if msg.IsUser {
		log.WithError(apperr.New(apperr.CodeInvalidOperation, "cannot finalize a user message")).Error("Finalization rejected")
		return
	}

	if err := f.db.UpdateMessageContent(msg.ID, task.Content); err != nil {
		log.WithError(err).Error("Finalization failed: could not update message content")
		return
	}

	if err := f.db.TouchConversation(conversation.ID, task.Content); err != nil {
		log.WithError(err).Error("Finalization failed: could not update conversation")
		return
	}

	log.WithField("content_chars", len(task.Content)).Info("Finalized assistant message")
}
