package chat

import (
	"errors"
	"strings"
	"time"
)

// Domain-level errors for chat behaviors.
var (
	ErrMissingParticipant  = errors.New("chat: sender and receiver are required")
	ErrMissingBody         = errors.New("chat: message body is required")
	ErrMissingConversation = errors.New("chat: conversation id is required")
)

// Message is an immutable entry in a conversation's append-only log.
// The JSON tags are the external wire contract and must not change.
// WhoSend duplicates the sender on purpose: it is the sender-of-record kept
// for audit display.
type Message struct {
	ID               string    `db:"id" json:"id"`
	ConversationID   string    `db:"conversation_id" json:"conversationId"`
	SenderUsername   string    `db:"sender_username" json:"senderUsername"`
	ReceiverUsername string    `db:"receiver_username" json:"receiverUsername"`
	Body             string    `db:"body" json:"message"`
	WhoSend          string    `db:"whosend" json:"whosend"`
	CreatedAt        time.Time `db:"created_at" json:"timestamp"`
}

// NewMessage validates the required fields and stamps the creation time.
func NewMessage(conversationID, sender, receiver, body string) (*Message, error) {
	if conversationID == "" {
		return nil, ErrMissingConversation
	}
	if sender == "" || receiver == "" {
		return nil, ErrMissingParticipant
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrMissingBody
	}
	return &Message{
		ConversationID:   conversationID,
		SenderUsername:   sender,
		ReceiverUsername: receiver,
		Body:             body,
		WhoSend:          sender,
		CreatedAt:        time.Now().UTC(),
	}, nil
}
