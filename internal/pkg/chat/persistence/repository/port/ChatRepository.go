package repository

import (
	"context"
	"errors"

	chat "github.com/abrham-cyper/socket/internal/pkg/chat/application/domain"
)

var (
	// ErrConversationNotFound means no conversation exists for the lookup.
	ErrConversationNotFound = errors.New("repository: conversation not found")

	// ErrConversationExists signals a pair-key uniqueness conflict on create:
	// a concurrent resolve for the same pair won the race. The caller should
	// re-read and use the winner's record.
	ErrConversationExists = errors.New("repository: conversation already exists for pair")
)

// ChatRepository defines persistence for conversations and their append-only
// message logs. Implementations must enforce pair-key uniqueness on
// CreateConversation and report conflicts as ErrConversationExists.
type ChatRepository interface {
	FindConversationByPair(ctx context.Context, a, b string) (*chat.Conversation, error)
	CreateConversation(ctx context.Context, c chat.Conversation) error
	ListConversationsByUser(ctx context.Context, userID string) ([]chat.Conversation, error)
	SaveMessage(ctx context.Context, m chat.Message) error
	ListMessagesByConversation(ctx context.Context, conversationID string) ([]chat.Message, error)
}
