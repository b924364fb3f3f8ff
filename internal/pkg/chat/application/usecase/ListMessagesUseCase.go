package usecase

import (
	"context"
	"fmt"

	chat "github.com/abrham-cyper/socket/internal/pkg/chat/application/domain"
	repository "github.com/abrham-cyper/socket/internal/pkg/chat/persistence/repository/port"
)

// ListMessagesInput wraps the conversation identifier to fetch its log.
type ListMessagesInput struct {
	ConversationID string
}

// ListMessagesUseCase returns a conversation's messages ordered by creation
// time ascending. An unknown conversation yields an empty slice, not an
// error.
type ListMessagesUseCase struct {
	Repo repository.ChatRepository
}

func NewListMessagesUseCase(repo repository.ChatRepository) *ListMessagesUseCase {
	return &ListMessagesUseCase{Repo: repo}
}

func (uc *ListMessagesUseCase) Execute(ctx context.Context, in ListMessagesInput) ([]chat.Message, error) {
	if in.ConversationID == "" {
		return nil, fmt.Errorf("conversationId is required")
	}
	msgs, err := uc.Repo.ListMessagesByConversation(ctx, in.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if msgs == nil {
		msgs = []chat.Message{}
	}
	return msgs, nil
}
