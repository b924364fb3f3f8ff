package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	chat "github.com/abrham-cyper/socket/internal/pkg/chat/application/domain"
	repository "github.com/abrham-cyper/socket/internal/pkg/chat/persistence/repository/port"
)

// SendMessageInput carries the data needed to append a message to a
// conversation's log.
type SendMessageInput struct {
	ConversationID string
	SenderID       string
	ReceiverID     string
	Body           string
}

// SendMessageUseCase validates and persists a new message, returning the
// stored record with its assigned ID and timestamp.
type SendMessageUseCase struct {
	Repo repository.ChatRepository
}

func NewSendMessageUseCase(repo repository.ChatRepository) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*chat.Message, error) {
	msg, err := chat.NewMessage(in.ConversationID, in.SenderID, in.ReceiverID, in.Body)
	if err != nil {
		return nil, err
	}
	msg.ID = uuid.NewString()

	if err := uc.Repo.SaveMessage(ctx, *msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msg, nil
}
