package usecase

import (
	"context"
	"fmt"

	repository "github.com/abrham-cyper/socket/internal/pkg/chat/persistence/repository/port"
)

// ConversationSummary is one directory entry as seen from a user: the stable
// conversation ID plus the counterpart participant.
type ConversationSummary struct {
	ConversationID     string `json:"conversationId"`
	OtherParticipantID string `json:"otherParticipantId"`
}

// ListConversationsInput wraps the user whose directory entries to list.
type ListConversationsInput struct {
	UserID string
}

// ListConversationsUseCase lists every conversation the user participates
// in. Ordering is directory-defined.
type ListConversationsUseCase struct {
	Repo repository.ChatRepository
}

func NewListConversationsUseCase(repo repository.ChatRepository) *ListConversationsUseCase {
	return &ListConversationsUseCase{Repo: repo}
}

func (uc *ListConversationsUseCase) Execute(ctx context.Context, in ListConversationsInput) ([]ConversationSummary, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("senderId is required")
	}
	convs, err := uc.Repo.ListConversationsByUser(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	summaries := make([]ConversationSummary, 0, len(convs))
	for _, c := range convs {
		summaries = append(summaries, ConversationSummary{
			ConversationID:     c.ID,
			OtherParticipantID: c.Counterpart(in.UserID),
		})
	}
	return summaries, nil
}
