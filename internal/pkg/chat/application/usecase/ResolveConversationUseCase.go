package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	cacheport "github.com/abrham-cyper/socket/internal/infrastructure/cache/port"
	chat "github.com/abrham-cyper/socket/internal/pkg/chat/application/domain"
	repository "github.com/abrham-cyper/socket/internal/pkg/chat/persistence/repository/port"
)

// ResolveConversationInput carries the unordered participant pair.
type ResolveConversationInput struct {
	SenderID   string
	ReceiverID string
}

// ResolveConversationUseCase implements find-or-create for the conversation
// directory. Repeated calls with the same pair, in either order, return the
// same conversation ID.
//
// Dedup under concurrent first contact relies on the repository's pair-key
// uniqueness contract: on ErrConversationExists the loser re-reads and
// returns the winner's record.
//
// Cache is optional and best-effort: a pair-to-ID entry avoids the directory
// lookup on hot pairs, and cache failures never fail resolution.
type ResolveConversationUseCase struct {
	Repo     repository.ChatRepository
	Cache    cacheport.Cache
	CacheTTL time.Duration
}

func NewResolveConversationUseCase(repo repository.ChatRepository, cache cacheport.Cache, ttl time.Duration) *ResolveConversationUseCase {
	return &ResolveConversationUseCase{Repo: repo, Cache: cache, CacheTTL: ttl}
}

// Execute returns the stable conversation ID for the pair, creating the
// conversation on first contact.
func (uc *ResolveConversationUseCase) Execute(ctx context.Context, in ResolveConversationInput) (string, error) {
	if in.SenderID == "" || in.ReceiverID == "" {
		return "", fmt.Errorf("senderId and receiverId are required")
	}

	cacheKey := "chat:pair:" + chat.PairKey(in.SenderID, in.ReceiverID)
	if uc.Cache != nil {
		if id, err := uc.Cache.Get(ctx, cacheKey); err == nil && id != "" {
			return id, nil
		}
	}

	conv, err := uc.Repo.FindConversationByPair(ctx, in.SenderID, in.ReceiverID)
	switch {
	case err == nil:
		uc.remember(ctx, cacheKey, conv.ID)
		return conv.ID, nil
	case !errors.Is(err, repository.ErrConversationNotFound):
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	fresh := chat.Conversation{
		ID:           uuid.NewString(),
		ParticipantA: in.SenderID,
		ParticipantB: in.ReceiverID,
		CreatedAt:    time.Now().UTC(),
	}
	err = uc.Repo.CreateConversation(ctx, fresh)
	switch {
	case err == nil:
		uc.remember(ctx, cacheKey, fresh.ID)
		return fresh.ID, nil
	case errors.Is(err, repository.ErrConversationExists):
		// Lost the first-contact race; the winner's record is authoritative.
		winner, ferr := uc.Repo.FindConversationByPair(ctx, in.SenderID, in.ReceiverID)
		if ferr != nil {
			return "", fmt.Errorf("%w: %v", ErrPersistence, ferr)
		}
		uc.remember(ctx, cacheKey, winner.ID)
		return winner.ID, nil
	default:
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}
}

func (uc *ResolveConversationUseCase) remember(ctx context.Context, key, id string) {
	if uc.Cache == nil {
		return
	}
	_ = uc.Cache.Set(ctx, key, id, uc.CacheTTL)
}
