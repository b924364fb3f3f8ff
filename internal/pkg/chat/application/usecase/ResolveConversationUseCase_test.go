package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConversation_IdempotentAndOrderInsensitive(t *testing.T) {
	repo := newMemoryRepo()
	uc := NewResolveConversationUseCase(repo, nil, 0)
	ctx := context.Background()

	first, err := uc.Execute(ctx, ResolveConversationInput{SenderID: "alice", ReceiverID: "bob"})
	require.NoError(t, err)
	require.NotEmpty(t, first)

	again, err := uc.Execute(ctx, ResolveConversationInput{SenderID: "alice", ReceiverID: "bob"})
	require.NoError(t, err)
	assert.Equal(t, first, again)

	reversed, err := uc.Execute(ctx, ResolveConversationInput{SenderID: "bob", ReceiverID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, first, reversed)

	assert.Equal(t, 1, repo.conversationCount())
}

func TestResolveConversation_SeparatorBearingIdentifiersStayDistinct(t *testing.T) {
	repo := newMemoryRepo()
	uc := NewResolveConversationUseCase(repo, nil, 0)
	ctx := context.Background()

	one, err := uc.Execute(ctx, ResolveConversationInput{SenderID: "x\x1fy", ReceiverID: "z"})
	require.NoError(t, err)

	other, err := uc.Execute(ctx, ResolveConversationInput{SenderID: "x", ReceiverID: "y\x1fz"})
	require.NoError(t, err)

	assert.NotEqual(t, one, other, "distinct pairs must never share a conversation")
	assert.Equal(t, 2, repo.conversationCount())
}

func TestResolveConversation_RequiresBothParticipants(t *testing.T) {
	uc := NewResolveConversationUseCase(newMemoryRepo(), nil, 0)

	_, err := uc.Execute(context.Background(), ResolveConversationInput{SenderID: "alice"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPersistence)

	_, err = uc.Execute(context.Background(), ResolveConversationInput{ReceiverID: "bob"})
	require.Error(t, err)
}

func TestResolveConversation_ConcurrentFirstContact(t *testing.T) {
	repo := newMemoryRepo()
	uc := NewResolveConversationUseCase(repo, nil, 0)

	const callers = 16
	ids := make([]string, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			in := ResolveConversationInput{SenderID: "alice", ReceiverID: "bob"}
			if i%2 == 1 {
				in = ResolveConversationInput{SenderID: "bob", ReceiverID: "alice"}
			}
			id, err := uc.Execute(context.Background(), in)
			assert.NoError(t, err)
			ids[i] = id
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, repo.conversationCount(), "exactly one conversation per pair")
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestResolveConversation_CacheHitSkipsDirectory(t *testing.T) {
	repo := newMemoryRepo()
	cache := newFakeCache()
	uc := NewResolveConversationUseCase(repo, cache, time.Minute)
	ctx := context.Background()

	id, err := uc.Execute(ctx, ResolveConversationInput{SenderID: "alice", ReceiverID: "bob"})
	require.NoError(t, err)
	require.GreaterOrEqual(t, cache.sets, 1)

	lookupsBefore := repo.findCalls

	// Reversed order must hit the same cache entry.
	cached, err := uc.Execute(ctx, ResolveConversationInput{SenderID: "bob", ReceiverID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, id, cached)
	assert.Equal(t, lookupsBefore, repo.findCalls, "cache hit must not touch the repository")
}

func TestResolveConversation_StorageFailure(t *testing.T) {
	repo := newMemoryRepo()
	repo.failEverything = errors.New("connection refused")
	uc := NewResolveConversationUseCase(repo, nil, 0)

	_, err := uc.Execute(context.Background(), ResolveConversationInput{SenderID: "alice", ReceiverID: "bob"})
	assert.ErrorIs(t, err, ErrPersistence)
}
