package usecase

import (
	"context"
	"sync"
	"time"

	chat "github.com/abrham-cyper/socket/internal/pkg/chat/application/domain"
	repository "github.com/abrham-cyper/socket/internal/pkg/chat/persistence/repository/port"
)

// memoryRepo is an in-memory ChatRepository honoring the pair-key uniqueness
// contract, so the resolve race is observable in unit tests.
type memoryRepo struct {
	mu             sync.Mutex
	byPairKey      map[string]*chat.Conversation
	messages       map[string][]chat.Message
	findCalls      int
	failEverything error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		byPairKey: make(map[string]*chat.Conversation),
		messages:  make(map[string][]chat.Message),
	}
}

var _ repository.ChatRepository = (*memoryRepo)(nil)

func (m *memoryRepo) FindConversationByPair(ctx context.Context, a, b string) (*chat.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findCalls++
	if m.failEverything != nil {
		return nil, m.failEverything
	}
	if c, ok := m.byPairKey[chat.PairKey(a, b)]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, repository.ErrConversationNotFound
}

func (m *memoryRepo) CreateConversation(ctx context.Context, c chat.Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failEverything != nil {
		return m.failEverything
	}
	key := chat.PairKey(c.ParticipantA, c.ParticipantB)
	if _, ok := m.byPairKey[key]; ok {
		return repository.ErrConversationExists
	}
	cp := c
	m.byPairKey[key] = &cp
	return nil
}

func (m *memoryRepo) ListConversationsByUser(ctx context.Context, userID string) ([]chat.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failEverything != nil {
		return nil, m.failEverything
	}
	var out []chat.Conversation
	for _, c := range m.byPairKey {
		if c.ParticipantA == userID || c.ParticipantB == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memoryRepo) SaveMessage(ctx context.Context, msg chat.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failEverything != nil {
		return m.failEverything
	}
	m.messages[msg.ConversationID] = append(m.messages[msg.ConversationID], msg)
	return nil
}

func (m *memoryRepo) ListMessagesByConversation(ctx context.Context, conversationID string) ([]chat.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failEverything != nil {
		return nil, m.failEverything
	}
	return append([]chat.Message(nil), m.messages[conversationID]...), nil
}

func (m *memoryRepo) conversationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byPairKey)
}

// fakeCache is an in-memory cache recording Set calls.
type fakeCache struct {
	mu     sync.Mutex
	values map[string]string
	sets   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return "", cacheMiss{}
}

func (f *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	f.sets++
	return nil
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) (int64, error) { return 0, nil }
func (f *fakeCache) Ping(ctx context.Context) error                        { return nil }
func (f *fakeCache) Close() error                                          { return nil }

type cacheMiss struct{}

func (cacheMiss) Error() string { return "miss" }
