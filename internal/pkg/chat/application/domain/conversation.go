package chat

import (
	"fmt"
	"time"
)

// Conversation is the durable record for one unordered participant pair.
// Its ID doubles as the realtime room key. A conversation is created lazily
// on first contact and never mutated or deleted afterwards.
type Conversation struct {
	ID           string    `db:"id"`
	ParticipantA string    `db:"participant_a"`
	ParticipantB string    `db:"participant_b"`
	CreatedAt    time.Time `db:"created_at"`
}

// PairKey derives the canonical lookup key for an unordered participant
// pair: both argument orders map to the same key. Length-prefixing the
// first participant keeps distinct pairs distinct for arbitrary
// identifiers; no separator choice can be smuggled into an identifier to
// collide two pairs.
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%s:%s", len(a), a, b)
}

// Counterpart returns the other participant of the pair as seen from userID.
func (c Conversation) Counterpart(userID string) string {
	if c.ParticipantA == userID {
		return c.ParticipantB
	}
	return c.ParticipantA
}
