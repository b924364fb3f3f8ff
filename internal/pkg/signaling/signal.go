package signaling

import (
	"encoding/json"
	"errors"
)

// Kind tags the three call-setup event kinds the relay forwards.
type Kind string

const (
	KindOffer        Kind = "offer"
	KindAnswer       Kind = "answer"
	KindICECandidate Kind = "ice-candidate"
)

func (k Kind) Valid() bool {
	switch k {
	case KindOffer, KindAnswer, KindICECandidate:
		return true
	}
	return false
}

var (
	ErrUnknownKind   = errors.New("signaling: unknown event kind")
	ErrMissingTarget = errors.New("signaling: targetAddress is required")
)

// Signal is one call-setup event: a kind, the peer address it is bound for,
// and the sender's payload kept verbatim. Only the target's presence is
// validated; the payload content is opaque to the relay.
type Signal struct {
	Kind    Kind
	Target  string
	Payload json.RawMessage
}

// ParseSignal extracts the target address from the raw event data and tags
// it with the kind. The data blob itself is carried through untouched.
func ParseSignal(kind Kind, data json.RawMessage) (Signal, error) {
	if !kind.Valid() {
		return Signal{}, ErrUnknownKind
	}
	var envelope struct {
		Target string `json:"targetAddress"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return Signal{}, err
	}
	if envelope.Target == "" {
		return Signal{}, ErrMissingTarget
	}
	return Signal{Kind: kind, Target: envelope.Target, Payload: data}, nil
}
