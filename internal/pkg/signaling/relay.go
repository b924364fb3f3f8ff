package signaling

import (
	"encoding/json"
	"log/slog"
)

// PeerSink delivers a payload to the live connection registered under a peer
// address. realtime.Registry is the production implementation.
type PeerSink interface {
	NotifyPeer(peerID string, payload []byte) bool
}

// Relay forwards call-setup events between peers, addressed by peer address
// rather than conversation. It is pure pass-through: no transformation, no
// persistence, and no error back to the sender when the target is gone;
// WebRTC's own retry/timeout handling above this layer deals with that.
type Relay struct {
	sink PeerSink
	log  *slog.Logger
}

func NewRelay(sink PeerSink, log *slog.Logger) *Relay {
	return &Relay{sink: sink, log: log}
}

// frame is the outbound wire shape: the original data re-emitted under the
// same event kind.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Forward re-emits the signal's payload to its target under the same event
// kind. An unknown target is a silent no-op.
func (r *Relay) Forward(sig Signal) error {
	if !sig.Kind.Valid() {
		return ErrUnknownKind
	}
	if sig.Target == "" {
		return ErrMissingTarget
	}
	payload, err := json.Marshal(frame{Event: string(sig.Kind), Data: sig.Payload})
	if err != nil {
		return err
	}
	if !r.sink.NotifyPeer(sig.Target, payload) {
		r.log.Debug("signal dropped, target offline", "kind", sig.Kind, "target", sig.Target)
	}
	return nil
}
