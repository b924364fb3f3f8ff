package signaling

import (
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	delivered map[string][][]byte
}

func newFakeSink() *fakeSink {
	return &fakeSink{delivered: make(map[string][][]byte)}
}

func (f *fakeSink) NotifyPeer(peerID string, payload []byte) bool {
	if _, known := f.delivered[peerID]; !known {
		return false
	}
	f.delivered[peerID] = append(f.delivered[peerID], payload)
	return true
}

func (f *fakeSink) register(peerID string) {
	f.delivered[peerID] = [][]byte{}
}

func TestParseSignal(t *testing.T) {
	data := json.RawMessage(`{"targetAddress":"bob","sdp":"v=0"}`)

	sig, err := ParseSignal(KindOffer, data)
	require.NoError(t, err)
	assert.Equal(t, "bob", sig.Target)
	assert.JSONEq(t, string(data), string(sig.Payload))

	_, err = ParseSignal(Kind("ring"), data)
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = ParseSignal(KindAnswer, json.RawMessage(`{"sdp":"v=0"}`))
	assert.ErrorIs(t, err, ErrMissingTarget)
}

func TestRelay_ForwardVerbatimUnderSameKind(t *testing.T) {
	sink := newFakeSink()
	sink.register("bob")
	relay := NewRelay(sink, slog.Default())

	data := json.RawMessage(`{"targetAddress":"bob","sdp":"v=0","extra":42}`)
	sig, err := ParseSignal(KindOffer, data)
	require.NoError(t, err)
	require.NoError(t, relay.Forward(sig))

	require.Len(t, sink.delivered["bob"], 1)
	var got frame
	require.NoError(t, json.Unmarshal(sink.delivered["bob"][0], &got))
	assert.Equal(t, "offer", got.Event)
	assert.JSONEq(t, string(data), string(got.Data))
}

func TestRelay_UnknownTargetIsSilent(t *testing.T) {
	sink := newFakeSink()
	sink.register("bob")
	relay := NewRelay(sink, slog.Default())

	sig, err := ParseSignal(KindICECandidate, json.RawMessage(`{"targetAddress":"nobody","candidate":"c"}`))
	require.NoError(t, err)

	assert.NoError(t, relay.Forward(sig), "missing target must not surface an error")
	assert.Empty(t, sink.delivered["bob"], "no other connection may receive the signal")
}

func TestRelay_AllKindsForward(t *testing.T) {
	for _, kind := range []Kind{KindOffer, KindAnswer, KindICECandidate} {
		sink := newFakeSink()
		sink.register("bob")
		relay := NewRelay(sink, slog.Default())

		sig, err := ParseSignal(kind, json.RawMessage(`{"targetAddress":"bob"}`))
		require.NoError(t, err)
		require.NoError(t, relay.Forward(sig))

		var got frame
		require.NoError(t, json.Unmarshal(sink.delivered["bob"][0], &got))
		assert.Equal(t, string(kind), got.Event)
	}
}
