package realtime

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSession records delivered payloads for assertions.
type fakeSession struct {
	id       string
	peer     string
	received [][]byte
	sendErr  error
	closed   bool
}

func newFakeSession(id, peer string) *fakeSession {
	return &fakeSession{id: id, peer: peer}
}

func (f *fakeSession) SessionID() string { return f.id }
func (f *fakeSession) PeerID() string    { return f.peer }

func (f *fakeSession) Send(payload []byte) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.received = append(f.received, payload)
	return nil
}

func (f *fakeSession) Close(code int, reason string) { f.closed = true }

func TestRegistry_BroadcastReachesMembersOnly(t *testing.T) {
	reg := NewRegistry()
	alice := newFakeSession("s1", "alice")
	bob := newFakeSession("s2", "bob")
	carol := newFakeSession("s3", "carol")
	reg.Attach(alice)
	reg.Attach(bob)
	reg.Attach(carol)

	reg.Join("conv-1", alice)
	reg.Join("conv-1", bob)

	n := reg.Broadcast("conv-1", []byte("hi"))
	assert.Equal(t, 2, n)
	require.Len(t, alice.received, 1, "sender echo is expected")
	require.Len(t, bob.received, 1)
	assert.Equal(t, "hi", string(bob.received[0]))
	assert.Empty(t, carol.received, "non-member must not receive")
}

func TestRegistry_JoinIsIdempotent(t *testing.T) {
	reg := NewRegistry()
	alice := newFakeSession("s1", "alice")
	reg.Attach(alice)

	reg.Join("conv-1", alice)
	reg.Join("conv-1", alice)

	n := reg.Broadcast("conv-1", []byte("once"))
	assert.Equal(t, 1, n)
	assert.Len(t, alice.received, 1)
}

func TestRegistry_JoinRequiresAttachedSession(t *testing.T) {
	reg := NewRegistry()
	ghost := newFakeSession("s9", "ghost")

	reg.Join("conv-1", ghost)

	assert.Equal(t, 0, reg.Broadcast("conv-1", []byte("x")))
}

func TestRegistry_DetachClearsAllRooms(t *testing.T) {
	reg := NewRegistry()
	alice := newFakeSession("s1", "alice")
	reg.Attach(alice)
	reg.Join("conv-1", alice)
	reg.Join("conv-2", alice)

	reg.Detach(alice)

	assert.Equal(t, 0, reg.Broadcast("conv-1", []byte("x")))
	assert.Equal(t, 0, reg.Broadcast("conv-2", []byte("x")))
	assert.False(t, reg.PeerOnline("alice"))
	assert.Empty(t, alice.received)
}

func TestRegistry_BroadcastSkipsFailedSends(t *testing.T) {
	reg := NewRegistry()
	alice := newFakeSession("s1", "alice")
	bob := newFakeSession("s2", "bob")
	bob.sendErr = errors.New("gone")
	reg.Attach(alice)
	reg.Attach(bob)
	reg.Join("conv-1", alice)
	reg.Join("conv-1", bob)

	n := reg.Broadcast("conv-1", []byte("hi"))

	assert.Equal(t, 1, n)
	assert.Len(t, alice.received, 1)
}

func TestRegistry_AttachReplacesPreviousPeerSession(t *testing.T) {
	reg := NewRegistry()
	first := newFakeSession("s1", "alice")
	second := newFakeSession("s2", "alice")
	reg.Attach(first)
	reg.Join("conv-1", first)

	reg.Attach(second)

	assert.True(t, first.closed)
	assert.Equal(t, 0, reg.Broadcast("conv-1", []byte("x")), "old session left its rooms")
	require.True(t, reg.NotifyPeer("alice", []byte("direct")))
	assert.Len(t, second.received, 1)
	assert.Empty(t, first.received)
}

func TestRegistry_NotifyPeer(t *testing.T) {
	reg := NewRegistry()
	bob := newFakeSession("s2", "bob")
	reg.Attach(bob)

	require.True(t, reg.NotifyPeer("bob", []byte("ring")))
	assert.Equal(t, "ring", string(bob.received[0]))

	assert.False(t, reg.NotifyPeer("nobody", []byte("ring")))
	assert.True(t, reg.PeerOnline("bob"))
	assert.False(t, reg.PeerOnline("nobody"))
}

func TestRegistry_CloseTerminatesEverything(t *testing.T) {
	reg := NewRegistry()
	alice := newFakeSession("s1", "alice")
	bob := newFakeSession("s2", "bob")
	reg.Attach(alice)
	reg.Attach(bob)
	reg.Join("conv-1", alice)

	reg.Close()

	assert.True(t, alice.closed)
	assert.True(t, bob.closed)
	assert.Equal(t, 0, reg.Broadcast("conv-1", []byte("x")))
	assert.False(t, reg.PeerOnline("alice"))
}
