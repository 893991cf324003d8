package multiplayer

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func testPeerConfig() PeerConfig {
	return PeerConfig{
		HeartbeatInterval: 20 * time.Millisecond,
		HeartbeatTimeout:  time.Second,
		Logger:            quietLogger(),
	}
}

func pipePeers(t *testing.T) (*Peer, *Peer, net.Conn, net.Conn) {
	t.Helper()
	connA, connB := net.Pipe()
	a := NewPeer(connA, testPeerConfig())
	b := NewPeer(connB, testPeerConfig())
	t.Cleanup(func() {
		a.Close()
		b.Close()
	})
	return a, b, connA, connB
}

func receive(t *testing.T, l Link) Inbound {
	t.Helper()
	select {
	case in, ok := <-l.Inbox():
		require.True(t, ok, "inbox closed")
		return in
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for inbound item")
		return Inbound{}
	}
}

func TestPeerDeliversInOrder(t *testing.T) {
	a, b, _, _ := pipePeers(t)

	sent := []Message{GarbageMsg{Count: 1}, GarbageMsg{Count: 2}, GarbageMsg{Count: 3}, GameOverMsg{}}
	for _, m := range sent {
		require.True(t, a.Send(m))
	}

	// Heartbeats flow the whole time but never reach the inbox.
	for _, want := range sent {
		in := receive(t, b)
		require.NoError(t, in.Err)
		assert.Equal(t, want, in.Msg)
	}
}

func TestPeerCloseNotifiesBothSides(t *testing.T) {
	a, b, _, _ := pipePeers(t)

	require.NoError(t, a.Close())
	assert.False(t, a.Send(GameOverMsg{}), "send after close must fail")

	in := receive(t, b)
	assert.True(t, in.LinkLost())
	assert.ErrorIs(t, in.Err, ErrConnection)

	_, ok := <-b.Inbox()
	assert.False(t, ok, "inbox must close after the lost item")

	in = receive(t, a)
	assert.ErrorIs(t, in.Err, ErrConnection)
}

func TestPeerHeartbeatTimeout(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()
	go io.Copy(io.Discard, remote) //nolint:errcheck // drains our heartbeats

	cfg := testPeerConfig()
	cfg.HeartbeatTimeout = 50 * time.Millisecond
	p := NewPeer(local, cfg)
	defer p.Close()

	in := receive(t, p)
	require.True(t, in.LinkLost())
	assert.ErrorIs(t, in.Err, ErrConnection)
	assert.True(t, IsTimeout(in.Err), "expected a timeout, got %v", in.Err)
}

func TestPeerProtocolError(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()

	p := NewPeer(local, testPeerConfig())
	defer p.Close()

	go func() {
		remote.Write([]byte{1, 1, 0, 2}) //nolint:errcheck
		remote.Write([]byte{7, 1, 0, 1}) //nolint:errcheck
		io.Copy(io.Discard, remote)      //nolint:errcheck
	}()

	in := receive(t, p)
	require.NoError(t, in.Err)
	assert.Equal(t, GarbageMsg{Count: 2}, in.Msg)

	in = receive(t, p)
	require.True(t, in.LinkLost())
	assert.ErrorIs(t, in.Err, ErrProtocol)
}

func TestListenAndDial(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	l, err := Announce(ctx, "127.0.0.1:0", testPeerConfig())
	require.NoError(t, err)

	accepted := make(chan *Peer, 1)
	go func() {
		p, err := l.Accept(ctx)
		if err != nil {
			accepted <- nil
			return
		}
		accepted <- p
	}()

	guest, err := Dial(ctx, l.Addr().String(), testPeerConfig())
	require.NoError(t, err)
	defer guest.Close()

	host := <-accepted
	require.NotNil(t, host)
	defer host.Close()

	require.True(t, guest.Send(GarbageMsg{Count: 4}))
	in := receive(t, host)
	assert.Equal(t, GarbageMsg{Count: 4}, in.Msg)

	require.True(t, host.Send(GameOverMsg{}))
	in = receive(t, guest)
	assert.Equal(t, GameOverMsg{}, in.Msg)
}

func TestAcceptCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	l, err := Announce(ctx, "127.0.0.1:0", testPeerConfig())
	require.NoError(t, err)

	cancel()
	_, err = l.Accept(ctx)
	assert.ErrorIs(t, err, ErrConnection)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDialRefused(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	l.Close()

	_, err = Dial(context.Background(), addr, testPeerConfig())
	assert.ErrorIs(t, err, ErrConnection)
}

// readKinds collects frame kinds from conn until it fails.
func readKinds(conn net.Conn) <-chan []Kind {
	out := make(chan []Kind, 1)
	go func() {
		var kinds []Kind
		for {
			msg, err := ReadMessage(conn)
			if err != nil {
				out <- kinds
				return
			}
			if msg.Kind() != KindHeartbeat {
				kinds = append(kinds, msg.Kind())
			}
		}
	}()
	return out
}

func TestPeerGameOverSurvivesFullOutbox(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()

	cfg := testPeerConfig()
	cfg.OutboxSize = 1
	p := NewPeer(local, cfg)
	defer p.Close()

	// Nobody reads yet, so the writer blocks and the outbox fills up.
	require.Eventually(t, func() bool {
		return !p.Send(GarbageMsg{Count: 1})
	}, time.Second, time.Millisecond)

	require.True(t, p.Send(GameOverMsg{}), "game over must not be dropped for a full outbox")

	require.NoError(t, remote.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		msg, err := ReadMessage(remote)
		require.NoError(t, err, "game over never arrived")
		if msg.Kind() == KindGameOver {
			return
		}
	}
}

func TestPeerCloseFlushesQueue(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()

	p := NewPeer(local, testPeerConfig())
	kinds := readKinds(remote)

	require.True(t, p.Send(GarbageMsg{Count: 3}))
	require.True(t, p.Send(GameOverMsg{}))
	require.NoError(t, p.Close())

	select {
	case got := <-kinds:
		assert.Equal(t, []Kind{KindGarbage, KindGameOver}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("remote side never saw the link close")
	}

	in := receive(t, p)
	assert.True(t, in.LinkLost())
	assert.ErrorIs(t, in.Err, ErrConnection)
}
