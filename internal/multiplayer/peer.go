package multiplayer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Link is a bidirectional message channel to the opponent.
type Link interface {
	// Send queues m for delivery. It never blocks and reports false when the
	// link is closed or its outbox is full. A GameOver has its own slot and
	// is never dropped for a full outbox.
	Send(m Message) bool
	// Inbox delivers received messages in order. A failure is delivered once
	// as an Inbound with Err set, after which the channel is closed.
	Inbox() <-chan Inbound
	// RemoteAddr returns the peer's network address.
	RemoteAddr() string
	// Close flushes queued messages and shuts the link down.
	Close() error
}

// Inbound is one item read from a link: a message, or the error that ended
// the link.
type Inbound struct {
	Msg Message
	Err error
}

// LinkLost reports whether the item marks the end of the link.
func (in Inbound) LinkLost() bool { return in.Err != nil }

// PeerConfig tunes a Peer.
type PeerConfig struct {
	HeartbeatInterval time.Duration
	HeartbeatTimeout  time.Duration
	InboxSize         int
	OutboxSize        int
	Logger            *log.Logger
}

// DefaultPeerConfig returns the standard link settings.
func DefaultPeerConfig() PeerConfig {
	return PeerConfig{
		HeartbeatInterval: time.Second,
		HeartbeatTimeout:  5 * time.Second,
		InboxSize:         64,
		OutboxSize:        64,
	}
}

func (c PeerConfig) withDefaults() PeerConfig {
	def := DefaultPeerConfig()
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = def.HeartbeatInterval
	}
	if c.HeartbeatTimeout <= 0 {
		c.HeartbeatTimeout = def.HeartbeatTimeout
	}
	if c.InboxSize <= 0 {
		c.InboxSize = def.InboxSize
	}
	if c.OutboxSize <= 0 {
		c.OutboxSize = def.OutboxSize
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
	return c
}

// Peer is a Link over a net.Conn. A reader goroutine decodes frames into the
// inbox and a writer goroutine drains the outbox and emits heartbeats.
type Peer struct {
	conn   net.Conn
	cfg    PeerConfig
	logger *log.Logger

	inbox  chan Inbound
	outbox chan Message
	over   chan Message // GameOver slot, written after the outbox drains

	ctx       context.Context
	cancel    context.CancelFunc
	closing   chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

var _ Link = (*Peer)(nil)

// errClosing stops the link goroutines after a local Close has flushed.
var errClosing = errors.New("closing")

// NewPeer starts the link goroutines on conn. The peer owns conn from now on.
func NewPeer(conn net.Conn, cfg PeerConfig) *Peer {
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	p := &Peer{
		conn:   conn,
		cfg:    cfg,
		logger: cfg.Logger.With("peer", conn.RemoteAddr().String()),
		inbox:  make(chan Inbound, cfg.InboxSize),
		outbox:  make(chan Message, cfg.OutboxSize),
		over:    make(chan Message, 1),
		ctx:     ctx,
		cancel:  cancel,
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return p.readLoop(gctx) })
	g.Go(func() error { return p.writeLoop(gctx) })
	g.Go(func() error {
		// Unblocks the reader and writer once either of them fails.
		<-gctx.Done()
		return conn.Close()
	})

	go func() {
		p.finish(g.Wait())
	}()

	return p
}

// Send implements Link.
func (p *Peer) Send(m Message) bool {
	select {
	case <-p.done:
		return false
	case <-p.closing:
		return false
	default:
	}

	q := p.outbox
	if m.Kind() == KindGameOver {
		q = p.over
	}

	select {
	case q <- m:
		return true
	default:
		p.logger.Warn("outbox full, dropping message", "kind", kindName(m.Kind()))
		return false
	}
}

// Inbox implements Link.
func (p *Peer) Inbox() <-chan Inbound {
	return p.inbox
}

// RemoteAddr implements Link.
func (p *Peer) RemoteAddr() string {
	return p.conn.RemoteAddr().String()
}

// Done is closed once both link goroutines have exited.
func (p *Peer) Done() <-chan struct{} {
	return p.done
}

// Close writes whatever is still queued, shuts the link down and waits for
// its goroutines to exit. A flush that cannot finish within the heartbeat
// timeout is abandoned. It is safe to call more than once.
func (p *Peer) Close() error {
	p.closeOnce.Do(func() { close(p.closing) })

	timer := time.NewTimer(p.cfg.HeartbeatTimeout)
	defer timer.Stop()

	select {
	case <-p.done:
	case <-timer.C:
		p.cancel()
		<-p.done
	}
	return nil
}

func (p *Peer) readLoop(ctx context.Context) error {
	for {
		if err := p.conn.SetReadDeadline(time.Now().Add(p.cfg.HeartbeatTimeout)); err != nil {
			return fmt.Errorf("%w: set read deadline: %w", ErrConnection, err)
		}

		msg, err := ReadMessage(p.conn)
		if err != nil {
			return err
		}

		if _, ok := msg.(HeartbeatMsg); ok {
			continue
		}

		select {
		case p.inbox <- Inbound{Msg: msg}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (p *Peer) writeLoop(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.closing:
			if err := p.flush(); err != nil {
				return err
			}
			return errClosing
		case msg := <-p.over:
			// Keep garbage queued before the GameOver ahead of it.
			if err := p.drainOutbox(); err != nil {
				return err
			}
			if err := p.write(msg); err != nil {
				return err
			}
		case msg := <-p.outbox:
			if err := p.write(msg); err != nil {
				return err
			}
		case <-ticker.C:
			if err := p.write(HeartbeatMsg{}); err != nil {
				return err
			}
		}
	}
}

func (p *Peer) write(msg Message) error {
	if err := p.conn.SetWriteDeadline(time.Now().Add(p.cfg.HeartbeatTimeout)); err != nil {
		return fmt.Errorf("%w: set write deadline: %w", ErrConnection, err)
	}
	if err := WriteMessage(p.conn, msg); err != nil {
		return err
	}
	if msg.Kind() != KindHeartbeat {
		p.logger.Debug("sent", "kind", kindName(msg.Kind()))
	}
	return nil
}

// drainOutbox writes every message already in the outbox.
func (p *Peer) drainOutbox() error {
	for {
		select {
		case msg := <-p.outbox:
			if err := p.write(msg); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// flush writes the outbox and a pending GameOver before a local close.
func (p *Peer) flush() error {
	if err := p.drainOutbox(); err != nil {
		return err
	}
	select {
	case msg := <-p.over:
		return p.write(msg)
	default:
		return nil
	}
}

// finish runs after every link goroutine has returned. It is the only sender
// left on the inbox, so it can publish the final item and close it.
func (p *Peer) finish(err error) {
	if p.closedLocally() {
		err = fmt.Errorf("%w: link closed", ErrConnection)
		p.logger.Debug("link closed locally")
	} else {
		p.logger.Warn("link lost", "err", err)
	}

	select {
	case p.inbox <- Inbound{Err: err}:
	default:
		// The consumer treats a closed inbox as a lost link too.
	}
	close(p.inbox)
	p.cancel()
	close(p.done)
}

func (p *Peer) closedLocally() bool {
	select {
	case <-p.closing:
		return true
	default:
		return p.ctx.Err() != nil
	}
}

// IsTimeout reports whether err comes from a missed heartbeat deadline.
func IsTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Listener accepts a single guest for a hosted match.
type Listener struct {
	ln  net.Listener
	cfg PeerConfig
}

// Announce binds addr and returns a Listener ready to accept a guest.
func Announce(ctx context.Context, addr string, cfg PeerConfig) (*Listener, error) {
	cfg = cfg.withDefaults()

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: listen %s: %w", ErrConnection, addr, err)
	}

	cfg.Logger.Info("waiting for opponent", "addr", ln.Addr().String(), "ip", OutboundIP())
	return &Listener{ln: ln, cfg: cfg}, nil
}

// Addr returns the bound address.
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Accept waits for one guest, then stops listening. Cancelling ctx aborts
// the wait.
func (l *Listener) Accept(ctx context.Context) (*Peer, error) {
	defer l.ln.Close()

	stop := context.AfterFunc(ctx, func() { l.ln.Close() })
	defer stop()

	conn, err := l.ln.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: accept: %w", ErrConnection, ctx.Err())
		}
		return nil, fmt.Errorf("%w: accept: %w", ErrConnection, err)
	}

	l.cfg.Logger.Info("opponent connected", "peer", conn.RemoteAddr().String())
	return NewPeer(conn, l.cfg), nil
}

// Close stops listening.
func (l *Listener) Close() error {
	return l.ln.Close()
}

// Listen binds addr and blocks until one guest connects.
func Listen(ctx context.Context, addr string, cfg PeerConfig) (*Peer, error) {
	l, err := Announce(ctx, addr, cfg)
	if err != nil {
		return nil, err
	}
	return l.Accept(ctx)
}

// Dial connects to a host.
func Dial(ctx context.Context, addr string, cfg PeerConfig) (*Peer, error) {
	cfg = cfg.withDefaults()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %w", ErrConnection, addr, err)
	}

	cfg.Logger.Info("connected to host", "addr", addr)
	return NewPeer(conn, cfg), nil
}

// OutboundIP returns the local address used for outbound traffic, which is
// what a guest on the same network should dial. No packets are sent.
func OutboundIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()

	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return "127.0.0.1"
}
