package multiplayer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
)

// Wire format: every message is one fixed 4-byte frame
//
//	[version][kind][payload, uint16 big-endian]
//
// Both peers must run the same ProtocolVersion.
const (
	ProtocolVersion byte = 1
	FrameSize            = 4

	// MaxGarbage bounds a single Garbage message to the board height.
	MaxGarbage = tetris.TotalRows
)

// Kind tags a frame.
type Kind byte

const (
	KindGarbage   Kind = 1
	KindGameOver  Kind = 2
	KindHeartbeat Kind = 3
)

// ErrConnection wraps network setup, send and receive failures.
var ErrConnection = errors.New("connection error")

// ErrProtocol wraps malformed or unexpected frames from the peer.
var ErrProtocol = errors.New("protocol error")

// Message is one protocol message.
type Message interface {
	Kind() Kind
}

// GarbageMsg tells the receiver to add Count garbage rows at its next spawn.
type GarbageMsg struct {
	Count int
}

// GameOverMsg announces that the sender topped out.
type GameOverMsg struct{}

// HeartbeatMsg is a liveness signal with no payload.
type HeartbeatMsg struct{}

func (GarbageMsg) Kind() Kind   { return KindGarbage }
func (GameOverMsg) Kind() Kind  { return KindGameOver }
func (HeartbeatMsg) Kind() Kind { return KindHeartbeat }

// Encode serializes m into a frame.
func Encode(m Message) ([FrameSize]byte, error) {
	var frame [FrameSize]byte
	frame[0] = ProtocolVersion

	switch msg := m.(type) {
	case GarbageMsg:
		if msg.Count < 1 || msg.Count > MaxGarbage {
			return frame, fmt.Errorf("multiplayer: garbage count %d out of range", msg.Count)
		}
		frame[1] = byte(KindGarbage)
		binary.BigEndian.PutUint16(frame[2:], uint16(msg.Count))
	case GameOverMsg:
		frame[1] = byte(KindGameOver)
	case HeartbeatMsg:
		frame[1] = byte(KindHeartbeat)
	default:
		return frame, fmt.Errorf("multiplayer: cannot encode %T", m)
	}
	return frame, nil
}

// Decode parses a frame. Any malformed frame yields an error wrapping
// ErrProtocol.
func Decode(frame [FrameSize]byte) (Message, error) {
	if frame[0] != ProtocolVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrProtocol, frame[0])
	}
	payload := binary.BigEndian.Uint16(frame[2:])

	switch Kind(frame[1]) {
	case KindGarbage:
		if payload < 1 || int(payload) > MaxGarbage {
			return nil, fmt.Errorf("%w: garbage count %d out of range", ErrProtocol, payload)
		}
		return GarbageMsg{Count: int(payload)}, nil
	case KindGameOver:
		if payload != 0 {
			return nil, fmt.Errorf("%w: game over with payload %d", ErrProtocol, payload)
		}
		return GameOverMsg{}, nil
	case KindHeartbeat:
		if payload != 0 {
			return nil, fmt.Errorf("%w: heartbeat with payload %d", ErrProtocol, payload)
		}
		return HeartbeatMsg{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %d", ErrProtocol, frame[1])
	}
}

// WriteMessage encodes m and writes it as one frame.
func WriteMessage(w io.Writer, m Message) error {
	frame, err := Encode(m)
	if err != nil {
		return err
	}
	if _, err := w.Write(frame[:]); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrConnection, kindName(m.Kind()), err)
	}
	return nil
}

// ReadMessage reads and decodes one frame. Stream failures wrap
// ErrConnection; bad frames wrap ErrProtocol.
func ReadMessage(r io.Reader) (Message, error) {
	var frame [FrameSize]byte
	if _, err := io.ReadFull(r, frame[:]); err != nil {
		return nil, fmt.Errorf("%w: read: %w", ErrConnection, err)
	}
	return Decode(frame)
}

func kindName(k Kind) string {
	switch k {
	case KindGarbage:
		return "garbage"
	case KindGameOver:
		return "game over"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return fmt.Sprintf("kind %d", k)
	}
}
