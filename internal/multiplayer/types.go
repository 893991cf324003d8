// Package multiplayer runs matches: the single-player loop and two-player
// games over a direct TCP link between a host and a guest, with the wire
// protocol they speak.
package multiplayer

import (
	"github.com/google/uuid"
)

// PlayerID identifies a side in a match. The host is always Player1.
type PlayerID int

const (
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

// Opponent returns the other side.
func (p PlayerID) Opponent() PlayerID {
	if p == Player1 {
		return Player2
	}
	return Player1
}

// String returns a human-readable name for the player.
func (p PlayerID) String() string {
	switch p {
	case Player1:
		return "player1"
	case Player2:
		return "player2"
	default:
		return "unknown"
	}
}

// MatchID uniquely identifies a game match.
type MatchID string

// NewMatchID returns a fresh random match identifier.
func NewMatchID() MatchID {
	return MatchID(uuid.NewString())
}

// Mode is how a match is set up. It is chosen once, before the match starts,
// and is one of SinglePlayer, Host or Guest.
type Mode interface {
	// Local returns the side the local player plays.
	Local() PlayerID
	// Multiplayer reports whether the mode needs a peer link.
	Multiplayer() bool
	String() string

	sealed()
}

// SinglePlayer is a local game with no peer.
type SinglePlayer struct{}

// Host listens on Addr and plays as Player1.
type Host struct {
	Addr string
}

// Guest connects to a host at Addr and plays as Player2.
type Guest struct {
	Addr string
}

func (SinglePlayer) Local() PlayerID { return Player1 }
func (SinglePlayer) Multiplayer() bool { return false }
func (SinglePlayer) String() string { return "single" }
func (SinglePlayer) sealed() {}
func (Host) Local() PlayerID { return Player1 }
func (Host) Multiplayer() bool { return true }
func (Host) String() string { return "host" }
func (Host) sealed() {}
func (Guest) Local() PlayerID { return Player2 }
func (Guest) Multiplayer() bool { return true }
func (Guest) String() string { return "guest" }
func (Guest) sealed() {}

// Outcome is the terminal result of a match.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomePlayer1Win
	OutcomePlayer2Win
	OutcomeDrawDisconnect
)

// String returns the outcome name used in logs and storage.
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomePlayer1Win:
		return "player1_win"
	case OutcomePlayer2Win:
		return "player2_win"
	case OutcomeDrawDisconnect:
		return "draw_disconnect"
	default:
		return "unknown"
	}
}

// WinOutcome returns the outcome in which p wins.
func WinOutcome(p PlayerID) Outcome {
	if p == Player1 {
		return OutcomePlayer1Win
	}
	return OutcomePlayer2Win
}

// MatchEndReason describes why a match ended.
type MatchEndReason int

const (
	EndReasonNone          MatchEndReason = iota
	EndReasonCompleted                    // a player topped out
	EndReasonDisconnect                   // the link closed or failed
	EndReasonTimeout                      // no heartbeat within the timeout
	EndReasonProtocolError                // the peer sent an undecodable frame
	EndReasonQuit                         // the local player left
)

func (r MatchEndReason) String() string {
	switch r {
	case EndReasonNone:
		return "none"
	case EndReasonCompleted:
		return "completed"
	case EndReasonDisconnect:
		return "disconnect"
	case EndReasonTimeout:
		return "timeout"
	case EndReasonProtocolError:
		return "protocol_error"
	case EndReasonQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Result is the state of a match as reported by Tick.
type Result struct {
	Ended   bool
	Outcome Outcome
	Reason  MatchEndReason
	Err     error // link error behind a disconnect, if any
}

// LocalResult returns "win", "loss" or "draw" from p's point of view, or ""
// while the match is running or when it had no winner to judge.
func (r Result) LocalResult(p PlayerID) string {
	switch r.Outcome {
	case OutcomeDrawDisconnect:
		return "draw"
	case WinOutcome(p):
		return "win"
	case WinOutcome(p.Opponent()):
		return "loss"
	default:
		return ""
	}
}

// MatchResultSaver persists finished two-player matches.
// It lets the match record results without depending on the storage package.
type MatchResultSaver interface {
	SaveMatchResult(result MatchResultData) error
}

// MatchResultData is a finished match from the local player's point of view.
type MatchResultData struct {
	MatchID      string
	Role         string
	PeerAddr     string
	Outcome      string
	Result       string
	EndReason    string
	Score        int
	Lines        int
	DurationSecs int
}
