package multiplayer

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
)

// MatchOptions configures a Match.
type MatchOptions struct {
	ID     MatchID          // generated when empty
	Start  time.Time        // defaults to time.Now()
	Saver  MatchResultSaver // optional; records finished two-player matches
	Logger *log.Logger
}

// Match drives one local engine and, in two-player modes, the link to the
// opponent. It must be used from a single goroutine.
type Match struct {
	id     MatchID
	mode   Mode
	engine *tetris.Engine
	link   Link
	saver  MatchResultSaver
	logger *log.Logger

	started time.Time
	last    time.Time
	ended   time.Time

	result       Result
	sentGameOver bool
	linkUp       bool

	garbageSent     int
	garbageReceived int
}

// View is what the renderer needs to draw a match.
type View struct {
	Board           tetris.Snapshot
	Mode            Mode
	Local           PlayerID
	Result          Result
	LinkUp          bool
	PeerAddr        string
	GarbageSent     int
	GarbageReceived int
	Elapsed         time.Duration
}

// NewMatch creates a match around engine. Two-player modes need a link;
// single player must not have one.
func NewMatch(mode Mode, engine *tetris.Engine, link Link, opts MatchOptions) (*Match, error) {
	if mode == nil {
		return nil, errors.New("multiplayer: nil mode")
	}
	if engine == nil {
		return nil, errors.New("multiplayer: nil engine")
	}
	if mode.Multiplayer() && link == nil {
		return nil, fmt.Errorf("multiplayer: %s mode needs a link", mode)
	}
	if !mode.Multiplayer() && link != nil {
		return nil, errors.New("multiplayer: single player takes no link")
	}

	if opts.ID == "" {
		opts.ID = NewMatchID()
	}
	if opts.Start.IsZero() {
		opts.Start = time.Now()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	m := &Match{
		id:      opts.ID,
		mode:    mode,
		engine:  engine,
		link:    link,
		saver:   opts.Saver,
		logger:  opts.Logger.With("match", string(opts.ID), "role", mode.String()),
		started: opts.Start,
		last:    opts.Start,
		linkUp:  link != nil,
	}
	m.logger.Info("match started")
	return m, nil
}

// ID returns the match identifier.
func (m *Match) ID() MatchID { return m.id }

// Mode returns how the match was set up.
func (m *Match) Mode() Mode { return m.mode }

// Result returns the current result without advancing the match.
func (m *Match) Result() Result { return m.result }

// Apply forwards one player command to the engine. Commands are dropped once
// the match is over.
func (m *Match) Apply(cmd tetris.Command) bool {
	if m.result.Ended {
		return false
	}
	return m.engine.Apply(cmd)
}

// TogglePause pauses a single-player game. Two-player matches cannot pause.
func (m *Match) TogglePause() bool {
	if m.mode.Multiplayer() || m.result.Ended {
		return false
	}
	m.engine.TogglePause()
	return true
}

// Tick advances the match to now, which should come from time.Now so the
// delta uses the monotonic clock. It moves the engine forward, forwards its
// garbage and game over to the opponent, applies what the opponent sent, and
// returns the resulting state. Once the result has ended it never changes.
func (m *Match) Tick(now time.Time) Result {
	if m.result.Ended {
		return m.result
	}

	if dt := now.Sub(m.last); dt > 0 {
		m.last = now
		m.engine.Advance(dt)
	}

	m.forwardEvents()
	if m.result.Ended {
		return m.result
	}

	if m.link != nil {
		m.drainInbox()
	}
	return m.result
}

func (m *Match) forwardEvents() {
	for _, ev := range m.engine.DrainEvents() {
		switch ev := ev.(type) {
		case tetris.GarbageEvent:
			if m.link == nil {
				continue
			}
			if m.link.Send(GarbageMsg{Count: ev.Lines}) {
				m.garbageSent += ev.Lines
				m.logger.Debug("garbage sent", "rows", ev.Lines)
			}
		case tetris.GameOverEvent:
			if m.link == nil {
				m.end(OutcomeNone, EndReasonCompleted, nil)
				return
			}
			if !m.sentGameOver {
				m.sentGameOver = true
				if !m.link.Send(GameOverMsg{}) {
					m.logger.Warn("game over not delivered", "peer", m.link.RemoteAddr())
				}
			}
			m.end(WinOutcome(m.mode.Local().Opponent()), EndReasonCompleted, nil)
			return
		}
	}
}

func (m *Match) drainInbox() {
	for {
		select {
		case in, ok := <-m.link.Inbox():
			if !ok {
				m.linkUp = false
				m.end(OutcomeDrawDisconnect, EndReasonDisconnect, ErrConnection)
				return
			}
			if in.LinkLost() {
				m.linkUp = false
				m.end(OutcomeDrawDisconnect, reasonFor(in.Err), in.Err)
				return
			}
			switch msg := in.Msg.(type) {
			case GarbageMsg:
				m.engine.QueueGarbage(msg.Count)
				m.garbageReceived += msg.Count
				m.logger.Debug("garbage received", "rows", msg.Count)
			case GameOverMsg:
				m.end(WinOutcome(m.mode.Local()), EndReasonCompleted, nil)
				return
			}
		default:
			return
		}
	}
}

func reasonFor(err error) MatchEndReason {
	switch {
	case IsTimeout(err):
		return EndReasonTimeout
	case errors.Is(err, ErrProtocol):
		return EndReasonProtocolError
	default:
		return EndReasonDisconnect
	}
}

// end records the terminal result. Later calls are ignored.
func (m *Match) end(outcome Outcome, reason MatchEndReason, err error) {
	if m.result.Ended {
		return
	}
	m.result = Result{Ended: true, Outcome: outcome, Reason: reason, Err: err}
	m.ended = m.last

	score := m.engine.Score()
	m.logger.Info("match ended",
		"outcome", outcome.String(),
		"reason", reason.String(),
		"score", score.Points,
		"lines", score.Lines,
	)

	if m.saver == nil || !m.mode.Multiplayer() {
		return
	}

	data := MatchResultData{
		MatchID:      string(m.id),
		Role:         m.mode.String(),
		PeerAddr:     m.link.RemoteAddr(),
		Outcome:      outcome.String(),
		Result:       m.result.LocalResult(m.mode.Local()),
		EndReason:    reason.String(),
		Score:        score.Points,
		Lines:        score.Lines,
		DurationSecs: int(m.ended.Sub(m.started).Seconds()),
	}
	saver, logger := m.saver, m.logger
	go func() {
		if err := saver.SaveMatchResult(data); err != nil {
			logger.Error("failed to save match result", "err", err)
		}
	}()
}

// Snapshot returns the render view of the match.
func (m *Match) Snapshot() View {
	v := View{
		Board:           m.engine.Snapshot(),
		Mode:            m.mode,
		Local:           m.mode.Local(),
		Result:          m.result,
		LinkUp:          m.linkUp,
		GarbageSent:     m.garbageSent,
		GarbageReceived: m.garbageReceived,
	}
	if m.link != nil {
		v.PeerAddr = m.link.RemoteAddr()
	}
	if m.result.Ended {
		v.Elapsed = m.ended.Sub(m.started)
	} else {
		v.Elapsed = m.last.Sub(m.started)
	}
	return v
}

// Close ends the match and releases the link. A two-player match that is
// still running ends as a draw.
func (m *Match) Close() error {
	if m.mode.Multiplayer() {
		m.end(OutcomeDrawDisconnect, EndReasonQuit, nil)
	}
	if m.link == nil {
		return nil
	}
	m.linkUp = false
	return m.link.Close()
}
