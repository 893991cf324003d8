// Package tetris implements the falling-block simulation: the board, piece
// geometry with SRS rotation, the 7-bag generator and the per-player engine
// state machine. It is pure logic driven by explicit time deltas and has no
// terminal or network dependencies.
package tetris

import (
	"math/rand"
	"time"
)

// State is the engine's lifecycle state.
type State uint8

const (
	StateSpawning State = iota
	StateFalling
	StateLocking
	StateClearCheck
	StateGameOver
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateSpawning:
		return "spawning"
	case StateFalling:
		return "falling"
	case StateLocking:
		return "locking"
	case StateClearCheck:
		return "clear_check"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Command is a player intent, produced by the input layer.
type Command uint8

const (
	CmdNone Command = iota
	CmdMoveLeft
	CmdMoveRight
	CmdSoftDrop
	CmdHardDrop
	CmdRotateCW
	CmdRotateCCW
	CmdHold
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CmdNone:
		return "none"
	case CmdMoveLeft:
		return "move_left"
	case CmdMoveRight:
		return "move_right"
	case CmdSoftDrop:
		return "soft_drop"
	case CmdHardDrop:
		return "hard_drop"
	case CmdRotateCW:
		return "rotate_cw"
	case CmdRotateCCW:
		return "rotate_ccw"
	case CmdHold:
		return "hold"
	default:
		return "unknown"
	}
}

// Options configures a new Engine.
type Options struct {
	Seed          int64
	StartLevel    int
	PrefilledRows int
	FixedLevel    bool // disables level progression

	// InitialBoard, when set, replaces the empty (or prefilled) start board.
	InitialBoard *Board

	LockDelay     time.Duration
	MaxLockResets int

	BaseGravity   time.Duration
	MinGravity    time.Duration
	GravityDecay  float64 // fraction removed from the interval per level
	LinesPerLevel int
	MaxLevel      int

	Previews int // length of the next-piece queue in snapshots
}

// DefaultOptions returns the standard rule set.
func DefaultOptions() Options {
	return Options{
		LockDelay:     500 * time.Millisecond,
		MaxLockResets: 15,
		BaseGravity:   500 * time.Millisecond,
		MinGravity:    50 * time.Millisecond,
		GravityDecay:  0.1,
		LinesPerLevel: 20,
		MaxLevel:      20,
		Previews:      3,
	}
}

// garbageSeedSalt decorrelates garbage gap columns from the piece sequence.
const garbageSeedSalt = 0x5eed

// Engine is one player's game. It is not safe for concurrent use; the owning
// match drives it from a single goroutine.
type Engine struct {
	opts  Options
	board Board
	bag   *Bag
	rng   *rand.Rand

	state     State
	active    Piece
	hasActive bool

	held     Shape
	hasHeld  bool
	holdUsed bool

	score Score

	gravityAcc time.Duration
	lockAcc    time.Duration
	lockResets int
	landed     bool // the active piece has touched down at least once
	lowestY    int  // lowest row any cell of the active piece has reached

	pendingGarbage int
	paused         bool

	events []Event
}

// NewEngine creates an engine and spawns its first piece.
func NewEngine(opts Options) *Engine {
	if opts.MaxLevel <= 0 {
		opts.MaxLevel = DefaultOptions().MaxLevel
	}
	if opts.LinesPerLevel <= 0 {
		opts.LinesPerLevel = DefaultOptions().LinesPerLevel
	}
	if opts.Previews < 0 {
		opts.Previews = 0
	}

	e := &Engine{
		opts: opts,
		bag:  NewBag(opts.Seed),
		rng:  rand.New(rand.NewSource(opts.Seed ^ garbageSeedSalt)),
	}
	e.score.Level = clampLevel(opts.StartLevel, opts.MaxLevel)

	switch {
	case opts.InitialBoard != nil:
		e.board = *opts.InitialBoard
	case opts.PrefilledRows > 0:
		e.board = Prefill(opts.PrefilledRows, e.rng)
	}

	e.spawn(e.bag.Next())
	return e
}

func clampLevel(level, maxLevel int) int {
	if level < 0 {
		return 0
	}
	if level > maxLevel {
		return maxLevel
	}
	return level
}

// Apply executes one command. It reports whether the engine state changed;
// commands that would violate the board are silently dropped.
func (e *Engine) Apply(cmd Command) bool {
	if e.paused || (e.state != StateFalling && e.state != StateLocking) {
		return false
	}

	switch cmd {
	case CmdMoveLeft:
		return e.shift(-1)
	case CmdMoveRight:
		return e.shift(1)
	case CmdRotateCW:
		return e.rotate(true)
	case CmdRotateCCW:
		return e.rotate(false)
	case CmdSoftDrop:
		rows := e.dropDistance()
		if rows == 0 {
			return false
		}
		e.active = e.active.Moved(0, rows)
		e.score.Points += rows * softDropPoints
		e.noteDescent()
		return true
	case CmdHardDrop:
		rows := e.dropDistance()
		e.active = e.active.Moved(0, rows)
		e.score.Points += rows * hardDropPoints
		e.lock()
		return true
	case CmdHold:
		return e.hold()
	default:
		return false
	}
}

// Advance moves simulated time forward by dt. Gravity fires at most once per
// call and its accumulator restarts from zero afterwards, so a long stall
// between calls never drops the piece more than one row.
//
// The lock timer only restarts through the reset budget or when the piece
// reaches a new lowest row. Once a landed piece has spent its budget the
// timer also runs while it is airborne, and the piece is dropped and locked
// when it expires.
func (e *Engine) Advance(dt time.Duration) {
	if e.paused || dt <= 0 {
		return
	}

	switch e.state {
	case StateFalling:
		if e.landed && e.lockResets >= e.opts.MaxLockResets {
			e.lockAcc += dt
			if e.lockAcc >= e.opts.LockDelay {
				e.active = e.active.Moved(0, e.dropDistance())
				e.lock()
				return
			}
		}
		e.gravityAcc += dt
		if e.gravityAcc < e.opts.GravityInterval(e.score.Level) {
			return
		}
		e.gravityAcc = 0
		if e.board.CanPlace(e.active.Moved(0, 1)) {
			e.active = e.active.Moved(0, 1)
			e.noteDescent()
			return
		}
		e.state = StateLocking
		e.landed = true
	case StateLocking:
		e.lockAcc += dt
		if e.lockAcc >= e.opts.LockDelay {
			e.lock()
		}
	}
}

// QueueGarbage schedules n garbage rows. They are inserted at the next spawn,
// never under a falling piece.
func (e *Engine) QueueGarbage(n int) {
	if n <= 0 || e.state == StateGameOver {
		return
	}
	e.pendingGarbage += n
	if e.pendingGarbage > TotalRows {
		e.pendingGarbage = TotalRows
	}
}

// TogglePause flips the pause flag. A paused engine ignores commands and time.
func (e *Engine) TogglePause() {
	if e.state == StateGameOver {
		return
	}
	e.paused = !e.paused
}

// DrainEvents returns and clears the events collected since the last call.
func (e *Engine) DrainEvents() []Event {
	out := e.events
	e.events = nil
	return out
}

// State returns the current lifecycle state.
func (e *Engine) State() State { return e.state }

// Score returns the current score.
func (e *Engine) Score() Score { return e.score }

// Board returns a copy of the playfield.
func (e *Engine) Board() Board { return e.board }

// Active returns the falling piece, if any.
func (e *Engine) Active() (Piece, bool) { return e.active, e.hasActive }

// PendingGarbage returns the garbage rows waiting for the next spawn.
func (e *Engine) PendingGarbage() int { return e.pendingGarbage }

// Paused reports whether the engine is paused.
func (e *Engine) Paused() bool { return e.paused }

// GameOver reports whether the engine has topped out.
func (e *Engine) GameOver() bool { return e.state == StateGameOver }

func (e *Engine) shift(dx int) bool {
	next := e.active.Moved(dx, 0)
	if !e.board.CanPlace(next) {
		return false
	}
	e.active = next
	e.afterManipulation()
	return true
}

func (e *Engine) rotate(clockwise bool) bool {
	next, ok := Rotate(&e.board, e.active, clockwise)
	if !ok {
		return false
	}
	e.active = next
	e.afterManipulation()
	return true
}

// afterManipulation handles lock-delay resets after a successful move or
// rotation. Once a piece has landed every manipulation spends the budget,
// including ones made while a kick has lifted it back into the air. A
// locking piece that can fall again goes back to Falling.
func (e *Engine) afterManipulation() {
	if !e.landed {
		return
	}
	if e.lockResets < e.opts.MaxLockResets {
		e.lockResets++
		e.lockAcc = 0
	}
	if e.state == StateLocking && e.board.CanPlace(e.active.Moved(0, 1)) {
		e.state = StateFalling
		e.gravityAcc = 0
	}
}

// noteDescent restores the lock budget when the piece reaches a new lowest
// row. Rows are finite, so this cannot stall the game.
func (e *Engine) noteDescent() {
	bottom := e.active.Bottom()
	if bottom <= e.lowestY {
		return
	}
	e.lowestY = bottom
	e.lockResets = 0
	e.lockAcc = 0
}

// dropDistance returns how many rows the active piece can fall.
func (e *Engine) dropDistance() int {
	n := 0
	for e.board.CanPlace(e.active.Moved(0, n+1)) {
		n++
	}
	return n
}

func (e *Engine) hold() bool {
	if e.holdUsed {
		return false
	}
	cur := e.active.Shape
	next, hadHeld := e.held, e.hasHeld
	e.held, e.hasHeld = cur, true
	e.holdUsed = true
	if !hadHeld {
		next = e.bag.Next()
	}
	e.spawn(next)
	return true
}

// lock commits the active piece and runs the clear check.
func (e *Engine) lock() {
	e.board = e.board.Commit(e.active)
	e.hasActive = false
	e.events = append(e.events, PieceLockedEvent{Shape: e.active.Shape})

	e.state = StateClearCheck
	board, rows := e.board.ClearFullRows()
	e.board = board
	if rows > 0 {
		pts := e.score.addClear(rows, e.opts)
		e.events = append(e.events, LinesClearedEvent{Rows: rows, Points: pts, Level: e.score.Level})
		if g := GarbageFor(rows); g > 0 {
			e.events = append(e.events, GarbageEvent{Lines: g})
		}
	}
	if e.board.TopOut() {
		e.endGame()
		return
	}

	e.holdUsed = false
	e.spawn(e.bag.Next())
}

// spawn inserts pending garbage and places a new piece of shape s.
func (e *Engine) spawn(s Shape) {
	e.state = StateSpawning
	e.hasActive = false

	if e.pendingGarbage > 0 {
		n := e.pendingGarbage
		e.pendingGarbage = 0
		board, ok := e.board.AddGarbage(n, e.rng.Intn(Width))
		e.board = board
		if !ok {
			e.endGame()
			return
		}
	}

	p := Spawn(s)
	if !e.board.CanPlace(p) {
		e.endGame()
		return
	}
	e.active = p
	e.hasActive = true
	e.state = StateFalling
	e.gravityAcc = 0
	e.lockAcc = 0
	e.lockResets = 0
	e.landed = false
	e.lowestY = p.Bottom()
}

func (e *Engine) endGame() {
	e.state = StateGameOver
	e.hasActive = false
	e.paused = false
	e.pendingGarbage = 0
	e.events = append(e.events, GameOverEvent{Score: e.score})
}
