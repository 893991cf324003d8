package tetris

// Event is something the engine reports to its owner. Events are collected
// during Apply and Advance and handed out by DrainEvents.
type Event interface {
	engineEvent()
}

// PieceLockedEvent is emitted when the active piece is committed to the board.
type PieceLockedEvent struct {
	Shape Shape
}

// LinesClearedEvent is emitted after a lock that completed one or more rows.
type LinesClearedEvent struct {
	Rows   int
	Points int
	Level  int
}

// GarbageEvent is emitted for clears of two rows or more. Lines is the
// number of garbage rows owed to the opponent.
type GarbageEvent struct {
	Lines int
}

// GameOverEvent is emitted once, when the engine enters StateGameOver.
type GameOverEvent struct {
	Score Score
}

func (PieceLockedEvent) engineEvent()  {}
func (LinesClearedEvent) engineEvent() {}
func (GarbageEvent) engineEvent()      {}
func (GameOverEvent) engineEvent()     {}
