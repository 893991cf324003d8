package tetris

// Snapshot is a read-only copy of everything needed to draw one player's
// game. It never aliases engine state.
type Snapshot struct {
	Grid [VisibleRows][Width]Cell

	Active    Piece
	HasActive bool
	Ghost     Piece // Active dropped to its landing row

	Held          Shape
	HasHeld       bool
	HoldAvailable bool

	Next []Shape

	Score          Score
	State          State
	Paused         bool
	PendingGarbage int
}

// Snapshot captures the current game for rendering.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Active:         e.active,
		HasActive:      e.hasActive,
		Held:           e.held,
		HasHeld:        e.hasHeld,
		HoldAvailable:  !e.holdUsed,
		Score:          e.score,
		State:          e.state,
		Paused:         e.paused,
		PendingGarbage: e.pendingGarbage,
	}
	copy(snap.Grid[:], e.board[HiddenRows:])
	if e.hasActive {
		snap.Ghost = e.active.Moved(0, e.dropDistance())
	}
	if e.opts.Previews > 0 {
		snap.Next = e.bag.Peek(e.opts.Previews)
	}
	return snap
}

// VisibleCells returns the cells of p that fall inside the visible field,
// translated to visible-grid coordinates.
func VisibleCells(p Piece) []Point {
	out := make([]Point, 0, 4)
	for _, c := range p.Cells() {
		if c.Y < HiddenRows {
			continue
		}
		out = append(out, Point{X: c.X, Y: c.Y - HiddenRows})
	}
	return out
}
