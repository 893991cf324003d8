package tetris

// Kick offsets are written with Y pointing up, as in the published SRS
// tables, and negated on the Y axis when applied to the board.

// jlstzKicks[from][dir] holds the candidates for rotating out of state from;
// dir 0 is clockwise, dir 1 counter-clockwise.
var jlstzKicks = [4][2][5]Point{
	Rot0: {
		{{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}}, // 0->R
		{{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},    // 0->L
	},
	RotR: {
		{{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}}, // R->2
		{{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}}, // R->0
	},
	Rot2: {
		{{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},    // 2->L
		{{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}}, // 2->R
	},
	RotL: {
		{{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}}, // L->0
		{{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}}, // L->2
	},
}

var iKicks = [4][2][5]Point{
	Rot0: {
		{{0, 0}, {-2, 0}, {1, 0}, {-2, -1}, {1, 2}}, // 0->R
		{{0, 0}, {-1, 0}, {2, 0}, {-1, 2}, {2, -1}}, // 0->L
	},
	RotR: {
		{{0, 0}, {-1, 0}, {2, 0}, {-1, 2}, {2, -1}}, // R->2
		{{0, 0}, {2, 0}, {-1, 0}, {2, 1}, {-1, -2}}, // R->0
	},
	Rot2: {
		{{0, 0}, {2, 0}, {-1, 0}, {2, 1}, {-1, -2}}, // 2->L
		{{0, 0}, {1, 0}, {-2, 0}, {1, -2}, {-2, 1}}, // 2->R
	},
	RotL: {
		{{0, 0}, {1, 0}, {-2, 0}, {1, -2}, {-2, 1}}, // L->0
		{{0, 0}, {-2, 0}, {1, 0}, {-2, -1}, {1, 2}}, // L->2
	},
}

var noKick = []Point{{0, 0}}

// kicksFor returns the ordered offset candidates for rotating p one step.
func kicksFor(p Piece, clockwise bool) []Point {
	dir := 0
	if !clockwise {
		dir = 1
	}
	switch p.Shape {
	case ShapeO:
		return noKick
	case ShapeI:
		return iKicks[p.Rotation][dir][:]
	default:
		return jlstzKicks[p.Rotation][dir][:]
	}
}

// Rotate tries to turn p one step on b. The new orientation is tried at the
// unmodified origin first and then at each kick offset in order; the first
// placement that fits wins. ok is false, and p is returned unchanged, when
// every candidate collides.
func Rotate(b *Board, p Piece, clockwise bool) (Piece, bool) {
	next := p
	if clockwise {
		next.Rotation = p.Rotation.CW()
	} else {
		next.Rotation = p.Rotation.CCW()
	}

	for _, k := range kicksFor(p, clockwise) {
		cand := next.Moved(k.X, -k.Y)
		if b.CanPlace(cand) {
			return cand, true
		}
	}
	return p, false
}
