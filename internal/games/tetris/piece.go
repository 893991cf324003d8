package tetris

import "github.com/vovakirdan/tui-tetris/internal/core"

// Shape identifies one of the seven tetrominoes.
type Shape uint8

const (
	ShapeI Shape = iota
	ShapeO
	ShapeT
	ShapeS
	ShapeZ
	ShapeJ
	ShapeL

	shapeCount = 7
)

// AllShapes lists the seven shapes in canonical order.
var AllShapes = [shapeCount]Shape{ShapeI, ShapeO, ShapeT, ShapeS, ShapeZ, ShapeJ, ShapeL}

// String returns the conventional one-letter name.
func (s Shape) String() string {
	switch s {
	case ShapeI:
		return "I"
	case ShapeO:
		return "O"
	case ShapeT:
		return "T"
	case ShapeS:
		return "S"
	case ShapeZ:
		return "Z"
	case ShapeJ:
		return "J"
	case ShapeL:
		return "L"
	default:
		return "?"
	}
}

// Cell returns the board cell value a locked block of this shape leaves behind.
func (s Shape) Cell() Cell {
	return Cell(s) + 1
}

// Color returns the display color of the shape.
func (s Shape) Color() core.Color {
	return s.Cell().Color()
}

// Rotation is one of the four SRS orientation states.
type Rotation uint8

const (
	Rot0 Rotation = iota // spawn state
	RotR                 // one clockwise turn
	Rot2
	RotL
)

// CW returns the state after one clockwise turn.
func (r Rotation) CW() Rotation { return (r + 1) % 4 }

// CCW returns the state after one counter-clockwise turn.
func (r Rotation) CCW() Rotation { return (r + 3) % 4 }

// Point is a cell offset or board coordinate. Y grows downward.
type Point struct {
	X, Y int
}

// Piece is an active tetromino. X and Y locate the top-left corner of the
// shape's bounding box on the board.
type Piece struct {
	Shape    Shape
	Rotation Rotation
	X, Y     int
}

// Spawn returns a piece of shape s in its spawn state. The bounding box is
// centered on the ten columns and its top row sits in the last hidden row.
func Spawn(s Shape) Piece {
	return Piece{Shape: s, Rotation: Rot0, X: 3, Y: HiddenRows - 1}
}

// Cells returns the four board coordinates the piece occupies.
func (p Piece) Cells() [4]Point {
	var out [4]Point
	for i, off := range shapeCells[p.Shape][p.Rotation] {
		out[i] = Point{X: p.X + off.X, Y: p.Y + off.Y}
	}
	return out
}

// Bottom returns the row of the piece's lowest cell.
func (p Piece) Bottom() int {
	bottom := p.Y
	for _, c := range p.Cells() {
		bottom = max(bottom, c.Y)
	}
	return bottom
}

// Moved returns a copy of p shifted by (dx, dy).
func (p Piece) Moved(dx, dy int) Piece {
	p.X += dx
	p.Y += dy
	return p
}

// shapeCells holds the SRS orientation tables in bounding-box coordinates.
var shapeCells = [shapeCount][4][4]Point{
	ShapeI: {
		{{0, 1}, {1, 1}, {2, 1}, {3, 1}},
		{{2, 0}, {2, 1}, {2, 2}, {2, 3}},
		{{0, 2}, {1, 2}, {2, 2}, {3, 2}},
		{{1, 0}, {1, 1}, {1, 2}, {1, 3}},
	},
	ShapeO: {
		{{1, 0}, {2, 0}, {1, 1}, {2, 1}},
		{{1, 0}, {2, 0}, {1, 1}, {2, 1}},
		{{1, 0}, {2, 0}, {1, 1}, {2, 1}},
		{{1, 0}, {2, 0}, {1, 1}, {2, 1}},
	},
	ShapeT: {
		{{1, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {1, 1}, {2, 1}, {1, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {1, 2}},
		{{1, 0}, {0, 1}, {1, 1}, {1, 2}},
	},
	ShapeS: {
		{{1, 0}, {2, 0}, {0, 1}, {1, 1}},
		{{1, 0}, {1, 1}, {2, 1}, {2, 2}},
		{{1, 1}, {2, 1}, {0, 2}, {1, 2}},
		{{0, 0}, {0, 1}, {1, 1}, {1, 2}},
	},
	ShapeZ: {
		{{0, 0}, {1, 0}, {1, 1}, {2, 1}},
		{{2, 0}, {1, 1}, {2, 1}, {1, 2}},
		{{0, 1}, {1, 1}, {1, 2}, {2, 2}},
		{{1, 0}, {0, 1}, {1, 1}, {0, 2}},
	},
	ShapeJ: {
		{{0, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {2, 0}, {1, 1}, {1, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {2, 2}},
		{{1, 0}, {1, 1}, {0, 2}, {1, 2}},
	},
	ShapeL: {
		{{2, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {1, 1}, {1, 2}, {2, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {0, 2}},
		{{0, 0}, {1, 0}, {1, 1}, {1, 2}},
	},
}
