package tetris

import (
	"math/rand"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// Board dimensions. Rows 0..HiddenRows-1 are the hidden buffer above the
// visible field.
const (
	Width       = 10
	VisibleRows = 20
	HiddenRows  = 4
	TotalRows   = VisibleRows + HiddenRows
)

// Cell is one grid position: 0 is empty, anything else is a locked block
// whose value encodes its color.
type Cell uint8

const (
	Empty   Cell = 0
	Garbage Cell = 8
)

// Occupied reports whether the cell holds a block.
func (c Cell) Occupied() bool {
	return c != Empty
}

// Color returns the display color for the cell.
func (c Cell) Color() core.Color {
	switch c {
	case ShapeI.Cell():
		return core.ColorCyan
	case ShapeO.Cell():
		return core.ColorYellow
	case ShapeT.Cell():
		return core.ColorMagenta
	case ShapeS.Cell():
		return core.ColorGreen
	case ShapeZ.Cell():
		return core.ColorRed
	case ShapeJ.Cell():
		return core.ColorBlue
	case ShapeL.Cell():
		return core.ColorOrange
	case Garbage:
		return core.ColorGray
	default:
		return core.ColorDefault
	}
}

// Board is the playfield, row 0 at the top. It is a value type: operations
// that change it return a new Board.
type Board [TotalRows][Width]Cell

// At returns the cell at (x, y); out-of-range positions read as empty.
func (b Board) At(x, y int) Cell {
	if x < 0 || x >= Width || y < 0 || y >= TotalRows {
		return Empty
	}
	return b[y][x]
}

// CanPlace reports whether every cell of p lies inside the grid and is empty.
func (b *Board) CanPlace(p Piece) bool {
	for _, c := range p.Cells() {
		if c.X < 0 || c.X >= Width || c.Y < 0 || c.Y >= TotalRows {
			return false
		}
		if b[c.Y][c.X].Occupied() {
			return false
		}
	}
	return true
}

// Commit copies the cells of p into a new board. The caller must have
// checked CanPlace.
func (b Board) Commit(p Piece) Board {
	v := p.Shape.Cell()
	for _, c := range p.Cells() {
		b[c.Y][c.X] = v
	}
	return b
}

func (b *Board) rowFull(y int) bool {
	for x := 0; x < Width; x++ {
		if !b[y][x].Occupied() {
			return false
		}
	}
	return true
}

func (b *Board) rowEmpty(y int) bool {
	for x := 0; x < Width; x++ {
		if b[y][x].Occupied() {
			return false
		}
	}
	return true
}

// ClearFullRows removes every full row at once, shifts the rows above down
// and refills the top with empty rows. Rows are scanned bottom to top.
func (b Board) ClearFullRows() (Board, int) {
	var out Board
	dst := TotalRows - 1
	cleared := 0
	for y := TotalRows - 1; y >= 0; y-- {
		if b.rowFull(y) {
			cleared++
			continue
		}
		out[dst] = b[y]
		dst--
	}
	if cleared == 0 {
		return b, 0
	}
	return out, cleared
}

// TopOut reports whether any block sits in the hidden buffer rows.
func (b Board) TopOut() bool {
	for y := 0; y < HiddenRows; y++ {
		if !b.rowEmpty(y) {
			return true
		}
	}
	return false
}

// AddGarbage pushes n garbage rows in from the bottom, each with a single
// empty column at gap. Everything above moves up by n rows. ok is false when
// occupied cells were pushed off the top of the grid.
func (b Board) AddGarbage(n, gap int) (Board, bool) {
	if n <= 0 {
		return b, true
	}
	n = core.Min(n, TotalRows)
	gap = core.Clamp(gap, 0, Width-1)

	ok := true
	for y := 0; y < n; y++ {
		if !b.rowEmpty(y) {
			ok = false
			break
		}
	}

	var out Board
	for y := n; y < TotalRows; y++ {
		out[y-n] = b[y]
	}
	for y := TotalRows - n; y < TotalRows; y++ {
		for x := 0; x < Width; x++ {
			if x != gap {
				out[y][x] = Garbage
			}
		}
	}
	return out, ok
}

// Prefill returns a board whose bottom n rows are filled with random colors
// and one random gap per row.
func Prefill(n int, rng *rand.Rand) Board {
	var b Board
	n = core.Clamp(n, 0, VisibleRows-1)
	for y := TotalRows - n; y < TotalRows; y++ {
		gap := rng.Intn(Width)
		for x := 0; x < Width; x++ {
			if x == gap {
				continue
			}
			b[y][x] = AllShapes[rng.Intn(shapeCount)].Cell()
		}
	}
	return b
}

// Height returns the number of rows from the bottom up to and including the
// highest occupied row.
func (b Board) Height() int {
	for y := 0; y < TotalRows; y++ {
		if !b.rowEmpty(y) {
			return TotalRows - y
		}
	}
	return 0
}
