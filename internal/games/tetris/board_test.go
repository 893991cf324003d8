package tetris

import (
	"math/rand"
	"testing"
)

// fillRow fills row y except for the listed columns.
func fillRow(b *Board, y int, holes ...int) {
	for x := 0; x < Width; x++ {
		b[y][x] = Garbage
	}
	for _, h := range holes {
		b[y][h] = Empty
	}
}

func TestCanPlace(t *testing.T) {
	var b Board
	b[TotalRows-1][4] = ShapeT.Cell()

	tests := []struct {
		name     string
		piece    Piece
		expected bool
	}{
		{name: "spawn position", piece: Spawn(ShapeT), expected: true},
		{name: "left of the grid", piece: Piece{Shape: ShapeO, X: -2, Y: 10}, expected: false},
		{name: "touching left wall", piece: Piece{Shape: ShapeO, X: -1, Y: 10}, expected: true},
		{name: "right of the grid", piece: Piece{Shape: ShapeI, X: 7, Y: 10}, expected: false},
		{name: "above the hidden ceiling", piece: Piece{Shape: ShapeO, X: 3, Y: -1}, expected: false},
		{name: "below the floor", piece: Piece{Shape: ShapeO, X: 3, Y: TotalRows - 1}, expected: false},
		{name: "overlapping a block", piece: Piece{Shape: ShapeO, X: 3, Y: TotalRows - 2}, expected: false},
		{name: "next to a block", piece: Piece{Shape: ShapeO, X: 4, Y: TotalRows - 2}, expected: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := b.CanPlace(tc.piece); got != tc.expected {
				t.Errorf("CanPlace(%+v) = %v, expected %v", tc.piece, got, tc.expected)
			}
		})
	}
}

func TestCommit(t *testing.T) {
	var b Board
	p := Piece{Shape: ShapeT, X: 0, Y: 10}
	out := b.Commit(p)

	for _, c := range p.Cells() {
		if out[c.Y][c.X] != ShapeT.Cell() {
			t.Errorf("cell (%d, %d) = %d, expected T cell", c.X, c.Y, out[c.Y][c.X])
		}
	}
	if b.Height() != 0 {
		t.Error("Commit must not modify the receiver")
	}
}

func TestClearFullRowsNoFullRows(t *testing.T) {
	var b Board
	fillRow(&b, TotalRows-1, 3)
	fillRow(&b, TotalRows-2, 0, 9)
	b[10][5] = ShapeZ.Cell()

	out, n := b.ClearFullRows()
	if n != 0 {
		t.Errorf("ClearFullRows() count = %d, expected 0", n)
	}
	if out != b {
		t.Error("board with no full rows should be returned unchanged")
	}
}

func TestClearFullRowsSingle(t *testing.T) {
	var b Board
	fillRow(&b, TotalRows-1)
	b[TotalRows-2][2] = ShapeL.Cell()
	b[TotalRows-3][7] = ShapeJ.Cell()

	out, n := b.ClearFullRows()
	if n != 1 {
		t.Fatalf("ClearFullRows() count = %d, expected 1", n)
	}
	if out[TotalRows-1][2] != ShapeL.Cell() {
		t.Error("row above the cleared row should shift down by one")
	}
	if out[TotalRows-2][7] != ShapeJ.Cell() {
		t.Error("rows further up should shift down by one")
	}
	if out.Height() != b.Height()-1 {
		t.Errorf("Height() = %d, expected %d", out.Height(), b.Height()-1)
	}
}

func TestClearFullRowsNonAdjacent(t *testing.T) {
	var b Board
	fillRow(&b, TotalRows-1)
	fillRow(&b, TotalRows-2, 4)
	fillRow(&b, TotalRows-3)
	b[TotalRows-4][0] = ShapeS.Cell()

	out, n := b.ClearFullRows()
	if n != 2 {
		t.Fatalf("ClearFullRows() count = %d, expected 2", n)
	}
	if out[TotalRows-1][4] != Empty || out[TotalRows-1][0] != Garbage {
		t.Error("partial row should land on the floor")
	}
	if out[TotalRows-2][0] != ShapeS.Cell() {
		t.Error("top block should drop by the two cleared rows")
	}
}

func TestClearFullRowsIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		var b Board
		for y := HiddenRows; y < TotalRows; y++ {
			if rng.Intn(2) == 0 {
				fillRow(&b, y)
			} else {
				fillRow(&b, y, rng.Intn(Width))
			}
		}

		once, _ := b.ClearFullRows()
		twice, n := once.ClearFullRows()
		if n != 0 || twice != once {
			t.Fatalf("second ClearFullRows pass cleared %d rows, expected a no-op", n)
		}
	}
}

func TestTopOut(t *testing.T) {
	var b Board
	if b.TopOut() {
		t.Error("empty board should not be topped out")
	}

	b[HiddenRows][0] = Garbage
	if b.TopOut() {
		t.Error("blocks in the visible field should not top out")
	}

	b[HiddenRows-1][0] = Garbage
	if !b.TopOut() {
		t.Error("a block in the hidden rows should top out")
	}
}

func TestAddGarbage(t *testing.T) {
	var b Board
	b[TotalRows-1][0] = ShapeI.Cell()

	out, ok := b.AddGarbage(2, 6)
	if !ok {
		t.Fatal("AddGarbage on a low stack should succeed")
	}
	if out[TotalRows-3][0] != ShapeI.Cell() {
		t.Error("existing blocks should move up by the garbage height")
	}
	for y := TotalRows - 2; y < TotalRows; y++ {
		for x := 0; x < Width; x++ {
			want := Garbage
			if x == 6 {
				want = Empty
			}
			if out[y][x] != want {
				t.Errorf("garbage row %d col %d = %d, expected %d", y, x, out[y][x], want)
			}
		}
	}
}

func TestAddGarbageOverflow(t *testing.T) {
	var b Board
	b[1][3] = ShapeT.Cell()

	_, ok := b.AddGarbage(2, 0)
	if ok {
		t.Error("pushing blocks off the top should report overflow")
	}
}

func TestPrefill(t *testing.T) {
	b := Prefill(5, rand.New(rand.NewSource(1)))

	if h := b.Height(); h != 5 {
		t.Errorf("Height() = %d, expected 5", h)
	}
	for y := TotalRows - 5; y < TotalRows; y++ {
		holes := 0
		for x := 0; x < Width; x++ {
			if !b[y][x].Occupied() {
				holes++
			}
		}
		if holes != 1 {
			t.Errorf("prefilled row %d has %d holes, expected 1", y, holes)
		}
	}
}
