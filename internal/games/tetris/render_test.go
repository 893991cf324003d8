package tetris

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

func TestRenderLayout(t *testing.T) {
	e := NewEngine(DefaultOptions())
	dst := core.NewScreen(ViewWidth, ViewHeight)
	Render(dst, e.Snapshot(), 0, 0)

	if r := dst.Get(0, 0); r != '┌' {
		t.Errorf("board corner = %q, expected '┌'", r)
	}
	if r := dst.Get(boardViewW-1, boardViewH-1); r != '┘' {
		t.Errorf("board bottom-right corner = %q, expected '┘'", r)
	}

	out := dst.String()
	for _, label := range []string{"HOLD", "NEXT", "SCORE", "LEVEL", "LINES"} {
		if !strings.Contains(out, label) {
			t.Errorf("rendered view is missing %q", label)
		}
	}
}

func TestRenderActivePieceColor(t *testing.T) {
	e := NewEngine(DefaultOptions())
	snap := e.Snapshot()
	dst := core.NewScreen(ViewWidth, ViewHeight)
	Render(dst, snap, 0, 0)

	cells := VisibleCells(snap.Active)
	if len(cells) == 0 {
		t.Fatal("spawned piece should have visible cells")
	}
	c := cells[0]
	got := dst.GetCell(1+c.X*cellW, 1+c.Y)
	if got.Rune != blockGlyph || got.Color != snap.Active.Shape.Color() {
		t.Errorf("active cell = %+v, expected %v block", got, snap.Active.Shape.Color())
	}
}

func TestRenderPausedOverlay(t *testing.T) {
	e := NewEngine(DefaultOptions())
	e.TogglePause()
	dst := core.NewScreen(ViewWidth, ViewHeight)
	Render(dst, e.Snapshot(), 0, 0)

	if !strings.Contains(dst.String(), "PAUSED") {
		t.Error("paused snapshot should render the pause overlay")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	e := NewEngine(DefaultOptions())
	snap := e.Snapshot()
	snap.Grid[VisibleRows-1][0] = Garbage
	snap.Next[0] = ShapeI

	if b := e.Board(); b[TotalRows-1][0] != Empty {
		t.Error("mutating a snapshot must not touch the engine board")
	}
	if len(snap.Next) != DefaultOptions().Previews {
		t.Errorf("len(Next) = %d, expected %d", len(snap.Next), DefaultOptions().Previews)
	}
}
