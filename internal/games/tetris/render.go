package tetris

import (
	"fmt"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// Layout of a rendered player view, in screen cells. Each board cell is two
// characters wide so blocks look square in most terminal fonts.
const (
	cellW       = 2
	boardViewW  = Width*cellW + 2
	boardViewH  = VisibleRows + 2
	panelGap    = 1
	panelW      = 14
	ViewWidth   = boardViewW + panelGap + panelW
	ViewHeight  = boardViewH
	blockGlyph  = '█'
	ghostGlyph  = '░'
	emptyGlyph  = '·'
	previewRows = 3
)

// Render draws snap with its top-left corner at (x, y).
func Render(dst *core.Screen, snap Snapshot, x, y int) {
	renderBoard(dst, snap, x, y)
	renderPanel(dst, snap, x+boardViewW+panelGap, y)
	renderOverlay(dst, snap, x, y)
}

func renderBoard(dst *core.Screen, snap Snapshot, x, y int) {
	dst.DrawBox(core.NewRect(x, y, boardViewW, boardViewH), core.ColorGray)

	for row := 0; row < VisibleRows; row++ {
		for col := 0; col < Width; col++ {
			c := snap.Grid[row][col]
			if c.Occupied() {
				drawBlock(dst, x, y, col, row, blockGlyph, c.Color())
			} else {
				drawBlock(dst, x, y, col, row, emptyGlyph, core.ColorDim)
			}
		}
	}

	if !snap.HasActive {
		return
	}
	for _, p := range VisibleCells(snap.Ghost) {
		drawBlock(dst, x, y, p.X, p.Y, ghostGlyph, core.ColorDim)
	}
	for _, p := range VisibleCells(snap.Active) {
		drawBlock(dst, x, y, p.X, p.Y, blockGlyph, snap.Active.Shape.Color())
	}
}

func drawBlock(dst *core.Screen, x, y, col, row int, r rune, c core.Color) {
	sx := x + 1 + col*cellW
	sy := y + 1 + row
	if r == emptyGlyph {
		dst.SetCell(sx, sy, ' ', c)
		dst.SetCell(sx+1, sy, r, c)
		return
	}
	dst.SetCell(sx, sy, r, c)
	dst.SetCell(sx+1, sy, r, c)
}

// drawMini draws shape s in its spawn orientation inside a 4x2 cell area.
func drawMini(dst *core.Screen, s Shape, x, y int, c core.Color) {
	for _, off := range shapeCells[s][Rot0] {
		dst.SetCell(x+off.X*cellW, y+off.Y, blockGlyph, c)
		dst.SetCell(x+off.X*cellW+1, y+off.Y, blockGlyph, c)
	}
}

func renderPanel(dst *core.Screen, snap Snapshot, x, y int) {
	row := y
	dst.DrawText(x, row, "HOLD", core.ColorWhite)
	if snap.HasHeld {
		c := snap.Held.Color()
		if !snap.HoldAvailable {
			c = core.ColorDim
		}
		drawMini(dst, snap.Held, x, row+1, c)
	}
	row += 4

	dst.DrawText(x, row, "NEXT", core.ColorWhite)
	for i, s := range snap.Next {
		if i >= previewRows {
			break
		}
		drawMini(dst, s, x, row+1+i*3, s.Color())
	}
	row += 1 + previewRows*3

	stats := []struct {
		label string
		value int
	}{
		{"SCORE", snap.Score.Points},
		{"LEVEL", snap.Score.Level},
		{"LINES", snap.Score.Lines},
	}
	for _, st := range stats {
		dst.DrawText(x, row, st.label, core.ColorWhite)
		dst.DrawText(x, row+1, fmt.Sprintf("%d", st.value), core.ColorBrightYellow)
		row += 2
	}

	if snap.PendingGarbage > 0 {
		dst.DrawText(x, row, fmt.Sprintf("INCOMING %d", snap.PendingGarbage), core.ColorBrightRed)
	}
}

func renderOverlay(dst *core.Screen, snap Snapshot, x, y int) {
	switch {
	case snap.Paused:
		DrawOverlay(dst, x, y, core.ColorBrightYellow, "PAUSED", "Press P to resume")
	case snap.State == StateGameOver:
		DrawOverlay(dst, x, y, core.ColorBrightRed, "GAME OVER")
	}
}

// DrawOverlay draws a boxed message centered over the board of a view whose
// top-left corner is (x, y).
func DrawOverlay(dst *core.Screen, x, y int, c core.Color, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		if n := len([]rune(line)); n > maxLen {
			maxLen = n
		}
	}

	boxW := core.Min(maxLen+4, boardViewW)
	boxH := len(lines) + 2
	box := core.NewRect(x+(boardViewW-boxW)/2, y+(boardViewH-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, c)
	inner := box.Inset(1)
	for i, line := range lines {
		dst.DrawTextCentered(inner, inner.Y+i, line, c)
	}
}
