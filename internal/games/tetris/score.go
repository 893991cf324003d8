package tetris

import "time"

// Score is one player's progress. Points and Lines never decrease.
type Score struct {
	Points int
	Lines  int
	Level  int
}

// clearPoints is the base award for clearing 1..4 rows at once, multiplied
// by level+1.
var clearPoints = [5]int{0, 100, 300, 500, 800}

const (
	softDropPoints = 1
	hardDropPoints = 2
)

// ClearPoints returns the award for clearing rows at once on level.
func ClearPoints(rows, level int) int {
	if rows <= 0 {
		return 0
	}
	if rows >= len(clearPoints) {
		rows = len(clearPoints) - 1
	}
	return clearPoints[rows] * (level + 1)
}

// GarbageFor returns how many garbage rows a clear of rows lines sends.
func GarbageFor(rows int) int {
	if rows < 2 {
		return 0
	}
	return rows - 1
}

// addClear awards a simultaneous clear and applies level progression.
// It returns the points awarded.
func (s *Score) addClear(rows int, o Options) int {
	pts := ClearPoints(rows, s.Level)
	s.Points += pts
	s.Lines += rows
	if !o.FixedLevel {
		for s.Level < o.MaxLevel && s.Lines >= o.LinesPerLevel*(s.Level+1) {
			s.Level++
		}
	}
	return pts
}

// GravityInterval returns the time between gravity steps on level. Each
// level shortens the previous interval by GravityDecay; the result never
// drops below MinGravity.
func (o Options) GravityInterval(level int) time.Duration {
	iv := o.BaseGravity
	for i := 0; i < level; i++ {
		iv -= time.Duration(float64(iv) * o.GravityDecay)
		if iv <= o.MinGravity {
			return o.MinGravity
		}
	}
	if iv < o.MinGravity {
		return o.MinGravity
	}
	return iv
}
