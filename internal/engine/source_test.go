package engine

import (
	"fmt"
	"testing"
	"time"
)

// scriptedSource replays a fixed sequence of draws and returns 0 once the
// script is exhausted. It panics on a draw outside [0, n) since that means
// the script no longer matches the code under test.
type scriptedSource struct {
	draws []int
	pos   int
}

func newScriptedSource(draws ...int) *scriptedSource {
	return &scriptedSource{draws: draws}
}

func (s *scriptedSource) IntN(n int) int {
	if s.pos >= len(s.draws) {
		return 0
	}
	v := s.draws[s.pos]
	s.pos++
	if v < 0 || v >= n {
		panic(fmt.Sprintf("scripted draw %d at position %d out of range [0, %d)", v, s.pos-1, n))
	}
	return v
}

// steppingClock returns start, then start+step, start+2*step, ...
func steppingClock(start time.Time, step time.Duration) func() time.Time {
	calls := 0
	return func() time.Time {
		t := start.Add(time.Duration(calls) * step)
		calls++
		return t
	}
}

func TestNewSource_SameSeedSameSequence(t *testing.T) {
	a := NewSource(42)
	b := NewSource(42)
	for i := 0; i < 100; i++ {
		if x, y := a.IntN(1000), b.IntN(1000); x != y {
			t.Fatalf("draw %d differs: %d vs %d", i, x, y)
		}
	}
}

func TestResolveSeed(t *testing.T) {
	if got := ResolveSeed(7); got != 7 {
		t.Fatalf("ResolveSeed(7) = %d, want 7", got)
	}
	if got := ResolveSeed(0); got == 0 {
		t.Fatal("ResolveSeed(0) should draw a non-zero seed")
	}
}

func TestIntBetween_ClosedRange(t *testing.T) {
	src := NewSource(1)
	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		v := intBetween(src, 3, 6)
		if v < 3 || v > 6 {
			t.Fatalf("intBetween(3, 6) = %d, out of range", v)
		}
		seen[v] = true
	}
	for v := 3; v <= 6; v++ {
		if !seen[v] {
			t.Errorf("value %d never drawn in 1000 tries", v)
		}
	}
}

func TestIntBetween_SinglePoint(t *testing.T) {
	if v := intBetween(newScriptedSource(), 5, 5); v != 5 {
		t.Fatalf("intBetween(5, 5) = %d, want 5", v)
	}
}
