package round

import (
	"strings"
	"testing"
	"time"
)

func TestGradeBoundaries(t *testing.T) {
	cases := []struct {
		name         string
		target       int
		guess        int
		wantDistance int
		wantWon      bool
	}{
		{name: "exact hit", target: 50, guess: 50, wantDistance: 0, wantWon: true},
		{name: "distance 19 wins", target: 50, guess: 69, wantDistance: 19, wantWon: true},
		{name: "distance 20 loses", target: 50, guess: 70, wantDistance: 20, wantWon: false},
		{name: "distance 20 below target loses", target: 50, guess: 30, wantDistance: 20, wantWon: false},
		{name: "cold extreme", target: 5, guess: 3, wantDistance: 2, wantWon: true},
		{name: "full miss", target: 0, guess: 100, wantDistance: 100, wantWon: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Grade(tc.target, tc.guess)
			if res.Target != tc.target {
				t.Fatalf("target = %d, want %d", res.Target, tc.target)
			}
			if res.Distance != tc.wantDistance {
				t.Fatalf("distance = %d, want %d", res.Distance, tc.wantDistance)
			}
			if res.Won != tc.wantWon {
				t.Fatalf("won = %v, want %v", res.Won, tc.wantWon)
			}
		})
	}
}

func TestGradeDistanceInRange(t *testing.T) {
	for target := 0; target <= TargetMax; target += 25 {
		for guess := 0; guess <= TargetMax; guess += 25 {
			res := Grade(target, guess)
			if res.Distance < 0 || res.Distance > TargetMax {
				t.Fatalf("Grade(%d, %d) distance = %d, out of [0,%d]", target, guess, res.Distance, TargetMax)
			}
		}
	}
}

func TestResultMessage(t *testing.T) {
	if got := (Result{Won: true}).Message(); got != "You Won!" {
		t.Fatalf("win message = %q", got)
	}
	if got := (Result{Won: false}).Message(); got != "AWW... You Lost!" {
		t.Fatalf("loss message = %q", got)
	}
}

func TestAnchorsNormalize(t *testing.T) {
	cases := []struct {
		name     string
		in       Anchors
		problems int
	}{
		{name: "valid", in: Anchors{Left: "Hot", Right: "Cold", Label: "Temperature"}, problems: 0},
		{name: "trims whitespace", in: Anchors{Left: "  Hot  ", Right: " Cold ", Label: " Temperature "}, problems: 0},
		{name: "left too short", in: Anchors{Left: "H", Right: "Cold", Label: "Temperature"}, problems: 1},
		{name: "right too long", in: Anchors{Left: "Hot", Right: strings.Repeat("c", 41), Label: "Temperature"}, problems: 1},
		{name: "label empty", in: Anchors{Left: "Hot", Right: "Cold", Label: "   "}, problems: 1},
		{name: "label too long", in: Anchors{Left: "Hot", Right: "Cold", Label: strings.Repeat("t", 21)}, problems: 1},
		{name: "everything wrong", in: Anchors{}, problems: 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := tc.in
			problems := a.Normalize()
			if len(problems) != tc.problems {
				t.Fatalf("problems = %v, want %d of them", problems, tc.problems)
			}
			if tc.problems == 0 && (a.Left != strings.TrimSpace(tc.in.Left) || a.Right != strings.TrimSpace(tc.in.Right)) {
				t.Fatalf("anchors not trimmed: %+v", a)
			}
		})
	}
}

func TestNormalizeClue(t *testing.T) {
	cases := []struct {
		name     string
		in       string
		problems int
	}{
		{name: "valid", in: "Concrete on a summer day", problems: 0},
		{name: "minimum length", in: "Lava!", problems: 0},
		{name: "too short", in: "Ice", problems: 1},
		{name: "too short after trim", in: "  Ice    ", problems: 1},
		{name: "too long", in: strings.Repeat("x", 141), problems: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clue, problems := NormalizeClue(tc.in)
			if len(problems) != tc.problems {
				t.Fatalf("problems = %v, want %d of them", problems, tc.problems)
			}
			if tc.problems == 0 && clue != strings.TrimSpace(tc.in) {
				t.Fatalf("clue not trimmed: %q", clue)
			}
		})
	}
}

func TestNewID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewID()
		if len(id) != 22 {
			t.Fatalf("id length = %d, want 22: %q", len(id), id)
		}
		if seen[id] {
			t.Fatalf("duplicate id: %q", id)
		}
		seen[id] = true
	}
}

func TestNewRound(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := New(42, now)
	if r.ID == "" {
		t.Fatal("expected non-empty id")
	}
	if r.Target != 42 {
		t.Fatalf("target = %d, want 42", r.Target)
	}
	if !r.CreatedAt.Equal(now) {
		t.Fatalf("createdAt = %v, want %v", r.CreatedAt, now)
	}
}
