package ui

import (
	"image"
	"strings"
	"testing"

	"galaxy-gen/internal/galaxy"
)

func TestStatsLines(t *testing.T) {
	s := galaxy.Stats{Count: 7, Seed: 42, ArmCounts: []int{3, 2, 2}, MaxRadius: 4.5, MeanRadius: 2.25}
	lines := StatsLines(s, "tight", 59.6, 60)
	joined := strings.Join(lines, "\n")
	for _, want := range []string{"points  7", "seed    42", "arms    3", "4.50 max / 2.25 mean", "fps     60", "preset  tight"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing %q in\n%s", want, joined)
		}
	}
	if got := StatsLines(s, "", 0, 0); len(got) != len(lines)-1 {
		t.Fatalf("expected preset line to be omitted, got %d lines", len(got))
	}
}

func TestArmBarsScaleToPeak(t *testing.T) {
	area := image.Rect(10, 0, 40, 20)
	bars := ArmBars([]int{10, 5, 0}, area)
	if len(bars) != 3 {
		t.Fatalf("got %d bars", len(bars))
	}
	if bars[0].Dy() != 20 || bars[1].Dy() != 10 || bars[2].Dy() != 0 {
		t.Fatalf("heights %d %d %d", bars[0].Dy(), bars[1].Dy(), bars[2].Dy())
	}
	for i, b := range bars {
		if b.Max.Y != area.Max.Y {
			t.Fatalf("bar %d not bottom aligned: %v", i, b)
		}
		if b.Dx() != 9 {
			t.Fatalf("bar %d width %d", i, b.Dx())
		}
	}
	if bars[1].Min.X != 20 {
		t.Fatalf("second bar starts at %d", bars[1].Min.X)
	}
}

func TestArmBarsDegenerate(t *testing.T) {
	if ArmBars(nil, image.Rect(0, 0, 10, 10)) != nil {
		t.Fatal("no counts should give no bars")
	}
	if ArmBars([]int{1, 2}, image.Rect(0, 0, 1, 10)) != nil {
		t.Fatal("area narrower than the arm count should give no bars")
	}
	bars := ArmBars([]int{0, 0}, image.Rect(0, 0, 10, 10))
	for _, b := range bars {
		if b.Dy() != 0 {
			t.Fatalf("empty arm drew height %d", b.Dy())
		}
	}
}
