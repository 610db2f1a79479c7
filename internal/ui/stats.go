package ui

import (
	"fmt"
	"image"

	"galaxy-gen/internal/galaxy"
)

// KeyHelp lists the viewer shortcuts shown by the overlay.
var KeyHelp = []string{
	"drag  orbit",
	"wheel zoom",
	"R     reseed",
	"P     next preset",
	"E     export",
	"H     toggle stats",
	"Q     quit",
}

// StatsLines formats the summary block shown in the top-left corner.
func StatsLines(s galaxy.Stats, preset string, fps, tps float64) []string {
	lines := []string{
		fmt.Sprintf("points  %d", s.Count),
		fmt.Sprintf("seed    %d", s.Seed),
		fmt.Sprintf("arms    %d", len(s.ArmCounts)),
		fmt.Sprintf("radius  %.2f max / %.2f mean", s.MaxRadius, s.MeanRadius),
		fmt.Sprintf("fps     %.0f  tps %.0f", fps, tps),
	}
	if preset != "" {
		lines = append(lines, "preset  "+preset)
	}
	return lines
}

// ArmBars lays out one vertical bar per arm inside area, scaled so the
// fullest arm spans the full height. Bars are bottom aligned and separated by
// a one pixel gap when space allows.
func ArmBars(counts []int, area image.Rectangle) []image.Rectangle {
	if len(counts) == 0 || area.Dx() <= 0 || area.Dy() <= 0 {
		return nil
	}
	peak := 0
	for _, c := range counts {
		peak = max(peak, c)
	}
	slot := area.Dx() / len(counts)
	if slot <= 0 {
		return nil
	}
	gap := 0
	if slot > 2 {
		gap = 1
	}
	bars := make([]image.Rectangle, len(counts))
	for i, c := range counts {
		h := 0
		if peak > 0 {
			h = c * area.Dy() / peak
		}
		x0 := area.Min.X + i*slot
		bars[i] = image.Rect(x0, area.Max.Y-h, x0+slot-gap, area.Max.Y)
	}
	return bars
}
