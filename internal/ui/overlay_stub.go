//go:build !ebiten

package ui

import "galaxy-gen/internal/galaxy"

// Overlay is a no-op placeholder used when the ebiten build tag is absent.
type Overlay struct{}

// NewOverlay constructs a stub overlay.
func NewOverlay() *Overlay { return &Overlay{} }

// SetCloud is a no-op in headless builds.
func (o *Overlay) SetCloud(*galaxy.PointCloud) {}

// Update is a no-op in headless builds.
func (o *Overlay) Update() {}

// Draw is a no-op placeholder.
func (o *Overlay) Draw(any) {}

// SetPreset is a no-op in headless builds.
func (o *Overlay) SetPreset(string) {}
