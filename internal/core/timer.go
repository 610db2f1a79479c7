package core

import (
	"math"
	"time"
)

// Turntable accumulates a rotation angle about the vertical axis at a
// configurable speed in radians per second.
type Turntable struct {
	speed float64
	angle float64
	last  time.Time
}

// NewTurntable constructs a Turntable spinning at speed radians per second.
func NewTurntable(speed float64) *Turntable {
	return &Turntable{speed: speed}
}

// SetSpeed changes the rotation speed. It is safe to call from the main loop.
func (t *Turntable) SetSpeed(speed float64) {
	t.speed = speed
}

// Speed reports the current rotation speed.
func (t *Turntable) Speed() float64 { return t.speed }

// Angle reports the accumulated angle wrapped into [0, 2π).
func (t *Turntable) Angle() float64 { return t.angle }

// Advance rotates by speed*dt and returns the new angle.
func (t *Turntable) Advance(dt time.Duration) float64 {
	if dt <= 0 {
		return t.angle
	}
	t.angle = math.Mod(t.angle+t.speed*dt.Seconds(), 2*math.Pi)
	if t.angle < 0 {
		t.angle += 2 * math.Pi
	}
	return t.angle
}

// Tick advances using the wall-clock delta since the previous Tick.
func (t *Turntable) Tick() float64 {
	now := time.Now()
	if t.last.IsZero() {
		t.last = now
	}
	delta := now.Sub(t.last)
	t.last = now
	return t.Advance(delta)
}

// Reset zeroes the angle and forgets the previous tick time.
func (t *Turntable) Reset() {
	t.angle = 0
	t.last = time.Time{}
}
