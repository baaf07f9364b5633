package progress

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// Display animates a shown percentage toward a target. The shown value
// only ever moves toward the target, so the spring's overshoot is cut off.
type Display struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	target float64
}

// NewDisplay builds a display stepped at fps frames per second. A
// non-positive fps makes every step land on the target.
func NewDisplay(fps int) *Display {
	d := &Display{}
	if fps <= 0 {
		d.spring = harmonica.NewSpring(harmonica.FPS(60), 1000.0, 1.0)
		return d
	}
	d.spring = harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0)
	return d
}

// FrameInterval is the tick period matching fps.
func FrameInterval(fps int) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Second / time.Duration(fps)
}

// SetTarget changes the target percent, clamped to [0,100].
func (d *Display) SetTarget(p int) {
	d.target = math.Max(0, math.Min(100, float64(p)))
	d.vel = 0
}

// Reset drops the shown value back to zero so the next steps replay the
// climb to the target.
func (d *Display) Reset() {
	d.pos = 0
	d.vel = 0
}

// Jump shows the target immediately.
func (d *Display) Jump() {
	d.pos = d.target
	d.vel = 0
}

// Step advances one frame and reports whether the value is settled.
func (d *Display) Step() bool {
	if d.Settled() {
		return true
	}
	prev := d.pos
	pos, vel := d.spring.Update(d.pos, d.vel, d.target)
	rising := d.target > prev
	if (rising && pos < prev) || (!rising && pos > prev) {
		pos = prev
	}
	if (rising && pos >= d.target) || (!rising && pos <= d.target) || math.Abs(d.target-pos) < 0.5 {
		pos = d.target
		vel = 0
	}
	d.pos, d.vel = pos, vel
	return d.Settled()
}

func (d *Display) Settled() bool { return d.pos == d.target }

// Value is the displayed percentage rounded to an int.
func (d *Display) Value() int { return int(math.Round(d.pos)) }

// Fraction is the displayed value in [0,1], for progress bars.
func (d *Display) Fraction() float64 { return d.pos / 100 }

func (d *Display) Target() int { return int(d.target) }
