package combo

import (
	"math"

	"trickadex/internal/catalog"
)

type Point struct {
	X, Y float64
}

func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Rect is a drop zone. Contains treats all four edges as inside.
type Rect struct {
	X, Y, Width, Height float64
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

type State int

const (
	StateIdle State = iota
	StateDragging
)

func (s State) String() string {
	if s == StateDragging {
		return "dragging"
	}
	return "idle"
}

type Direction int

const (
	ScrollNone Direction = iota
	ScrollLeft
	ScrollRight
)

func (d Direction) String() string {
	switch d {
	case ScrollLeft:
		return "left"
	case ScrollRight:
		return "right"
	default:
		return "none"
	}
}

// Sample is the resolver output for one pointer position.
type Sample struct {
	Pointer      Point
	IsOverTarget bool
	// HoverIndex is the insertion index, or -1 when not over the zone.
	HoverIndex int
	AutoScroll Direction
}

var idleSample = Sample{HoverIndex: -1}

type OutcomeKind int

const (
	OutcomeNone OutcomeKind = iota
	OutcomeDropped
	OutcomeCancelled
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeDropped:
		return "dropped"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "none"
	}
}

// Outcome describes how a drag ended. Index is only set when dropped.
type Outcome struct {
	Kind  OutcomeKind
	Trick catalog.Trick
	Index int
}

// Resolver tracks one drag at a time against a horizontally scrolling
// combo zone and inserts into its Sequence on drop. The host delivers
// gesture events and calls Step every Options.ScrollPeriod while
// AutoScroll is not ScrollNone.
type Resolver struct {
	opts Options
	seq  *Sequence
	zone Rect

	scroll float64

	state State
	trick catalog.Trick
	start Point
	last  Sample
}

func NewResolver(seq *Sequence, opts Options) *Resolver {
	if seq == nil {
		seq = &Sequence{}
	}
	return &Resolver{opts: opts, seq: seq, last: idleSample}
}

func (r *Resolver) Options() Options { return r.opts }

func (r *Resolver) Sequence() *Sequence { return r.seq }

func (r *Resolver) State() State { return r.state }

// Dragged returns the trick being dragged, if any.
func (r *Resolver) Dragged() (catalog.Trick, bool) {
	return r.trick, r.state == StateDragging
}

// SetZone records the drop zone's current on-screen rectangle.
func (r *Resolver) SetZone(zone Rect) {
	r.zone = zone
	r.scroll = clampFloat(r.scroll, 0, r.MaxScroll())
}

func (r *Resolver) Zone() Rect { return r.zone }

func (r *Resolver) ScrollOffset() float64 { return r.scroll }

// SetScrollOffset is for user scrolling outside a drag.
func (r *Resolver) SetScrollOffset(v float64) {
	r.scroll = clampFloat(v, 0, r.MaxScroll())
}

// MaxScroll is the largest offset that still shows content, leaving room
// for one extra slot at the end of the list.
func (r *Resolver) MaxScroll() float64 {
	content := float64(r.seq.Len()+1) * r.opts.CardPitch
	return math.Max(0, content-r.zone.Width)
}

// Last is the most recent sample; it is idle outside a drag.
func (r *Resolver) Last() Sample { return r.last }

// AutoScroll is the direction the host should keep stepping in.
func (r *Resolver) AutoScroll() Direction {
	if r.state != StateDragging {
		return ScrollNone
	}
	return r.last.AutoScroll
}

// Begin starts dragging t from the on-screen origin start. A drag already
// in progress is cancelled first.
func (r *Resolver) Begin(t catalog.Trick, start Point) {
	if r.state == StateDragging {
		r.Cancel()
	}
	r.state = StateDragging
	r.trick = t
	r.start = start
	r.last = r.sample(start)
}

// Move feeds the cumulative translation since Begin.
func (r *Resolver) Move(translation Point) Sample {
	if r.state != StateDragging {
		return idleSample
	}
	r.last = r.sample(r.start.Add(translation))
	return r.last
}

func (r *Resolver) sample(p Point) Sample {
	s := Sample{Pointer: p, HoverIndex: -1}
	if !r.zone.Contains(p) {
		return s
	}
	s.IsOverTarget = true
	rel := p.X - r.zone.X
	switch {
	case rel < r.opts.EdgeBand:
		s.AutoScroll = ScrollLeft
	case rel > r.zone.Width-r.opts.EdgeBand:
		s.AutoScroll = ScrollRight
	}
	s.HoverIndex = r.indexAt(rel)
	return s
}

func (r *Resolver) indexAt(rel float64) int {
	idx := int(math.Round((rel + r.scroll) / r.opts.CardPitch))
	return clampInt(idx, 0, r.seq.Len())
}

// Step advances auto-scroll once and refreshes the hover index for the
// new offset. It reports whether the offset changed.
func (r *Resolver) Step() bool {
	dir := r.AutoScroll()
	if dir == ScrollNone {
		return false
	}
	delta := r.opts.ScrollStep
	if dir == ScrollLeft {
		delta = -delta
	}
	next := clampFloat(r.scroll+delta, 0, r.MaxScroll())
	if next == r.scroll {
		return false
	}
	r.scroll = next
	r.last = r.sample(r.last.Pointer)
	return true
}

// End finishes the drag. Over the zone the trick is inserted at the last
// hover index; anywhere else the sequence is left untouched.
func (r *Resolver) End() Outcome {
	if r.state != StateDragging {
		return Outcome{}
	}
	out := Outcome{Kind: OutcomeCancelled, Trick: r.trick, Index: -1}
	if r.last.IsOverTarget {
		out.Kind = OutcomeDropped
		out.Index = r.seq.Insert(r.last.HoverIndex, r.trick)
	}
	r.reset()
	return out
}

// Cancel abandons the drag without touching the sequence.
func (r *Resolver) Cancel() Outcome {
	if r.state != StateDragging {
		return Outcome{}
	}
	out := Outcome{Kind: OutcomeCancelled, Trick: r.trick, Index: -1}
	r.reset()
	return out
}

func (r *Resolver) reset() {
	r.state = StateIdle
	r.trick = catalog.Trick{}
	r.start = Point{}
	r.last = idleSample
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
