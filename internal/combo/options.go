package combo

import (
	"fmt"
	"time"
)

// Options are the resolver's geometry and timing constants. Distances are
// in whatever unit the host measures pointer positions in.
type Options struct {
	// CardPitch is the center-to-center spacing of combo cards.
	CardPitch float64
	// EdgeBand is the width at each zone edge that triggers auto-scroll.
	EdgeBand float64
	// ScrollStep is how far one auto-scroll step moves the list.
	ScrollStep float64
	// ScrollPeriod is the interval between auto-scroll steps.
	ScrollPeriod time.Duration
}

func DefaultOptions() Options {
	return Options{
		CardPitch:    130,
		EdgeBand:     60,
		ScrollStep:   20,
		ScrollPeriod: 50 * time.Millisecond,
	}
}

func (o Options) Validate() error {
	if o.CardPitch <= 0 {
		return fmt.Errorf("card pitch must be > 0")
	}
	if o.EdgeBand < 0 {
		return fmt.Errorf("edge band must be >= 0")
	}
	if o.ScrollStep <= 0 {
		return fmt.Errorf("scroll step must be > 0")
	}
	if o.ScrollPeriod <= 0 {
		return fmt.Errorf("scroll period must be > 0")
	}
	return nil
}
