package devtools

import (
	"context"

	"trickadex/internal/catalog"
	"trickadex/internal/state"
)

type Demo interface {
	Names() []string
	Resolve(c *catalog.Catalog, name string) Scenario
	Apply(ctx context.Context, store state.Store, sc Scenario) error
}
