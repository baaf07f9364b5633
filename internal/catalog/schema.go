package catalog

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

const (
	CatalogKind            = "catalog"
	SupportedSchemaVersion = 1
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{1,63}$`)

type File struct {
	Kind          string      `yaml:"kind"`
	SchemaVersion int         `yaml:"schema_version"`
	Tricks        []TrickSpec `yaml:"tricks"`
}

type TrickSpec struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	Types         []string `yaml:"types"`
	Prerequisites []string `yaml:"prerequisites"`
	Difficulty    int      `yaml:"difficulty"`
	Description   string   `yaml:"description"`
	TutorialURL   string   `yaml:"tutorial_url"`
}

// Trick is an immutable catalog entry.
type Trick struct {
	ID            string
	Name          string
	Types         []string
	Prerequisites []string
	Difficulty    Tier
	Description   string
	TutorialURL   string
}

// HasType reports whether the trick carries tag, ignoring case.
func (t Trick) HasType(tag string) bool {
	for _, ty := range t.Types {
		if strings.EqualFold(ty, tag) {
			return true
		}
	}
	return false
}

// Catalog is the name-sorted, read-only trick list.
type Catalog struct {
	tricks []Trick
	byID   map[string]int
}

func (f File) Validate() error {
	if f.Kind != CatalogKind {
		return fmt.Errorf("kind must be %q", CatalogKind)
	}
	if f.SchemaVersion == 0 {
		return fmt.Errorf("schema_version is required")
	}
	if f.SchemaVersion > SupportedSchemaVersion {
		return fmt.Errorf("unsupported catalog schema_version %d (max supported %d)", f.SchemaVersion, SupportedSchemaVersion)
	}
	if len(f.Tricks) == 0 {
		return fmt.Errorf("tricks must contain at least one item")
	}
	return nil
}

func (s TrickSpec) Validate() error {
	if !idPattern.MatchString(s.ID) {
		return fmt.Errorf("invalid trick id %q", s.ID)
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("trick %q: name is required", s.ID)
	}
	if len(s.Types) == 0 {
		return fmt.Errorf("trick %q: types must contain at least one tag", s.ID)
	}
	if !Tier(s.Difficulty).Valid() {
		return fmt.Errorf("trick %q: difficulty must be 0..%d", s.ID, TierCount-1)
	}
	return nil
}

func (s TrickSpec) Trick() Trick {
	return Trick{
		ID:            s.ID,
		Name:          s.Name,
		Types:         append([]string(nil), s.Types...),
		Prerequisites: append([]string(nil), s.Prerequisites...),
		Difficulty:    Tier(s.Difficulty),
		Description:   s.Description,
		TutorialURL:   s.TutorialURL,
	}
}

// New validates tricks and returns them sorted by name, case-insensitive.
func New(tricks []Trick) (*Catalog, error) {
	sorted := append([]Trick(nil), tricks...)
	byID := make(map[string]int, len(sorted))
	for _, t := range sorted {
		if t.ID == "" {
			return nil, fmt.Errorf("trick id is required")
		}
		if _, ok := byID[t.ID]; ok {
			return nil, fmt.Errorf("duplicate trick id %q", t.ID)
		}
		if !t.Difficulty.Valid() {
			return nil, fmt.Errorf("trick %q: difficulty %d out of range", t.ID, int(t.Difficulty))
		}
		byID[t.ID] = 0
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})
	for i, t := range sorted {
		byID[t.ID] = i
	}
	return &Catalog{tricks: sorted, byID: byID}, nil
}

// MustNew is New for statically known data.
func MustNew(tricks []Trick) *Catalog {
	c, err := New(tricks)
	if err != nil {
		panic(err)
	}
	return c
}

// Tricks returns the catalog in canonical order. The slice must not be
// modified.
func (c *Catalog) Tricks() []Trick {
	if c == nil {
		return nil
	}
	return c.tricks
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.tricks)
}

func (c *Catalog) ByID(id string) (Trick, bool) {
	if c == nil {
		return Trick{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return Trick{}, false
	}
	return c.tricks[i], true
}

// DanglingPrerequisites maps trick ids to prerequisite ids missing from
// the catalog. Such prerequisites can never be satisfied.
func (c *Catalog) DanglingPrerequisites() map[string][]string {
	out := map[string][]string{}
	if c == nil {
		return out
	}
	for _, t := range c.tricks {
		for _, p := range t.Prerequisites {
			if _, ok := c.byID[p]; !ok {
				out[t.ID] = append(out[t.ID], p)
			}
		}
	}
	return out
}
