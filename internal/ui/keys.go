package ui

import "charm.land/bubbles/v2/key"

// screenKeyMap is the per-screen binding set shown in the help bar.
type screenKeyMap struct {
	NextScreen key.Binding
	PrevScreen key.Binding
	Quit       key.Binding
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Select     key.Binding
	Search     key.Binding
	Chips      key.Binding
	Favorite   key.Binding
	Details    key.Binding
	Clear      key.Binding
	Edit       key.Binding
	Remove     key.Binding
	MoveLeft   key.Binding
	MoveRight  key.Binding
	Random     key.Binding
	Copy       key.Binding
	Prefs      key.Binding

	short []key.Binding
}

func (k screenKeyMap) ShortHelp() []key.Binding {
	return k.short
}

func (k screenKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.short, {k.NextScreen, k.PrevScreen, k.Quit}}
}

func newKeyMaps() map[Screen]screenKeyMap {
	base := screenKeyMap{
		NextScreen: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next screen")),
		PrevScreen: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev screen")),
		Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Select:     key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("enter", "landed")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Chips:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filters")),
		Favorite:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "favorite")),
		Details:    key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "details")),
		Clear:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit name")),
		Remove:     key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
		MoveLeft:   key.NewBinding(key.WithKeys(","), key.WithHelp(",", "move left")),
		MoveRight:  key.NewBinding(key.WithKeys("."), key.WithHelp(".", "move right")),
		Random:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "random")),
		Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Prefs:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preferences")),
	}

	tricks := base
	tricks.short = []key.Binding{tricks.Search, tricks.Chips, tricks.Select, tricks.Favorite, tricks.Details, tricks.Clear, tricks.NextScreen}

	stats := base
	stats.Select = key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("enter", "show tier"))
	stats.short = []key.Binding{stats.Up, stats.Down, stats.Select, stats.NextScreen}

	profile := base
	profile.Select = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "show level"))
	profile.short = []key.Binding{profile.Edit, profile.Select, profile.NextScreen}

	comboKeys := base
	comboKeys.Select = key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("space", "drag"))
	comboKeys.Left = key.NewBinding(key.WithKeys("left", "h", "["), key.WithHelp("[/]", "card"))
	comboKeys.Right = key.NewBinding(key.WithKeys("right", "l", "]"), key.WithHelp("[/]", "card"))
	comboKeys.Clear = key.NewBinding(key.WithKeys("C", "shift+c"), key.WithHelp("C", "clear combo"))
	comboKeys.short = []key.Binding{comboKeys.Search, comboKeys.Chips, comboKeys.Select, comboKeys.Left, comboKeys.MoveLeft, comboKeys.MoveRight, comboKeys.Remove, comboKeys.Random, comboKeys.Copy, comboKeys.Prefs}

	return map[Screen]screenKeyMap{
		ScreenTricks:   tricks,
		ScreenProgress: stats,
		ScreenProfile:  profile,
		ScreenCombo:    comboKeys,
	}
}
