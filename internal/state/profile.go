package state

import (
	"context"
	"strings"
	"sync"
)

const DefaultUserName = "Alex Thompson"

const maxUserName = 30

// Profile owns the user name. Views subscribe for changes and must call
// the returned func when they go away.
type Profile struct {
	store Store
	log   Logger

	mu   sync.Mutex
	name string
	subs map[int]func(string)
	next int
}

func NewProfile(store Store, log Logger) *Profile {
	return &Profile{store: store, log: orNop(log), name: DefaultUserName, subs: map[int]func(string){}}
}

// Load reads the stored name, keeping the default when none is stored.
// stored is false until the user has saved a name.
func (p *Profile) Load(ctx context.Context) (name string, stored bool) {
	raw, ok, err := p.store.Get(ctx, KeyUserName)
	if err != nil {
		p.log.Error("state.load_failed", map[string]any{"key": KeyUserName, "error": err.Error()})
	}
	name = strings.TrimSpace(raw)
	if err != nil || !ok || name == "" {
		return p.Name(), false
	}
	p.publish(name)
	return name, true
}

func (p *Profile) Name() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.name
}

// SetName trims name, ignores blanks, persists and notifies subscribers.
// Names longer than 30 characters are cut.
func (p *Profile) SetName(ctx context.Context, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if r := []rune(name); len(r) > maxUserName {
		name = strings.TrimSpace(string(r[:maxUserName]))
	}
	if err := p.store.Set(ctx, KeyUserName, name); err != nil {
		p.log.Error("state.save_failed", map[string]any{"key": KeyUserName, "error": err.Error()})
	}
	p.publish(name)
	return true
}

func (p *Profile) publish(name string) {
	p.mu.Lock()
	if p.name == name {
		p.mu.Unlock()
		return
	}
	p.name = name
	subs := make([]func(string), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.mu.Unlock()
	for _, fn := range subs {
		fn(name)
	}
}

// Subscribe registers fn for name changes. Calling the returned func more
// than once is safe.
func (p *Profile) Subscribe(fn func(string)) (unsubscribe func()) {
	p.mu.Lock()
	id := p.next
	p.next++
	p.subs[id] = fn
	p.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, id)
			p.mu.Unlock()
		})
	}
}

func (p *Profile) Subscribers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}
