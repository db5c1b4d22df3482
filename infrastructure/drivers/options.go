package drivers

import (
	"errors"
	"sort"
	"sync"

	"github.com/reglet-dev/retrohost/abi"
	"github.com/reglet-dev/retrohost/domain/entities"
	rherrors "github.com/reglet-dev/retrohost/domain/errors"
)

type memoryOptionsConfig struct {
	version uint32
	seed    map[string]string
}

// MemoryOptionsOption configures a MemoryOptions.
type MemoryOptionsOption func(*memoryOptionsConfig)

// WithOptionsVersion caps the core options API version offered to the core.
func WithOptionsVersion(version uint32) MemoryOptionsOption {
	return func(c *memoryOptionsConfig) {
		c.version = min(version, abi.CoreOptionsVersion)
	}
}

// WithValues seeds option values, typically from the user's configuration.
// A seeded value applies once the core defines the key, and only if it is one
// of the key's allowed values.
func WithValues(values map[string]string) MemoryOptionsOption {
	return func(c *memoryOptionsConfig) {
		for k, v := range values {
			c.seed[k] = v
		}
	}
}

// MemoryOptions is an in-memory core option store.
type MemoryOptions struct {
	config memoryOptionsConfig

	mu         sync.Mutex
	defs       map[string]entities.OptionDefinition
	order      []string
	categories []entities.OptionCategory
	values     map[string]string
	hidden     map[string]bool
	updated    bool
	display    uintptr
}

// NewMemoryOptions creates an empty option store.
func NewMemoryOptions(opts ...MemoryOptionsOption) *MemoryOptions {
	cfg := memoryOptionsConfig{version: abi.CoreOptionsVersion, seed: map[string]string{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &MemoryOptions{
		config: cfg,
		defs:   map[string]entities.OptionDefinition{},
		values: map[string]string{},
		hidden: map[string]bool{},
	}
}

func (o *MemoryOptions) Version() uint32 { return o.config.version }

// SetDefinitions replaces the option set. Each key starts from, in order,
// its current value, its seeded value, and its default, taking the first one
// the definition allows.
func (o *MemoryOptions) SetDefinitions(defs []entities.OptionDefinition, categories []entities.OptionCategory) error {
	for i := range defs {
		if err := entities.ValidateStruct(&defs[i]).Err(); err != nil {
			return &rherrors.ConfigError{Field: "options." + defs[i].Key, Err: err}
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	next := make(map[string]string, len(defs))
	byKey := make(map[string]entities.OptionDefinition, len(defs))
	order := make([]string, 0, len(defs))
	for _, d := range defs {
		if _, dup := byKey[d.Key]; dup {
			return &rherrors.ConfigError{Field: "options." + d.Key, Err: errors.New("duplicate option key")}
		}
		byKey[d.Key] = d
		order = append(order, d.Key)

		switch {
		case d.Allows(o.values[d.Key]):
			next[d.Key] = o.values[d.Key]
		case d.Allows(o.config.seed[d.Key]):
			next[d.Key] = o.config.seed[d.Key]
		default:
			next[d.Key] = d.DefaultValue()
		}
	}
	o.defs, o.order = byKey, order
	o.values = next
	o.categories = append([]entities.OptionCategory(nil), categories...)
	return nil
}

// Variable returns the current value of key.
func (o *MemoryOptions) Variable(key string) (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	v, ok := o.values[key]
	return v, ok
}

// Updated reports and clears the update flag.
func (o *MemoryOptions) Updated() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	u := o.updated
	o.updated = false
	return u
}

// SetVariable changes a defined key to one of its allowed values.
func (o *MemoryOptions) SetVariable(key, value string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	d, ok := o.defs[key]
	if !ok || !d.Allows(value) {
		return false
	}
	if o.values[key] != value {
		o.values[key] = value
		o.updated = true
	}
	return true
}

// SetVisible marks key shown or hidden.
func (o *MemoryOptions) SetVisible(key string, visible bool) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.defs[key]; !ok {
		return false
	}
	if visible {
		delete(o.hidden, key)
	} else {
		o.hidden[key] = true
	}
	return true
}

// Visible reports whether key is shown.
func (o *MemoryOptions) Visible(key string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return !o.hidden[key]
}

func (o *MemoryOptions) SetUpdateDisplayCallback(callback uintptr) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.display = callback
	return true
}

// UpdateDisplayCallback returns the core's visibility refresh callback.
func (o *MemoryOptions) UpdateDisplayCallback() uintptr {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.display
}

// Definitions returns the defined options in the order the core gave them.
func (o *MemoryOptions) Definitions() []entities.OptionDefinition {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]entities.OptionDefinition, 0, len(o.order))
	for _, k := range o.order {
		out = append(out, o.defs[k])
	}
	return out
}

// Categories returns the v2 categories.
func (o *MemoryOptions) Categories() []entities.OptionCategory {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]entities.OptionCategory(nil), o.categories...)
}

// Variables returns every key with its current value, sorted by key.
func (o *MemoryOptions) Variables() []entities.Variable {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]entities.Variable, 0, len(o.values))
	for k, v := range o.values {
		out = append(out, entities.Variable{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
