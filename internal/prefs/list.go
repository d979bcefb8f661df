package prefs

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownValue is returned when a value outside a preference's choices
// is stored.
var ErrUnknownValue = errors.New("value is not one of the choices")

// ChangeListener is consulted before a new value is stored. Returning
// false vetoes the change.
type ChangeListener func(key, value string) bool

// Choices describes the options of a list preference. Values, Labels and
// Captions are parallel; Labels and Captions may be nil.
type Choices struct {
	Title    string
	Caption  string
	Default  string
	Values   []string
	Labels   []string
	Captions []string
}

// ListPreference is a preference whose value is one of a fixed set of
// choices.
type ListPreference struct {
	key      string
	store    Store
	choices  Choices
	listener ChangeListener
}

// NewListPreference binds key in store to choices.
func NewListPreference(key string, store Store, choices Choices) *ListPreference {
	return &ListPreference{key: key, store: store, choices: choices}
}

// SetChangeListener installs l. A nil listener accepts every change.
func (p *ListPreference) SetChangeListener(l ChangeListener) {
	p.listener = l
}

// Key returns the preference key.
func (p *ListPreference) Key() string { return p.key }

// Choices returns the configured choices.
func (p *ListPreference) Choices() Choices { return p.choices }

// Value returns the stored value. When nothing is stored it returns
// Choices.Default, as if the default had been persisted when the
// preference was first bound. Without a default nothing is reported, and
// a dialog over the preference checks no row.
func (p *ListPreference) Value() (string, bool) {
	if v, ok := p.store.Get(p.key); ok {
		return v, true
	}
	if p.choices.Default != "" {
		return p.choices.Default, true
	}
	return "", false
}

// CallChangeListener reports whether value may be stored.
func (p *ListPreference) CallChangeListener(value string) bool {
	if p.listener == nil {
		return true
	}
	return p.listener(p.key, value)
}

// SetValue stores value. When choices are configured the value must be
// one of them.
func (p *ListPreference) SetValue(value string) error {
	if len(p.choices.Values) > 0 && !slices.Contains(p.choices.Values, value) {
		return fmt.Errorf("%w: %s=%q", ErrUnknownValue, p.key, value)
	}
	return p.store.Set(p.key, value)
}

// Label returns the label shown for value, or value itself.
func (p *ListPreference) Label(value string) string {
	i := slices.Index(p.choices.Values, value)
	if i < 0 || i >= len(p.choices.Labels) {
		return value
	}
	return p.choices.Labels[i]
}
