// Package keys describes key bindings and renders them as help text.
package keys

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/macropower/mdpkm/pkg/ui/theme"
)

var ErrDuplicate = errors.New("duplicate key binding")

// Key is a keyboard key as reported by bubbletea, with an optional display
// alias.
type Key struct {
	Code   string
	Alias  string
	Hidden bool
}

type KeyOpt func(k *Key)

func New(code string, opts ...KeyOpt) Key {
	k := &Key{Code: code}
	for _, opt := range opts {
		opt(k)
	}

	return *k
}

func WithAlias(alias string) KeyOpt {
	return func(k *Key) {
		k.Alias = alias
	}
}

// Hidden keeps the key out of help text.
func Hidden() KeyOpt {
	return func(k *Key) {
		k.Hidden = true
	}
}

func (k Key) String() string {
	if k.Alias != "" {
		return k.Alias
	}

	return k.Code
}

// KeyBind is a set of keys that trigger one action.
type KeyBind struct {
	Description string
	Keys        []Key
}

func NewBind(description string, keys ...Key) KeyBind {
	return KeyBind{
		Description: description,
		Keys:        keys,
	}
}

// String joins the visible keys with "/".
func (kb KeyBind) String() string {
	var ks []string
	for _, k := range kb.Keys {
		if !k.Hidden {
			ks = append(ks, k.String())
		}
	}

	return strings.Join(ks, "/")
}

// Match reports whether key triggers the binding.
func (kb KeyBind) Match(key string) bool {
	return slices.ContainsFunc(kb.Keys, func(k Key) bool {
		return k.Code == key
	})
}

// IsTextInputAction reports whether key should be forwarded to a focused
// text input rather than handled as a command.
func IsTextInputAction(key string) bool {
	return !slices.Contains([]string{
		"esc", "enter", "up", "down", "pgup", "pgdown", "tab", "shift+tab", "ctrl+c",
	}, key)
}

// ValidateBinds rejects a key code bound more than once.
func ValidateBinds(kbs ...KeyBind) error {
	var errs []error

	seen := map[string]string{}
	for _, kb := range kbs {
		for _, k := range kb.Keys {
			if prev, ok := seen[k.Code]; ok {
				errs = append(errs, fmt.Errorf("%w: %q used by %q and %q", ErrDuplicate, k.Code, prev, kb.Description))
				continue
			}

			seen[k.Code] = kb.Description
		}
	}

	return errors.Join(errs...)
}

// ShortHelp renders bindings on one line, e.g. "←/h prev • →/l next",
// truncated to width. A width of zero or less disables truncation.
func ShortHelp(width int, kbs ...KeyBind) string {
	var parts []string
	for _, kb := range kbs {
		if ks := kb.String(); ks != "" {
			parts = append(parts, ks+" "+kb.Description)
		}
	}

	out := strings.Join(parts, " • ")
	if width <= 0 || ansi.PrintableRuneWidth(out) <= width {
		return out
	}

	return truncate.StringWithTail(out, uint(width), theme.Ellipsis) //nolint:gosec // Width is positive.
}
