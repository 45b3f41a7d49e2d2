package ui

import (
	"github.com/macropower/mdpkm/pkg/keys"
	"github.com/macropower/mdpkm/pkg/ui/pagebar"
)

type KeyBinds struct {
	Page     *pagebar.KeyBinds
	Quit     keys.KeyBind
	Query    keys.KeyBind
	Filter   keys.KeyBind
	Up       keys.KeyBind
	Down     keys.KeyBind
	Category keys.KeyBind
	Platform keys.KeyBind
	Copy     keys.KeyBind
	Retry    keys.KeyBind
	Help     keys.KeyBind
}

func DefaultKeyBinds() *KeyBinds {
	return &KeyBinds{
		Page:     pagebar.DefaultKeyBinds(),
		Quit:     keys.NewBind("quit", keys.New("q"), keys.New("ctrl+c", keys.Hidden())),
		Query:    keys.NewBind("search", keys.New("/"), keys.New("tab", keys.Hidden())),
		Filter:   keys.NewBind("filter page", keys.New("f")),
		Up:       keys.NewBind("up", keys.New("up", keys.WithAlias("↑")), keys.New("k")),
		Down:     keys.NewBind("down", keys.New("down", keys.WithAlias("↓")), keys.New("j")),
		Category: keys.NewBind("category", keys.New("c")),
		Platform: keys.NewBind("platform", keys.New("p")),
		Copy:     keys.NewBind("copy url", keys.New("y")),
		Retry:    keys.NewBind("retry", keys.New("r")),
		Help:     keys.NewBind("help", keys.New("?")),
	}
}

// Binds returns every binding, for validation and help.
func (kb *KeyBinds) Binds() []keys.KeyBind {
	return append([]keys.KeyBind{
		kb.Quit, kb.Query, kb.Filter, kb.Up, kb.Down,
		kb.Category, kb.Platform, kb.Copy, kb.Retry, kb.Help,
	}, kb.Page.Binds()...)
}

func (kb *KeyBinds) shortHelp() []keys.KeyBind {
	return []keys.KeyBind{kb.Page.Prev, kb.Page.Next, kb.Query, kb.Category, kb.Platform, kb.Help, kb.Quit}
}
