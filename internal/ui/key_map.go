package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	enter  key.Binding
	search key.Binding
	back   key.Binding
	create key.Binding
	edit   key.Binding
	copy   key.Binding
	next   key.Binding
	prev   key.Binding
	save   key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		create: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		copy:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
		next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
		save:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.search, k.create, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.search, k.back},
		{k.create, k.edit, k.copy},
		{k.next, k.prev, k.save},
		{k.quit},
	}
}
