package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up         key.Binding
	down       key.Binding
	nextType   key.Binding
	prevType   key.Binding
	enter      key.Binding
	esc        key.Binding
	tab        key.Binding
	quit       key.Binding
	newItem    key.Binding
	edit       key.Binding
	delete     key.Binding
	sync       key.Binding
	cancel     key.Binding
	conflicts  key.Binding
	failures   key.Binding
	export     key.Binding
	version    key.Binding
	keepLocal  key.Binding
	keepRemote key.Binding
	allLocal   key.Binding
	allRemote  key.Binding
	dismiss    key.Binding
	yes        key.Binding
	no         key.Binding
}

var keys = keyMap{
	up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	nextType:   key.NewBinding(key.WithKeys("right", "tab"), key.WithHelp("tab", "next type")),
	prevType:   key.NewBinding(key.WithKeys("left", "shift+tab"), key.WithHelp("shift+tab", "prev type")),
	enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
	esc:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	tab:        key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	newItem:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	sync:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sync now")),
	cancel:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "cancel sync")),
	conflicts:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "conflicts")),
	failures:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "failures")),
	export:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy export")),
	version:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "version")),
	keepLocal:  key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "keep local")),
	keepRemote: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "keep remote")),
	allLocal:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "all local")),
	allRemote:  key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "all remote")),
	dismiss:    key.NewBinding(key.WithKeys("enter", "x"), key.WithHelp("enter", "dismiss")),
	yes:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
	no:         key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
}

func listHelp() []key.Binding {
	return []key.Binding{keys.nextType, keys.newItem, keys.edit, keys.delete, keys.sync, keys.cancel, keys.conflicts, keys.failures, keys.export, keys.quit}
}

func conflictHelp() []key.Binding {
	return []key.Binding{keys.up, keys.down, keys.keepLocal, keys.keepRemote, keys.allLocal, keys.allRemote, keys.esc}
}

func failureHelp() []key.Binding {
	return []key.Binding{keys.up, keys.down, keys.dismiss, keys.esc}
}

func editorHelp() []key.Binding {
	return []key.Binding{keys.tab, keys.enter, keys.esc}
}
