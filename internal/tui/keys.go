package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Prev      key.Binding
	Next      key.Binding
	Open      key.Binding
	Back      key.Binding
	Mine      key.Binding
	Status    key.Binding
	Priority  key.Binding
	Clear     key.Binding
	Advance   key.Binding
	Add       key.Binding
	Delete    key.Binding
	Search    key.Binding
	SortField key.Binding
	SortDir   key.Binding
	Dashboard key.Binding
	Reload    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Prev:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev page")),
		Next:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next page")),
		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:      key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Mine:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "my issues")),
		Status:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status filter")),
		Priority:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "priority filter")),
		Clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
		Advance:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "advance status")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Delete:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		SortField: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sort field")),
		SortDir:   key.NewBinding(key.WithKeys("O"), key.WithHelp("O", "flip sort")),
		Dashboard: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dashboard")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Open, k.Back, k.Search, k.Add, k.Delete, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Prev, k.Next},
		{k.Open, k.Back, k.Mine, k.Dashboard},
		{k.Status, k.Priority, k.Clear, k.Advance},
		{k.Search, k.SortField, k.SortDir, k.Reload},
		{k.Add, k.Delete, k.Help, k.Quit},
	}
}
