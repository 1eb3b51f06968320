package tui

import "charm.land/bubbles/v2/key"

// keyMap represents key map data used by this package.
type keyMap struct {
	quit           key.Binding
	reload         key.Binding
	toggleHelp     key.Binding
	moveLeft       key.Binding
	moveRight      key.Binding
	moveUp         key.Binding
	moveDown       key.Binding
	moveIssueLeft  key.Binding
	moveIssueRight key.Binding
	newIssue       key.Binding
	editIssue      key.Binding
	deleteIssue    key.Binding
	issueDetail    key.Binding
	search         key.Binding
	stateFilter    key.Binding
	assigneeFilter key.Binding
	labelFilter    key.Binding
	loadMore       key.Binding
	timeline       key.Binding
	copyURL        key.Binding
	language       key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		reload:         key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		toggleHelp:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		moveLeft:       key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "column left")),
		moveRight:      key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "column right")),
		moveUp:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "issue up")),
		moveDown:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "issue down")),
		moveIssueLeft:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "move issue left")),
		moveIssueRight: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "move issue right")),
		newIssue:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new issue")),
		editIssue:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit issue")),
		deleteIssue:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete issue")),
		issueDetail:    key.NewBinding(key.WithKeys("i", "enter"), key.WithHelp("i/enter", "issue detail")),
		search:         key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		stateFilter:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle state filter")),
		assigneeFilter: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "cycle assignee filter")),
		labelFilter:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "label filter")),
		loadMore:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "load more")),
		timeline:       key.NewBinding(key.WithKeys("g", "tab"), key.WithHelp("g", "board/timeline")),
		copyURL:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy issue url")),
		language:       key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "toggle language")),
	}
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.newIssue, k.issueDetail, k.moveIssueLeft, k.moveIssueRight, k.search, k.timeline, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.newIssue, k.editIssue, k.deleteIssue, k.issueDetail, k.copyURL, k.toggleHelp, k.reload, k.quit},
		{k.moveLeft, k.moveRight, k.moveUp, k.moveDown, k.moveIssueLeft, k.moveIssueRight, k.loadMore},
		{k.search, k.stateFilter, k.assigneeFilter, k.labelFilter, k.timeline, k.language},
	}
}
