// Package tui is the interactive gallery. It is a thin view over the catalog
// reconciler; every mutation goes through the reconciler so the gallery and
// the one-shot commands can never disagree about state.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jjalhub/jjal-cli/internal/catalog"
	"github.com/jjalhub/jjal-cli/internal/models"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	likedMark   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render("♥")
	savedMark   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render("★")
)

type memeItem struct {
	meme models.Meme
}

func (i memeItem) Title() string {
	marks := ""
	if i.meme.IsFavorite {
		marks += " " + likedMark
	}
	if i.meme.IsSaved {
		marks += " " + savedMark
	}
	return i.meme.Title + marks
}

func (i memeItem) Description() string {
	tags := make([]string, 0, len(i.meme.Tags))
	for _, t := range i.meme.Tags {
		tags = append(tags, string(t))
	}
	return fmt.Sprintf("%s · %s · %d likes", i.meme.Category, strings.Join(tags, " "), i.meme.Likes)
}

func (i memeItem) FilterValue() string {
	parts := []string{i.meme.Title, i.meme.Quote}
	for _, t := range i.meme.Tags {
		parts = append(parts, string(t))
	}
	return strings.Join(parts, " ")
}

type keyMap struct {
	Like   key.Binding
	Save   key.Binding
	Delete key.Binding
	Reload key.Binding
	Quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Like:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "like")),
		Save:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
	}
}

type model struct {
	rec      *catalog.Reconciler
	identity catalog.Identity
	list     list.Model
	keys     keyMap
	status   string

	// pendingDelete holds the id awaiting its confirmation keypress.
	// Deletion is the one irreversible action, so it never fires on a
	// single key.
	pendingDelete string
}

type loadedMsg struct {
	memes []models.Meme
	err   error
}

func newModel(rec *catalog.Reconciler, identity catalog.Identity) model {
	keys := newKeyMap()

	delegate := list.NewDefaultDelegate()
	l := list.New(nil, delegate, 0, 0)
	l.Title = "jjal gallery"
	l.Styles.Title = titleStyle
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Like, keys.Save, keys.Delete, keys.Reload}
	}

	return model{rec: rec, identity: identity, list: l, keys: keys}
}

func (m model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		memes, err := m.rec.Load(context.Background())
		return loadedMsg{memes: memes, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-1)
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("load failed: %v", msg.err)
		}
		m.setItems(msg.memes)
		return m, nil

	case tea.KeyMsg:
		// while the filter input is focused, keystrokes belong to it
		if m.list.FilterState() == list.Filtering {
			break
		}
		if m.pendingDelete != "" {
			return m.resolveDelete(msg), nil
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reload):
			m.status = "reloading..."
			return m, m.loadCmd()
		case key.Matches(msg, m.keys.Like):
			return m.toggleLike(), nil
		case key.Matches(msg, m.keys.Save):
			return m.toggleSave(), nil
		case key.Matches(msg, m.keys.Delete):
			return m.requestDelete(), nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) selected() (models.Meme, bool) {
	item, ok := m.list.SelectedItem().(memeItem)
	if !ok {
		return models.Meme{}, false
	}
	return item.meme, true
}

func (m model) toggleLike() model {
	meme, ok := m.selected()
	if !ok {
		return m
	}
	updated, err := m.rec.ToggleLike(meme.ID)
	if err != nil {
		m.status = err.Error()
		return m
	}
	m.list.SetItem(m.list.Index(), memeItem{meme: updated})
	if updated.IsFavorite {
		m.status = fmt.Sprintf("liked %q", updated.Title)
	} else {
		m.status = fmt.Sprintf("unliked %q", updated.Title)
	}
	return m
}

func (m model) toggleSave() model {
	meme, ok := m.selected()
	if !ok {
		return m
	}
	updated, removed, err := m.rec.ToggleSave(meme.ID)
	if err != nil {
		m.status = err.Error()
		return m
	}
	if removed {
		m.list.RemoveItem(m.list.Index())
		m.status = fmt.Sprintf("removed %q from your collection", updated.Title)
		return m
	}
	m.list.SetItem(m.list.Index(), memeItem{meme: updated})
	if updated.IsSaved {
		m.status = fmt.Sprintf("saved %q", updated.Title)
	} else {
		m.status = fmt.Sprintf("removed %q from your collection", updated.Title)
	}
	return m
}

// requestDelete arms the confirmation; the delete itself only happens in
// resolveDelete on an explicit "y".
func (m model) requestDelete() model {
	meme, ok := m.selected()
	if !ok {
		return m
	}
	m.pendingDelete = meme.ID
	m.status = fmt.Sprintf("delete %q? press y to confirm, any other key to cancel", meme.Title)
	return m
}

func (m model) resolveDelete(msg tea.KeyMsg) model {
	id := m.pendingDelete
	m.pendingDelete = ""

	meme, ok := m.selected()
	if msg.String() != "y" || !ok || meme.ID != id {
		m.status = "delete cancelled"
		return m
	}
	if err := m.rec.Delete(context.Background(), id, m.identity); err != nil {
		m.status = err.Error()
		return m
	}
	m.status = fmt.Sprintf("deleted %q", meme.Title)
	m.setItems(m.rec.Memes())
	return m
}

func (m *model) setItems(memes []models.Meme) {
	items := make([]list.Item, 0, len(memes))
	for _, meme := range memes {
		items = append(items, memeItem{meme: meme})
	}
	m.list.SetItems(items)
}

func (m model) View() string {
	view := m.list.View()
	if m.status != "" {
		view += "\n" + statusStyle.Render(m.status)
	}
	return view
}

// Run starts the gallery over an already constructed reconciler and blocks
// until the user quits.
func Run(rec *catalog.Reconciler, identity catalog.Identity) error {
	p := tea.NewProgram(newModel(rec, identity), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
