package main

import (
	"context"
	"fmt"
	"strings"

	"command-api/entities"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Search and manage commands interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := tea.NewProgram(newBrowser(apiClient()), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

// commandStore is the part of the API client the browser needs.
type commandStore interface {
	List(ctx context.Context) ([]entities.Command, error)
	Delete(ctx context.Context, id uint) error
}

type commandsLoadedMsg []entities.Command
type commandDeletedMsg struct{ id uint }
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

type browser struct {
	store    commandStore
	commands []entities.Command
	filtered []entities.Command
	search   textinput.Model
	cursor   int
	detail   bool
	message  string
	quitting bool
}

func newBrowser(store commandStore) browser {
	search := textinput.New()
	search.Placeholder = "Search commands..."
	search.Prompt = "> "
	search.Focus()

	return browser{store: store, search: search}
}

func (m browser) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, loadCommands(m.store))
}

func loadCommands(store commandStore) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		cmds, err := store.List(ctx)
		if err != nil {
			return errMsg{fmt.Errorf("failed to load commands: %w", err)}
		}
		return commandsLoadedMsg(cmds)
	}
}

func deleteCommand(store commandStore, id uint) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		if err := store.Delete(ctx, id); err != nil {
			return errMsg{fmt.Errorf("failed to delete command %d: %w", id, err)}
		}
		return commandDeletedMsg{id: id}
	}
}

// commandSource lets fuzzy match over every text field at once.
type commandSource []entities.Command

func (s commandSource) String(i int) string {
	return s[i].HowTo + " " + s[i].Platform + " " + s[i].CommandLine
}

func (s commandSource) Len() int { return len(s) }

func filterCommands(cmds []entities.Command, query string) []entities.Command {
	query = strings.TrimSpace(query)
	if query == "" {
		return cmds
	}
	matches := fuzzy.FindFrom(query, commandSource(cmds))
	out := make([]entities.Command, 0, len(matches))
	for _, match := range matches {
		out = append(out, cmds[match.Index])
	}
	return out
}

func (m browser) selected() (entities.Command, bool) {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return entities.Command{}, false
	}
	return m.filtered[m.cursor], true
}

func (m browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			if m.detail && msg.String() == "esc" {
				m.detail = false
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit

		case "up", "ctrl+k":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "ctrl+j":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			return m, nil

		case "enter":
			if _, ok := m.selected(); ok {
				m.detail = !m.detail
			}
			return m, nil

		case "ctrl+d":
			if cmd, ok := m.selected(); ok {
				m.message = fmt.Sprintf("Deleting command %d...", cmd.ID)
				return m, deleteCommand(m.store, cmd.ID)
			}
			return m, nil
		}

	case commandsLoadedMsg:
		m.commands = []entities.Command(msg)
		m.refilter()
		return m, nil

	case commandDeletedMsg:
		kept := m.commands[:0:0]
		for _, c := range m.commands {
			if c.ID != msg.id {
				kept = append(kept, c)
			}
		}
		m.commands = kept
		m.detail = false
		m.refilter()
		m.message = successStyle.Render(fmt.Sprintf("✓ Deleted command %d", msg.id))
		return m, nil

	case errMsg:
		m.message = errorStyle.Render("✗ " + msg.Error())
		return m, nil
	}

	var cmd tea.Cmd
	before := m.search.Value()
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		m.refilter()
	}
	return m, cmd
}

func (m *browser) refilter() {
	m.filtered = filterCommands(m.commands, m.search.Value())
	if m.cursor >= len(m.filtered) {
		m.cursor = max(len(m.filtered)-1, 0)
	}
}

func (m browser) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Commander"))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(normalStyle.Render("No matching commands."))
		b.WriteString("\n")
	}
	for i, c := range m.filtered {
		line := fmt.Sprintf("%-4d %-12s %s", c.ID, c.Platform, c.HowTo)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(normalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if cmd, ok := m.selected(); ok && m.detail {
		b.WriteString("\n")
		b.WriteString(renderDetail(cmd))
		b.WriteString("\n")
	}

	if m.message != "" {
		b.WriteString("\n")
		b.WriteString(m.message)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ move • enter details • ctrl+d delete • esc quit"))
	return b.String()
}
