package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/tasklist/internal/client"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(20, msg.Width-8)
		return m, nil

	case authDoneMsg:
		m.busy = false
		m.cursor = 0
		if msg.err != nil {
			m.errText = describe(msg.err)
			return m, nil
		}
		m.errText = ""
		m.notice = ""
		m.username.SetValue("")
		m.password.SetValue("")
		return m, nil

	case opDoneMsg:
		m.busy = false
		m.handleResult(msg.err)
		return m, nil

	case deleteDoneMsg:
		m.busy = false
		m.handleResult(msg.err)
		if !m.undo.PromptVisible(m.now()) {
			return m, nil
		}
		m.undoVisible = true
		return m, tea.Tick(client.PromptWindow, func(time.Time) tea.Msg { return undoTickMsg{} })

	case restoreDoneMsg:
		m.busy = false
		m.handleResult(msg.err)
		if msg.err == nil {
			m.undoVisible = false
		}
		return m, nil

	case logoutDoneMsg:
		m.busy = false
		m.resetTaskView()
		if msg.err != nil {
			m.errText = describe(msg.err)
		}
		return m, m.username.Focus()

	case undoTickMsg:
		m.undoVisible = m.undo.PromptVisible(m.now())
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		if m.session.Mode() == client.LoggedOut {
			return m.updateLogin(msg)
		}
		return m.updateTasks(msg)
	}

	return m.updateInputs(msg)
}

// handleResult applies the outcome of a task call. A rejected session
// returns to the login view with a notice.
func (m *Model) handleResult(err error) {
	m.clampCursor()
	if err == nil {
		m.errText = ""
		return
	}
	if errors.Is(err, client.ErrSessionExpired) {
		m.resetTaskView()
		m.notice = "Your session has expired. Please log in again."
		m.username.Focus()
		return
	}
	m.errText = describe(err)
}

func (m *Model) resetTaskView() {
	m.cursor = 0
	m.confirm = confirmNone
	m.confirmID = ""
	m.undoVisible = false
	m.errText = ""
	m.stopEditing()
}

func (m *Model) stopEditing() {
	m.adding = false
	m.editingID = ""
	m.input.SetValue("")
	m.input.Blur()
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.session.Mode() == client.LoggedIn && m.adding:
		m.input, cmd = m.input.Update(msg)
	case m.focus == focusPassword:
		m.password, cmd = m.password.Update(msg)
	default:
		m.username, cmd = m.username.Update(msg)
	}
	return m, cmd
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		if m.focus == focusUsername {
			m.focus = focusPassword
			m.username.Blur()
			return m, m.password.Focus()
		}
		m.focus = focusUsername
		m.password.Blur()
		return m, m.username.Focus()

	case "enter":
		m.busy = true
		m.notice = ""
		return m, m.authCmd(false)

	case "ctrl+r":
		m.busy = true
		m.notice = ""
		return m, m.authCmd(true)

	case "esc":
		return m, tea.Quit
	}
	return m.updateInputs(msg)
}

func (m Model) updateTasks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.adding {
		switch msg.String() {
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			id := m.editingID
			m.stopEditing()
			if text == "" {
				return m, nil
			}
			m.busy = true
			if id != "" {
				return m, m.renameCmd(id, text)
			}
			return m, m.addCmd(text)
		case "esc":
			m.stopEditing()
			return m, nil
		}
		return m.updateInputs(msg)
	}

	if m.confirm != confirmNone {
		kind, id := m.confirm, m.confirmID
		m.confirm, m.confirmID = confirmNone, ""
		if msg.String() != "y" && msg.String() != "Y" {
			return m, nil
		}
		m.busy = true
		if kind == confirmLogout {
			return m, m.logoutCmd()
		}
		return m, m.deleteCmd(id)
	}

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(rows(m.session.State().Snapshot()))-1 {
			m.cursor++
		}

	case "a":
		m.adding = true
		m.errText = ""
		return m, m.input.Focus()

	case "e":
		if task, ok := m.selected(); ok {
			m.adding = true
			m.editingID = task.ID
			m.errText = ""
			m.input.SetValue(task.Text)
			m.input.CursorEnd()
			return m, m.input.Focus()
		}

	case " ", "space":
		if task, ok := m.selected(); ok {
			m.busy = true
			return m, m.toggleCmd(task.ID)
		}

	case "d":
		if task, ok := m.selected(); ok {
			m.confirm = confirmDelete
			m.confirmID = task.ID
		}

	case "u":
		if _, ok := m.undo.Pending(); ok {
			m.busy = true
			return m, m.restoreCmd()
		}
		m.errText = "Nothing to undo."

	case "r":
		m.busy = true
		return m, m.refreshCmd()

	case "L":
		m.confirm = confirmLogout
	}
	return m, nil
}
