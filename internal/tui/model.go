package tui

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/tasklist/internal/client"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDelete
	confirmLogout
)

const (
	focusUsername = iota
	focusPassword
)

// Model is the Bubble Tea model for both the login and the task views.
// Which one is shown follows the session mode.
type Model struct {
	session *client.Session
	undo    *client.Undo
	now     func() time.Time

	username textinput.Model
	password textinput.Model
	focus    int

	input     textinput.Model
	adding    bool
	editingID string // set while the input renames a task instead of adding one

	cursor    int
	confirm   confirmKind
	confirmID string

	busy        bool
	errText     string
	notice      string
	undoVisible bool

	width int
}

// Results of asynchronous calls.
type (
	authDoneMsg    struct{ err error }
	opDoneMsg      struct{ err error }
	deleteDoneMsg  struct{ err error }
	restoreDoneMsg struct{ err error }
	logoutDoneMsg  struct{ err error }
	undoTickMsg    struct{}
)

func New(session *client.Session, undo *client.Undo) Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	input := textinput.New()
	input.Placeholder = "What needs to be done?"
	input.CharLimit = 500

	m := Model{
		session:  session,
		undo:     undo,
		now:      time.Now,
		username: username,
		password: password,
		input:    input,
	}
	if session.Mode() == client.LoggedIn {
		m.busy = true
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.session.Mode() == client.LoggedIn {
		return tea.Batch(textinput.Blink, m.refreshCmd())
	}
	return textinput.Blink
}

// rows is the pending list followed by the completed list.
func rows(snap client.Snapshot) []client.Task {
	out := make([]client.Task, 0, len(snap.Pending)+len(snap.Completed))
	out = append(out, snap.Pending...)
	return append(out, snap.Completed...)
}

func (m Model) selected() (client.Task, bool) {
	all := rows(m.session.State().Snapshot())
	if m.cursor < 0 || m.cursor >= len(all) {
		return client.Task{}, false
	}
	return all[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(rows(m.session.State().Snapshot()))
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
