package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/tasklist/internal/client"
	"github.com/ahmetcoskunkizilkaya/tasklist/internal/client/clienttest"
	tea "github.com/charmbracelet/bubbletea"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and runs the resulting command, feeding its message back.
func press(t *testing.T, m Model, k string) Model {
	t.Helper()
	next, cmd := m.Update(key(k))
	m = next.(Model)
	if cmd == nil {
		return m
	}
	next, _ = m.Update(cmd())
	return next.(Model)
}

func newTaskModel(t *testing.T, texts ...string) (Model, *clienttest.Server) {
	t.Helper()
	srv := clienttest.NewServer(t, texts...)
	session := client.NewSession(srv.API(), clienttest.LoggedIn(client.NewMemoryStorage()))
	m := New(session, client.NewUndo(session))
	next, _ := m.Update(m.refreshCmd()())
	return next.(Model), srv
}

func TestLoginFlow(t *testing.T) {
	srv := clienttest.NewServer(t, "buy milk")
	session := client.NewSession(srv.API(), client.NewMemoryStorage())
	m := New(session, client.NewUndo(session))

	if !strings.Contains(m.View(), "Log in or create an account") {
		t.Fatal("logged-out model does not show the login view")
	}

	m.username.SetValue("alice")
	m.password.SetValue(clienttest.Password)
	m = press(t, m, "enter")

	if session.Mode() != client.LoggedIn {
		t.Fatalf("mode after login = %v, errText %q", session.Mode(), m.errText)
	}
	view := m.View()
	if !strings.Contains(view, "1 task to do") || !strings.Contains(view, "buy milk") {
		t.Errorf("task view missing list:\n%s", view)
	}
	if !strings.Contains(view, "0 tasks done") {
		t.Errorf("task view missing done counter:\n%s", view)
	}
}

func TestLoginShowsValidationError(t *testing.T) {
	srv := clienttest.NewServer(t)
	session := client.NewSession(srv.API(), client.NewMemoryStorage())
	m := New(session, client.NewUndo(session))

	m.username.SetValue("al")
	m.password.SetValue(clienttest.Password)
	m = press(t, m, "ctrl+r")

	if !strings.Contains(m.View(), "username must be at least 3 characters") {
		t.Errorf("validation error not shown:\n%s", m.View())
	}
}

func TestToggleMovesTask(t *testing.T) {
	m, _ := newTaskModel(t, "walk dog")

	m = press(t, m, "space")

	view := m.View()
	if !strings.Contains(view, "0 tasks to do") || !strings.Contains(view, "1 task done") {
		t.Errorf("toggle did not move the task:\n%s", view)
	}
}

func TestEditRenamesTask(t *testing.T) {
	m, srv := newTaskModel(t, "walk dog")

	next, _ := m.Update(key("e"))
	m = next.(Model)
	if m.input.Value() != "walk dog" {
		t.Fatalf("edit input = %q, want current text", m.input.Value())
	}
	if !strings.Contains(m.View(), "Rename") {
		t.Errorf("rename prompt missing:\n%s", m.View())
	}

	m.input.SetValue("  walk the dog ")
	m = press(t, m, "enter")

	if got := srv.Tasks(); len(got) != 1 || got[0].Text != "walk the dog" {
		t.Fatalf("server tasks = %+v, want renamed", got)
	}
	if !strings.Contains(m.View(), "walk the dog") || m.adding || m.editingID != "" {
		t.Errorf("view after rename:\n%s", m.View())
	}
}

func TestEditCancel(t *testing.T) {
	m, srv := newTaskModel(t, "keep me")

	next, _ := m.Update(key("e"))
	m = next.(Model)
	m.input.SetValue("changed")
	m = press(t, m, "esc")

	if got := srv.Tasks(); got[0].Text != "keep me" {
		t.Errorf("cancelled edit reached the server: %+v", got)
	}
	if m.adding || m.editingID != "" {
		t.Error("edit mode still active after esc")
	}
}

func TestDeleteAndUndo(t *testing.T) {
	m, srv := newTaskModel(t, "call mom")
	start := time.Now()
	m.now = func() time.Time { return start }

	m = press(t, m, "d")
	if !strings.Contains(m.View(), `Delete "call mom"? (y/n)`) {
		t.Fatalf("delete confirmation missing:\n%s", m.View())
	}

	next, cmd := m.Update(key("y"))
	m = next.(Model)
	next, tick := m.Update(cmd())
	m = next.(Model)
	if tick == nil {
		t.Fatal("delete did not schedule the prompt timeout")
	}
	if !strings.Contains(m.View(), "Press u to undo") {
		t.Fatalf("undo prompt missing:\n%s", m.View())
	}

	m.now = func() time.Time { return start.Add(6 * time.Second) }
	next, _ = m.Update(undoTickMsg{})
	m = next.(Model)
	if strings.Contains(m.View(), "Press u to undo") {
		t.Error("undo prompt still shown after the window")
	}

	m = press(t, m, "u")
	if !strings.Contains(m.View(), "call mom") {
		t.Errorf("restored task missing:\n%s", m.View())
	}
	if n := len(srv.Tasks()); n != 1 {
		t.Errorf("server has %d tasks, want 1", n)
	}
}

func TestDeclineDelete(t *testing.T) {
	m, srv := newTaskModel(t, "keep")

	m = press(t, m, "d")
	m = press(t, m, "n")

	if len(srv.Tasks()) != 1 {
		t.Error("declined delete removed the task")
	}
}

func TestSessionExpiredReturnsToLogin(t *testing.T) {
	m, srv := newTaskModel(t, "anything")
	srv.Expire()

	m = press(t, m, "r")
	view := m.View()
	if !strings.Contains(view, "Log in or create an account") {
		t.Fatalf("expired session did not return to login:\n%s", view)
	}
	if !strings.Contains(view, "Your session has expired") {
		t.Errorf("session-expired notice missing:\n%s", view)
	}
}

func TestBusyIgnoresKeys(t *testing.T) {
	m, _ := newTaskModel(t, "slow")
	m.busy = true

	next, cmd := m.Update(key("d"))
	if cmd != nil || next.(Model).confirm != confirmNone {
		t.Error("key handled while busy")
	}
}

func TestCountLabel(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 tasks to do"},
		{1, "1 task to do"},
		{3, "3 tasks to do"},
	}
	for _, tt := range tests {
		if got := countLabel(tt.n, "to do"); got != tt.want {
			t.Errorf("countLabel(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
