package tui

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/tasklist/internal/client"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) authCmd(register bool) tea.Cmd {
	session := m.session
	username, password := m.username.Value(), m.password.Value()
	return func() tea.Msg {
		ctx := context.Background()
		if register {
			return authDoneMsg{err: session.Register(ctx, username, password)}
		}
		return authDoneMsg{err: session.Login(ctx, username, password)}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		return opDoneMsg{err: session.Refresh(context.Background())}
	}
}

func (m Model) addCmd(text string) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		return opDoneMsg{err: session.AddTask(context.Background(), text)}
	}
}

func (m Model) renameCmd(id, text string) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		return opDoneMsg{err: session.Rename(context.Background(), id, text)}
	}
}

func (m Model) toggleCmd(id string) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		return opDoneMsg{err: session.Toggle(context.Background(), id)}
	}
}

func (m Model) deleteCmd(id string) tea.Cmd {
	undo := m.undo
	return func() tea.Msg {
		return deleteDoneMsg{err: undo.Delete(context.Background(), id)}
	}
}

func (m Model) restoreCmd() tea.Cmd {
	undo := m.undo
	return func() tea.Msg {
		return restoreDoneMsg{err: undo.Restore(context.Background())}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		return logoutDoneMsg{err: session.Logout()}
	}
}

// describe turns an error into the line shown to the user.
func describe(err error) string {
	switch client.KindOf(err) {
	case client.KindTransport:
		return "Cannot reach the server. Check your connection and try again."
	case client.KindServer:
		return "Something went wrong on the server. Please try again."
	default:
		return err.Error()
	}
}
