package tui

import (
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/tasklist/internal/client"
)

func (m Model) View() string {
	if m.session.Mode() == client.LoggedOut {
		return styleBox.Render(m.loginView())
	}
	return styleBox.Render(m.tasksView())
}

func (m Model) loginView() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Tasks"))
	b.WriteString("\n")
	b.WriteString(styleMuted.Render("Log in or create an account"))
	b.WriteString("\n\n")
	b.WriteString("Username  " + m.username.View() + "\n")
	b.WriteString("Password  " + m.password.View() + "\n\n")

	switch {
	case m.busy:
		b.WriteString(styleMuted.Render("Working...") + "\n")
	case m.errText != "":
		b.WriteString(styleError.Render(m.errText) + "\n")
	case m.notice != "":
		b.WriteString(styleNotice.Render(m.notice) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(styleMuted.Render("enter: log in   ctrl+r: register   tab: switch field   ctrl+c: quit"))
	return b.String()
}

func (m Model) tasksView() string {
	snap := m.session.State().Snapshot()

	var b strings.Builder
	title := "Tasks"
	if snap.User != nil {
		title += " · " + snap.User.Username
	}
	b.WriteString(styleTitle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(styleHeading.Render(countLabel(len(snap.Pending), "to do")))
	b.WriteString("\n")
	if len(snap.Pending) == 0 {
		b.WriteString(styleMuted.Render("  Nothing to do. Press a to add a task.") + "\n")
	}
	for i, t := range snap.Pending {
		b.WriteString(m.renderRow(i, t) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(styleHeading.Render(countLabel(len(snap.Completed), "done")))
	b.WriteString("\n")
	if len(snap.Completed) == 0 {
		b.WriteString(styleMuted.Render("  No completed tasks yet.") + "\n")
	}
	for i, t := range snap.Completed {
		b.WriteString(m.renderRow(len(snap.Pending)+i, t) + "\n")
	}
	b.WriteString("\n")

	if m.adding {
		label := "New task  "
		if m.editingID != "" {
			label = "Rename    "
		}
		b.WriteString(label + m.input.View() + "\n")
		b.WriteString(styleMuted.Render("enter: save   esc: cancel") + "\n")
	}

	switch m.confirm {
	case confirmDelete:
		if t, ok := m.session.State().Find(m.confirmID); ok {
			b.WriteString(styleNotice.Render(fmt.Sprintf("Delete %q? (y/n)", t.Text)) + "\n")
		}
	case confirmLogout:
		b.WriteString(styleNotice.Render("Log out? (y/n)") + "\n")
	}

	if m.undoVisible && snap.Undo != nil {
		b.WriteString(styleNotice.Render(fmt.Sprintf("Deleted %q. Press u to undo.", snap.Undo.Text)) + "\n")
	}

	switch {
	case m.busy:
		b.WriteString(styleMuted.Render("Working...") + "\n")
	case m.errText != "":
		b.WriteString(styleError.Render(m.errText) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(styleMuted.Render("a: add   e: edit   space: toggle   d: delete   u: undo   r: refresh   L: log out   q: quit"))
	return b.String()
}

func (m Model) renderRow(index int, t client.Task) string {
	box := "[ ]"
	text := t.Text
	if t.Completed {
		box = "[x]"
		text = styleDone.Render(text)
	}
	line := fmt.Sprintf("%s %s", box, text)
	if index == m.cursor {
		return styleSelected.Render("> " + line)
	}
	return "  " + line
}

func countLabel(n int, suffix string) string {
	if n == 1 {
		return fmt.Sprintf("1 task %s", suffix)
	}
	return fmt.Sprintf("%d tasks %s", n, suffix)
}
