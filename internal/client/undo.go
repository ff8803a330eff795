package client

import (
	"context"
	"time"
)

// PromptWindow is how long the undo prompt stays on screen. Restoring still
// works after it disappears, as long as the buffer holds a snapshot.
const PromptWindow = 5 * time.Second

// Undo remembers the most recently deleted task so it can be re-created.
// A second delete replaces the earlier snapshot.
type Undo struct {
	session *Session
	now     func() time.Time
}

func NewUndo(session *Session) *Undo {
	return &Undo{session: session, now: time.Now}
}

// Delete removes the task and, on success, snapshots it for restore. A task
// missing from the local lists cannot be snapshotted, so its delete empties
// the buffer instead of leaving an older snapshot behind.
func (u *Undo) Delete(ctx context.Context, id string) error {
	task, known := u.session.state.Find(id)
	err := u.session.withToken(func(token string) error {
		return u.session.api.DeleteTask(ctx, token, id)
	})
	if err != nil {
		return err
	}
	if known {
		u.remember(task)
	} else {
		u.session.state.clearUndo()
	}
	return u.session.Refresh(ctx)
}

func (u *Undo) remember(task Task) {
	u.session.state.setUndo(UndoEntry{
		Text:      task.Text,
		Completed: task.Completed,
		DeletedAt: u.now(),
	})
}

// Pending returns the buffered snapshot, if any.
func (u *Undo) Pending() (UndoEntry, bool) {
	return u.session.state.Undo()
}

// PromptVisible reports whether the undo prompt should still be shown.
func (u *Undo) PromptVisible(now time.Time) bool {
	entry, ok := u.Pending()
	return ok && now.Before(entry.DeletedAt.Add(PromptWindow))
}

// Restore re-creates the buffered task with its text and completed flag.
// The buffer is cleared only when the server accepted the task.
func (u *Undo) Restore(ctx context.Context) error {
	if !u.session.state.LoggedIn() {
		return ErrNotLoggedIn
	}
	entry, ok := u.Pending()
	if !ok {
		return ErrNothingToUndo
	}

	completed := entry.Completed
	err := u.session.withToken(func(token string) error {
		_, err := u.session.api.CreateTask(ctx, token, entry.Text, &completed)
		return err
	})
	if err != nil {
		return err
	}
	u.session.state.clearUndo()
	return u.session.Refresh(ctx)
}
