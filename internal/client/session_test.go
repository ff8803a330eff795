package client

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestNewSessionSeeding(t *testing.T) {
	tests := []struct {
		name  string
		token string
		user  string
		want  Mode
	}{
		{name: "both present", token: "tok", user: `{"id":"u1","username":"alice"}`, want: LoggedIn},
		{name: "token only", token: "tok", want: LoggedOut},
		{name: "user only", user: `{"id":"u1","username":"alice"}`, want: LoggedOut},
		{name: "unreadable user", token: "tok", user: `not json`, want: LoggedOut},
		{name: "empty", want: LoggedOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStorage()
			if tt.token != "" {
				_ = store.Set(KeyToken, tt.token)
			}
			if tt.user != "" {
				_ = store.Set(KeyUser, tt.user)
			}

			s := NewSession(NewAPI("http://127.0.0.1:1/api", nil), store)
			if got := s.Mode(); got != tt.want {
				t.Errorf("Mode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoginValidatesLocally(t *testing.T) {
	f := newFakeServer(t)
	s := NewSession(f.api(), NewMemoryStorage())

	tests := []struct {
		username, password, want string
	}{
		{"", "secret1", "username and password are required"},
		{"alice", "", "username and password are required"},
		{"al", "secret1", "username must be at least 3 characters"},
		{"alice", "12345", "password must be at least 6 characters"},
		{strings.Repeat("a", 65), "secret1", "username must be at most 64 characters"},
	}

	for _, tt := range tests {
		err := s.Login(context.Background(), tt.username, tt.password)
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Message != tt.want {
			t.Errorf("Login(%q, %q) error = %v, want %q", tt.username, tt.password, err, tt.want)
		}
	}
	if n := f.requestCount(); n != 0 {
		t.Errorf("local validation sent %d requests", n)
	}
}

func TestLoginPersistsAndFetches(t *testing.T) {
	f := newFakeServer(t)
	f.seed("older", true)
	f.seed("newer", false)
	store := NewMemoryStorage()
	s := NewSession(f.api(), store)

	if err := s.Login(context.Background(), " alice ", "secret1"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if s.Mode() != LoggedIn || s.User().Username != "alice" {
		t.Fatalf("session after login: mode %v user %+v", s.Mode(), s.User())
	}
	if tok, _ := store.Get(KeyToken); tok != fakeToken {
		t.Errorf("stored token = %q", tok)
	}
	if raw, _ := store.Get(KeyUser); raw != `{"id":"u1","username":"alice"}` {
		t.Errorf("stored user = %q", raw)
	}

	st := s.State()
	if len(st.Pending) != 1 || st.Pending[0].Text != "newer" {
		t.Errorf("Pending = %+v", st.Pending)
	}
	if len(st.Completed) != 1 || st.Completed[0].Text != "older" {
		t.Errorf("Completed = %+v", st.Completed)
	}

	// A fresh session over the same storage comes up logged in.
	if NewSession(f.api(), store).Mode() != LoggedIn {
		t.Error("session was not restored from storage")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFakeServer(t)
	s := NewSession(f.api(), NewMemoryStorage())

	err := s.Login(context.Background(), "alice", "wrong-password")
	var aerr *APIError
	if !errors.As(err, &aerr) || aerr.Status != 401 {
		t.Fatalf("Login() error = %v, want 401 APIError", err)
	}
	if s.Mode() != LoggedOut {
		t.Error("failed login changed mode")
	}
}

func TestCallsWithoutTokenSendNothing(t *testing.T) {
	f := newFakeServer(t)
	s := NewSession(f.api(), NewMemoryStorage())
	ctx := context.Background()

	calls := map[string]func() error{
		"refresh": func() error { return s.Refresh(ctx) },
		"add":     func() error { return s.AddTask(ctx, "x") },
		"toggle":  func() error { return s.Toggle(ctx, "t1") },
		"rename":  func() error { return s.Rename(ctx, "t1", "y") },
		"delete":  func() error { return s.DeleteTask(ctx, "t1") },
		"restore": func() error { return NewUndo(s).Restore(ctx) },
	}
	for name, call := range calls {
		if err := call(); !errors.Is(err, ErrNotLoggedIn) {
			t.Errorf("%s error = %v, want ErrNotLoggedIn", name, err)
		}
	}
	if n := f.requestCount(); n != 0 {
		t.Errorf("sent %d requests without a token", n)
	}
}

func TestTaskRoundTrip(t *testing.T) {
	f := newFakeServer(t)
	s, _ := loggedInSession(t, f)
	ctx := context.Background()

	if err := s.AddTask(ctx, "  X  "); err != nil {
		t.Fatalf("AddTask() error = %v", err)
	}
	st := s.State()
	if len(st.Pending) != 1 || st.Pending[0].Text != "X" || st.Pending[0].Completed {
		t.Fatalf("after add: %+v", st.Pending)
	}
	id := st.Pending[0].ID

	if err := s.Toggle(ctx, id); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if len(st.Pending) != 0 || len(st.Completed) != 1 || !st.Completed[0].Completed {
		t.Fatalf("after toggle: pending %+v completed %+v", st.Pending, st.Completed)
	}

	if err := s.Rename(ctx, id, "Y"); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if st.Completed[0].Text != "Y" {
		t.Errorf("after rename: %+v", st.Completed)
	}

	if err := s.DeleteTask(ctx, id); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
	if len(st.Pending)+len(st.Completed) != 0 {
		t.Errorf("task still listed after delete")
	}

	err := s.DeleteTask(ctx, id)
	if KindOf(err) != KindNotFound {
		t.Errorf("second delete error = %v, want not found", err)
	}
	if s.Mode() != LoggedIn {
		t.Error("not found forced a logout")
	}
}

func TestAddTaskRejectsBlank(t *testing.T) {
	f := newFakeServer(t)
	s, _ := loggedInSession(t, f)
	if err := s.AddTask(context.Background(), "   "); KindOf(err) != KindValidation {
		t.Errorf("AddTask(blank) error = %v, want validation", err)
	}
	if n := f.requestCount(); n != 0 {
		t.Errorf("sent %d requests for blank text", n)
	}
}

func TestRejectedTokenForcesLogout(t *testing.T) {
	f := newFakeServer(t)
	f.seed("keep me", true)
	s, store := loggedInSession(t, f)
	ctx := context.Background()

	if err := s.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	id := s.State().Completed[0].ID
	undo := NewUndo(s)
	if err := undo.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	f.mu.Lock()
	f.rejectAuth = true
	f.mu.Unlock()

	if err := s.AddTask(ctx, "late"); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("AddTask() error = %v, want ErrSessionExpired", err)
	}
	if s.Mode() != LoggedOut {
		t.Error("session still logged in after 401")
	}
	if _, ok := store.Get(KeyToken); ok {
		t.Error("token left in storage")
	}
	if _, ok := store.Get(KeyUser); ok {
		t.Error("user left in storage")
	}
	if _, ok := undo.Pending(); ok {
		t.Error("undo buffer survived logout")
	}
	if len(s.State().Pending)+len(s.State().Completed) != 0 {
		t.Error("task lists survived logout")
	}
}

func TestTransportErrorKeepsSession(t *testing.T) {
	f := newFakeServer(t)
	s, _ := loggedInSession(t, f)
	f.srv.Close()

	err := s.Refresh(context.Background())
	if KindOf(err) != KindTransport {
		t.Fatalf("Refresh() error = %v, want transport", err)
	}
	if s.Mode() != LoggedIn {
		t.Error("transport failure logged the user out")
	}
}

func TestLogout(t *testing.T) {
	f := newFakeServer(t)
	s, store := loggedInSession(t, f)

	if err := s.Logout(); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if s.Mode() != LoggedOut {
		t.Error("Mode() after logout = LoggedIn")
	}
	if _, ok := store.Get(KeyToken); ok {
		t.Error("token left in storage")
	}
}
