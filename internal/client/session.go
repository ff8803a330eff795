package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Local validation mirrors the server's rules and messages.
const (
	MinUsernameLength = 3
	MinPasswordLength = 6
	MaxUsernameLength = 64
)

type Mode int

const (
	LoggedOut Mode = iota
	LoggedIn
)

func (m Mode) String() string {
	if m == LoggedIn {
		return "logged in"
	}
	return "logged out"
}

// Session decides between the login and task views, attaches the token to
// every task call and drops the session when the server rejects it.
type Session struct {
	api   *API
	store Storage
	state *State
}

// NewSession seeds the session from store. Both the token and the user
// snapshot must be present, otherwise the session starts logged out.
func NewSession(api *API, store Storage) *Session {
	s := &Session{api: api, store: store, state: NewState()}

	token, okToken := store.Get(KeyToken)
	raw, okUser := store.Get(KeyUser)
	if !okToken || !okUser || token == "" {
		return s
	}
	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.ID == "" {
		slog.Debug("ignoring unreadable stored user", "error", err)
		return s
	}
	s.state.setSession(token, user)
	return s
}

func (s *Session) Mode() Mode {
	if s.state.LoggedIn() {
		return LoggedIn
	}
	return LoggedOut
}

func (s *Session) State() *State { return s.state }

func (s *Session) User() *User { return s.state.Snapshot().User }

func (s *Session) Register(ctx context.Context, username, password string) error {
	return s.authenticate(ctx, username, password, s.api.Register)
}

func (s *Session) Login(ctx context.Context, username, password string) error {
	return s.authenticate(ctx, username, password, s.api.Login)
}

type authFunc func(ctx context.Context, username, password string) (*AuthResponse, error)

func (s *Session) authenticate(ctx context.Context, username, password string, call authFunc) error {
	username = strings.TrimSpace(username)
	if err := validateCredentials(username, password); err != nil {
		return err
	}

	resp, err := call(ctx, username, password)
	if err != nil {
		return err
	}

	user, err := json.Marshal(resp.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.store.Set(KeyToken, resp.Token); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := s.store.Set(KeyUser, string(user)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.state.Reset()
	s.state.setSession(resp.Token, resp.User)
	slog.Debug("logged in", "username", resp.User.Username)

	return s.Refresh(ctx)
}

func validateCredentials(username, password string) error {
	if username == "" || password == "" {
		return &ValidationError{Message: "username and password are required"}
	}
	if utf8.RuneCountInString(username) < MinUsernameLength {
		return &ValidationError{Message: fmt.Sprintf("username must be at least %d characters", MinUsernameLength)}
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return &ValidationError{Message: fmt.Sprintf("username must be at most %d characters", MaxUsernameLength)}
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return &ValidationError{Message: fmt.Sprintf("password must be at least %d characters", MinPasswordLength)}
	}
	return nil
}

// Logout clears durable storage and all in-memory state.
func (s *Session) Logout() error {
	s.state.Reset()
	return s.store.Remove(KeyToken, KeyUser)
}

// Refresh replaces both task lists with the server's list.
func (s *Session) Refresh(ctx context.Context) error {
	return s.withToken(func(token string) error {
		tasks, err := s.api.ListTasks(ctx, token)
		if err != nil {
			return err
		}
		s.state.SetTasks(tasks)
		return nil
	})
}

// AddTask creates a task and refetches the list.
func (s *Session) AddTask(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return &ValidationError{Message: "task text is required"}
	}
	return s.createTask(ctx, text, nil)
}

func (s *Session) createTask(ctx context.Context, text string, completed *bool) error {
	err := s.withToken(func(token string) error {
		_, err := s.api.CreateTask(ctx, token, text, completed)
		return err
	})
	if err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *Session) SetCompleted(ctx context.Context, id string, completed bool) error {
	return s.update(ctx, id, TaskUpdate{Completed: &completed})
}

// Toggle flips the completed flag of a task known to the current lists.
func (s *Session) Toggle(ctx context.Context, id string) error {
	task, ok := s.state.Find(id)
	if !ok {
		if !s.state.LoggedIn() {
			return ErrNotLoggedIn
		}
		return &ValidationError{Message: "unknown task " + id}
	}
	return s.SetCompleted(ctx, id, !task.Completed)
}

func (s *Session) Rename(ctx context.Context, id, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return &ValidationError{Message: "task text is required"}
	}
	return s.update(ctx, id, TaskUpdate{Text: &text})
}

func (s *Session) update(ctx context.Context, id string, u TaskUpdate) error {
	err := s.withToken(func(token string) error {
		_, err := s.api.UpdateTask(ctx, token, id, u)
		return err
	})
	if err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// DeleteTask deletes a task and refetches the list. Use Undo.Delete to make
// the deletion restorable.
func (s *Session) DeleteTask(ctx context.Context, id string) error {
	err := s.withToken(func(token string) error {
		return s.api.DeleteTask(ctx, token, id)
	})
	if err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// withToken short-circuits without a session and forces a logout when the
// server rejects the token.
func (s *Session) withToken(call func(token string) error) error {
	if !s.state.LoggedIn() {
		return ErrNotLoggedIn
	}
	err := call(s.state.token())
	if err != nil && KindOf(err) == KindAuth {
		slog.Debug("session rejected by server", "error", err)
		if lerr := s.Logout(); lerr != nil {
			slog.Warn("failed to clear session", "error", lerr)
		}
		return ErrSessionExpired
	}
	return err
}
