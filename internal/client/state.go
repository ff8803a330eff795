package client

import (
	"sync"
	"time"
)

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Task struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// UndoEntry is the snapshot kept for the most recently deleted task.
type UndoEntry struct {
	Text      string
	Completed bool
	DeletedAt time.Time
}

// State is everything the client holds for one session. It is created once
// at startup and reset on logout. Methods are safe to call while a UI
// renders from another goroutine; direct field access is not.
type State struct {
	Token     string
	User      *User
	Pending   []Task
	Completed []Task

	mu   sync.RWMutex
	undo *UndoEntry
}

// Snapshot is a copy of State for rendering.
type Snapshot struct {
	User      *User
	Pending   []Task
	Completed []Task
	Undo      *UndoEntry
}

func NewState() *State {
	return &State{}
}

func (s *State) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Token != "" && s.User != nil
}

// Reset drops the session, both task lists and the undo buffer.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Token = ""
	s.User = nil
	s.Pending = nil
	s.Completed = nil
	s.undo = nil
}

func (s *State) setSession(token string, user User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Token = token
	s.User = &user
}

func (s *State) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Token
}

// SetTasks splits tasks into pending and completed, keeping server order.
func (s *State) SetTasks(tasks []Task) {
	pending := make([]Task, 0, len(tasks))
	completed := make([]Task, 0)
	for _, t := range tasks {
		if t.Completed {
			completed = append(completed, t)
		} else {
			pending = append(pending, t)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Pending = pending
	s.Completed = completed
}

// Find looks a task up in either list.
func (s *State) Find(id string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, list := range [][]Task{s.Pending, s.Completed} {
		for _, t := range list {
			if t.ID == id {
				return t, true
			}
		}
	}
	return Task{}, false
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Pending:   append([]Task(nil), s.Pending...),
		Completed: append([]Task(nil), s.Completed...),
	}
	if s.User != nil {
		u := *s.User
		snap.User = &u
	}
	if s.undo != nil {
		e := *s.undo
		snap.Undo = &e
	}
	return snap
}

func (s *State) Undo() (UndoEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.undo == nil {
		return UndoEntry{}, false
	}
	return *s.undo, true
}

func (s *State) setUndo(e UndoEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.undo = &e
}

func (s *State) clearUndo() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.undo = nil
}
