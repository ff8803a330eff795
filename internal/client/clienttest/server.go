// Package clienttest provides an in-memory tasks API for exercising the
// client from other packages' tests.
package clienttest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/tasklist/internal/client"
)

const (
	Token    = "test-token"
	Password = "secret1"
	UserID   = "u1"
)

// Server answers the subset of the API the client uses. Any username logs
// in with Password.
type Server struct {
	URL string

	srv     *httptest.Server
	mu      sync.Mutex
	tasks   []client.Task // newest first
	next    int
	expired bool
}

func NewServer(t testing.TB, texts ...string) *Server {
	t.Helper()
	s := &Server{}
	for _, text := range texts {
		s.Add(text, false)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", s.login)
	mux.HandleFunc("POST /api/auth/register", s.login)
	mux.HandleFunc("GET /api/tasks", s.authed(s.list))
	mux.HandleFunc("POST /api/tasks", s.authed(s.create))
	mux.HandleFunc("PUT /api/tasks/{id}", s.authed(s.update))
	mux.HandleFunc("DELETE /api/tasks/{id}", s.authed(s.remove))

	s.srv = httptest.NewServer(mux)
	s.URL = s.srv.URL + "/api"
	t.Cleanup(s.srv.Close)
	return s
}

func (s *Server) API() *client.API {
	return client.NewAPI(s.URL, s.srv.Client())
}

// Add inserts a task as if another client had created it.
func (s *Server) Add(text string, completed bool) client.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	task := client.Task{
		ID:        "t" + strconv.Itoa(s.next),
		UserID:    UserID,
		Text:      text,
		Completed: completed,
		CreatedAt: time.Unix(int64(s.next), 0).UTC(),
	}
	s.tasks = append([]client.Task{task}, s.tasks...)
	return task
}

func (s *Server) Tasks() []client.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]client.Task(nil), s.tasks...)
}

// Expire makes every task call answer 401.
func (s *Server) Expire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expired = true
}

// LoggedIn returns storage holding a session the server accepts.
func LoggedIn(storage client.Storage) client.Storage {
	_ = storage.Set(client.KeyToken, Token)
	_ = storage.Set(client.KeyUser, `{"id":"`+UserID+`","username":"alice"}`)
	return storage
}

func reply(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func replyError(w http.ResponseWriter, status int, message string) {
	reply(w, status, map[string]interface{}{"error": true, "message": message})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		replyError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Password != Password {
		replyError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	status := http.StatusOK
	if strings.HasSuffix(r.URL.Path, "/register") {
		status = http.StatusCreated
	}
	reply(w, status, client.AuthResponse{Token: Token, User: client.User{ID: UserID, Username: req.Username}})
}

func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		expired := s.expired
		s.mu.Unlock()
		if expired || r.Header.Get("Authorization") != "Bearer "+Token {
			replyError(w, http.StatusUnauthorized, "Unauthorized: token expired")
			return
		}
		next(w, r)
	}
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	reply(w, http.StatusOK, s.Tasks())
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text      string `json:"text"`
		Completed bool   `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		replyError(w, http.StatusBadRequest, "task text is required")
		return
	}
	reply(w, http.StatusCreated, s.Add(strings.TrimSpace(req.Text), req.Completed))
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	var req client.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		replyError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID != r.PathValue("id") {
			continue
		}
		if req.Completed != nil {
			s.tasks[i].Completed = *req.Completed
		}
		if req.Text != nil {
			s.tasks[i].Text = *req.Text
		}
		reply(w, http.StatusOK, s.tasks[i])
		return
	}
	replyError(w, http.StatusNotFound, "Task not found")
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == r.PathValue("id") {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			reply(w, http.StatusOK, map[string]string{"message": "Task deleted"})
			return
		}
	}
	replyError(w, http.StatusNotFound, "Task not found")
}
