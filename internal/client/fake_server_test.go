package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeServer is an in-memory stand-in for the tasks API.
type fakeServer struct {
	t   *testing.T
	srv *httptest.Server

	mu         sync.Mutex
	tasks      []Task // newest first
	nextID     int
	requests   int
	rejectAuth bool // answer 401 to every task call
	failCreate int  // status to answer POST /tasks with, 0 = succeed
}

const fakeToken = "fake-token"

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	f := &fakeServer{t: t}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", f.login)
	mux.HandleFunc("POST /api/auth/register", f.login)
	mux.HandleFunc("GET /api/tasks", f.authed(f.list))
	mux.HandleFunc("POST /api/tasks", f.authed(f.create))
	mux.HandleFunc("PUT /api/tasks/{id}", f.authed(f.update))
	mux.HandleFunc("DELETE /api/tasks/{id}", f.authed(f.remove))

	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests++
		f.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeServer) api() *API {
	return NewAPI(f.srv.URL+"/api", f.srv.Client())
}

func (f *fakeServer) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func (f *fakeServer) seed(text string, completed bool) Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insert(text, completed)
}

// insert must be called with mu held.
func (f *fakeServer) insert(text string, completed bool) Task {
	f.nextID++
	task := Task{
		ID:        "t" + strconv.Itoa(f.nextID),
		UserID:    "u1",
		Text:      text,
		Completed: completed,
		CreatedAt: time.Unix(int64(f.nextID), 0).UTC(),
	}
	f.tasks = append([]Task{task}, f.tasks...)
	return task
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: true, Message: message})
}

func (f *fakeServer) login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Password != "secret1" {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	status := http.StatusOK
	if strings.HasSuffix(r.URL.Path, "/register") {
		status = http.StatusCreated
	}
	writeJSON(w, status, AuthResponse{Token: fakeToken, User: User{ID: "u1", Username: req.Username}})
}

func (f *fakeServer) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		reject := f.rejectAuth
		f.mu.Unlock()
		if reject || r.Header.Get("Authorization") != "Bearer "+fakeToken {
			writeError(w, http.StatusUnauthorized, "Unauthorized: token expired")
			return
		}
		next(w, r)
	}
}

func (f *fakeServer) list(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]Task{}, f.tasks...)
	writeJSON(w, http.StatusOK, out)
}

func (f *fakeServer) create(w http.ResponseWriter, r *http.Request) {
	var req createTask
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != 0 {
		writeError(w, f.failCreate, "Internal server error")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "task text is required")
		return
	}
	completed := req.Completed != nil && *req.Completed
	writeJSON(w, http.StatusCreated, f.insert(strings.TrimSpace(req.Text), completed))
}

func (f *fakeServer) update(w http.ResponseWriter, r *http.Request) {
	var req TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID != r.PathValue("id") {
			continue
		}
		if req.Completed != nil {
			f.tasks[i].Completed = *req.Completed
		}
		if req.Text != nil {
			f.tasks[i].Text = *req.Text
		}
		writeJSON(w, http.StatusOK, f.tasks[i])
		return
	}
	writeError(w, http.StatusNotFound, "Task not found")
}

func (f *fakeServer) remove(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == r.PathValue("id") {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Task not found")
}

// loggedInSession returns a session that already holds the fake token.
func loggedInSession(t *testing.T, f *fakeServer) (*Session, Storage) {
	t.Helper()
	store := NewMemoryStorage()
	_ = store.Set(KeyToken, fakeToken)
	_ = store.Set(KeyUser, `{"id":"u1","username":"alice"}`)
	s := NewSession(f.api(), store)
	if s.Mode() != LoggedIn {
		t.Fatal("seeded session is not logged in")
	}
	return s, store
}
