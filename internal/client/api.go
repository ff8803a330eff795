package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const DefaultBaseURL = "http://localhost:5001/api"

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// TaskUpdate carries the fields of a partial task update.
type TaskUpdate struct {
	Completed *bool   `json:"completed,omitempty"`
	Text      *string `json:"text,omitempty"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createTask struct {
	Text      string `json:"text"`
	Completed *bool  `json:"completed,omitempty"`
}

type errorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// API is a thin JSON client for the tasks server. It holds no session state;
// callers pass the token to every task call.
type API struct {
	baseURL string
	http    *http.Client
}

// NewAPI talks to baseURL. A nil httpClient means http.DefaultClient, which
// sets no timeout of its own.
func NewAPI(baseURL string, httpClient *http.Client) *API {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &API{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (a *API) Register(ctx context.Context, username, password string) (*AuthResponse, error) {
	var out AuthResponse
	if err := a.do(ctx, http.MethodPost, "/auth/register", "", credentials{username, password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	var out AuthResponse
	if err := a.do(ctx, http.MethodPost, "/auth/login", "", credentials{username, password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) ListTasks(ctx context.Context, token string) ([]Task, error) {
	var out []Task
	if err := a.do(ctx, http.MethodGet, "/tasks", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTask creates a task. completed may be nil for a fresh task.
func (a *API) CreateTask(ctx context.Context, token, text string, completed *bool) (*Task, error) {
	var out Task
	if err := a.do(ctx, http.MethodPost, "/tasks", token, createTask{Text: text, Completed: completed}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) UpdateTask(ctx context.Context, token, id string, update TaskUpdate) (*Task, error) {
	var out Task
	if err := a.do(ctx, http.MethodPut, "/tasks/"+url.PathEscape(id), token, update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) DeleteTask(ctx context.Context, token, id string) error {
	return a.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), token, nil, nil)
}

func (a *API) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e errorResponse
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = json.Unmarshal(b, &e)
		return &APIError{Status: resp.StatusCode, Message: e.Message}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
