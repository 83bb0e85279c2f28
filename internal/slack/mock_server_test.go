package slack

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
)

// mockSlackServer creates a test HTTP server that mocks Slack API responses
type mockSlackServer struct {
	server   *httptest.Server
	handlers map[string]http.HandlerFunc

	mu    sync.Mutex
	calls map[string]int
}

func newMockSlackServer() *mockSlackServer {
	m := &mockSlackServer{
		handlers: make(map[string]http.HandlerFunc),
		calls:    make(map[string]int),
	}

	m.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		m.mu.Lock()
		m.calls[path]++
		m.mu.Unlock()

		if handler, ok := m.handlers[path]; ok {
			handler(w, r)
			return
		}

		http.Error(w, "mock not found: "+path, http.StatusNotFound)
	}))

	return m
}

func (m *mockSlackServer) close() {
	m.server.Close()
}

func (m *mockSlackServer) addHandler(path string, handler http.HandlerFunc) {
	m.handlers[path] = handler
}

// callCount returns how many requests hit path
func (m *mockSlackServer) callCount(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[path]
}

func respondJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}
