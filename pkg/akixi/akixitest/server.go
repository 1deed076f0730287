// Package akixitest provides an in-process fake of the Akixi API for tests.
package akixitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Credentials accepted by the fake server.
const (
	Username = "test-user"
	Password = "test-password"
)

const sessionCookie = "CCSSESSION"

// Report is a report served by the fake, in the API's wire form.
type Report struct {
	ID          string `json:"ID"`
	Type        int    `json:"Type"`
	Description string `json:"Description"`
	IsLicensed  bool   `json:"IsLicensed"`
	IsBinned    bool   `json:"IsBinned"`
}

// Server is a fake Akixi API.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	reports []Report
	results map[string]string
	logins  int
	logouts int
}

// NewServer starts a fake serving reports. Call Close when done.
func NewServer(reports ...Report) *Server {
	s := &Server{reports: reports, results: make(map[string]string)}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /CCS/API/v1/session", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /CCS/API/v1/login", s.handleLogin)
	mux.HandleFunc("GET /CCS/API/v1/logout", s.handleLogout)
	mux.HandleFunc("GET /CCS/API/v1/report", s.authed(s.handleList))
	mux.HandleFunc("GET /CCS/API/v1/report/{id}/exec", s.authed(s.handleExec))

	s.Server = httptest.NewServer(mux)
	return s
}

// BaseURL returns the API base URL to pass to akixi.WithBaseURL.
func (s *Server) BaseURL() string {
	return s.URL + "/CCS/API/v1"
}

// SetResult sets the JSON body returned when report id is executed.
// Reports without a result answer with a Message.
func (s *Server) SetResult(id, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[id] = body
}

// Logins returns how many successful logins the fake has seen.
func (s *Server) Logins() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logins
}

// Logouts returns how many logouts the fake has seen.
func (s *Server) Logouts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logouts
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	user, pass, ok := r.BasicAuth()
	if !ok || user != Username || pass != Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"Message": "Invalid credentials"})
		return
	}
	s.mu.Lock()
	s.logins++
	s.mu.Unlock()
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "ok", Path: "/"})
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.logouts++
	s.mu.Unlock()
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	reports := append([]Report(nil), s.reports...)
	s.mu.Unlock()
	if reports == nil {
		reports = []Report{}
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) handleExec(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	body, ok := s.results[r.PathValue("id")]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]string{"Message": "Report not available"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(sessionCookie); err != nil || c.Value != "ok" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"Message": "Session expired"})
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
