package akixi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testReports = `[
	{"ID": "r1", "Type": 52, "Description": "Sales Team", "IsLicensed": true, "IsBinned": false},
	{"ID": "r 2", "Type": 9999, "Description": "Support/Queue", "IsLicensed": false, "IsBinned": true},
	{"ID": "r3", "Type": 0, "Description": "Live", "IsLicensed": true, "IsBinned": false}
]`

// fakeAkixi is an httptest server that mimics the Akixi API.
type fakeAkixi struct {
	t *testing.T

	primeStatus   int
	loginStatus   int
	loginBody     string
	reportsStatus int
	reportsBody   string
	execBodies    map[string]string

	primed     atomic.Int32
	logoutResp atomic.Int32

	mu         sync.Mutex
	lastLocale string
	lastPath   string
}

func (f *fakeAkixi) locale() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastLocale
}

func (f *fakeAkixi) path() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPath
}

func newFakeAkixi(t *testing.T) *fakeAkixi {
	f := &fakeAkixi{
		t:             t,
		primeStatus:   http.StatusNoContent,
		loginStatus:   http.StatusOK,
		reportsStatus: http.StatusOK,
		reportsBody:   testReports,
		execBodies:    map[string]string{},
	}
	f.logoutResp.Store(http.StatusOK)
	return f
}

func (f *fakeAkixi) start() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /CCS/API/v1/session", func(w http.ResponseWriter, r *http.Request) {
		f.primed.Add(1)
		w.WriteHeader(f.primeStatus)
	})
	mux.HandleFunc("GET /CCS/API/v1/login", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "alice" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		f.mu.Lock()
		f.lastLocale = r.URL.Query().Get("locale")
		f.mu.Unlock()
		http.SetCookie(w, &http.Cookie{Name: "ccs", Value: "token", Path: "/"})
		w.WriteHeader(f.loginStatus)
		_, _ = w.Write([]byte(f.loginBody))
	})
	mux.HandleFunc("GET /CCS/API/v1/report", func(w http.ResponseWriter, r *http.Request) {
		if !hasCookie(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(f.reportsStatus)
		_, _ = w.Write([]byte(f.reportsBody))
	})
	mux.HandleFunc("GET /CCS/API/v1/report/{id}/exec", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.lastPath = r.URL.EscapedPath()
		f.mu.Unlock()
		if !hasCookie(r) {
			_, _ = w.Write([]byte(`{"Message": "Not logged in"}`))
			return
		}
		body, ok := f.execBodies[r.PathValue("id")]
		if !ok {
			body = `{"Message": "No such report"}`
		}
		_, _ = w.Write([]byte(body))
	})
	mux.HandleFunc("GET /CCS/API/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(f.logoutResp.Load()))
	})

	srv := httptest.NewServer(mux)
	f.t.Cleanup(srv.Close)
	return srv
}

func hasCookie(r *http.Request) bool {
	c, err := r.Cookie("ccs")
	return err == nil && c.Value == "token"
}

func login(t *testing.T, srv *httptest.Server, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithBaseURL(srv.URL + "/CCS/API/v1/")}, opts...)
	s, err := Login(context.Background(), "acme", "alice", "secret", opts...)
	require.NoError(t, err)
	return s
}

func TestBaseURLForHost(t *testing.T) {
	assert.Equal(t, "https://acme.akixi.com/CCS/API/v1", BaseURLForHost("acme"))
}

func TestLogin_Success(t *testing.T) {
	f := newFakeAkixi(t)
	srv := f.start()

	s := login(t, srv)

	assert.Equal(t, int32(1), f.primed.Load())
	assert.Equal(t, DefaultLocale, f.locale())
	assert.Equal(t, srv.URL+"/CCS/API/v1", s.BaseURL())

	reports := s.ListReports()
	require.Len(t, reports, 3)
	assert.Equal(t, "r1", reports[0].ID())
	assert.Equal(t, "r 2", reports[1].ID())
	assert.Equal(t, "r3", reports[2].ID())
}

func TestLogin_Locale(t *testing.T) {
	f := newFakeAkixi(t)
	srv := f.start()

	s := login(t, srv, WithLocale("en_US"))
	assert.Equal(t, "en_US", f.locale())
	assert.Equal(t, "en_US", s.Locale())
}

func TestLogin_DuplicateSessionIsSuccess(t *testing.T) {
	f := newFakeAkixi(t)
	f.loginStatus = http.StatusBadRequest
	f.loginBody = `{"Message": "There were other browser sessions active for user X"}`
	srv := f.start()

	s := login(t, srv)
	assert.Len(t, s.ListReports(), 3)
}

func TestLogin_OtherBadRequestFails(t *testing.T) {
	f := newFakeAkixi(t)
	f.loginStatus = http.StatusBadRequest
	f.loginBody = `{"Message": "Account locked"}`
	srv := f.start()

	_, err := Login(context.Background(), "acme", "alice", "secret", WithBaseURL(srv.URL+"/CCS/API/v1"))
	require.Error(t, err)

	var authErr *AuthenticationError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, http.StatusBadRequest, authErr.StatusCode)
	assert.Equal(t, "Bad Request", authErr.Reason)
}

func TestLogin_BadRequestWithoutMessageFails(t *testing.T) {
	f := newFakeAkixi(t)
	f.loginStatus = http.StatusBadRequest
	f.loginBody = `not json`
	srv := f.start()

	_, err := Login(context.Background(), "acme", "alice", "secret", WithBaseURL(srv.URL+"/CCS/API/v1"))

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusBadRequest, authErr.StatusCode)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFakeAkixi(t)
	srv := f.start()

	_, err := Login(context.Background(), "acme", "alice", "wrong", WithBaseURL(srv.URL+"/CCS/API/v1"))

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
	assert.Equal(t, "Unauthorized", authErr.Reason)
	assert.Contains(t, err.Error(), "401 Unauthorized")
}

func TestLogin_PrimingFailureIgnored(t *testing.T) {
	f := newFakeAkixi(t)
	f.primeStatus = http.StatusInternalServerError
	srv := f.start()

	s := login(t, srv)
	assert.Equal(t, int32(1), f.primed.Load())
	assert.Len(t, s.ListReports(), 3)
}

func TestLogin_ReportListError(t *testing.T) {
	f := newFakeAkixi(t)
	f.reportsStatus = http.StatusServiceUnavailable
	f.reportsBody = `{"Message": "Maintenance"}`
	srv := f.start()

	_, err := Login(context.Background(), "acme", "alice", "secret", WithBaseURL(srv.URL+"/CCS/API/v1"))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, "Maintenance", apiErr.Message)
}

func TestLogin_ReportListMalformed(t *testing.T) {
	f := newFakeAkixi(t)
	f.reportsBody = `{"not": "a list"}`
	srv := f.start()

	_, err := Login(context.Background(), "acme", "alice", "secret", WithBaseURL(srv.URL+"/CCS/API/v1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding report list")
}

func TestLogin_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/CCS/API/v1/login" {
			time.Sleep(200 * time.Millisecond)
		}
	}))
	t.Cleanup(srv.Close)

	_, err := Login(context.Background(), "acme", "alice", "secret",
		WithBaseURL(srv.URL+"/CCS/API/v1"),
		WithTimeout(20*time.Millisecond),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLogin_KeepsCustomJarlessClient(t *testing.T) {
	f := newFakeAkixi(t)
	srv := f.start()

	hc := &http.Client{}
	s := login(t, srv, WithHTTPClient(hc))

	assert.NotNil(t, hc.Jar)
	assert.Len(t, s.ListReports(), 3)
}

func TestLogout(t *testing.T) {
	f := newFakeAkixi(t)
	srv := f.start()
	s := login(t, srv)

	ok, err := s.Logout(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	f.logoutResp.Store(http.StatusInternalServerError)
	ok, err = s.Logout(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetReport(t *testing.T) {
	f := newFakeAkixi(t)
	srv := f.start()
	s := login(t, srv)

	r, err := s.GetReport("r3")
	require.NoError(t, err)
	assert.Equal(t, "r3", r.ID())
	assert.Equal(t, "Live", r.Description())

	_, err = s.GetReport("missing")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListReports_ReturnsCopy(t *testing.T) {
	f := newFakeAkixi(t)
	srv := f.start()
	s := login(t, srv)

	reports := s.ListReports()
	reports[0] = nil

	assert.NotNil(t, s.ListReports()[0])
}
