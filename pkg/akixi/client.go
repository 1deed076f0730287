package akixi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultLocale is the locale sent with the login request.
const DefaultLocale = "en_GB"

// DefaultTimeout bounds every request made by a Session.
const DefaultTimeout = 30 * time.Second

// DuplicateSessionPrefix starts the message of the HTTP 400 login response
// the server sends when the user already has other browser sessions open.
// Login treats that response as success.
const DuplicateSessionPrefix = "There were other browser sessions active for"

// Session is an authenticated Akixi API session.
//
// Requests on a Session, including those made through its Reports, are
// serialized so the shared cookie state is never mutated concurrently.
type Session struct {
	baseURL    string
	locale     string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger

	mu      sync.Mutex
	reports []*Report
}

// Option is a functional option for configuring a Session.
type Option func(*Session)

// WithLocale sets the locale sent with the login request ("en_GB" or "en_US").
func WithLocale(locale string) Option {
	return func(s *Session) {
		s.locale = locale
	}
}

// WithBaseURL replaces the base URL derived from the host name.
func WithBaseURL(baseURL string) Option {
	return func(s *Session) {
		s.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
// A cookie jar is attached when the client has none.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(s *Session) {
		s.httpClient = httpClient
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.timeout = d
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// BaseURLForHost returns the API base URL for an Akixi host name.
func BaseURLForHost(host string) string {
	return "https://" + host + ".akixi.com/CCS/API/v1"
}

// Login creates a session, logs in and fetches the list of reports
// available to the user.
//
// A login answered with HTTP 200, or with HTTP 400 carrying a message that
// starts with DuplicateSessionPrefix, succeeds. Any other answer returns an
// *AuthenticationError.
func Login(ctx context.Context, host, username, password string, opts ...Option) (*Session, error) {
	s := &Session{
		baseURL: BaseURLForHost(host),
		locale:  DefaultLocale,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.httpClient == nil {
		s.httpClient = &http.Client{}
	}
	if s.httpClient.Jar == nil {
		jar, _ := cookiejar.New(nil) // only fails with invalid options
		s.httpClient.Jar = jar
	}

	s.prime(ctx)

	if err := s.login(ctx, username, password); err != nil {
		return nil, err
	}

	reports, err := s.fetchReports(ctx)
	if err != nil {
		return nil, err
	}
	s.reports = reports

	s.logger.Info("logged in to Akixi",
		slog.String("base_url", s.baseURL),
		slog.Int("reports", len(reports)),
	)
	return s, nil
}

// BaseURL returns the API base URL of the session.
func (s *Session) BaseURL() string {
	return s.baseURL
}

// Locale returns the locale the session logged in with.
func (s *Session) Locale() string {
	return s.locale
}

// prime issues the session initialization request. Some deployments refuse
// the login without it and others ignore it, so its outcome is not checked.
func (s *Session) prime(ctx context.Context) {
	resp, err := s.do(ctx, http.MethodPost, "/session", nil, nil)
	if err != nil {
		s.logger.Debug("session priming request failed", slog.String("error", err.Error()))
		return
	}
	s.logger.Debug("session priming request completed", slog.Int("status", resp.StatusCode))
}

func (s *Session) login(ctx context.Context, username, password string) error {
	query := url.Values{"locale": {s.locale}}
	resp, err := s.do(ctx, http.MethodGet, "/login", query, func(req *http.Request) {
		req.SetBasicAuth(username, password)
	})
	if err != nil {
		return fmt.Errorf("logging in: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusBadRequest && isDuplicateSession(resp.body):
		s.logger.Warn("login reported other active browser sessions, continuing",
			slog.String("message", messageOf(resp.body)),
		)
		return nil
	}

	s.logger.Debug("login rejected",
		slog.Int("status", resp.StatusCode),
		slog.String("body", string(resp.body)),
	)
	return &AuthenticationError{StatusCode: resp.StatusCode, Reason: resp.reason()}
}

// listEntry is the wire form of a report in the GET /report response.
type listEntry struct {
	ID          string `json:"ID"`
	Type        int    `json:"Type"`
	Description string `json:"Description"`
	IsLicensed  bool   `json:"IsLicensed"`
	IsBinned    bool   `json:"IsBinned"`
}

func (s *Session) fetchReports(ctx context.Context) ([]*Report, error) {
	resp, err := s.do(ctx, http.MethodGet, "/report", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Op: "listing reports", StatusCode: resp.StatusCode, Message: apiMessage(resp.body)}
	}

	var entries []listEntry
	if err := json.Unmarshal(resp.body, &entries); err != nil {
		return nil, fmt.Errorf("decoding report list: %w", err)
	}

	reports := make([]*Report, len(entries))
	for i, e := range entries {
		reports[i] = newReport(s, e)
	}
	return reports, nil
}

// Logout ends the server-side session. It returns true only when the server
// answers with HTTP 200.
func (s *Session) Logout(ctx context.Context) (bool, error) {
	resp, err := s.do(ctx, http.MethodGet, "/logout", nil, nil)
	if err != nil {
		return false, fmt.Errorf("logging out: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		s.logger.Debug("logout not acknowledged", slog.Int("status", resp.StatusCode))
		return false, nil
	}
	return true, nil
}

// ListReports returns the reports discovered at login, in server order.
func (s *Session) ListReports() []*Report {
	out := make([]*Report, len(s.reports))
	copy(out, s.reports)
	return out
}

// GetReport returns the report with the given ID.
// Returns a *NotFoundError when the snapshot holds no such report.
func (s *Session) GetReport(id string) (*Report, error) {
	for _, r := range s.reports {
		if r.id == id {
			return r, nil
		}
	}
	return nil, &NotFoundError{ID: id}
}

// response is a fully read HTTP response.
type response struct {
	StatusCode int
	Status     string
	body       []byte
}

// reason returns the reason phrase of the status line.
func (r *response) reason() string {
	reason := strings.TrimPrefix(r.Status, strconv.Itoa(r.StatusCode))
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = http.StatusText(r.StatusCode)
	}
	return reason
}

// do performs a request on the shared channel and reads the whole body.
func (s *Session) do(ctx context.Context, method, path string, query url.Values, prepare func(*http.Request)) (*response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	u, err := url.Parse(s.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("parsing URL: %w", err)
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if prepare != nil {
		prepare(req)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Debug("HTTP request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	s.logger.Debug("HTTP request completed",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return &response{StatusCode: resp.StatusCode, Status: resp.Status, body: body}, nil
}
