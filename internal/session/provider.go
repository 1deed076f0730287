// Package session keeps one lazily created Akixi session for long-running
// processes such as the MCP server.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"

	"github.com/tilde-nya/akixi/internal/catalog"
	"github.com/tilde-nya/akixi/internal/config"
	"github.com/tilde-nya/akixi/pkg/akixi"
)

// State is a logged-in session together with the index of its reports.
type State struct {
	Session *akixi.Session
	Index   *catalog.Index
	Locale  language.Tag
}

// ErrLoggedOut is returned by Get when Logout ran while its login was
// still in flight. The session that login produced has been ended.
var ErrLoggedOut = errors.New("session logged out during login")

// LoginFunc creates a session. It matches akixi.Login.
type LoginFunc func(ctx context.Context, host, username, password string, opts ...akixi.Option) (*akixi.Session, error)

// Provider logs in on first use and hands the same State to every caller
// until Logout. Concurrent first calls share a single login.
type Provider struct {
	cfg   *config.Config
	opts  []akixi.Option
	login LoginFunc

	group singleflight.Group

	mu      sync.Mutex
	current *State
	gen     uint64 // bumped by every Logout
}

// NewProvider creates a provider for the credentials in cfg. Extra options
// are appended to those derived from cfg.
func NewProvider(cfg *config.Config, opts ...akixi.Option) *Provider {
	return &Provider{
		cfg:   cfg,
		opts:  append(cfg.SessionOptions(), opts...),
		login: akixi.Login,
	}
}

// Get returns the current state, logging in if there is none.
func (p *Provider) Get(ctx context.Context) (*State, error) {
	p.mu.Lock()
	st, gen := p.current, p.gen
	p.mu.Unlock()
	if st != nil {
		return st, nil
	}

	// The login outlives a single caller's cancellation since others may
	// be waiting on it.
	key := fmt.Sprintf("login-%d", gen)
	v, err, shared := p.group.Do(key, func() (any, error) {
		return p.connect(context.WithoutCancel(ctx), gen)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		slog.Debug("joined in-flight Akixi login")
	}
	return v.(*State), nil
}

func (p *Provider) connect(ctx context.Context, gen uint64) (*State, error) {
	p.mu.Lock()
	if p.current != nil {
		st := p.current
		p.mu.Unlock()
		return st, nil
	}
	p.mu.Unlock()

	tag, err := config.ParseLocale(p.cfg.Locale)
	if err != nil {
		return nil, err
	}

	s, err := p.login(ctx, p.cfg.Host, p.cfg.Username, p.cfg.Password, p.opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to Akixi: %w", err)
	}

	st := &State{Session: s, Index: catalog.New(s.ListReports()), Locale: tag}

	p.mu.Lock()
	stale := p.gen != gen
	if !stale {
		p.current = st
	}
	p.mu.Unlock()

	if stale {
		if _, err := s.Logout(ctx); err != nil {
			slog.Warn("logout of superseded session failed", slog.String("error", err.Error()))
		}
		return nil, ErrLoggedOut
	}
	return st, nil
}

// Logout ends the current session, if any. The next Get logs in again.
// It reports whether the server acknowledged the logout.
func (p *Provider) Logout(ctx context.Context) (bool, error) {
	p.mu.Lock()
	st := p.current
	p.current = nil
	p.gen++
	p.mu.Unlock()

	if st == nil {
		return false, nil
	}
	return st.Session.Logout(ctx)
}

// Active reports whether a session is currently held.
func (p *Provider) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil
}
