package tools

import (
	"github.com/tilde-nya/akixi/internal/config"
	"github.com/tilde-nya/akixi/internal/query"
	"github.com/tilde-nya/akixi/internal/session"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Sessions *session.Provider
	Query    *query.Engine
	Config   *config.Config
}
