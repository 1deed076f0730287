package mcpsrv

import (
	"github.com/tilde-nya/akixi/internal/config"
	"github.com/tilde-nya/akixi/internal/query"
	"github.com/tilde-nya/akixi/internal/session"
)

// Deps contains all dependencies available to custom tools.
// This gives custom tools access to the same infrastructure as builtin tools.
type Deps struct {
	Sessions *session.Provider
	Query    *query.Engine
	Config   *config.Config
}
