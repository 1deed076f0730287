// Package akixi provides a Go client for the Akixi call-reporting API.
//
// The Akixi API ties report listing and execution to a server-side session
// established by login and tracked with a cookie. A [Session] owns that
// authenticated channel; each [Report] it discovers holds a reference to it
// and can execute itself.
//
// # Quick Start
//
// Log in, pick a report and run it:
//
//	s, err := akixi.Login(ctx, "acme", "user", "secret")
//	if err != nil {
//	    return err
//	}
//	defer s.Logout(ctx)
//
//	r, err := s.GetReport("4711")
//	if err != nil {
//	    return err
//	}
//	result, err := r.Execute(ctx)
//
// Use custom configuration:
//
//	s, err := akixi.Login(ctx, "acme", "user", "secret",
//	    akixi.WithLocale("en_US"),
//	    akixi.WithTimeout(10*time.Second),
//	)
//
// # Report Snapshot
//
// The report list is fetched once at login. It does not reflect reports
// added or removed on the server until a new session is created.
//
// # Errors
//
// Login failures return an [*AuthenticationError]. Report lookups that miss
// return a [*NotFoundError] (which matches [ErrNotFound] with errors.Is).
// A report execution the server rejects returns an [*ExecutionError]
// carrying the server's message.
//
// # Duplicate Sessions
//
// The server answers a login with HTTP 400 when the user already has other
// browser sessions open, yet the new session is still usable. Login treats
// that response as success by matching the English message prefix
// [DuplicateSessionPrefix]. The match depends on the server's wording and
// language and may break if either changes.
package akixi
