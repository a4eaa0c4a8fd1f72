package http

import "github.com/example/webapp-server/internal/protocol"

const (
	// SessionCookie is the exact Cookie header value that unlocks protected paths.
	SessionCookie = "logined=true"
	// FailedSessionCookie is set after a failed login.
	FailedSessionCookie = "logined=false"

	LoginPath       = "/user/login.html"
	LoginFailedPath = "/user/login_failed.html"
	IndexPath       = "/index.html"
	UserListPath    = "/user/list.html"
)

// AccessGate decides whether a request may reach the router.
type AccessGate struct {
	protected map[string]struct{}
	loginPath string
}

// NewAccessGate protects the given paths. Membership is exact string
// equality on the request target; denied requests are sent to LoginPath.
func NewAccessGate(paths ...string) *AccessGate {
	protected := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		protected[p] = struct{}{}
	}
	return &AccessGate{protected: protected, loginPath: LoginPath}
}

// DefaultAccessGate protects the user list.
func DefaultAccessGate() *AccessGate {
	return NewAccessGate(UserListPath)
}

// Allow reports false iff the target is protected and the Cookie header is
// not exactly SessionCookie. A missing cookie is an empty string.
func (g *AccessGate) Allow(req *protocol.Request) bool {
	if g == nil || req == nil {
		return true
	}
	if !g.Protected(req.Target) {
		return true
	}
	return req.Cookie == SessionCookie
}

// Protected reports whether target requires a session.
func (g *AccessGate) Protected(target string) bool {
	if g == nil {
		return false
	}
	_, ok := g.protected[target]
	return ok
}

// LoginPath returns the redirect target for denied requests.
func (g *AccessGate) LoginPath() string {
	if g == nil || g.loginPath == "" {
		return LoginPath
	}
	return g.loginPath
}
