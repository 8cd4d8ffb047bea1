package clinicsdk

import (
	"slices"
	"strings"
	"sync"
)

const (
	LoginRoute    = "/login"
	RegisterRoute = "/register"
)

// PublicRoutes can be visited without a session.
var PublicRoutes = []string{LoginRoute, RegisterRoute}

// IsPublicRoute reports whether route needs no session. Query strings,
// fragments and a trailing slash are ignored.
func IsPublicRoute(route string) bool {
	return slices.Contains(PublicRoutes, normalizeRoute(route))
}

func normalizeRoute(route string) string {
	route, _, _ = strings.Cut(route, "#")
	route, _, _ = strings.Cut(route, "?")
	if len(route) > 1 {
		route = strings.TrimRight(route, "/")
	}
	return route
}

// Navigator is the surface the pipeline uses to move the user to the login
// route after their session expires.
type Navigator interface {
	Location() string
	Navigate(route string)
}

// Router is an in-memory Navigator that records the current route and calls
// OnNavigate after each move.
type Router struct {
	mu      sync.Mutex
	current string
	history []string

	OnNavigate func(from, to string)
}

var _ Navigator = (*Router)(nil)

func NewRouter(initial string) *Router {
	return &Router{current: initial}
}

func (r *Router) Location() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Router) Navigate(route string) {
	r.mu.Lock()
	from := r.current
	r.current = route
	r.history = append(r.history, route)
	hook := r.OnNavigate
	r.mu.Unlock()

	if hook != nil {
		hook(from, route)
	}
}

// History returns every route navigated to, oldest first.
func (r *Router) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.history)
}
