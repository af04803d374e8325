package auth

import (
	"github.com/strrl/blogpessoal/internal/notify"
	"github.com/strrl/blogpessoal/internal/routes"
)

// Redirect tells a view to leave for another route with a notice
type Redirect struct {
	Route  string
	Notice notify.Notice
}

// Guard sends protected views to the login route whenever the token is empty.
// It fires on the first observation and again each time the token changes to "".
type Guard struct {
	observed bool
	last     string
}

// Observe checks the current token and reports whether the view must redirect
func (g *Guard) Observe(token string) (Redirect, bool) {
	changed := !g.observed || token != g.last
	g.observed = true
	g.last = token

	if token != "" || !changed {
		return Redirect{}, false
	}
	return Redirect{
		Route:  routes.Login,
		Notice: notify.NewInfo(notify.MustBeLoggedIn),
	}, true
}
