package navigation

import (
	"net/http"
)

// ResponseNavigator turns a navigation into an HTTP redirect on a single
// response. 303 See Other is used for both replace and push navigations:
// the redirected URL never becomes a history entry of its own.
type ResponseNavigator struct {
	w         http.ResponseWriter
	r         *http.Request
	navigated bool
	target    string
}

// NewResponseNavigator binds a navigator to one request/response pair
func NewResponseNavigator(w http.ResponseWriter, r *http.Request) *ResponseNavigator {
	return &ResponseNavigator{w: w, r: r}
}

// Navigate implements Navigator. Only the first navigation is written.
func (n *ResponseNavigator) Navigate(req Request) {
	if n.navigated {
		return
	}
	n.navigated = true
	n.target = req.URL()
	http.Redirect(n.w, n.r, n.target, http.StatusSeeOther)
}

// Navigated reports whether a redirect was written
func (n *ResponseNavigator) Navigated() bool {
	return n.navigated
}

// Target returns the redirect target, if any
func (n *ResponseNavigator) Target() string {
	return n.target
}

// RequestRouter is a fixed Router for the location of one request
type RequestRouter struct {
	loc Location
}

// NewRequestRouter captures the location of r
func NewRequestRouter(r *http.Request) *RequestRouter {
	return &RequestRouter{loc: Location{Pathname: r.URL.Path, Search: r.URL.Query()}}
}

// Location implements Router
func (rr *RequestRouter) Location() Location {
	return rr.loc
}

// Subscribe implements Router. A request location never changes.
func (rr *RequestRouter) Subscribe(func(Location)) func() {
	return func() {}
}
