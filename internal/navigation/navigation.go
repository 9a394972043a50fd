// Package navigation models the router collaborator: a readable, observable
// current location and a navigate operation that can replace the current
// history entry instead of pushing a new one.
package navigation

import (
	"net/url"
	"strings"
)

// Request describes a navigation
type Request struct {
	To      string
	Replace bool
	Search  url.Values
}

// URL renders the target path with its encoded search
func (r Request) URL() string {
	if len(r.Search) == 0 {
		return r.To
	}
	sep := "?"
	if strings.Contains(r.To, "?") {
		sep = "&"
	}
	return r.To + sep + r.Search.Encode()
}

// Navigator performs navigations. Implementations do not report failure.
type Navigator interface {
	Navigate(Request)
}

// Location is the current navigation location
type Location struct {
	Pathname string
	Search   url.Values
}

// Router exposes the current location and notifies on changes
type Router interface {
	Location() Location
	Subscribe(func(Location)) (unsubscribe func())
}

// ParseLocation splits a path with an optional query into a Location
func ParseLocation(raw string) Location {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{Pathname: raw}
	}
	return Location{Pathname: u.Path, Search: u.Query()}
}
