package navigation

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestRequest_URL(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{"path only", Request{To: "/auth"}, "/auth"},
		{"with search", Request{To: "/auth", Search: url.Values{"mode": {"signup"}}}, "/auth?mode=signup"},
		{"existing query", Request{To: "/auth?x=1", Search: url.Values{"mode": {"signin"}}}, "/auth?x=1&mode=signin"},
		{"empty search", Request{To: "/", Search: url.Values{}}, "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.URL(); got != tt.want {
				t.Errorf("URL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHistory_ReplaceDoesNotGrowBackStack(t *testing.T) {
	h := NewHistory("/dashboard")

	h.Navigate(Request{To: "/auth", Replace: true})

	entries := h.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Pathname != "/auth" {
		t.Errorf("expected current path /auth, got %s", entries[0].Pathname)
	}
	if h.Back() {
		t.Error("Back() should report false when the protected page was replaced")
	}
}

func TestHistory_PushAndBack(t *testing.T) {
	h := NewHistory("/")

	h.Navigate(Request{To: "/settings"})
	if got := h.Location().Pathname; got != "/settings" {
		t.Fatalf("expected /settings, got %s", got)
	}

	if !h.Back() {
		t.Fatal("Back() should succeed after a push")
	}
	if got := h.Location().Pathname; got != "/" {
		t.Errorf("expected / after back, got %s", got)
	}
}

func TestHistory_SearchIsParsed(t *testing.T) {
	h := NewHistory("/auth")

	h.Navigate(Request{To: "/auth", Replace: true, Search: url.Values{"mode": {"signup"}}})

	if got := h.Location().Search.Get("mode"); got != "signup" {
		t.Errorf("expected mode=signup, got %q", got)
	}
}

func TestHistory_Subscribe(t *testing.T) {
	h := NewHistory("/")
	var seen []string

	unsubscribe := h.Subscribe(func(loc Location) {
		seen = append(seen, loc.Pathname)
	})

	h.Navigate(Request{To: "/a"})
	h.Navigate(Request{To: "/b", Replace: true})
	unsubscribe()
	h.Navigate(Request{To: "/c"})

	if len(seen) != 2 || seen[0] != "/a" || seen[1] != "/b" {
		t.Errorf("unexpected notifications: %v", seen)
	}
}

func TestHistory_ReentrantNavigate(t *testing.T) {
	h := NewHistory("/")

	h.Subscribe(func(loc Location) {
		if loc.Pathname == "/old" {
			h.Navigate(Request{To: "/new", Replace: true})
		}
	})

	h.Navigate(Request{To: "/old"})

	if got := h.Location().Pathname; got != "/new" {
		t.Errorf("expected /new, got %s", got)
	}
}

func TestResponseNavigator(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	nav := NewResponseNavigator(rec, req)

	nav.Navigate(Request{To: "/auth", Replace: true})
	nav.Navigate(Request{To: "/", Replace: true})

	if !nav.Navigated() {
		t.Fatal("expected Navigated() to be true")
	}
	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status 303, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/auth" {
		t.Errorf("expected Location /auth, got %q", got)
	}
	if nav.Target() != "/auth" {
		t.Errorf("expected target /auth, got %q", nav.Target())
	}
}

func TestRequestRouter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/auth?mode=signup", nil)
	router := NewRequestRouter(req)

	loc := router.Location()
	if loc.Pathname != "/auth" {
		t.Errorf("expected /auth, got %s", loc.Pathname)
	}
	if loc.Search.Get("mode") != "signup" {
		t.Errorf("expected mode=signup, got %q", loc.Search.Get("mode"))
	}
	router.Subscribe(func(Location) {})()
}
