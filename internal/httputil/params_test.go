package httputil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newContext(method, body string, header map[string]string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(method, "/auth/signin", strings.NewReader(body))
	for k, v := range header {
		c.Request.Header.Set(k, v)
	}
	return c
}

func TestWantsJSON(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		want   bool
	}{
		{"browser form", map[string]string{"Content-Type": "application/x-www-form-urlencoded", "Accept": "text/html,application/xhtml+xml"}, false},
		{"json body", map[string]string{"Content-Type": "application/json"}, true},
		{"json accept", map[string]string{"Accept": "application/json"}, true},
		{"mixed accept prefers page", map[string]string{"Accept": "text/html, application/json"}, false},
		{"nothing", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newContext(http.MethodPost, "", tt.header)
			if got := WantsJSON(c); got != tt.want {
				t.Errorf("WantsJSON() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBindCredentials(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		wantUser    string
		wantErr     bool
	}{
		{"form", "username=alice&password=secret123", "application/x-www-form-urlencoded", "alice", false},
		{"json", `{"username":"bob","password":"secret123"}`, "application/json", "bob", false},
		{"broken json", `{"username":`, "application/json", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newContext(http.MethodPost, tt.body, map[string]string{"Content-Type": tt.contentType})

			req, err := BindCredentials(c)
			if (err != nil) != tt.wantErr {
				t.Fatalf("BindCredentials() error = %v, wantErr %v", err, tt.wantErr)
			}
			if req.Username != tt.wantUser {
				t.Errorf("Username = %q, want %q", req.Username, tt.wantUser)
			}
		})
	}
}
