package httputil

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/authguard/internal/domain"
)

// BindCredentials reads username and password from a JSON body or a form post
func BindCredentials(c *gin.Context) (domain.RegisterRequest, error) {
	var req domain.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		return domain.RegisterRequest{}, err
	}
	return req, nil
}

// WantsJSON reports whether the client asked for a JSON answer instead of a page
func WantsJSON(c *gin.Context) bool {
	if strings.Contains(c.GetHeader("Content-Type"), "application/json") {
		return true
	}
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}
