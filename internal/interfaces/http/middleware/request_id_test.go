package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/recipechat/backend/internal/infrastructure/log"
)

func newRouter(seen *string, seenURL *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) {
		*seen = log.RequestIDFromContext(c.Request.Context())
		if v, ok := c.Request.Context().Value(log.RecipeURLContextID).(string); ok {
			*seenURL = v
		}
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestRequestID_Generated(t *testing.T) {
	var seen, seenURL string
	router := newRouter(&seen, &seenURL)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping?url=https://x/pie", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(HeaderRequestID))
	assert.Equal(t, "https://x/pie", seenURL)
}

func TestRequestID_Propagated(t *testing.T) {
	var seen, seenURL string
	router := newRouter(&seen, &seenURL)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
	assert.Empty(t, seenURL)
}
