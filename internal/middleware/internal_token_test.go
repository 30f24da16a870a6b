package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func internalRouter(token string) *gin.Engine {
	r := gin.New()
	r.POST("/internal/sweep", InternalTokenAuth(token, nil), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestInternalTokenAuth(t *testing.T) {
	cases := []struct {
		name       string
		configured string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"valid", "s3cret", "Bearer s3cret", http.StatusNoContent, ""},
		{"lowercase scheme", "s3cret", "bearer s3cret", http.StatusNoContent, ""},
		{"wrong token", "s3cret", "Bearer nope", http.StatusForbidden, "AUTH_INVALID"},
		{"missing header", "s3cret", "", http.StatusUnauthorized, "AUTH_MISSING"},
		{"bad format", "s3cret", "s3cret", http.StatusUnauthorized, "AUTH_INVALID"},
		{"not configured", "", "Bearer anything", http.StatusForbidden, "AUTH_INVALID"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/internal/sweep", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			internalRouter(tc.configured).ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantCode != "" {
				assert.Equal(t, tc.wantCode, errorCode(t, w))
			}
		})
	}
}
