package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clinicbook/config"
	"clinicbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuthMiddleware())
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c), "token": Token(c)})
	})
	return r
}

func TestJWTAuthMiddleware(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	r := authRouter()

	do := func(authHeader string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("valid token passes user id and raw token through", func(t *testing.T) {
		token, err := utils.GenerateToken("patient-7", "p7@example.com", time.Hour)
		require.NoError(t, err)

		w := do("Bearer " + token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":"patient-7"`)
		assert.Contains(t, w.Body.String(), token)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		w := do("")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Please log in")
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		token, err := utils.GenerateToken("patient-7", "p7@example.com", -time.Minute)
		require.NoError(t, err)

		w := do("Bearer " + token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Session expired")
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		w := do("Bearer not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
