package middlewares

import (
	"net/http"
	"strings"

	"github.com/dono45/dishsystem-by-tongyi/pkg/resp"
	"github.com/dono45/dishsystem-by-tongyi/services"
	"github.com/dono45/dishsystem-by-tongyi/utils"

	"github.com/gin-gonic/gin"
)

// RequireUser admits any caller whose bearer token resolves to an existing user.
func RequireUser(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		if !ok {
			resp.Fail(c, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}
		user, err := auth.RequireUser(c.Request.Context(), tokenStr)
		if err != nil {
			resp.Error(c, err)
			return
		}
		utils.SetCurrentUser(c, user)
		c.Next()
	}
}

// RequireAdmin is RequireUser plus the admin flag.
func RequireAdmin(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		if !ok {
			resp.Fail(c, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}
		user, err := auth.RequireAdmin(c.Request.Context(), tokenStr)
		if err != nil {
			resp.Error(c, err)
			return
		}
		utils.SetCurrentUser(c, user)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	if h == "" || !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	t := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	return t, t != ""
}
