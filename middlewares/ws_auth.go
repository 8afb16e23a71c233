// middlewares/ws_auth.go
package middlewares

import (
	"net/http"

	"github.com/dono45/dishsystem-by-tongyi/pkg/resp"
	"github.com/dono45/dishsystem-by-tongyi/services"
	"github.com/dono45/dishsystem-by-tongyi/utils"

	"github.com/gin-gonic/gin"
)

// WSAdminAuth guards websocket upgrades. Browsers cannot set headers on a
// websocket handshake, so the token may also come as ?token=.
func WSAdminAuth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.Query("token")
		if tokenStr == "" {
			tokenStr, _ = bearerToken(c)
		}
		if tokenStr == "" {
			resp.Fail(c, http.StatusUnauthorized, "Missing token")
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
