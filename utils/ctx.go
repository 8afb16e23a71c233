package utils

import (
	"github.com/dono45/dishsystem-by-tongyi/entity"
	"github.com/gin-gonic/gin"
)

const (
	userIDKey    = "userId"
	userKey      = "user"
	RequestIDKey = "requestId"
)

func SetCurrentUser(c *gin.Context, u *entity.User) {
	c.Set(userIDKey, u.ID)
	c.Set(userKey, u)
}

func CurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

func CurrentUser(c *gin.Context) *entity.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*entity.User); ok {
			return u
		}
	}
	return nil
}

func RequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
