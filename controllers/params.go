package controllers

import (
	"net/http"
	"strconv"

	"github.com/dono45/dishsystem-by-tongyi/pkg/resp"

	"github.com/gin-gonic/gin"
)

// pathID reads a positive integer path parameter. Anything else is treated
// like an unknown route.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || id == 0 {
		resp.Fail(c, http.StatusNotFound, "Not found")
		return 0, false
	}
	return uint(id), true
}

// bindJSON rejects a missing or malformed body with 400.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		resp.BadRequest(c, "Missing or invalid JSON data")
		return false
	}
	return true
}
