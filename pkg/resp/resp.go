package resp

import (
	"errors"
	"net/http"

	"github.com/dono45/dishsystem-by-tongyi/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": data})
}
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"ok": true, "data": data})
}

// Message is a success body that only carries a human readable message.
func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"ok": true, "message": msg})
}

func BadRequest(c *gin.Context, msg string) {
	Fail(c, http.StatusBadRequest, msg)
}

// Fail writes an error body and aborts the chain.
func Fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"ok": false, "message": msg})
}

// Error maps a service error to its status. Anything unexpected is logged
// with the request logger and answered with a generic 500.
func Error(c *gin.Context, err error) {
	status := services.HTTPStatus(err)
	var se *services.Error
	if status == http.StatusInternalServerError || !errors.As(err, &se) {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).
			Str("path", c.FullPath()).
			Msg("request failed")
		_ = c.Error(err)
		Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	Fail(c, status, se.Message)
}
