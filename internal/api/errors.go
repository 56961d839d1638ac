package api

import (
	"net/http"

	"github.com/celerix-dev/phonebook/internal/phonebook"
	"github.com/gin-gonic/gin"
)

// ErrorHandler writes the response for the last error a handler recorded
// with c.Error, unless the handler already wrote one.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		switch status := StatusFor(err); status {
		case http.StatusNotFound:
			c.Status(status)
		case http.StatusInternalServerError:
			// the cause stays in the access log
			c.JSON(status, gin.H{"error": phonebook.ErrStore.Message})
		default:
			c.JSON(status, gin.H{"error": err.Error()})
		}
	}
}

// StatusFor maps a phonebook error kind to an HTTP status.
func StatusFor(err error) int {
	switch phonebook.KindOf(err) {
	case phonebook.KindValidation, phonebook.KindDuplicateName, phonebook.KindMalformedID:
		return http.StatusBadRequest
	case phonebook.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
