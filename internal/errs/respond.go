package errs

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the wire shape for all failed requests.
// Stack is only populated outside production.
type ErrorResponse struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// Respond translates an error into an HTTP status and body and writes it.
// ValidationError -> 400, NotFoundError -> 404, anything else -> 500.
func Respond(c *gin.Context, err error, production bool) {
	status := http.StatusInternalServerError

	var ve *ValidationError
	var nfe *NotFoundError
	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
	case errors.As(err, &nfe):
		status = http.StatusNotFound
	}

	body := ErrorResponse{Message: err.Error()}
	if !production {
		body.Stack = string(debug.Stack())
	}
	c.JSON(status, body)
}
