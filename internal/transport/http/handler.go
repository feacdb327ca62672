package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"eduadmin/internal/client"
)

// errInvalidID marks a malformed numeric path parameter; the response
// has already been written when it is returned.
var errInvalidID = errors.New("invalid id")

// upstreamError writes a normalized upstream failure. HTTP failures
// keep the upstream status and message; transport failures map to 502.
// The triggering handler's state is never touched, so the caller can
// simply re-trigger the action.
func upstreamError(c *gin.Context, err error) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if apiErr.IsNetwork() {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": apiErr.Message})
		return
	}
	// Anything else is an internal failure; the detail stays in the log.
	log.Printf("gateway error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred"})
}
