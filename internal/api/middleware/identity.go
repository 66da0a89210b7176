package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/ProgramFactory/internal/shared/id"
	"github.com/GriffinCanCode/ProgramFactory/internal/shared/types"
)

const (
	HeaderActorID   = "X-Actor-Id"
	HeaderRequestID = "X-Request-ID"

	senderKey    = "factory.sender"
	requestIDKey = "factory.request_id"
)

// RequestID tags every request with an id, reusing the caller's when given
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderRequestID)
		if rid == "" {
			rid = id.NewRequestID().String()
		}
		c.Set(requestIDKey, rid)
		c.Header(HeaderRequestID, rid)
		c.Next()
	}
}

// GetRequestID returns the id assigned by RequestID
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// Sender parses the X-Actor-Id header into the invocation sender. Requests
// without a valid header are rejected with 400.
func Sender() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderActorID)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing " + HeaderActorID + " header"})
			return
		}
		addr, err := types.ParseActorAddress(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Set(senderKey, addr)
		c.Next()
	}
}

// GetSender returns the sender parsed by Sender
func GetSender(c *gin.Context) (types.ActorAddress, bool) {
	v, ok := c.Get(senderKey)
	if !ok {
		return types.ActorAddress{}, false
	}
	addr, ok := v.(types.ActorAddress)
	return addr, ok
}
