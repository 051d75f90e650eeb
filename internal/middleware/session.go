package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionHeader carries the client's session id. A missing or malformed id
// gets a fresh one, echoed back in the response so the client can keep it.
const SessionHeader = "X-Session-ID"

func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := c.GetHeader(SessionHeader)
		if _, err := uuid.Parse(sid); err != nil {
			sid = uuid.NewString()
		}
		c.Header(SessionHeader, sid)
		c.Set("sessionID", sid)
		c.Next()
	}
}

func GetSessionID(c *gin.Context) string {
	sid, _ := c.Get("sessionID")
	s, _ := sid.(string)
	return s
}
