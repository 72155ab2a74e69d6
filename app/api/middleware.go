package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const accountContextKey = "account_id"

// RequireAccount resolves the caller identity from the X-Account-ID header.
// Every settlement operation is performed on behalf of an account, so routes
// mounted behind this middleware can assume AccountFrom returns a non-nil ID.
func RequireAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-Account-ID")
		if raw == "" {
			ErrorResponse(c, 401, "UNAUTHORIZED", "X-Account-ID header is required", nil)
			c.Abort()
			return
		}

		id, err := uuid.Parse(raw)
		if err != nil || id == uuid.Nil {
			ErrorResponse(c, 401, "UNAUTHORIZED", "X-Account-ID header is not a valid account ID", nil)
			c.Abort()
			return
		}

		c.Set(accountContextKey, id)
		c.Next()
	}
}

// AccountFrom returns the caller account resolved by RequireAccount.
func AccountFrom(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(accountContextKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
