package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const CtxRequestID = "request_id"

// Longer incoming IDs are replaced rather than echoed into logs and headers.
const maxRequestIDLen = 128

// RequestIDMiddleware tags every request with X-Request-ID, reusing the
// caller's value when present. Error bodies carry the same ID so a failed
// generation can be matched to its log lines.
func RequestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqID := c.Get("X-Request-ID")
		if reqID == "" || len(reqID) > maxRequestIDLen {
			reqID = uuid.New().String()
		}
		c.Locals(CtxRequestID, reqID)
		c.Set("X-Request-ID", reqID)
		return c.Next()
	}
}

// GetRequestID returns the ID set by RequestIDMiddleware, or "".
func GetRequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(CtxRequestID).(string)
	return id
}
