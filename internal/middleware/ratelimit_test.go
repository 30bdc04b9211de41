package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitKey(t *testing.T) {
	tests := []struct {
		name    string
		subject any
		want    string
	}{
		{"no subject", nil, "rl:/generate:{ip}"},
		{"anonymous", AnonymousSubject, "rl:/generate:{ip}"},
		{"empty subject", "", "rl:/generate:{ip}"},
		{"authenticated", "alice", "rl:/generate:sub:alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Post("/generate", func(c *fiber.Ctx) error {
				if tt.subject != nil {
					c.Locals(CtxSubject, tt.subject)
				}
				want := strings.ReplaceAll(tt.want, "{ip}", c.IP())
				if got := rateLimitKey(c); got != want {
					return c.Status(fiber.StatusExpectationFailed).SendString(got + " != " + want)
				}
				return c.SendStatus(fiber.StatusNoContent)
			})

			resp, err := app.Test(httptest.NewRequest("POST", "/generate", nil))
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, fiber.StatusNoContent, resp.StatusCode, string(body))
		})
	}
}
