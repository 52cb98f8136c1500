package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/satext/satext/internal/gate"
)

// Locals keys set by the session middleware.
const (
	LocalsCaller = "caller"
	LocalsUserID = "user_id"
)

// CallerFromContext returns the caller stored by the session middleware.
func CallerFromContext(c *fiber.Ctx) (gate.Caller, bool) {
	caller, ok := c.Locals(LocalsCaller).(gate.Caller)

	return caller, ok
}

// RequireCapability creates Fiber middleware that requires a capability.
// Callers lacking it are redirected to landing(state) or, when landing
// returns an empty path, answered with 403.
func RequireCapability(capability gate.Capability, landing func(gate.State) string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, ok := CallerFromContext(c)
		if !ok {
			return c.Redirect("/login")
		}

		if caller.Can(capability) {
			return c.Next()
		}

		state := caller.State()

		if landing != nil {
			if to := landing(state); to != "" && to != c.Path() {
				return c.Redirect(to)
			}
		}

		log.Warn().Str("user", caller.UserID).Str("capability", string(capability)).Str("state", string(state)).
			Msg("caller lacks required capability")

		return fiber.NewError(fiber.StatusForbidden, "You don't have permission to access this page")
	}
}
