package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Console roles carried in the `roles` token claim.
const (
	RoleProviderAdmin = "provider_admin"
	RoleManager       = "manager"
	RoleSupportWorker = "support_worker"
	RoleParticipant   = "participant"
	RoleHR            = "hr"
	RoleFinance       = "finance"
	RoleIT            = "it"
	RoleDataEntry     = "data_entry"
)

// AllRoles defines the full set of roles known to the console.
var AllRoles = []string{
	RoleProviderAdmin,
	RoleManager,
	RoleSupportWorker,
	RoleParticipant,
	RoleHR,
	RoleFinance,
	RoleIT,
	RoleDataEntry,
}

// RequireRole returns echo middleware that rejects requests whose token
// carries none of the allowed roles. It must run after RequireAuth.
func RequireRole(allowed ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roles := RolesFromContext(c.Request().Context())
			for _, role := range roles {
				for _, a := range allowed {
					if role == a {
						return next(c)
					}
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
		}
	}
}
