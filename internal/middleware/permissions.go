package middleware

import (
	"slices"

	"github.com/gofiber/fiber/v2"

	"tienda/internal/models"
)

// Permission names an action guarded at route level.
type Permission string

const (
	PermCatalogWrite       Permission = "catalog:write"
	PermOrdersReadAll      Permission = "orders:read_all"
	PermOrdersUpdateStatus Permission = "orders:update_status"
	PermCartsAny           Permission = "carts:any"
)

// rolePermissions maps every permission to the roles holding it.
var rolePermissions = map[Permission][]models.Role{
	PermCatalogWrite:       {models.RoleAdmin},
	PermOrdersReadAll:      {models.RoleAdmin},
	PermOrdersUpdateStatus: {models.RoleAdmin},
	PermCartsAny:           {models.RoleAdmin},
}

// Allowed reports whether role holds perm. Unknown permissions are denied.
func Allowed(role models.Role, perm Permission) bool {
	return slices.Contains(rolePermissions[perm], role)
}

// Require guards a route with perm. It must run after AuthRequired.
func Require(perm Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFrom(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication required",
			})
		}
		if !Allowed(principal.Role, perm) {
			return forbidden(c, perm)
		}
		return c.Next()
	}
}

// RequireSelfOr lets the request through when the route parameter param equals the
// caller's user id, or when the caller holds perm.
func RequireSelfOr(param string, perm Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFrom(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication required",
			})
		}
		id, err := c.ParamsInt(param)
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid " + param,
			})
		}
		if uint(id) != principal.UserID && !Allowed(principal.Role, perm) {
			return forbidden(c, perm)
		}
		return c.Next()
	}
}

func forbidden(c *fiber.Ctx, perm Permission) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"message": "Insufficient permissions",
		"error":   "missing permission " + string(perm),
	})
}
