package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/bookstore-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller, built entirely from token
// claims. No store lookup happens per request.
type Principal struct {
	UserID  string
	Email   string
	TokenID string
	Roles   []string
}

// HasRole reports whether the principal holds the named role.
func (p *Principal) HasRole(name string) bool {
	for _, role := range p.Roles {
		if role == name {
			return true
		}
	}
	return false
}

// Guard makes the per-request authorization decision for a declared policy.
type Guard struct {
	tokens *TokenManager
}

// NewGuard constructs the guard around a token manager.
func NewGuard(tokens *TokenManager) *Guard {
	return &Guard{tokens: tokens}
}

// Require returns a handler enforcing the policy. Missing, malformed and
// expired tokens all map to the same 401; a valid token lacking every
// required role maps to 403.
func (g *Guard) Require(policy Policy) fiber.Handler {
	allowed := make(map[string]struct{}, len(policy.Roles))
	for _, role := range policy.Roles {
		allowed[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		if policy.Kind == PolicyPublic {
			return c.Next()
		}

		token, ok := bearerToken(c.Get("Authorization"))
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}

		claims, err := g.tokens.Parse(token)
		if err != nil {
			return apperrors.NewUnauthorized("authentication required")
		}

		principal := &Principal{
			UserID:  claims.UserID,
			Email:   claims.Subject,
			TokenID: claims.ID,
			Roles:   claims.Roles,
		}
		c.Locals(principalKey, principal)

		if policy.Kind == PolicyRoles {
			if !intersects(allowed, claims.Roles) {
				return apperrors.NewForbidden("insufficient role")
			}
		}
		return c.Next()
	}
}

// PrincipalFromContext retrieves the authenticated caller, when present.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func intersects(allowed map[string]struct{}, roles []string) bool {
	for _, role := range roles {
		if _, ok := allowed[role]; ok {
			return true
		}
	}
	return false
}
