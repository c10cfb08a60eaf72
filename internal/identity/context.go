// Package identity reads the authenticated user out of a Fiber request.
package identity

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenKey  = "user"
	userIDKey = "user_id"
)

var (
	ErrNoToken     = errors.New("missing token in context")
	ErrBadClaims   = errors.New("invalid claims")
	ErrMissingSubj = errors.New("missing sub claim")
)

// SubjectID extracts the numeric user id from the verified JWT in context.
func SubjectID(c *fiber.Ctx) (int64, error) {
	token, ok := c.Locals(tokenKey).(*jwt.Token)
	if !ok || token == nil {
		return 0, ErrNoToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrBadClaims
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return 0, ErrMissingSubj
	}

	return strconv.ParseInt(sub, 10, 64)
}

// SetUserID stores the resolved user id for downstream handlers.
func SetUserID(c *fiber.Ctx, id int64) {
	c.Locals(userIDKey, id)
}

// UserID returns the id stored by SetUserID.
func UserID(c *fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(userIDKey).(int64)
	return id, ok
}
