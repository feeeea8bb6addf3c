package utils

import (
	"errors"

	"gatepass/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetUserClaims extracts the user claims from the Fiber context.
// It returns an error if the claims are missing or of an invalid type.
func GetUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	v := c.Locals("claims")
	if v == nil {
		return nil, errors.New("claims not found in context")
	}

	claims, ok := v.(*models.UserClaims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}
	return claims, nil
}

// RequireBusiness returns the business ID from the caller's claims, or an
// error if the account is not attached to a business.
func RequireBusiness(c *fiber.Ctx) (uint, error) {
	claims, err := GetUserClaims(c)
	if err != nil {
		return 0, err
	}
	if claims.BusinessID == 0 {
		return 0, errors.New("account is not attached to a business")
	}
	return claims.BusinessID, nil
}
