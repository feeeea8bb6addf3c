package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	// Admin permissions
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"

	// Business operator permissions
	PermissionBusinessRead  = "business:read"
	PermissionBusinessWrite = "business:write"
	PermissionEventRead     = "event:read"
	PermissionEventWrite    = "event:write"
	PermissionFeeConfigRead = "feeconfig:read"
	PermissionReportRead    = "report:read"

	// Customer permissions
	PermissionCheckoutWrite  = "checkout:write"
	PermissionOrderRead      = "order:read"
	PermissionChangePassword = "user:change-password"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint     `json:"user_id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	BusinessID   uint     `json:"business_id,omitempty"`
	Permissions  []string `json:"permissions"`
	TokenVersion int      `json:"token_version"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case "admin":
		return []string{
			PermissionReadAdmin,
			PermissionWriteAdmin,
			PermissionBusinessRead,
			PermissionBusinessWrite,
			PermissionEventRead,
			PermissionEventWrite,
			PermissionFeeConfigRead,
			PermissionReportRead,
			PermissionOrderRead,
			PermissionChangePassword,
		}
	case "operator":
		return []string{
			PermissionBusinessRead,
			PermissionBusinessWrite,
			PermissionEventRead,
			PermissionEventWrite,
			PermissionFeeConfigRead,
			PermissionReportRead,
			PermissionOrderRead,
			PermissionChangePassword,
		}
	case "customer":
		return []string{
			PermissionEventRead,
			PermissionCheckoutWrite,
			PermissionOrderRead,
			PermissionChangePassword,
		}
	default:
		return []string{}
	}
}
