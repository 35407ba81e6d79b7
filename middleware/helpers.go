package middleware

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Mayonesio/disckatus-tournaments-sub000/models"
)

func GetUserIDFromContext(ctx context.Context) (int, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return 0, err
	}

	userIDClaim, ok := claims[jwtClaimUserID]
	if !ok {
		return 0, fmt.Errorf("missing %q claim in token", jwtClaimUserID)
	}

	// JSON numbers decode to float64; tolerate string ids from older tokens.
	switch v := userIDClaim.(type) {
	case float64:
		if v != float64(int(v)) || int(v) <= 0 {
			return 0, fmt.Errorf("invalid user id value in %q claim: %v", jwtClaimUserID, v)
		}
		return int(v), nil
	case string:
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			return 0, fmt.Errorf("invalid user id value in %q claim: %q", jwtClaimUserID, v)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("invalid type for %q claim: %T", jwtClaimUserID, userIDClaim)
	}
}

func GetUserEmailFromContext(ctx context.Context) (string, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return "", err
	}
	email, ok := claims[jwtClaimEmail].(string)
	if !ok || email == "" {
		return "", fmt.Errorf("missing %q claim in token", jwtClaimEmail)
	}
	return email, nil
}

func GetUserRoleFromContext(ctx context.Context) (models.UserRole, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return "", err
	}
	roleStr, ok := claims[jwtClaimRole].(string)
	if !ok {
		return "", fmt.Errorf("missing %q claim in token", jwtClaimRole)
	}

	role := models.UserRole(roleStr)
	switch role {
	case models.RoleAdmin, models.RolePlayer:
		return role, nil
	default:
		return "", fmt.Errorf("invalid role value in claim: %q", roleStr)
	}
}
