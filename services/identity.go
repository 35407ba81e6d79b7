package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mayonesio/disckatus-tournaments-sub000/models"
	"github.com/Mayonesio/disckatus-tournaments-sub000/repositories"
)

// Identity is the acting caller, resolved from the session token at the HTTP
// boundary and passed explicitly into every service operation.
type Identity struct {
	UserID int
	Email  string
	Role   models.UserRole
}

func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

// resolvePlayerProfile finds the player profile behind an identity, first by
// the user link, then by matching email.
func resolvePlayerProfile(ctx context.Context, playerRepo repositories.PlayerRepository, identity Identity) (*models.Player, error) {
	player, err := playerRepo.GetByUserID(ctx, identity.UserID)
	if err == nil {
		return player, nil
	}
	if !errors.Is(err, repositories.ErrPlayerNotFound) {
		return nil, fmt.Errorf("failed to resolve player by user id: %w", err)
	}

	player, err = playerRepo.GetByEmail(ctx, identity.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrNoPlayerProfile
		}
		return nil, fmt.Errorf("failed to resolve player by email: %w", err)
	}
	return player, nil
}
