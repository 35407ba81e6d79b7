package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/Mayonesio/disckatus-tournaments-sub000/models"
	"github.com/Mayonesio/disckatus-tournaments-sub000/repositories"
	"github.com/Mayonesio/disckatus-tournaments-sub000/storage"
	"github.com/Mayonesio/disckatus-tournaments-sub000/utils"
	"github.com/google/uuid"
)

// slugFallbackLimit bounds the linear scan for a free numeric slug suffix.
const slugFallbackLimit = 50

type CreatePlayerInput struct {
	Name             string                   `json:"name"`
	Email            string                   `json:"email"`
	Gender           models.Gender            `json:"gender"`
	FederationStatus *models.FederationStatus `json:"federationStatus,omitempty"`
	Position         *string                  `json:"position,omitempty"`
	JerseyNumber     *int                     `json:"jerseyNumber,omitempty"`
}

type UpdatePlayerInput struct {
	Name             *string                  `json:"name,omitempty"`
	Email            *string                  `json:"email,omitempty"`
	Gender           *models.Gender           `json:"gender,omitempty"`
	FederationStatus *models.FederationStatus `json:"federationStatus,omitempty"`
	Position         *string                  `json:"position,omitempty"`
	JerseyNumber     *int                     `json:"jerseyNumber,omitempty"`
}

type PlayerService interface {
	Create(ctx context.Context, identity Identity, input CreatePlayerInput) (*models.Player, error)
	// Resolve accepts a database id or a human-readable slug and returns the
	// matching player: id lookup first, then exact slug, then a best-effort
	// case-insensitive slug match.
	Resolve(ctx context.Context, ref string) (*models.Player, error)
	List(ctx context.Context, filter repositories.ListPlayersFilter) ([]models.Player, error)
	Update(ctx context.Context, identity Identity, playerID int, input UpdatePlayerInput) (*models.Player, error)
	Delete(ctx context.Context, identity Identity, playerID int) error
	UploadPhoto(ctx context.Context, identity Identity, playerID int, contentType, filename string, file io.Reader) (*models.Player, error)
	ReplaceSkills(ctx context.Context, identity Identity, playerID int, skills []models.PlayerSkill) (*models.Player, error)
}

type playerService struct {
	playerRepo       repositories.PlayerRepository
	registrationRepo repositories.RegistrationRepository
	uploader         storage.FileUploader
}

func NewPlayerService(
	playerRepo repositories.PlayerRepository,
	registrationRepo repositories.RegistrationRepository,
	uploader storage.FileUploader,
) PlayerService {
	return &playerService{
		playerRepo:       playerRepo,
		registrationRepo: registrationRepo,
		uploader:         uploader,
	}
}

func (s *playerService) Create(ctx context.Context, identity Identity, input CreatePlayerInput) (*models.Player, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidationFailed)
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidationFailed)
	}
	if !isValidGender(input.Gender) {
		return nil, fmt.Errorf("%w: unknown gender %q", ErrValidationFailed, input.Gender)
	}
	// Non-admins may only create the profile for their own account.
	if !identity.IsAdmin() && !strings.EqualFold(input.Email, identity.Email) {
		return nil, ErrForbiddenOperation
	}

	federation := models.FederationUnregistered
	if input.FederationStatus != nil {
		if !isValidFederationStatus(*input.FederationStatus) {
			return nil, fmt.Errorf("%w: unknown federation status %q", ErrValidationFailed, *input.FederationStatus)
		}
		federation = *input.FederationStatus
	}

	player := &models.Player{
		Name:             input.Name,
		Email:            input.Email,
		Gender:           input.Gender,
		FederationStatus: federation,
		Position:         input.Position,
		JerseyNumber:     input.JerseyNumber,
	}
	if strings.EqualFold(input.Email, identity.Email) {
		userID := identity.UserID
		player.UserID = &userID
	}

	slugBase := utils.Slugify(input.Name)
	player.Slug = slugBase
	for attempt := 0; ; attempt++ {
		err := s.playerRepo.Create(ctx, player)
		if err == nil {
			break
		}
		if errors.Is(err, repositories.ErrPlayerSlugConflict) && attempt < slugFallbackLimit {
			player.Slug = utils.SlugWithSuffix(slugBase, attempt+2)
			continue
		}
		if errors.Is(err, repositories.ErrPlayerEmailConflict) {
			return nil, ErrPlayerEmailInUse
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	return player, nil
}

func (s *playerService) Resolve(ctx context.Context, ref string) (*models.Player, error) {
	if id, err := strconv.Atoi(ref); err == nil {
		player, err := s.playerRepo.GetByID(ctx, id)
		if err == nil {
			return s.withDetails(ctx, player), nil
		}
		if !errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, fmt.Errorf("failed to resolve player by id: %w", err)
		}
	}

	player, err := s.playerRepo.GetBySlug(ctx, ref)
	if err == nil {
		return s.withDetails(ctx, player), nil
	}
	if !errors.Is(err, repositories.ErrPlayerNotFound) {
		return nil, fmt.Errorf("failed to resolve player by slug: %w", err)
	}

	player, err = s.playerRepo.FindBySlugPattern(ctx, utils.Slugify(ref))
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to resolve player by slug pattern: %w", err)
	}
	return s.withDetails(ctx, player), nil
}

func (s *playerService) List(ctx context.Context, filter repositories.ListPlayersFilter) ([]models.Player, error) {
	players, err := s.playerRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	for i := range players {
		s.populatePhotoURL(&players[i])
	}
	return players, nil
}

func (s *playerService) Update(ctx context.Context, identity Identity, playerID int, input UpdatePlayerInput) (*models.Player, error) {
	player, err := s.getOwned(ctx, identity, playerID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != player.Name {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrValidationFailed)
		}
		player.Name = *input.Name
		player.Slug = utils.Slugify(*input.Name)
	}
	if input.Email != nil {
		player.Email = *input.Email
	}
	if input.Gender != nil {
		if !isValidGender(*input.Gender) {
			return nil, fmt.Errorf("%w: unknown gender %q", ErrValidationFailed, *input.Gender)
		}
		player.Gender = *input.Gender
	}
	if input.FederationStatus != nil {
		if !isValidFederationStatus(*input.FederationStatus) {
			return nil, fmt.Errorf("%w: unknown federation status %q", ErrValidationFailed, *input.FederationStatus)
		}
		player.FederationStatus = *input.FederationStatus
	}
	if input.Position != nil {
		player.Position = input.Position
	}
	if input.JerseyNumber != nil {
		player.JerseyNumber = input.JerseyNumber
	}

	slugBase := player.Slug
	for attempt := 0; ; attempt++ {
		err := s.playerRepo.Update(ctx, player)
		if err == nil {
			break
		}
		if errors.Is(err, repositories.ErrPlayerSlugConflict) && attempt < slugFallbackLimit {
			player.Slug = utils.SlugWithSuffix(slugBase, attempt+2)
			continue
		}
		if errors.Is(err, repositories.ErrPlayerEmailConflict) {
			return nil, ErrPlayerEmailInUse
		}
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to update player: %w", err)
	}
	return s.withDetails(ctx, player), nil
}

// Delete removes a player profile. Profiles with registrations are kept: the
// registration history must stay consistent with the counter bookkeeping.
func (s *playerService) Delete(ctx context.Context, identity Identity, playerID int) error {
	if _, err := s.getOwned(ctx, identity, playerID); err != nil {
		return err
	}

	count, err := s.registrationRepo.CountByPlayer(ctx, playerID)
	if err != nil {
		return fmt.Errorf("failed to count player registrations: %w", err)
	}
	if count > 0 {
		return ErrPlayerHasRegistrations
	}

	if err := s.playerRepo.Delete(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to delete player: %w", err)
	}
	return nil
}

func (s *playerService) UploadPhoto(ctx context.Context, identity Identity, playerID int, contentType, filename string, file io.Reader) (*models.Player, error) {
	player, err := s.getOwned(ctx, identity, playerID)
	if err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, errors.New("photo storage is not configured")
	}

	key := "players/" + uuid.NewString() + path.Ext(filename)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload player photo: %w", err)
	}

	oldKey := player.PhotoKey
	if err := s.playerRepo.UpdatePhotoKey(ctx, playerID, &key); err != nil {
		return nil, fmt.Errorf("failed to store player photo key: %w", err)
	}
	if oldKey != nil && *oldKey != "" {
		// Best effort; an orphaned object is not worth failing the request.
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	player.PhotoKey = &key
	s.populatePhotoURL(player)
	return player, nil
}

func (s *playerService) ReplaceSkills(ctx context.Context, identity Identity, playerID int, skills []models.PlayerSkill) (*models.Player, error) {
	player, err := s.getOwned(ctx, identity, playerID)
	if err != nil {
		return nil, err
	}

	for i := range skills {
		if strings.TrimSpace(skills[i].Name) == "" {
			return nil, fmt.Errorf("%w: skill name is required", ErrValidationFailed)
		}
		// Verification metadata is admin-set, never self-reported.
		if !identity.IsAdmin() {
			skills[i].Verified = false
			skills[i].VerifiedBy = nil
			skills[i].VerifiedAt = nil
		}
	}

	if err := s.playerRepo.ReplaceSkills(ctx, playerID, skills); err != nil {
		return nil, fmt.Errorf("failed to replace player skills: %w", err)
	}
	return s.withDetails(ctx, player), nil
}

// getOwned loads a player and checks the caller may mutate it (owner by user
// link or email, or admin).
func (s *playerService) getOwned(ctx context.Context, identity Identity, playerID int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if identity.IsAdmin() {
		return player, nil
	}
	if player.UserID != nil && *player.UserID == identity.UserID {
		return player, nil
	}
	if strings.EqualFold(player.Email, identity.Email) {
		return player, nil
	}
	return nil, ErrForbiddenOperation
}

func (s *playerService) withDetails(ctx context.Context, player *models.Player) *models.Player {
	s.populatePhotoURL(player)
	if skills, err := s.playerRepo.ListSkills(ctx, player.ID); err == nil {
		player.Skills = skills
	}
	return player
}

func (s *playerService) populatePhotoURL(player *models.Player) {
	if player == nil || s.uploader == nil {
		return
	}
	if player.PhotoKey != nil && *player.PhotoKey != "" {
		url := s.uploader.GetPublicURL(*player.PhotoKey)
		if url != "" {
			player.PhotoURL = &url
		}
	}
}

func isValidGender(g models.Gender) bool {
	switch g {
	case models.GenderMale, models.GenderFemale, models.GenderOther:
		return true
	}
	return false
}

func isValidFederationStatus(f models.FederationStatus) bool {
	switch f {
	case models.FederationRegistered, models.FederationPending, models.FederationUnregistered:
		return true
	}
	return false
}
