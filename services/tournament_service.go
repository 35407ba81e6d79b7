package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Mayonesio/disckatus-tournaments-sub000/models"
	"github.com/Mayonesio/disckatus-tournaments-sub000/repositories"
)

type CreateTournamentInput struct {
	Title             string                   `json:"title"`
	Location          *string                  `json:"location,omitempty"`
	Start             time.Time                `json:"start"`
	End               time.Time                `json:"end"`
	Type              models.TournamentType    `json:"type"`
	GenderRestriction models.GenderRestriction `json:"genderRestriction"`
	MaxPlayers        int                      `json:"maxPlayers"`
}

type UpdateTournamentInput struct {
	Title             *string                   `json:"title,omitempty"`
	Location          *string                   `json:"location,omitempty"`
	Start             *time.Time                `json:"start,omitempty"`
	End               *time.Time                `json:"end,omitempty"`
	Type              *models.TournamentType    `json:"type,omitempty"`
	GenderRestriction *models.GenderRestriction `json:"genderRestriction,omitempty"`
	MaxPlayers        *int                      `json:"maxPlayers,omitempty"`
	Status            *models.TournamentStatus  `json:"status,omitempty"`
}

type TournamentService interface {
	Create(ctx context.Context, identity Identity, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error)
	Update(ctx context.Context, identity Identity, id int, input UpdateTournamentInput) (*models.Tournament, error)
	Delete(ctx context.Context, identity Identity, id int) error
	AutoUpdateStatusesByDates(ctx context.Context) error
}

type tournamentService struct {
	repo   repositories.TournamentRepository
	logger *slog.Logger
}

func NewTournamentService(repo repositories.TournamentRepository, logger *slog.Logger) TournamentService {
	return &tournamentService{repo: repo, logger: logger}
}

func (s *tournamentService) Create(ctx context.Context, identity Identity, input CreateTournamentInput) (*models.Tournament, error) {
	if !identity.IsAdmin() {
		return nil, ErrForbiddenOperation
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTournamentTitleReq
	}
	if err := validateTournamentFields(input.Start, input.End, input.Type, input.GenderRestriction, input.MaxPlayers); err != nil {
		return nil, err
	}

	tournament := &models.Tournament{
		Title:             input.Title,
		Location:          input.Location,
		Start:             input.Start,
		End:               input.End,
		Type:              input.Type,
		GenderRestriction: input.GenderRestriction,
		MaxPlayers:        input.MaxPlayers,
		Status:            models.StatusUpcoming,
	}
	if err := s.repo.Create(ctx, tournament); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	tournaments, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	return tournaments, nil
}

func (s *tournamentService) Update(ctx context.Context, identity Identity, id int, input UpdateTournamentInput) (*models.Tournament, error) {
	if !identity.IsAdmin() {
		return nil, ErrForbiddenOperation
	}

	tournament, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTournamentTitleReq
		}
		tournament.Title = *input.Title
	}
	if input.Location != nil {
		tournament.Location = input.Location
	}
	if input.Start != nil {
		tournament.Start = *input.Start
	}
	if input.End != nil {
		tournament.End = *input.End
	}
	if input.Type != nil {
		tournament.Type = *input.Type
	}
	if input.GenderRestriction != nil {
		tournament.GenderRestriction = *input.GenderRestriction
	}
	if input.MaxPlayers != nil {
		tournament.MaxPlayers = *input.MaxPlayers
	}
	if input.Status != nil {
		if !isValidTournamentStatus(*input.Status) {
			return nil, ErrTournamentInvalidStatus
		}
		if !isValidStatusTransition(tournament.Status, *input.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrTournamentInvalidTransit, tournament.Status, *input.Status)
		}
		tournament.Status = *input.Status
	}

	if err := validateTournamentFields(tournament.Start, tournament.End, tournament.Type, tournament.GenderRestriction, tournament.MaxPlayers); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to update tournament: %w", err)
	}
	return tournament, nil
}

func (s *tournamentService) Delete(ctx context.Context, identity Identity, id int) error {
	if !identity.IsAdmin() {
		return ErrForbiddenOperation
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTournamentNotFound):
			return ErrTournamentNotFound
		case errors.Is(err, repositories.ErrTournamentInUse):
			return ErrTournamentHasRegistration
		}
		return fmt.Errorf("failed to delete tournament: %w", err)
	}
	return nil
}

// AutoUpdateStatusesByDates flips tournament statuses that fell behind their
// scheduling window. Run periodically from the scheduler goroutine.
func (s *tournamentService) AutoUpdateStatusesByDates(ctx context.Context) error {
	updated, err := s.repo.UpdateStatusesByDates(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("failed to auto-update tournament statuses: %w", err)
	}
	if updated > 0 {
		s.logger.Info("tournament statuses updated by dates", slog.Int64("count", updated))
	}
	return nil
}

func validateTournamentFields(start, end time.Time, tType models.TournamentType, restriction models.GenderRestriction, maxPlayers int) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrValidationFailed)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end (%s) is before start (%s)", ErrTournamentInvalidDateRange,
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	if maxPlayers <= 0 {
		return ErrTournamentInvalidCapacity
	}
	if !isValidTournamentType(tType) {
		return ErrTournamentInvalidType
	}
	if !isValidGenderRestriction(restriction) {
		return ErrTournamentInvalidGender
	}
	return nil
}

func isValidStatusTransition(current, next models.TournamentStatus) bool {
	if current == next {
		return true
	}
	allowed := map[models.TournamentStatus][]models.TournamentStatus{
		models.StatusUpcoming:  {models.StatusOngoing, models.StatusCancelled},
		models.StatusOngoing:   {models.StatusCompleted, models.StatusCancelled},
		models.StatusCompleted: {},
		models.StatusCancelled: {},
	}
	for _, s := range allowed[current] {
		if next == s {
			return true
		}
	}
	return false
}

func isValidTournamentStatus(status models.TournamentStatus) bool {
	switch status {
	case models.StatusUpcoming, models.StatusOngoing, models.StatusCompleted, models.StatusCancelled:
		return true
	}
	return false
}

func isValidTournamentType(t models.TournamentType) bool {
	switch t {
	case models.TypeFun, models.TypeControl, models.TypeCE, models.TypeTraining, models.TypeMeeting:
		return true
	}
	return false
}

func isValidGenderRestriction(r models.GenderRestriction) bool {
	switch r {
	case models.RestrictionMixed, models.RestrictionOpen, models.RestrictionFemale:
		return true
	}
	return false
}
