package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Mayonesio/disckatus-tournaments-sub000/models"
	"github.com/Mayonesio/disckatus-tournaments-sub000/repositories"
	"github.com/Mayonesio/disckatus-tournaments-sub000/storage"
)

// EventBroadcaster pushes registration events to websocket subscribers of a
// tournament room.
type EventBroadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

const (
	EventRegistrationCreated   = "REGISTRATION_CREATED"
	EventRegistrationCancelled = "REGISTRATION_CANCELLED"
	EventRegistrationUpdated   = "REGISTRATION_UPDATED"
)

type RegistrationEvent struct {
	Type         string               `json:"type"`
	TournamentID int                  `json:"tournamentId"`
	Registration *models.Registration `json:"registration,omitempty"`
}

type UpdateRegistrationInput struct {
	Status        *models.RegistrationStatus `json:"status,omitempty"`
	PaymentStatus *models.PaymentStatus      `json:"paymentStatus,omitempty"`
}

type RegistrationService interface {
	Register(ctx context.Context, identity Identity, tournamentID int) (*models.Registration, bool, error)
	Cancel(ctx context.Context, identity Identity, tournamentID int) error
	QueryStatus(ctx context.Context, identity Identity, tournamentID int) (bool, *models.Registration, error)
	ListForTournament(ctx context.Context, tournamentID int) ([]models.RegistrationWithPlayer, error)
	UpdateStatus(ctx context.Context, identity Identity, tournamentID, registrationID int, input UpdateRegistrationInput) (*models.Registration, error)
}

// registrationService owns the registration lifecycle and is the only writer
// of the tournaments.registered_players counter.
type registrationService struct {
	registrationRepo repositories.RegistrationRepository
	tournamentRepo   repositories.TournamentRepository
	playerRepo       repositories.PlayerRepository
	uploader         storage.FileUploader
	hub              EventBroadcaster
	notifier         Notifier
	logger           *slog.Logger
}

func NewRegistrationService(
	registrationRepo repositories.RegistrationRepository,
	tournamentRepo repositories.TournamentRepository,
	playerRepo repositories.PlayerRepository,
	uploader storage.FileUploader,
	hub EventBroadcaster,
	notifier Notifier,
	logger *slog.Logger,
) RegistrationService {
	return &registrationService{
		registrationRepo: registrationRepo,
		tournamentRepo:   tournamentRepo,
		playerRepo:       playerRepo,
		uploader:         uploader,
		hub:              hub,
		notifier:         notifier,
		logger:           logger,
	}
}

// Register signs the caller's player up for a tournament. The boolean result
// reports whether the registration awaits admin approval.
//
// Each precondition fails with its own error so the client can show the exact
// reason. The counter increment is conditional on remaining capacity; when it
// reports no change the freshly inserted registration is compensated away and
// the call fails as full.
func (s *registrationService) Register(ctx context.Context, identity Identity, tournamentID int) (*models.Registration, bool, error) {
	tournament, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, false, err
	}

	player, err := resolvePlayerProfile(ctx, s.playerRepo, identity)
	if err != nil {
		return nil, false, err
	}

	if !IsEligible(tournament.GenderRestriction, tournament.Type, player.Gender) {
		return nil, false, ErrNotEligible
	}

	existing, err := s.registrationRepo.FindByPlayerAndTournament(ctx, player.ID, tournament.ID)
	if err != nil && !errors.Is(err, repositories.ErrRegistrationNotFound) {
		return nil, false, fmt.Errorf("failed to check existing registration: %w", err)
	}
	if existing != nil {
		return nil, false, ErrAlreadyRegistered
	}

	if tournament.RegisteredPlayers >= tournament.MaxPlayers {
		return nil, false, ErrTournamentFull
	}
	if tournament.End.Before(time.Now()) {
		return nil, false, ErrTournamentFinished
	}
	if tournament.Status == models.StatusCancelled {
		return nil, false, ErrTournamentCancelled
	}

	needsApproval := NeedsApproval(tournament.Type)
	status := models.RegistrationApproved
	if needsApproval {
		status = models.RegistrationPending
	}

	reg := &models.Registration{
		PlayerID:      player.ID,
		TournamentID:  tournament.ID,
		Status:        status,
		PaymentStatus: models.PaymentPending,
	}

	if err := s.registrationRepo.Create(ctx, nil, reg); err != nil {
		if errors.Is(err, repositories.ErrRegistrationConflict) {
			return nil, false, ErrAlreadyRegistered
		}
		return nil, false, fmt.Errorf("failed to create registration: %w", err)
	}

	incremented, err := s.tournamentRepo.IncrementRegisteredPlayers(ctx, nil, tournament.ID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to increment registered players: %w", err)
	}
	if !incremented {
		// The tournament filled up between the capacity check and the
		// increment. Roll the insert back so no phantom registration stays.
		if delErr := s.registrationRepo.Delete(ctx, nil, reg.ID); delErr != nil {
			s.logger.Error("failed to compensate registration after full tournament",
				slog.Int("registration_id", reg.ID),
				slog.Any("error", delErr))
		}
		return nil, false, ErrTournamentFull
	}

	s.broadcast(tournament.ID, RegistrationEvent{
		Type:         EventRegistrationCreated,
		TournamentID: tournament.ID,
		Registration: reg,
	})
	if s.notifier != nil {
		if err := s.notifier.RegistrationCreated(ctx, player, tournament, reg); err != nil {
			s.logger.Warn("registration notification failed", slog.Any("error", err))
		}
	}

	return reg, needsApproval, nil
}

// Cancel removes the caller's registration and lowers the counter, floored at
// zero to absorb any drift accumulated before.
func (s *registrationService) Cancel(ctx context.Context, identity Identity, tournamentID int) error {
	tournament, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return err
	}

	player, err := resolvePlayerProfile(ctx, s.playerRepo, identity)
	if err != nil {
		return err
	}

	existing, err := s.registrationRepo.FindByPlayerAndTournament(ctx, player.ID, tournament.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return ErrNotRegistered
		}
		return fmt.Errorf("failed to find registration: %w", err)
	}

	if tournament.End.Before(time.Now()) {
		return ErrCannotCancelFinished
	}

	if err := s.registrationRepo.Delete(ctx, nil, existing.ID); err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return ErrNotRegistered
		}
		return fmt.Errorf("failed to delete registration: %w", err)
	}

	if err := s.tournamentRepo.DecrementRegisteredPlayers(ctx, nil, tournament.ID); err != nil {
		return fmt.Errorf("failed to decrement registered players: %w", err)
	}

	s.broadcast(tournament.ID, RegistrationEvent{
		Type:         EventRegistrationCancelled,
		TournamentID: tournament.ID,
		Registration: existing,
	})
	if s.notifier != nil {
		if err := s.notifier.RegistrationCancelled(ctx, player, tournament, existing); err != nil {
			s.logger.Warn("cancellation notification failed", slog.Any("error", err))
		}
	}

	return nil
}

// QueryStatus reports whether the caller is registered for the tournament.
// A missing player profile means "not registered", not an error.
func (s *registrationService) QueryStatus(ctx context.Context, identity Identity, tournamentID int) (bool, *models.Registration, error) {
	player, err := resolvePlayerProfile(ctx, s.playerRepo, identity)
	if err != nil {
		if errors.Is(err, ErrNoPlayerProfile) {
			return false, nil, nil
		}
		return false, nil, err
	}

	reg, err := s.registrationRepo.FindByPlayerAndTournament(ctx, player.ID, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return false, nil, nil
		}
		return false, nil, fmt.Errorf("failed to query registration status: %w", err)
	}
	return true, reg, nil
}

func (s *registrationService) ListForTournament(ctx context.Context, tournamentID int) ([]models.RegistrationWithPlayer, error) {
	if _, err := s.getTournament(ctx, tournamentID); err != nil {
		return nil, err
	}

	regs, err := s.registrationRepo.ListByTournamentWithPlayers(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournament registrations: %w", err)
	}

	if s.uploader != nil {
		for i := range regs {
			if regs[i].Player.PhotoURL != nil && *regs[i].Player.PhotoURL != "" {
				url := s.uploader.GetPublicURL(*regs[i].Player.PhotoURL)
				if url != "" {
					regs[i].Player.PhotoURL = &url
				}
			}
		}
	}
	return regs, nil
}

// UpdateStatus applies a partial status/paymentStatus update to a single
// registration. Admin only. The counter is never touched here: it moves only
// on create and cancel.
func (s *registrationService) UpdateStatus(ctx context.Context, identity Identity, tournamentID, registrationID int, input UpdateRegistrationInput) (*models.Registration, error) {
	if !identity.IsAdmin() {
		return nil, ErrForbiddenOperation
	}
	if input.Status == nil && input.PaymentStatus == nil {
		return nil, fmt.Errorf("%w: status or paymentStatus required", ErrValidationFailed)
	}
	if input.Status != nil && !isValidRegistrationStatus(*input.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidationFailed, *input.Status)
	}
	if input.PaymentStatus != nil && !isValidPaymentStatus(*input.PaymentStatus) {
		return nil, fmt.Errorf("%w: unknown payment status %q", ErrValidationFailed, *input.PaymentStatus)
	}

	reg, err := s.registrationRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	if reg.TournamentID != tournamentID {
		return nil, ErrRegistrationMismatch
	}

	fields := repositories.UpdateRegistrationFields{
		Status:        input.Status,
		PaymentStatus: input.PaymentStatus,
	}
	if err := s.registrationRepo.UpdateFields(ctx, registrationID, fields); err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to update registration: %w", err)
	}

	updated, err := s.registrationRepo.GetByID(ctx, registrationID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload registration: %w", err)
	}

	s.broadcast(tournamentID, RegistrationEvent{
		Type:         EventRegistrationUpdated,
		TournamentID: tournamentID,
		Registration: updated,
	})

	return updated, nil
}

func (s *registrationService) getTournament(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}
	return tournament, nil
}

func (s *registrationService) broadcast(tournamentID int, event RegistrationEvent) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToRoom(fmt.Sprintf("tournament_%d", tournamentID), event)
}

func isValidRegistrationStatus(status models.RegistrationStatus) bool {
	switch status {
	case models.RegistrationPending, models.RegistrationApproved, models.RegistrationRejected:
		return true
	}
	return false
}

func isValidPaymentStatus(status models.PaymentStatus) bool {
	switch status {
	case models.PaymentPending, models.PaymentCompleted, models.PaymentRefunded:
		return true
	}
	return false
}
