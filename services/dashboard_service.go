package services

import (
	"context"
	"fmt"

	"github.com/Mayonesio/disckatus-tournaments-sub000/models"
	"github.com/Mayonesio/disckatus-tournaments-sub000/repositories"
	"golang.org/x/sync/errgroup"
)

type DashboardService interface {
	GetStats(ctx context.Context) (models.DashboardStats, error)
}

type dashboardService struct {
	playerRepo       repositories.PlayerRepository
	tournamentRepo   repositories.TournamentRepository
	registrationRepo repositories.RegistrationRepository
}

func NewDashboardService(
	playerRepo repositories.PlayerRepository,
	tournamentRepo repositories.TournamentRepository,
	registrationRepo repositories.RegistrationRepository,
) DashboardService {
	return &dashboardService{
		playerRepo:       playerRepo,
		tournamentRepo:   tournamentRepo,
		registrationRepo: registrationRepo,
	}
}

// GetStats collects the dashboard counters. The counts are independent, so
// they run as a fan-out.
func (s *dashboardService) GetStats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.PlayersTotal, err = s.playerRepo.Count(gCtx)
		return err
	})
	g.Go(func() (err error) {
		stats.FederatedPlayers, err = s.playerRepo.CountByFederationStatus(gCtx, models.FederationRegistered)
		return err
	})
	g.Go(func() (err error) {
		stats.TournamentsTotal, err = s.tournamentRepo.Count(gCtx)
		return err
	})
	g.Go(func() (err error) {
		stats.UpcomingTournaments, err = s.tournamentRepo.CountByStatus(gCtx, models.StatusUpcoming)
		return err
	})
	g.Go(func() (err error) {
		stats.RegistrationsTotal, err = s.registrationRepo.Count(gCtx)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingApprovals, err = s.registrationRepo.CountByStatus(gCtx, models.RegistrationPending)
		return err
	})

	if err := g.Wait(); err != nil {
		return models.DashboardStats{}, fmt.Errorf("failed to collect dashboard stats: %w", err)
	}
	return stats, nil
}
