package services

import (
	"context"
	"testing"
	"time"

	"github.com/Mayonesio/disckatus-tournaments-sub000/models"
)

func TestDashboardGetStats(t *testing.T) {
	players := newFakePlayerRepo()
	tournaments := newFakeTournamentRepo()
	registrations := newFakeRegistrationRepo()
	service := NewDashboardService(players, tournaments, registrations)

	players.add(models.Player{Name: "A", Slug: "a", Email: "a@club.org", Gender: models.GenderFemale, FederationStatus: models.FederationRegistered})
	players.add(models.Player{Name: "B", Slug: "b", Email: "b@club.org", Gender: models.GenderMale, FederationStatus: models.FederationUnregistered})
	players.add(models.Player{Name: "C", Slug: "c", Email: "c@club.org", Gender: models.GenderOther, FederationStatus: models.FederationRegistered})

	tournaments.add(models.Tournament{
		Title: "Upcoming", Start: time.Now().Add(24 * time.Hour), End: time.Now().Add(48 * time.Hour),
		Type: models.TypeFun, GenderRestriction: models.RestrictionMixed, MaxPlayers: 8,
		Status: models.StatusUpcoming,
	})
	tournaments.add(models.Tournament{
		Title: "Done", Start: time.Now().Add(-48 * time.Hour), End: time.Now().Add(-24 * time.Hour),
		Type: models.TypeControl, GenderRestriction: models.RestrictionOpen, MaxPlayers: 8,
		Status: models.StatusCompleted,
	})

	for i, status := range []models.RegistrationStatus{models.RegistrationApproved, models.RegistrationPending, models.RegistrationPending} {
		reg := &models.Registration{PlayerID: i + 1, TournamentID: 1, Status: status, PaymentStatus: models.PaymentPending}
		if err := registrations.Create(context.Background(), nil, reg); err != nil {
			t.Fatalf("seeding registration: %v", err)
		}
	}

	stats, err := service.GetStats(context.Background())
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}

	want := models.DashboardStats{
		PlayersTotal:        3,
		FederatedPlayers:    2,
		TournamentsTotal:    2,
		UpcomingTournaments: 1,
		RegistrationsTotal:  3,
		PendingApprovals:    2,
	}
	if stats != want {
		t.Errorf("GetStats() = %+v, want %+v", stats, want)
	}
}
