package services

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/Mayonesio/disckatus-tournaments-sub000/models"
)

type playerFixture struct {
	players       *fakePlayerRepo
	registrations *fakeRegistrationRepo
	service       PlayerService
}

func newPlayerFixture() *playerFixture {
	f := &playerFixture{
		players:       newFakePlayerRepo(),
		registrations: newFakeRegistrationRepo(),
	}
	f.service = NewPlayerService(f.players, f.registrations, nil)
	return f
}

func adminIdentity() Identity {
	return Identity{UserID: 99, Email: "admin@club.org", Role: models.RoleAdmin}
}

func TestCreatePlayerAssignsSlug(t *testing.T) {
	f := newPlayerFixture()

	player, err := f.service.Create(context.Background(), adminIdentity(), CreatePlayerInput{
		Name:   "José Martínez",
		Email:  "jose@club.org",
		Gender: models.GenderMale,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if player.Slug != "jose-martinez" {
		t.Errorf("slug = %q, want %q", player.Slug, "jose-martinez")
	}
	if player.FederationStatus != models.FederationUnregistered {
		t.Errorf("federation status = %s, want default %s", player.FederationStatus, models.FederationUnregistered)
	}
}

func TestCreatePlayerSlugCollisionFallback(t *testing.T) {
	f := newPlayerFixture()
	admin := adminIdentity()

	first, err := f.service.Create(context.Background(), admin, CreatePlayerInput{
		Name:   "José Martínez",
		Email:  "jose1@club.org",
		Gender: models.GenderMale,
	})
	if err != nil {
		t.Fatalf("first Create() error = %v", err)
	}
	second, err := f.service.Create(context.Background(), admin, CreatePlayerInput{
		Name:   "Jose Martinez",
		Email:  "jose2@club.org",
		Gender: models.GenderMale,
	})
	if err != nil {
		t.Fatalf("second Create() error = %v", err)
	}
	if first.Slug != "jose-martinez" {
		t.Errorf("first slug = %q, want %q", first.Slug, "jose-martinez")
	}
	if second.Slug != "jose-martinez-2" {
		t.Errorf("second slug = %q, want %q", second.Slug, "jose-martinez-2")
	}
}

func TestCreatePlayerValidation(t *testing.T) {
	f := newPlayerFixture()
	admin := adminIdentity()

	tests := []struct {
		name     string
		identity Identity
		input    CreatePlayerInput
		wantErr  error
	}{
		{"empty name", admin, CreatePlayerInput{Email: "x@club.org", Gender: models.GenderMale}, ErrValidationFailed},
		{"empty email", admin, CreatePlayerInput{Name: "X", Gender: models.GenderMale}, ErrValidationFailed},
		{"bad gender", admin, CreatePlayerInput{Name: "X", Email: "x@club.org", Gender: "Unknown"}, ErrValidationFailed},
		{
			"non-admin for someone else",
			Identity{UserID: 1, Email: "me@club.org", Role: models.RolePlayer},
			CreatePlayerInput{Name: "X", Email: "other@club.org", Gender: models.GenderMale},
			ErrForbiddenOperation,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.Create(context.Background(), tc.identity, tc.input)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Create() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestCreatePlayerLinksOwnAccount(t *testing.T) {
	f := newPlayerFixture()
	identity := Identity{UserID: 5, Email: "ana@club.org", Role: models.RolePlayer}

	player, err := f.service.Create(context.Background(), identity, CreatePlayerInput{
		Name:   "Ana García",
		Email:  "Ana@club.org",
		Gender: models.GenderFemale,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if player.UserID == nil || *player.UserID != 5 {
		t.Errorf("player user link = %v, want 5", player.UserID)
	}
}

func TestCreatePlayerEmailConflict(t *testing.T) {
	f := newPlayerFixture()
	admin := adminIdentity()
	input := CreatePlayerInput{Name: "Ana García", Email: "ana@club.org", Gender: models.GenderFemale}

	if _, err := f.service.Create(context.Background(), admin, input); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}
	input.Name = "Ana Garcia Segunda"
	_, err := f.service.Create(context.Background(), admin, input)
	if !errors.Is(err, ErrPlayerEmailInUse) {
		t.Errorf("Create() error = %v, want ErrPlayerEmailInUse", err)
	}
}

func TestResolvePlayer(t *testing.T) {
	f := newPlayerFixture()
	stored := f.players.add(models.Player{
		Name:   "José Martínez",
		Slug:   "jose-martinez",
		Email:  "jose@club.org",
		Gender: models.GenderMale,
	})

	tests := []struct {
		name string
		ref  string
	}{
		{"by id", strconv.Itoa(stored.ID)},
		{"by slug", "jose-martinez"},
		{"by raw name", "José Martínez"},
		{"by case variant", "Jose-Martinez"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			player, err := f.service.Resolve(context.Background(), tc.ref)
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tc.ref, err)
			}
			if player.ID != stored.ID {
				t.Errorf("Resolve(%q).ID = %d, want %d", tc.ref, player.ID, stored.ID)
			}
		})
	}

	if _, err := f.service.Resolve(context.Background(), "nobody-here"); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("Resolve(unknown) error = %v, want ErrPlayerNotFound", err)
	}
}

func TestDeletePlayerGuardedByRegistrations(t *testing.T) {
	f := newPlayerFixture()
	player := f.players.add(models.Player{
		Name: "Ana García", Slug: "ana-garcia", Email: "ana@club.org", Gender: models.GenderFemale,
	})

	reg := &models.Registration{PlayerID: player.ID, TournamentID: 1, Status: models.RegistrationApproved, PaymentStatus: models.PaymentPending}
	if err := f.registrations.Create(context.Background(), nil, reg); err != nil {
		t.Fatalf("seeding registration: %v", err)
	}

	err := f.service.Delete(context.Background(), adminIdentity(), player.ID)
	if !errors.Is(err, ErrPlayerHasRegistrations) {
		t.Errorf("Delete() error = %v, want ErrPlayerHasRegistrations", err)
	}

	if err := f.registrations.Delete(context.Background(), nil, reg.ID); err != nil {
		t.Fatalf("removing registration: %v", err)
	}
	if err := f.service.Delete(context.Background(), adminIdentity(), player.ID); err != nil {
		t.Fatalf("Delete() error = %v after registrations removed", err)
	}
	if _, err := f.players.GetByID(context.Background(), player.ID); err == nil {
		t.Error("player still exists after Delete()")
	}
}

func TestUpdatePlayerOwnership(t *testing.T) {
	f := newPlayerFixture()
	owner := 3
	player := f.players.add(models.Player{
		UserID: &owner, Name: "Ana García", Slug: "ana-garcia", Email: "ana@club.org", Gender: models.GenderFemale,
	})

	stranger := Identity{UserID: 4, Email: "other@club.org", Role: models.RolePlayer}
	newName := "Ana G. Pérez"
	if _, err := f.service.Update(context.Background(), stranger, player.ID, UpdatePlayerInput{Name: &newName}); !errors.Is(err, ErrForbiddenOperation) {
		t.Errorf("Update() by stranger error = %v, want ErrForbiddenOperation", err)
	}

	self := Identity{UserID: owner, Email: "ana@club.org", Role: models.RolePlayer}
	updated, err := f.service.Update(context.Background(), self, player.ID, UpdatePlayerInput{Name: &newName})
	if err != nil {
		t.Fatalf("Update() by owner error = %v", err)
	}
	if updated.Name != newName {
		t.Errorf("name = %q, want %q", updated.Name, newName)
	}
	if updated.Slug != "ana-g-perez" {
		t.Errorf("slug = %q, want %q", updated.Slug, "ana-g-perez")
	}
}

func TestReplaceSkillsStripsVerificationForPlayers(t *testing.T) {
	f := newPlayerFixture()
	owner := 3
	player := f.players.add(models.Player{
		UserID: &owner, Name: "Ana García", Slug: "ana-garcia", Email: "ana@club.org", Gender: models.GenderFemale,
	})

	verifier := 99
	now := time.Now()
	self := Identity{UserID: owner, Email: "ana@club.org", Role: models.RolePlayer}
	if _, err := f.service.ReplaceSkills(context.Background(), self, player.ID, []models.PlayerSkill{
		{Name: "throwing", Value: 8, Verified: true, VerifiedBy: &verifier, VerifiedAt: &now},
	}); err != nil {
		t.Fatalf("ReplaceSkills() error = %v", err)
	}

	skills, err := f.players.ListSkills(context.Background(), player.ID)
	if err != nil {
		t.Fatalf("ListSkills() error = %v", err)
	}
	if len(skills) != 1 {
		t.Fatalf("len(skills) = %d, want 1", len(skills))
	}
	if skills[0].Verified || skills[0].VerifiedBy != nil || skills[0].VerifiedAt != nil {
		t.Errorf("self-reported skill kept verification metadata: %+v", skills[0])
	}
}
