package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Mayonesio/disckatus-tournaments-sub000/models"
	"github.com/Mayonesio/disckatus-tournaments-sub000/repositories"
)

// In-memory repository fakes backing the service tests.

type fakeTournamentRepo struct {
	mu          sync.Mutex
	tournaments map[int]*models.Tournament
	nextID      int

	// forceIncrementFull makes IncrementRegisteredPlayers report a full
	// tournament regardless of the stored counter.
	forceIncrementFull bool
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{tournaments: make(map[int]*models.Tournament), nextID: 1}
}

func (f *fakeTournamentRepo) add(t models.Tournament) *models.Tournament {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == 0 {
		t.ID = f.nextID
		f.nextID++
	}
	stored := t
	f.tournaments[stored.ID] = &stored
	return &stored
}

func (f *fakeTournamentRepo) counter(id int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tournaments[id]; ok {
		return t.RegisteredPlayers
	}
	return -1
}

func (f *fakeTournamentRepo) Create(_ context.Context, t *models.Tournament) error {
	created := f.add(*t)
	*t = *created
	return nil
}

func (f *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTournamentRepo) List(_ context.Context, _ repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Tournament
	for _, t := range f.tournaments {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTournamentRepo) Update(_ context.Context, t *models.Tournament) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tournaments[t.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	cp := *t
	f.tournaments[t.ID] = &cp
	return nil
}

func (f *fakeTournamentRepo) UpdateStatus(_ context.Context, id int, status models.TournamentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	return nil
}

func (f *fakeTournamentRepo) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(f.tournaments, id)
	return nil
}

func (f *fakeTournamentRepo) IncrementRegisteredPlayers(_ context.Context, _ repositories.SQLExecutor, id int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tournaments[id]
	if !ok {
		return false, nil
	}
	if f.forceIncrementFull || t.RegisteredPlayers >= t.MaxPlayers {
		return false, nil
	}
	t.RegisteredPlayers++
	return true, nil
}

func (f *fakeTournamentRepo) DecrementRegisteredPlayers(_ context.Context, _ repositories.SQLExecutor, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	if t.RegisteredPlayers > 0 {
		t.RegisteredPlayers--
	}
	return nil
}

func (f *fakeTournamentRepo) UpdateStatusesByDates(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var updated int64
	for _, t := range f.tournaments {
		if t.Status != models.StatusUpcoming && t.Status != models.StatusOngoing {
			continue
		}
		switch {
		case t.End.Before(now) && t.Status != models.StatusCompleted:
			t.Status = models.StatusCompleted
			updated++
		case !t.Start.After(now) && t.Status == models.StatusUpcoming:
			t.Status = models.StatusOngoing
			updated++
		}
	}
	return updated, nil
}

func (f *fakeTournamentRepo) Count(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tournaments), nil
}

func (f *fakeTournamentRepo) CountByStatus(_ context.Context, status models.TournamentStatus) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, t := range f.tournaments {
		if t.Status == status {
			count++
		}
	}
	return count, nil
}

type fakePlayerRepo struct {
	mu      sync.Mutex
	players map[int]*models.Player
	skills  map[int][]models.PlayerSkill
	nextID  int
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{
		players: make(map[int]*models.Player),
		skills:  make(map[int][]models.PlayerSkill),
		nextID:  1,
	}
}

func (f *fakePlayerRepo) add(p models.Player) *models.Player {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == 0 {
		p.ID = f.nextID
		f.nextID++
	}
	stored := p
	f.players[stored.ID] = &stored
	return &stored
}

func (f *fakePlayerRepo) Create(_ context.Context, p *models.Player) error {
	f.mu.Lock()
	for _, existing := range f.players {
		if existing.Email == p.Email {
			f.mu.Unlock()
			return repositories.ErrPlayerEmailConflict
		}
		if existing.Slug == p.Slug {
			f.mu.Unlock()
			return repositories.ErrPlayerSlugConflict
		}
	}
	f.mu.Unlock()
	created := f.add(*p)
	*p = *created
	return nil
}

func (f *fakePlayerRepo) GetByID(_ context.Context, id int) (*models.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePlayerRepo) GetBySlug(_ context.Context, slug string) (*models.Player, error) {
	return f.findBy(func(p *models.Player) bool { return p.Slug == slug })
}

func (f *fakePlayerRepo) FindBySlugPattern(_ context.Context, pattern string) (*models.Player, error) {
	return f.findBy(func(p *models.Player) bool { return strings.EqualFold(p.Slug, pattern) })
}

func (f *fakePlayerRepo) GetByUserID(_ context.Context, userID int) (*models.Player, error) {
	return f.findBy(func(p *models.Player) bool { return p.UserID != nil && *p.UserID == userID })
}

func (f *fakePlayerRepo) GetByEmail(_ context.Context, email string) (*models.Player, error) {
	return f.findBy(func(p *models.Player) bool { return strings.EqualFold(p.Email, email) })
}

func (f *fakePlayerRepo) findBy(match func(*models.Player) bool) (*models.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.players {
		if match(p) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrPlayerNotFound
}

func (f *fakePlayerRepo) List(_ context.Context, _ repositories.ListPlayersFilter) ([]models.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Player
	for _, p := range f.players {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePlayerRepo) Update(_ context.Context, p *models.Player) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.players[p.ID]; !ok {
		return repositories.ErrPlayerNotFound
	}
	for _, existing := range f.players {
		if existing.ID != p.ID && existing.Slug == p.Slug {
			return repositories.ErrPlayerSlugConflict
		}
		if existing.ID != p.ID && existing.Email == p.Email {
			return repositories.ErrPlayerEmailConflict
		}
	}
	cp := *p
	f.players[p.ID] = &cp
	return nil
}

func (f *fakePlayerRepo) UpdatePhotoKey(_ context.Context, playerID int, photoKey *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.players[playerID]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	p.PhotoKey = photoKey
	return nil
}

func (f *fakePlayerRepo) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.players[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	delete(f.players, id)
	return nil
}

func (f *fakePlayerRepo) Count(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.players), nil
}

func (f *fakePlayerRepo) CountByFederationStatus(_ context.Context, status models.FederationStatus) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, p := range f.players {
		if p.FederationStatus == status {
			count++
		}
	}
	return count, nil
}

func (f *fakePlayerRepo) ListSkills(_ context.Context, playerID int) ([]models.PlayerSkill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.PlayerSkill(nil), f.skills[playerID]...), nil
}

func (f *fakePlayerRepo) ReplaceSkills(_ context.Context, playerID int, skills []models.PlayerSkill) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.skills[playerID] = append([]models.PlayerSkill(nil), skills...)
	return nil
}

type fakeRegistrationRepo struct {
	mu            sync.Mutex
	registrations map[int]*models.Registration
	nextID        int
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{registrations: make(map[int]*models.Registration), nextID: 1}
}

func (f *fakeRegistrationRepo) Create(_ context.Context, _ repositories.SQLExecutor, reg *models.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.registrations {
		if existing.PlayerID == reg.PlayerID && existing.TournamentID == reg.TournamentID {
			return repositories.ErrRegistrationConflict
		}
	}
	reg.ID = f.nextID
	f.nextID++
	reg.CreatedAt = time.Now()
	reg.UpdatedAt = reg.CreatedAt
	stored := *reg
	f.registrations[stored.ID] = &stored
	return nil
}

func (f *fakeRegistrationRepo) GetByID(_ context.Context, id int) (*models.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reg, ok := f.registrations[id]
	if !ok {
		return nil, repositories.ErrRegistrationNotFound
	}
	cp := *reg
	return &cp, nil
}

func (f *fakeRegistrationRepo) FindByPlayerAndTournament(_ context.Context, playerID, tournamentID int) (*models.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, reg := range f.registrations {
		if reg.PlayerID == playerID && reg.TournamentID == tournamentID {
			cp := *reg
			return &cp, nil
		}
	}
	return nil, repositories.ErrRegistrationNotFound
}

func (f *fakeRegistrationRepo) ListByTournamentWithPlayers(_ context.Context, tournamentID int) ([]models.RegistrationWithPlayer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.RegistrationWithPlayer
	for _, reg := range f.registrations {
		if reg.TournamentID == tournamentID {
			out = append(out, models.RegistrationWithPlayer{Registration: *reg})
		}
	}
	return out, nil
}

func (f *fakeRegistrationRepo) ListByPlayer(_ context.Context, playerID int) ([]models.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Registration
	for _, reg := range f.registrations {
		if reg.PlayerID == playerID {
			out = append(out, *reg)
		}
	}
	return out, nil
}

func (f *fakeRegistrationRepo) UpdateFields(_ context.Context, id int, fields repositories.UpdateRegistrationFields) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	reg, ok := f.registrations[id]
	if !ok {
		return repositories.ErrRegistrationNotFound
	}
	if fields.Status != nil {
		reg.Status = *fields.Status
	}
	if fields.PaymentStatus != nil {
		reg.PaymentStatus = *fields.PaymentStatus
	}
	reg.UpdatedAt = time.Now()
	return nil
}

func (f *fakeRegistrationRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.registrations[id]; !ok {
		return repositories.ErrRegistrationNotFound
	}
	delete(f.registrations, id)
	return nil
}

func (f *fakeRegistrationRepo) CountByTournament(_ context.Context, tournamentID int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, reg := range f.registrations {
		if reg.TournamentID == tournamentID {
			count++
		}
	}
	return count, nil
}

func (f *fakeRegistrationRepo) CountByPlayer(_ context.Context, playerID int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, reg := range f.registrations {
		if reg.PlayerID == playerID {
			count++
		}
	}
	return count, nil
}

func (f *fakeRegistrationRepo) CountByStatus(_ context.Context, status models.RegistrationStatus) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, reg := range f.registrations {
		if reg.Status == status {
			count++
		}
	}
	return count, nil
}

func (f *fakeRegistrationRepo) Count(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.registrations), nil
}

type fakeHub struct {
	mu     sync.Mutex
	events []RegistrationEvent
}

func (f *fakeHub) BroadcastToRoom(_ string, message interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if event, ok := message.(RegistrationEvent); ok {
		f.events = append(f.events, event)
	}
}
