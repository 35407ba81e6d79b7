package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Mayonesio/disckatus-tournaments-sub000/models"
	"github.com/lib/pq"
)

var (
	ErrRegistrationNotFound          = errors.New("registration not found")
	ErrRegistrationConflict          = errors.New("player already registered for this tournament")
	ErrRegistrationPlayerInvalid     = errors.New("registration player reference invalid")
	ErrRegistrationTournamentInvalid = errors.New("registration tournament reference invalid")
)

type UpdateRegistrationFields struct {
	Status        *models.RegistrationStatus
	PaymentStatus *models.PaymentStatus
}

type RegistrationRepository interface {
	Create(ctx context.Context, exec SQLExecutor, reg *models.Registration) error
	GetByID(ctx context.Context, id int) (*models.Registration, error)
	FindByPlayerAndTournament(ctx context.Context, playerID, tournamentID int) (*models.Registration, error)
	ListByTournamentWithPlayers(ctx context.Context, tournamentID int) ([]models.RegistrationWithPlayer, error)
	ListByPlayer(ctx context.Context, playerID int) ([]models.Registration, error)
	UpdateFields(ctx context.Context, id int, fields UpdateRegistrationFields) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	CountByTournament(ctx context.Context, tournamentID int) (int, error)
	CountByPlayer(ctx context.Context, playerID int) (int, error)
	CountByStatus(ctx context.Context, status models.RegistrationStatus) (int, error)
	Count(ctx context.Context) (int, error)
}

type postgresRegistrationRepository struct {
	db *sql.DB
}

func NewPostgresRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

func (r *postgresRegistrationRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRegistrationRepository) Create(ctx context.Context, exec SQLExecutor, reg *models.Registration) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO registrations (player_id, tournament_id, status, payment_status, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := executor.QueryRowContext(ctx, query,
		reg.PlayerID,
		reg.TournamentID,
		reg.Status,
		reg.PaymentStatus,
		reg.Notes,
	).Scan(&reg.ID, &reg.CreatedAt, &reg.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "registrations_player_id_tournament_id_key" {
					return ErrRegistrationConflict
				}
			case "23503": // foreign_key_violation
				switch pqErr.Constraint {
				case "registrations_player_id_fkey":
					return ErrRegistrationPlayerInvalid
				case "registrations_tournament_id_fkey":
					return ErrRegistrationTournamentInvalid
				}
			}
		}
		return fmt.Errorf("failed to create registration: %w", err)
	}
	return nil
}

func (r *postgresRegistrationRepository) GetByID(ctx context.Context, id int) (*models.Registration, error) {
	query := `
		SELECT id, player_id, tournament_id, status, payment_status, notes, created_at, updated_at
		FROM registrations
		WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *postgresRegistrationRepository) FindByPlayerAndTournament(ctx context.Context, playerID, tournamentID int) (*models.Registration, error) {
	query := `
		SELECT id, player_id, tournament_id, status, payment_status, notes, created_at, updated_at
		FROM registrations
		WHERE player_id = $1 AND tournament_id = $2`
	return r.findOne(ctx, query, playerID, tournamentID)
}

func (r *postgresRegistrationRepository) ListByTournamentWithPlayers(ctx context.Context, tournamentID int) ([]models.RegistrationWithPlayer, error) {
	query := `
		SELECT
			r.id, r.player_id, r.tournament_id, r.status, r.payment_status,
			r.notes, r.created_at, r.updated_at,
			p.id, p.name, p.email, p.photo_key, p.gender, p.position, p.jersey_number
		FROM registrations r
		JOIN players p ON p.id = r.player_id
		WHERE r.tournament_id = $1
		ORDER BY r.created_at`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations for tournament: %w", err)
	}
	defer rows.Close()

	var regs []models.RegistrationWithPlayer
	for rows.Next() {
		var rw models.RegistrationWithPlayer
		var photoKey *string
		err := rows.Scan(
			&rw.ID, &rw.PlayerID, &rw.TournamentID, &rw.Status, &rw.PaymentStatus,
			&rw.Notes, &rw.CreatedAt, &rw.UpdatedAt,
			&rw.Player.ID, &rw.Player.Name, &rw.Player.Email, &photoKey,
			&rw.Player.Gender, &rw.Player.Position, &rw.Player.JerseyNumber,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration row: %w", err)
		}
		// The photo key is resolved to a public URL in the service layer.
		rw.Player.PhotoURL = photoKey
		regs = append(regs, rw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registration rows: %w", err)
	}
	return regs, nil
}

func (r *postgresRegistrationRepository) ListByPlayer(ctx context.Context, playerID int) ([]models.Registration, error) {
	query := `
		SELECT id, player_id, tournament_id, status, payment_status, notes, created_at, updated_at
		FROM registrations
		WHERE player_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations for player: %w", err)
	}
	defer rows.Close()

	var regs []models.Registration
	for rows.Next() {
		var reg models.Registration
		if err := r.scanRegistration(rows, &reg); err != nil {
			return nil, fmt.Errorf("failed to scan registration row: %w", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registration rows: %w", err)
	}
	return regs, nil
}

func (r *postgresRegistrationRepository) UpdateFields(ctx context.Context, id int, fields UpdateRegistrationFields) error {
	query := `
		UPDATE registrations
		SET status = COALESCE($1, status),
			payment_status = COALESCE($2, payment_status),
			updated_at = NOW()
		WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, fields.Status, fields.PaymentStatus, id)
	if err != nil {
		return fmt.Errorf("failed to update registration fields: %w", err)
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

func (r *postgresRegistrationRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete registration: %w", err)
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

func (r *postgresRegistrationRepository) CountByTournament(ctx context.Context, tournamentID int) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM registrations WHERE tournament_id = $1`, tournamentID)
}

func (r *postgresRegistrationRepository) CountByPlayer(ctx context.Context, playerID int) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM registrations WHERE player_id = $1`, playerID)
}

func (r *postgresRegistrationRepository) CountByStatus(ctx context.Context, status models.RegistrationStatus) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM registrations WHERE status = $1`, status)
}

func (r *postgresRegistrationRepository) Count(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM registrations`)
}

func (r *postgresRegistrationRepository) count(ctx context.Context, query string, args ...interface{}) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return count, nil
}

func (r *postgresRegistrationRepository) scanRegistration(rowScanner interface {
	Scan(dest ...interface{}) error
}, reg *models.Registration) error {
	return rowScanner.Scan(
		&reg.ID,
		&reg.PlayerID,
		&reg.TournamentID,
		&reg.Status,
		&reg.PaymentStatus,
		&reg.Notes,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	)
}

func (r *postgresRegistrationRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Registration, error) {
	reg := &models.Registration{}
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := r.scanRegistration(row, reg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to find registration: %w", err)
	}
	return reg, nil
}
