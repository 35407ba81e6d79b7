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
	ErrPlayerNotFound      = errors.New("player not found")
	ErrPlayerEmailConflict = errors.New("player email already in use")
	ErrPlayerSlugConflict  = errors.New("player slug already in use")
	ErrPlayerUserInvalid   = errors.New("player user reference invalid")
)

type ListPlayersFilter struct {
	Gender           *models.Gender
	FederationStatus *models.FederationStatus
	Limit            int
	Offset           int
}

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	GetBySlug(ctx context.Context, slug string) (*models.Player, error)
	// FindBySlugPattern returns the first player whose slug matches the
	// given pattern case-insensitively.
	FindBySlugPattern(ctx context.Context, pattern string) (*models.Player, error)
	GetByUserID(ctx context.Context, userID int) (*models.Player, error)
	GetByEmail(ctx context.Context, email string) (*models.Player, error)
	List(ctx context.Context, filter ListPlayersFilter) ([]models.Player, error)
	Update(ctx context.Context, player *models.Player) error
	UpdatePhotoKey(ctx context.Context, playerID int, photoKey *string) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
	CountByFederationStatus(ctx context.Context, status models.FederationStatus) (int, error)
	ListSkills(ctx context.Context, playerID int) ([]models.PlayerSkill, error)
	ReplaceSkills(ctx context.Context, playerID int, skills []models.PlayerSkill) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

const playerColumns = `
	id, user_id, name, slug, email, gender, federation_status,
	position, jersey_number, photo_key, created_at, updated_at`

func (r *postgresPlayerRepository) Create(ctx context.Context, p *models.Player) error {
	query := `
		INSERT INTO players (
			user_id, name, slug, email, gender, federation_status,
			position, jersey_number
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		p.UserID, p.Name, p.Slug, p.Email, p.Gender, p.FederationStatus,
		p.Position, p.JerseyNumber,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	return r.handlePlayerError(err, "create")
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT` + playerColumns + ` FROM players WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *postgresPlayerRepository) GetBySlug(ctx context.Context, slug string) (*models.Player, error) {
	query := `SELECT` + playerColumns + ` FROM players WHERE slug = $1`
	return r.findOne(ctx, query, slug)
}

func (r *postgresPlayerRepository) FindBySlugPattern(ctx context.Context, pattern string) (*models.Player, error) {
	query := `SELECT` + playerColumns + ` FROM players WHERE slug ILIKE $1 ORDER BY id LIMIT 1`
	return r.findOne(ctx, query, pattern)
}

func (r *postgresPlayerRepository) GetByUserID(ctx context.Context, userID int) (*models.Player, error) {
	query := `SELECT` + playerColumns + ` FROM players WHERE user_id = $1`
	return r.findOne(ctx, query, userID)
}

func (r *postgresPlayerRepository) GetByEmail(ctx context.Context, email string) (*models.Player, error) {
	query := `SELECT` + playerColumns + ` FROM players WHERE email = $1`
	return r.findOne(ctx, query, email)
}

func (r *postgresPlayerRepository) List(ctx context.Context, filter ListPlayersFilter) ([]models.Player, error) {
	query := `SELECT` + playerColumns + ` FROM players WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.Gender != nil {
		query += fmt.Sprintf(" AND gender = $%d", argID)
		args = append(args, *filter.Gender)
		argID++
	}
	if filter.FederationStatus != nil {
		query += fmt.Sprintf(" AND federation_status = $%d", argID)
		args = append(args, *filter.FederationStatus)
		argID++
	}

	query += " ORDER BY name"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var p models.Player
		if err := r.scanPlayer(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating player rows: %w", err)
	}
	return players, nil
}

func (r *postgresPlayerRepository) Update(ctx context.Context, p *models.Player) error {
	query := `
		UPDATE players
		SET user_id = $1, name = $2, slug = $3, email = $4, gender = $5,
			federation_status = $6, position = $7, jersey_number = $8,
			updated_at = NOW()
		WHERE id = $9`

	result, err := r.db.ExecContext(ctx, query,
		p.UserID, p.Name, p.Slug, p.Email, p.Gender,
		p.FederationStatus, p.Position, p.JerseyNumber, p.ID,
	)
	if err != nil {
		return r.handlePlayerError(err, "update")
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) UpdatePhotoKey(ctx context.Context, playerID int, photoKey *string) error {
	query := `UPDATE players SET photo_key = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, photoKey, playerID)
	if err != nil {
		return fmt.Errorf("failed to update player photo key: %w", err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}

func (r *postgresPlayerRepository) CountByFederationStatus(ctx context.Context, status models.FederationStatus) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM players WHERE federation_status = $1`, status,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count players by federation status: %w", err)
	}
	return count, nil
}

func (r *postgresPlayerRepository) ListSkills(ctx context.Context, playerID int) ([]models.PlayerSkill, error) {
	query := `
		SELECT id, player_id, name, value, verified, verified_by, verified_at
		FROM player_skills
		WHERE player_id = $1
		ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list player skills: %w", err)
	}
	defer rows.Close()

	var skills []models.PlayerSkill
	for rows.Next() {
		var s models.PlayerSkill
		if err := rows.Scan(&s.ID, &s.PlayerID, &s.Name, &s.Value, &s.Verified, &s.VerifiedBy, &s.VerifiedAt); err != nil {
			return nil, fmt.Errorf("failed to scan skill row: %w", err)
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating skill rows: %w", err)
	}
	return skills, nil
}

func (r *postgresPlayerRepository) ReplaceSkills(ctx context.Context, playerID int, skills []models.PlayerSkill) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin skills transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM player_skills WHERE player_id = $1`, playerID); err != nil {
		return fmt.Errorf("failed to clear player skills: %w", err)
	}

	query := `
		INSERT INTO player_skills (player_id, name, value, verified, verified_by, verified_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, s := range skills {
		if _, err := tx.ExecContext(ctx, query, playerID, s.Name, s.Value, s.Verified, s.VerifiedBy, s.VerifiedAt); err != nil {
			return fmt.Errorf("failed to insert skill %q: %w", s.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit skills transaction: %w", err)
	}
	return nil
}

func (r *postgresPlayerRepository) scanPlayer(rowScanner interface {
	Scan(dest ...interface{}) error
}, p *models.Player) error {
	return rowScanner.Scan(
		&p.ID, &p.UserID, &p.Name, &p.Slug, &p.Email, &p.Gender,
		&p.FederationStatus, &p.Position, &p.JerseyNumber, &p.PhotoKey,
		&p.CreatedAt, &p.UpdatedAt,
	)
}

func (r *postgresPlayerRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Player, error) {
	p := &models.Player{}
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := r.scanPlayer(row, p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to find player: %w", err)
	}
	return p, nil
}

func (r *postgresPlayerRepository) handlePlayerError(err error, op string) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505": // unique_violation
			switch pqErr.Constraint {
			case "players_email_key":
				return ErrPlayerEmailConflict
			case "players_slug_key":
				return ErrPlayerSlugConflict
			}
		case "23503": // foreign_key_violation
			if pqErr.Constraint == "players_user_id_fkey" {
				return ErrPlayerUserInvalid
			}
		}
	}
	return fmt.Errorf("failed to %s player: %w", op, err)
}
