package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Mayonesio/disckatus-tournaments-sub000/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTournamentInUse    = errors.New("tournament has registrations and cannot be deleted")
)

type ListTournamentsFilter struct {
	Status *models.TournamentStatus
	Type   *models.TournamentType
	Limit  int
	Offset int
}

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	Update(ctx context.Context, tournament *models.Tournament) error
	UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) error
	Delete(ctx context.Context, id int) error
	// IncrementRegisteredPlayers bumps the counter only while it is below
	// max_players. It reports whether a row changed, so a false result with
	// a nil error means the tournament is full (or gone).
	IncrementRegisteredPlayers(ctx context.Context, exec SQLExecutor, id int) (bool, error)
	// DecrementRegisteredPlayers lowers the counter, floored at zero.
	DecrementRegisteredPlayers(ctx context.Context, exec SQLExecutor, id int) error
	// UpdateStatusesByDates flips Upcoming tournaments whose window has
	// started to Ongoing, and Upcoming/Ongoing ones past their end to
	// Completed. Returns how many rows changed.
	UpdateStatusesByDates(ctx context.Context, now time.Time) (int64, error)
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status models.TournamentStatus) (int, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tournamentColumns = `
	id, title, location, start_date, end_date, type, gender_restriction,
	max_players, registered_players, status, created_at`

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (
			title, location, start_date, end_date, type,
			gender_restriction, max_players, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, registered_players, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Title, t.Location, t.Start, t.End, t.Type,
		t.GenderRestriction, t.MaxPlayers, t.Status,
	).Scan(&t.ID, &t.RegisteredPlayers, &t.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	t := &models.Tournament{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Title, &t.Location, &t.Start, &t.End, &t.Type,
		&t.GenderRestriction, &t.MaxPlayers, &t.RegisteredPlayers,
		&t.Status, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	query := `SELECT` + tournamentColumns + ` FROM tournaments WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}
	if filter.Type != nil {
		query += fmt.Sprintf(" AND type = $%d", argID)
		args = append(args, *filter.Type)
		argID++
	}

	query += " ORDER BY start_date"
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
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	var tournaments []models.Tournament
	for rows.Next() {
		var t models.Tournament
		err := rows.Scan(
			&t.ID, &t.Title, &t.Location, &t.Start, &t.End, &t.Type,
			&t.GenderRestriction, &t.MaxPlayers, &t.RegisteredPlayers,
			&t.Status, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", err)
		}
		tournaments = append(tournaments, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tournament rows: %w", err)
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	query := `
		UPDATE tournaments
		SET title = $1, location = $2, start_date = $3, end_date = $4,
			type = $5, gender_restriction = $6, max_players = $7, status = $8
		WHERE id = $9`

	result, err := r.db.ExecContext(ctx, query,
		t.Title, t.Location, t.Start, t.End,
		t.Type, t.GenderRestriction, t.MaxPlayers, t.Status, t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update tournament: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tournaments SET status = $1 WHERE id = $2`, status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update tournament status: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrTournamentInUse
		}
		return fmt.Errorf("failed to delete tournament: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) IncrementRegisteredPlayers(ctx context.Context, exec SQLExecutor, id int) (bool, error) {
	executor := r.getExecutor(exec)
	query := `
		UPDATE tournaments
		SET registered_players = registered_players + 1
		WHERE id = $1 AND registered_players < max_players`

	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to increment registered players: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check increment result: %w", err)
	}
	return rowsAffected > 0, nil
}

func (r *postgresTournamentRepository) DecrementRegisteredPlayers(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE tournaments
		SET registered_players = GREATEST(registered_players - 1, 0)
		WHERE id = $1`

	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to decrement registered players: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateStatusesByDates(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE tournaments
		SET status = CASE
			WHEN end_date < $1 THEN 'Completed'::tournament_status
			ELSE 'Ongoing'::tournament_status
		END
		WHERE status IN ('Upcoming', 'Ongoing')
		  AND (start_date <= $1 OR end_date < $1)
		  AND status <> CASE
			WHEN end_date < $1 THEN 'Completed'::tournament_status
			ELSE 'Ongoing'::tournament_status
		  END`

	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to update tournament statuses by dates: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check status sweep result: %w", err)
	}
	return rowsAffected, nil
}

func (r *postgresTournamentRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tournaments`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tournaments: %w", err)
	}
	return count, nil
}

func (r *postgresTournamentRepository) CountByStatus(ctx context.Context, status models.TournamentStatus) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tournaments WHERE status = $1`, status,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tournaments by status: %w", err)
	}
	return count, nil
}
