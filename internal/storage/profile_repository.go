package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/academy-backend/internal/models"
	"github.com/academy-backend/internal/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProfileRepository handles profile persistence
type ProfileRepository struct {
	db *PostgresDB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *PostgresDB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `
	id, email, nombre, rol, fase, estado, bot_activo, bot_licencia,
	comunidad_acceso, telefono, pais, password_hash, created_at, last_access_at
`

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.Nombre,
		&p.Rol,
		&p.Fase,
		&p.Estado,
		&p.BotActivo,
		&p.BotLicencia,
		&p.ComunidadAcceso,
		&p.Telefono,
		&p.Pais,
		&p.PasswordHash,
		&p.CreatedAt,
		&p.LastAccessAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create creates a new profile
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	if profile.Rol == "" {
		profile.Rol = types.RoleStudent
	}
	if profile.Fase == "" {
		profile.Fase = types.PhaseNone
	}
	if profile.Estado == "" {
		profile.Estado = types.AccountActive
	}
	profile.CreatedAt = time.Now()

	query := `
		INSERT INTO profiles (id, email, nombre, rol, fase, estado, bot_activo,
			comunidad_acceso, telefono, pais, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		profile.ID,
		profile.Email,
		profile.Nombre,
		profile.Rol,
		profile.Fase,
		profile.Estado,
		profile.BotActivo,
		profile.ComunidadAcceso,
		profile.Telefono,
		profile.Pais,
		profile.PasswordHash,
		profile.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &types.ServiceError{
				Code:    "DUPLICATE_EMAIL",
				Message: fmt.Sprintf("email already registered: %s", profile.Email),
			}
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

// GetByID retrieves a profile by ID
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	profile, err := scanProfile(r.db.Pool().QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &types.ServiceError{Code: "USER_NOT_FOUND", Message: fmt.Sprintf("user not found: %s", id)}
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return profile, nil
}

// GetByEmail retrieves a profile by email
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1`

	profile, err := scanProfile(r.db.Pool().QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &types.ServiceError{Code: "USER_NOT_FOUND", Message: fmt.Sprintf("user not found: %s", email)}
		}
		return nil, fmt.Errorf("failed to get profile by email: %w", err)
	}

	return profile, nil
}

// UpdateSelfService updates the fields a user may change about themselves
func (r *ProfileRepository) UpdateSelfService(ctx context.Context, userID string, update *models.ProfileUpdate) error {
	query := `
		UPDATE profiles
		SET nombre = COALESCE($2, nombre),
		    telefono = COALESCE($3, telefono),
		    pais = COALESCE($4, pais)
		WHERE id = $1
	`

	result, err := r.db.Pool().Exec(ctx, query, userID, update.Nombre, update.Telefono, update.Pais)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &types.ServiceError{Code: "USER_NOT_FOUND", Message: fmt.Sprintf("user not found: %s", userID)}
	}

	return nil
}

// GetPhase retrieves just the enrolled phase for a user
func (r *ProfileRepository) GetPhase(ctx context.Context, userID string) (types.Phase, error) {
	var fase types.Phase
	query := `SELECT fase FROM profiles WHERE id = $1`

	err := r.db.Pool().QueryRow(ctx, query, userID).Scan(&fase)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", &types.ServiceError{Code: "USER_NOT_FOUND", Message: fmt.Sprintf("user not found: %s", userID)}
		}
		return "", fmt.Errorf("failed to get phase: %w", err)
	}

	return fase, nil
}

// SetPhase writes the enrolled phase for a user
func (r *ProfileRepository) SetPhase(ctx context.Context, userID string, fase types.Phase) error {
	query := `UPDATE profiles SET fase = $2 WHERE id = $1`

	result, err := r.db.Pool().Exec(ctx, query, userID, fase)
	if err != nil {
		return fmt.Errorf("failed to set phase: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &types.ServiceError{Code: "USER_NOT_FOUND", Message: fmt.Sprintf("user not found: %s", userID)}
	}

	return nil
}

// SetBotActive sets the bot subscription flag for a user
func (r *ProfileRepository) SetBotActive(ctx context.Context, userID string, active bool) error {
	query := `UPDATE profiles SET bot_activo = $2 WHERE id = $1`

	result, err := r.db.Pool().Exec(ctx, query, userID, active)
	if err != nil {
		return fmt.Errorf("failed to set bot flag: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &types.ServiceError{Code: "USER_NOT_FOUND", Message: fmt.Sprintf("user not found: %s", userID)}
	}

	return nil
}

// SetEstado sets the account status for a user (admin operation)
func (r *ProfileRepository) SetEstado(ctx context.Context, userID string, estado types.AccountStatus) error {
	query := `UPDATE profiles SET estado = $2 WHERE id = $1`

	result, err := r.db.Pool().Exec(ctx, query, userID, estado)
	if err != nil {
		return fmt.Errorf("failed to set account status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &types.ServiceError{Code: "USER_NOT_FOUND", Message: fmt.Sprintf("user not found: %s", userID)}
	}

	return nil
}

// TouchLastAccess records the last login/access time
func (r *ProfileRepository) TouchLastAccess(ctx context.Context, userID string) error {
	query := `UPDATE profiles SET last_access_at = $2 WHERE id = $1`

	_, err := r.db.Pool().Exec(ctx, query, userID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to touch last access: %w", err)
	}

	return nil
}

// List retrieves all profiles with pagination (admin operation)
func (r *ProfileRepository) List(ctx context.Context, limit, offset int) ([]*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Pool().Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}

	return profiles, nil
}

// Count returns the total number of profiles
func (r *ProfileRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM profiles`

	err := r.db.Pool().QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}

	return count, nil
}
