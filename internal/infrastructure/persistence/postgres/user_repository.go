package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/easebox-25/easebox-backend/internal/application/ports"
	"github.com/easebox-25/easebox-backend/internal/domain"
)

// UserRepository implements ports.UserRepository via raw SQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const (
	createUserSQL = `INSERT INTO users (id, email, password_hash, user_type, email_verified, is_active, created_at, updated_at)
		VALUES ($1, lower($2), $3, $4, $5, $6, $7, $8)`
	getUserByIDSQL = `SELECT id, email, password_hash, user_type, email_verified, is_active, created_at, updated_at
		FROM users WHERE id = $1`
	getUserByEmailSQL = `SELECT id, email, password_hash, user_type, email_verified, is_active, created_at, updated_at
		FROM users WHERE email = lower($1)`
	setEmailVerifiedSQL = `UPDATE users SET email_verified = TRUE, updated_at = NOW() WHERE id = $1`
	setActiveSQL        = `UPDATE users SET is_active = $2, updated_at = NOW() WHERE id = $1`
)

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.pool.Exec(ctx, createUserSQL,
		user.ID.UUID, user.Email, nullIfEmpty(user.PasswordHash), string(user.UserType),
		user.EmailVerified, user.IsActive, user.CreatedAt, user.UpdatedAt)
	return translateUnique(err)
}

func (r *UserRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx, getUserByIDSQL, id.UUID))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx, getUserByEmailSQL, email))
}

func (r *UserRepository) SetEmailVerified(ctx context.Context, id domain.UserID) error {
	_, err := r.pool.Exec(ctx, setEmailVerifiedSQL, id.UUID)
	return err
}

func (r *UserRepository) SetActive(ctx context.Context, id domain.UserID, active bool) error {
	_, err := r.pool.Exec(ctx, setActiveSQL, id.UUID, active)
	return err
}

func (r *UserRepository) scanOne(row pgx.Row) (*domain.User, error) {
	var (
		id           uuid.UUID
		user         domain.User
		passwordHash pgtype.Text
	)
	err := row.Scan(&id, &user.Email, &passwordHash, &user.UserType,
		&user.EmailVerified, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	user.ID = domain.NewUserID(id)
	user.PasswordHash = passwordHash.String
	return &user, nil
}

// nullIfEmpty stores "" as NULL so optional unique columns don't
// collide on empty strings.
func nullIfEmpty(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

var _ ports.UserRepository = (*UserRepository)(nil)
