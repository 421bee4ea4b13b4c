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

// ProfileRepository implements ports.ProfileRepository via raw SQL.
// One table holds all profile variants; the owning user's type decides
// which columns are meaningful.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const profileColumns = `id, user_id, first_name, last_name, phone, national_id, id_verified,
	company_name, registration_number, address, city, state, logo_url, created_at, updated_at`

const (
	createProfileSQL = `INSERT INTO profiles (id, user_id, first_name, last_name, phone, national_id, id_verified,
		company_name, registration_number, address, city, state, logo_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	getProfileByUserSQL   = `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	getProfileByRCSQL     = `SELECT ` + profileColumns + ` FROM profiles WHERE registration_number = $1`
	getProfileByNINSQL    = `SELECT ` + profileColumns + ` FROM profiles WHERE national_id = $1`
	setRegistrationNumSQL = `UPDATE profiles SET registration_number = $2, id_verified = TRUE, updated_at = NOW() WHERE user_id = $1`
	setNationalIDSQL      = `UPDATE profiles SET national_id = $2, id_verified = TRUE, updated_at = NOW() WHERE user_id = $1`
)

func (r *ProfileRepository) Create(ctx context.Context, p *domain.Profile) error {
	_, err := r.pool.Exec(ctx, createProfileSQL,
		p.ID, p.UserID.UUID, p.FirstName, p.LastName, p.Phone,
		nullIfEmpty(p.NationalID), p.IDVerified,
		p.CompanyName, nullIfEmpty(p.RegistrationNumber),
		p.Address, p.City, p.State, p.LogoURL, p.CreatedAt, p.UpdatedAt)
	return translateUnique(err)
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID domain.UserID) (*domain.Profile, error) {
	return r.scanOne(r.pool.QueryRow(ctx, getProfileByUserSQL, userID.UUID))
}

func (r *ProfileRepository) GetByRegistrationNumber(ctx context.Context, rcNumber string) (*domain.Profile, error) {
	return r.scanOne(r.pool.QueryRow(ctx, getProfileByRCSQL, rcNumber))
}

func (r *ProfileRepository) GetByNationalID(ctx context.Context, nationalID string) (*domain.Profile, error) {
	return r.scanOne(r.pool.QueryRow(ctx, getProfileByNINSQL, nationalID))
}

func (r *ProfileRepository) SetRegistrationNumber(ctx context.Context, userID domain.UserID, rcNumber string) error {
	_, err := r.pool.Exec(ctx, setRegistrationNumSQL, userID.UUID, nullIfEmpty(rcNumber))
	return translateUnique(err)
}

func (r *ProfileRepository) SetNationalID(ctx context.Context, userID domain.UserID, nationalID string) error {
	_, err := r.pool.Exec(ctx, setNationalIDSQL, userID.UUID, nullIfEmpty(nationalID))
	return translateUnique(err)
}

func (r *ProfileRepository) scanOne(row pgx.Row) (*domain.Profile, error) {
	var (
		p          domain.Profile
		userID     uuid.UUID
		nationalID pgtype.Text
		rcNumber   pgtype.Text
	)
	err := row.Scan(&p.ID, &userID, &p.FirstName, &p.LastName, &p.Phone,
		&nationalID, &p.IDVerified, &p.CompanyName, &rcNumber,
		&p.Address, &p.City, &p.State, &p.LogoURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	p.UserID = domain.NewUserID(userID)
	p.NationalID = nationalID.String
	p.RegistrationNumber = rcNumber.String
	return &p, nil
}

var _ ports.ProfileRepository = (*ProfileRepository)(nil)
