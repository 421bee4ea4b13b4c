package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/easebox-25/easebox-backend/internal/application/ports"
	"github.com/easebox-25/easebox-backend/internal/domain"
)

// OAuthIdentityRepository implements ports.OAuthIdentityRepository via
// raw SQL. The (user_id, provider) insert is conflict-tolerant so a
// retried callback stays idempotent at the storage level too.
type OAuthIdentityRepository struct {
	pool *pgxpool.Pool
}

func NewOAuthIdentityRepository(pool *pgxpool.Pool) *OAuthIdentityRepository {
	return &OAuthIdentityRepository{pool: pool}
}

const identityColumns = `id, user_id, provider, provider_account_id, provider_email, created_at`

const (
	createIdentitySQL = `INSERT INTO oauth_identities (id, user_id, provider, provider_account_id, provider_email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT ON CONSTRAINT oauth_identities_user_provider_key DO NOTHING`
	getIdentityByProviderAccountSQL = `SELECT ` + identityColumns + ` FROM oauth_identities WHERE provider = $1 AND provider_account_id = $2`
	getIdentityByUserProviderSQL    = `SELECT ` + identityColumns + ` FROM oauth_identities WHERE user_id = $1 AND provider = $2`
	listIdentitiesByUserSQL         = `SELECT ` + identityColumns + ` FROM oauth_identities WHERE user_id = $1 ORDER BY created_at`
	deleteIdentitySQL               = `DELETE FROM oauth_identities WHERE user_id = $1 AND provider = $2`
)

func (r *OAuthIdentityRepository) Create(ctx context.Context, identity *domain.OAuthIdentity) error {
	_, err := r.pool.Exec(ctx, createIdentitySQL,
		identity.ID, identity.UserID.UUID, string(identity.Provider),
		identity.ProviderAccountID, identity.ProviderEmail, identity.CreatedAt)
	return translateUnique(err)
}

func (r *OAuthIdentityRepository) GetByProviderAccount(ctx context.Context, provider domain.Provider, providerAccountID string) (*domain.OAuthIdentity, error) {
	return r.scanOne(r.pool.QueryRow(ctx, getIdentityByProviderAccountSQL, string(provider), providerAccountID))
}

func (r *OAuthIdentityRepository) GetByUserAndProvider(ctx context.Context, userID domain.UserID, provider domain.Provider) (*domain.OAuthIdentity, error) {
	return r.scanOne(r.pool.QueryRow(ctx, getIdentityByUserProviderSQL, userID.UUID, string(provider)))
}

func (r *OAuthIdentityRepository) ListByUser(ctx context.Context, userID domain.UserID) ([]*domain.OAuthIdentity, error) {
	rows, err := r.pool.Query(ctx, listIdentitiesByUserSQL, userID.UUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*domain.OAuthIdentity
	for rows.Next() {
		identity, err := scanIdentity(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, identity)
	}
	return list, rows.Err()
}

func (r *OAuthIdentityRepository) Delete(ctx context.Context, userID domain.UserID, provider domain.Provider) error {
	_, err := r.pool.Exec(ctx, deleteIdentitySQL, userID.UUID, string(provider))
	return err
}

func (r *OAuthIdentityRepository) scanOne(row pgx.Row) (*domain.OAuthIdentity, error) {
	identity, err := scanIdentity(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return identity, nil
}

func scanIdentity(row pgx.Row) (*domain.OAuthIdentity, error) {
	var (
		identity domain.OAuthIdentity
		userID   uuid.UUID
		provider string
	)
	err := row.Scan(&identity.ID, &userID, &provider,
		&identity.ProviderAccountID, &identity.ProviderEmail, &identity.CreatedAt)
	if err != nil {
		return nil, err
	}
	identity.UserID = domain.NewUserID(userID)
	identity.Provider = domain.Provider(provider)
	return &identity, nil
}

var _ ports.OAuthIdentityRepository = (*OAuthIdentityRepository)(nil)
